package models

import "time"

// NotificationType tags what produced a notification.
type NotificationType string

const (
	NotificationEvent    NotificationType = "event"
	NotificationReminder NotificationType = "reminder"
	NotificationComment  NotificationType = "comment"
	NotificationRating   NotificationType = "rating"
	NotificationMedia    NotificationType = "media"
	NotificationSystem   NotificationType = "system"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationEvent, NotificationReminder, NotificationComment,
		NotificationRating, NotificationMedia, NotificationSystem:
		return true
	}
	return false
}

// Notification is a per-user message. IsRead only ever moves from false to true.
type Notification struct {
	ID        string           `json:"id" yaml:"id"`
	UserID    string           `json:"userId" yaml:"userId"`
	Title     string           `json:"title" yaml:"title"`
	Message   string           `json:"message" yaml:"message"`
	Type      NotificationType `json:"type" yaml:"type"`
	IsRead    bool             `json:"isRead" yaml:"isRead"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	EventID   string           `json:"eventId,omitempty" yaml:"eventId,omitempty"`
	MediaID   string           `json:"mediaId,omitempty" yaml:"mediaId,omitempty"`
}
