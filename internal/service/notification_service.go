package service

import (
	"context"
	"strings"

	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/repository"
	"hedwig/internal/validation"
)

// NotificationService exposes the notification store relative to the session user.
type NotificationService struct {
	notifications repository.NotificationRepository
	currentUserID func() string
}

// NotificationInput is a new notification for a user.
type NotificationInput struct {
	UserID  string                  `json:"userId" validate:"required"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required,max=2000"`
	Type    models.NotificationType `json:"type" validate:"required,notificationtype"`
	EventID string                  `json:"eventId,omitempty"`
	MediaID string                  `json:"mediaId,omitempty"`
}

// NewNotificationService creates a NotificationService. currentUserID reports
// the session user id ("" when unauthenticated).
func NewNotificationService(notifications repository.NotificationRepository, currentUserID func() string) *NotificationService {
	return &NotificationService{notifications: notifications, currentUserID: currentUserID}
}

// For returns userID's notifications, newest first.
func (s *NotificationService) For(userID string) []models.Notification {
	return s.notifications.For(userID)
}

// UnreadCount is recomputed on every call from the session and the store.
// It is 0 when nobody is signed in.
func (s *NotificationService) UnreadCount() int {
	uid := s.currentUserID()
	if uid == "" {
		return 0
	}
	n := s.notifications.UnreadCount(uid)
	observability.UnreadNotifications.Set(float64(n))
	return n
}

// MarkRead marks one notification read. Unknown and already read ids are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, id string) bool {
	return s.notifications.MarkRead(ctx, id)
}

// MarkAllRead marks the session user's notifications read. It is a no-op when unauthenticated.
func (s *NotificationService) MarkAllRead(ctx context.Context) int {
	uid := s.currentUserID()
	if uid == "" {
		return 0
	}
	return s.notifications.MarkAllRead(ctx, uid)
}

// Clear removes one notification. Unknown ids are ignored.
func (s *NotificationService) Clear(ctx context.Context, id string) bool {
	return s.notifications.Delete(ctx, id)
}

// Add validates and stores a new unread notification.
func (s *NotificationService) Add(ctx context.Context, in NotificationInput) (models.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return models.Notification{}, err
	}
	return s.notifications.Create(ctx, models.Notification{
		UserID:  in.UserID,
		Title:   in.Title,
		Message: in.Message,
		Type:    in.Type,
		EventID: in.EventID,
		MediaID: in.MediaID,
	}), nil
}
