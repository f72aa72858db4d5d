package repository

import (
	"context"
	"sort"
	"sync"

	"hedwig/internal/models"
	"hedwig/internal/observability"

	"github.com/google/uuid"
)

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	List() []models.Notification
	// For returns userID's notifications, newest first.
	For(userID string) []models.Notification
	UnreadCount(userID string) int
	// MarkRead reports whether an unread notification was marked read.
	MarkRead(ctx context.Context, id string) bool
	MarkAllRead(ctx context.Context, userID string) int
	Delete(ctx context.Context, id string) bool
	// Create stores n as unread with a fresh id and the current timestamp.
	Create(ctx context.Context, n models.Notification) models.Notification
}

type notificationRepository struct {
	mu            sync.RWMutex
	notifications []models.Notification
	clock         Clock
	log           *observability.StoreLogger
}

// NewNotificationRepository creates a NotificationRepository seeded with notifications.
func NewNotificationRepository(notifications []models.Notification, clock Clock) NotificationRepository {
	return &notificationRepository{
		notifications: append([]models.Notification{}, notifications...),
		clock:         clock,
		log:           observability.NewStoreLogger("notifications"),
	}
}

func (r *notificationRepository) List() []models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Notification{}, r.notifications...)
}

func (r *notificationRepository) For(userID string) []models.Notification {
	r.mu.RLock()
	out := make([]models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (r *notificationRepository) UnreadCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			if r.notifications[i].IsRead {
				break
			}
			r.notifications[i].IsRead = true
			observability.RecordMutation("notifications", "mark_read", true)
			r.log.LogMutation(ctx, "mark_read", map[string]interface{}{"notification_id": id})
			return true
		}
	}
	observability.RecordMutation("notifications", "mark_read", false)
	r.log.LogSkipped(ctx, "mark_read", map[string]interface{}{"notification_id": id})
	return false
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	marked := 0
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && !r.notifications[i].IsRead {
			r.notifications[i].IsRead = true
			marked++
		}
	}
	observability.RecordMutation("notifications", "mark_all_read", marked > 0)
	r.log.LogMutation(ctx, "mark_all_read", map[string]interface{}{"user_id": userID, "marked": marked})
	return marked
}

func (r *notificationRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications = append(r.notifications[:i:i], r.notifications[i+1:]...)
			observability.RecordMutation("notifications", "delete", true)
			r.log.LogMutation(ctx, "delete", map[string]interface{}{"notification_id": id})
			return true
		}
	}
	observability.RecordMutation("notifications", "delete", false)
	r.log.LogSkipped(ctx, "delete", map[string]interface{}{"notification_id": id})
	return false
}

func (r *notificationRepository) Create(ctx context.Context, n models.Notification) models.Notification {
	n.ID = uuid.NewString()
	n.Timestamp = r.clock.now()
	n.IsRead = false

	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()

	observability.RecordMutation("notifications", "create", true)
	r.log.LogMutation(ctx, "create", map[string]interface{}{"notification_id": n.ID, "user_id": n.UserID})
	return n
}
