package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hedwig/internal/featureflags"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/repository"
	"hedwig/internal/validation"
)

// DefaultRecommendedLimit caps Recommended when n is not positive.
const DefaultRecommendedLimit = 4

// EventService validates event inputs and applies them to the event store.
type EventService struct {
	events        repository.EventRepository
	notifications repository.NotificationRepository
	flags         *featureflags.Manager
	latency       time.Duration
}

// CommentInput is a comment on an event or media item.
type CommentInput struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required,max=120"`
	Text     string `json:"text" validate:"required,max=2000"`
}

// RatingInput is a star rating with an optional remark.
type RatingInput struct {
	UserID  string `json:"userId" validate:"required"`
	Stars   int    `json:"stars" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// MediaInput is a photo or video reference.
type MediaInput struct {
	Type       models.MediaType `json:"type" validate:"required,mediatype"`
	URL        string           `json:"url" validate:"required,url"`
	UploadedBy string           `json:"uploadedBy" validate:"required"`
}

// ReactionInput is a reaction to a media item.
type ReactionInput struct {
	UserID string              `json:"userId" validate:"required"`
	Type   models.ReactionType `json:"type" validate:"required,reaction"`
}

// NewEventService creates an EventService. notifications may be nil when the
// rsvp_notifications producer is not wanted.
func NewEventService(
	events repository.EventRepository,
	notifications repository.NotificationRepository,
	flags *featureflags.Manager,
	latency time.Duration,
) *EventService {
	return &EventService{events: events, notifications: notifications, flags: flags, latency: latency}
}

func (s *EventService) Get(id string) (*models.Event, bool) { return s.events.GetByID(id) }

func (s *EventService) List() []models.Event { return s.events.List() }

func (s *EventService) ByCategory(c models.Category) []models.Event { return s.events.ByCategory(c) }

func (s *EventService) Upcoming() []models.Event { return s.events.Upcoming() }

func (s *EventService) Today() []models.Event { return s.events.Today() }

func (s *EventService) Popular(n int) []models.Event { return s.events.Popular(n) }

func (s *EventService) RSVPEventsFor(userID string) []models.Event {
	return s.events.RSVPEventsFor(userID)
}

func (s *EventService) Schedule(userID string) []models.ScheduleDay {
	return s.events.Schedule(userID)
}

func (s *EventService) AttendedBy(user models.User) []models.Event {
	return s.events.AttendedBy(user)
}

func (s *EventService) Categories() []models.CategorySummary {
	return s.events.CategorySummaries()
}

// Search filters by free text and an optional category name ("" or "all" means any).
func (s *EventService) Search(query, category string) ([]models.Event, error) {
	var c models.Category
	if category = strings.TrimSpace(category); category != "" && !strings.EqualFold(category, "all") {
		parsed, err := models.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		c = parsed
	}
	return s.events.Search(query, c), nil
}

// Recommended returns up to n events matching the user's interests.
func (s *EventService) Recommended(user *models.User, n int) []models.Event {
	if user == nil {
		return []models.Event{}
	}
	if n <= 0 {
		n = DefaultRecommendedLimit
	}
	return s.events.ByInterests(user.Interests, n)
}

// RSVP adds userID to the event's attendees after the simulated delay.
func (s *EventService) RSVP(ctx context.Context, eventID, userID string) (err error) {
	ctx, end := traceCall(ctx, "EventService", "RSVP")
	defer func() { end(err) }()

	if userID == "" {
		return models.NewValidationError("User is required")
	}
	observability.LogAsyncOperationStart(ctx, "rsvp", map[string]interface{}{"event_id": eventID})
	if err := suspend(ctx, s.latency); err != nil {
		observability.LogAsyncOperationError(ctx, "rsvp", err, map[string]interface{}{"event_id": eventID})
		return err
	}

	added := s.events.RSVP(ctx, eventID, userID)
	observability.LogAsyncOperationEnd(ctx, "rsvp", map[string]interface{}{"event_id": eventID, "added": added})

	if added && s.notifications != nil && s.flags.Enabled(featureflags.RSVPNotifications, userID) {
		if e, ok := s.events.GetByID(eventID); ok {
			s.notifications.Create(ctx, models.Notification{
				UserID:  userID,
				Title:   "RSVP confirmed: " + e.Name,
				Message: fmt.Sprintf("You're going to %s on %s at %s.", e.Name, e.Date, e.Venue),
				Type:    models.NotificationEvent,
				EventID: e.ID,
			})
		}
	}
	return nil
}

// CancelRSVP removes userID from the event's attendees after the simulated delay.
func (s *EventService) CancelRSVP(ctx context.Context, eventID, userID string) (err error) {
	ctx, end := traceCall(ctx, "EventService", "CancelRSVP")
	defer func() { end(err) }()

	if userID == "" {
		return models.NewValidationError("User is required")
	}
	observability.LogAsyncOperationStart(ctx, "cancel_rsvp", map[string]interface{}{"event_id": eventID})
	if err := suspend(ctx, s.latency); err != nil {
		observability.LogAsyncOperationError(ctx, "cancel_rsvp", err, map[string]interface{}{"event_id": eventID})
		return err
	}
	removed := s.events.CancelRSVP(ctx, eventID, userID)
	observability.LogAsyncOperationEnd(ctx, "cancel_rsvp", map[string]interface{}{"event_id": eventID, "removed": removed})
	return nil
}

// AddComment validates and appends a comment. ok is false when the event does not exist.
func (s *EventService) AddComment(ctx context.Context, eventID string, in CommentInput) (comment models.Comment, ok bool, err error) {
	ctx, end := traceCall(ctx, "EventService", "AddComment")
	defer func() { end(err) }()

	in.Text = strings.TrimSpace(in.Text)
	if err := validation.Struct(in); err != nil {
		return models.Comment{}, false, err
	}
	c, ok := s.events.AddComment(ctx, eventID, models.Comment{UserID: in.UserID, UserName: in.UserName, Text: in.Text})
	return c, ok, nil
}

// AddRating validates and upserts the user's rating.
func (s *EventService) AddRating(ctx context.Context, eventID string, in RatingInput) (ok bool, err error) {
	ctx, end := traceCall(ctx, "EventService", "AddRating")
	defer func() { end(err) }()

	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Struct(in); err != nil {
		return false, err
	}
	return s.events.AddRating(ctx, eventID, models.Rating{UserID: in.UserID, Stars: in.Stars, Comment: in.Comment}), nil
}

// AddMedia validates and attaches a media item.
func (s *EventService) AddMedia(ctx context.Context, eventID string, in MediaInput) (media models.Media, ok bool, err error) {
	ctx, end := traceCall(ctx, "EventService", "AddMedia")
	defer func() { end(err) }()

	if err := validation.Struct(in); err != nil {
		return models.Media{}, false, err
	}
	m, ok := s.events.AddMedia(ctx, eventID, models.Media{Type: in.Type, URL: in.URL, UploadedBy: in.UploadedBy})
	return m, ok, nil
}

// AddMediaComment validates and appends a comment to a media item.
func (s *EventService) AddMediaComment(ctx context.Context, eventID, mediaID string, in CommentInput) (comment models.Comment, ok bool, err error) {
	ctx, end := traceCall(ctx, "EventService", "AddMediaComment")
	defer func() { end(err) }()

	in.Text = strings.TrimSpace(in.Text)
	if err := validation.Struct(in); err != nil {
		return models.Comment{}, false, err
	}
	c, ok := s.events.AddMediaComment(ctx, eventID, mediaID, models.Comment{UserID: in.UserID, UserName: in.UserName, Text: in.Text})
	return c, ok, nil
}

// AddMediaReaction validates and upserts the user's reaction on a media item.
func (s *EventService) AddMediaReaction(ctx context.Context, eventID, mediaID string, in ReactionInput) (applied bool, err error) {
	ctx, end := traceCall(ctx, "EventService", "AddMediaReaction")
	defer func() { end(err) }()

	if err := validation.Struct(in); err != nil {
		return false, err
	}
	ok := s.events.AddMediaReaction(ctx, eventID, mediaID, in.UserID, in.Type)
	if !ok {
		middleware.Logger.DebugContext(ctx, "reaction target missing", slog.String("event_id", eventID), slog.String("media_id", mediaID))
	}
	return ok, nil
}
