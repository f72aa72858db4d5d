package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hedwig/internal/models"
	"hedwig/internal/observability"
)

// DefaultPopularLimit is used by Popular when n is not positive.
const DefaultPopularLimit = 5

// EventRepository is the event catalog together with its projections and mutations.
// Mutations on unknown event or media ids are silent no-ops and report false.
type EventRepository interface {
	List() []models.Event
	GetByID(id string) (*models.Event, bool)
	ByCategory(category models.Category) []models.Event
	Upcoming() []models.Event
	Today() []models.Event
	Popular(n int) []models.Event
	RSVPEventsFor(userID string) []models.Event
	Search(query string, category models.Category) []models.Event
	ByInterests(interests []models.Category, n int) []models.Event
	Schedule(userID string) []models.ScheduleDay
	AttendedBy(user models.User) []models.Event
	CategorySummaries() []models.CategorySummary

	RSVP(ctx context.Context, eventID, userID string) bool
	CancelRSVP(ctx context.Context, eventID, userID string) bool
	AddComment(ctx context.Context, eventID string, comment models.Comment) (models.Comment, bool)
	AddRating(ctx context.Context, eventID string, rating models.Rating) bool
	AddMedia(ctx context.Context, eventID string, media models.Media) (models.Media, bool)
	AddMediaComment(ctx context.Context, eventID, mediaID string, comment models.Comment) (models.Comment, bool)
	AddMediaReaction(ctx context.Context, eventID, mediaID, userID string, reaction models.ReactionType) bool
}

type eventRepository struct {
	mu     sync.RWMutex
	events []models.Event
	clock  Clock
	log    *observability.StoreLogger

	commentIDs      *idSequence
	mediaIDs        *idSequence
	mediaCommentIDs *idSequence
}

// NewEventRepository creates an EventRepository over a copy of events.
// A nil clock reads the wall clock.
func NewEventRepository(events []models.Event, clock Clock) EventRepository {
	r := &eventRepository{
		clock:           clock,
		log:             observability.NewStoreLogger("events"),
		commentIDs:      newIDSequence("c"),
		mediaIDs:        newIDSequence("m"),
		mediaCommentIDs: newIDSequence("mc"),
	}
	for _, e := range events {
		r.events = append(r.events, e.Clone())
	}
	return r
}

// snapshot returns deep copies of the events accepted by keep, in catalog order.
func (r *eventRepository) snapshot(keep func(e *models.Event) bool) []models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Event, 0, len(r.events))
	for i := range r.events {
		if keep == nil || keep(&r.events[i]) {
			out = append(out, r.events[i].Clone())
		}
	}
	return out
}

func (r *eventRepository) List() []models.Event {
	return r.snapshot(nil)
}

func (r *eventRepository) GetByID(id string) (*models.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.events {
		if r.events[i].ID == id {
			e := r.events[i].Clone()
			return &e, true
		}
	}
	return nil, false
}

func (r *eventRepository) ByCategory(category models.Category) []models.Event {
	return r.snapshot(func(e *models.Event) bool { return e.Category == category })
}

func (r *eventRepository) Upcoming() []models.Event {
	today := r.clock.today()
	out := r.snapshot(func(e *models.Event) bool { return e.Date > today })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (r *eventRepository) Today() []models.Event {
	today := r.clock.today()
	return r.snapshot(func(e *models.Event) bool { return e.Date == today })
}

func (r *eventRepository) Popular(n int) []models.Event {
	if n <= 0 {
		n = DefaultPopularLimit
	}
	out := r.snapshot(nil)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Attendees) > len(out[j].Attendees) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (r *eventRepository) RSVPEventsFor(userID string) []models.Event {
	return r.snapshot(func(e *models.Event) bool { return e.HasAttendee(userID) })
}

// Search matches query case-insensitively against name, description and venue.
// An empty query matches everything; an empty category disables the filter.
func (r *eventRepository) Search(query string, category models.Category) []models.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	return r.snapshot(func(e *models.Event) bool {
		if category != "" && e.Category != category {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Venue), q)
	})
}

// ByInterests concatenates the events of each interest in order, drops
// repeats and keeps the first n (all when n <= 0).
func (r *eventRepository) ByInterests(interests []models.Category, n int) []models.Event {
	var out []models.Event
	seen := make(map[string]bool)
	for _, c := range interests {
		for _, e := range r.ByCategory(c) {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []models.Event{}
	}
	return out
}

func (r *eventRepository) Schedule(userID string) []models.ScheduleDay {
	byDate := make(map[string][]models.Event)
	var dates []string
	for _, e := range r.RSVPEventsFor(userID) {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	sort.Strings(dates)
	out := make([]models.ScheduleDay, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.ScheduleDay{Date: d, Events: byDate[d]})
	}
	return out
}

func (r *eventRepository) AttendedBy(user models.User) []models.Event {
	attended := make(map[string]bool, len(user.EventsAttended))
	for _, id := range user.EventsAttended {
		attended[id] = true
	}
	return r.snapshot(func(e *models.Event) bool { return attended[e.ID] })
}

func (r *eventRepository) CategorySummaries() []models.CategorySummary {
	counts := make(map[models.Category]int)
	r.mu.RLock()
	for i := range r.events {
		counts[r.events[i].Category]++
	}
	r.mu.RUnlock()

	out := make([]models.CategorySummary, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, models.CategorySummary{
			Category:    c,
			DisplayName: c.DisplayName(),
			Emoji:       c.Emoji(),
			Count:       counts[c],
		})
	}
	return out
}

// mutate applies fn to a private copy of the event and publishes the copy when
// fn reports a change. Readers only ever see the old or the new value.
func (r *eventRepository) mutate(ctx context.Context, op, eventID string, fn func(e *models.Event) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.events {
		if r.events[i].ID == eventID {
			idx = i
			break
		}
	}
	fields := map[string]interface{}{"event_id": eventID}
	if idx < 0 {
		observability.RecordMutation("events", op, false)
		r.log.LogSkipped(ctx, op, fields)
		return false
	}

	next := r.events[idx].Clone()
	if !fn(&next) {
		observability.RecordMutation("events", op, false)
		r.log.LogSkipped(ctx, op, fields)
		return false
	}
	r.events[idx] = next
	observability.RecordMutation("events", op, true)
	r.log.LogMutation(ctx, op, fields)
	return true
}

func (r *eventRepository) RSVP(ctx context.Context, eventID, userID string) bool {
	return r.mutate(ctx, "rsvp", eventID, func(e *models.Event) bool {
		if e.HasAttendee(userID) {
			return false
		}
		e.Attendees = append(e.Attendees, userID)
		return true
	})
}

func (r *eventRepository) CancelRSVP(ctx context.Context, eventID, userID string) bool {
	return r.mutate(ctx, "cancel_rsvp", eventID, func(e *models.Event) bool {
		kept := e.Attendees[:0]
		for _, id := range e.Attendees {
			if id != userID {
				kept = append(kept, id)
			}
		}
		changed := len(kept) != len(e.Attendees)
		e.Attendees = kept
		return changed
	})
}

func (r *eventRepository) AddComment(ctx context.Context, eventID string, comment models.Comment) (models.Comment, bool) {
	ok := r.mutate(ctx, "add_comment", eventID, func(e *models.Event) bool {
		ids := make([]string, len(e.Comments))
		for i, c := range e.Comments {
			ids[i] = c.ID
		}
		comment.ID = r.commentIDs.Next(e.ID, ids)
		comment.Timestamp = r.clock.now()
		e.Comments = append(e.Comments, comment)
		return true
	})
	return comment, ok
}

// AddRating replaces the user's existing rating in place or appends a new one.
func (r *eventRepository) AddRating(ctx context.Context, eventID string, rating models.Rating) bool {
	return r.mutate(ctx, "add_rating", eventID, func(e *models.Event) bool {
		for i := range e.Ratings {
			if e.Ratings[i].UserID == rating.UserID {
				e.Ratings[i] = rating
				return true
			}
		}
		e.Ratings = append(e.Ratings, rating)
		return true
	})
}

func (r *eventRepository) AddMedia(ctx context.Context, eventID string, media models.Media) (models.Media, bool) {
	ok := r.mutate(ctx, "add_media", eventID, func(e *models.Event) bool {
		ids := make([]string, len(e.Media))
		for i, m := range e.Media {
			ids[i] = m.ID
		}
		media.ID = r.mediaIDs.Next(e.ID, ids)
		media.Timestamp = r.clock.now()
		media.Reactions = []models.Reaction{}
		media.Comments = []models.Comment{}
		e.Media = append(e.Media, media)
		return true
	})
	return media, ok
}

func (r *eventRepository) AddMediaComment(ctx context.Context, eventID, mediaID string, comment models.Comment) (models.Comment, bool) {
	ok := r.mutate(ctx, "add_media_comment", eventID, func(e *models.Event) bool {
		idx := e.MediaByID(mediaID)
		if idx < 0 {
			return false
		}
		m := &e.Media[idx]
		ids := make([]string, len(m.Comments))
		for i, c := range m.Comments {
			ids[i] = c.ID
		}
		comment.ID = r.mediaCommentIDs.Next(e.ID+"/"+m.ID, ids)
		comment.Timestamp = r.clock.now()
		m.Comments = append(m.Comments, comment)
		return true
	})
	return comment, ok
}

// AddMediaReaction replaces the user's existing reaction in place or appends a new one.
func (r *eventRepository) AddMediaReaction(ctx context.Context, eventID, mediaID, userID string, reaction models.ReactionType) bool {
	return r.mutate(ctx, "add_media_reaction", eventID, func(e *models.Event) bool {
		idx := e.MediaByID(mediaID)
		if idx < 0 {
			return false
		}
		m := &e.Media[idx]
		for i := range m.Reactions {
			if m.Reactions[i].UserID == userID {
				m.Reactions[i].Type = reaction
				return true
			}
		}
		m.Reactions = append(m.Reactions, models.Reaction{UserID: userID, Type: reaction})
		return true
	})
}
