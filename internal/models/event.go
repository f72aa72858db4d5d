// Package models holds the domain types shared by the stores, services and HTTP layer.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar-date form used for Event.Date.
const DateLayout = "2006-01-02"

// Category is the fixed set of event categories (also used as user interests).
type Category string

const (
	CategoryTech     Category = "tech"
	CategoryCultural Category = "cultural"
	CategorySeminar  Category = "seminar"
	CategorySports   Category = "sports"
	CategorySocial   Category = "social"
	CategoryCareer   Category = "career"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTech,
	CategoryCultural,
	CategorySeminar,
	CategorySports,
	CategorySocial,
	CategoryCareer,
	CategoryOther,
}

var categoryNames = map[Category]string{
	CategoryTech:     "Technology",
	CategoryCultural: "Cultural",
	CategorySeminar:  "Seminar",
	CategorySports:   "Sports",
	CategorySocial:   "Social",
	CategoryCareer:   "Career",
	CategoryOther:    "Other",
}

var categoryEmojis = map[Category]string{
	CategoryTech:     "💻",
	CategoryCultural: "🎭",
	CategorySeminar:  "🎓",
	CategorySports:   "🏆",
	CategorySocial:   "🎉",
	CategoryCareer:   "💼",
	CategoryOther:    "📌",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human readable category name.
func (c Category) DisplayName() string {
	return categoryNames[c]
}

// Emoji returns the badge emoji for the category.
func (c Category) Emoji() string {
	return categoryEmojis[c]
}

// ParseCategory normalizes s and returns the matching Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError(fmt.Sprintf("Unknown category %q", s))
	}
	return c, nil
}

// MediaType is the kind of an uploaded media item.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether t is image or video.
func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

// ReactionType is the closed set of media reactions.
type ReactionType string

const (
	ReactionLike ReactionType = "like"
	ReactionLove ReactionType = "love"
	ReactionWow  ReactionType = "wow"
	ReactionHaha ReactionType = "haha"
	ReactionSad  ReactionType = "sad"
)

// Valid reports whether t is a known reaction.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionWow, ReactionHaha, ReactionSad:
		return true
	}
	return false
}

// Event is a campus event with its nested feedback collections.
type Event struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Category      Category  `json:"category" yaml:"category"`
	Date          string    `json:"date" yaml:"date"`
	Time          string    `json:"time" yaml:"time"`
	Venue         string    `json:"venue" yaml:"venue"`
	OrganizerID   string    `json:"organizerId" yaml:"organizerId"`
	OrganizerName string    `json:"organizerName" yaml:"organizerName"`
	ImageURL      string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Attendees     []string  `json:"attendees" yaml:"attendees"`
	Comments      []Comment `json:"comments" yaml:"comments"`
	Ratings       []Rating  `json:"ratings" yaml:"ratings"`
	Media         []Media   `json:"media" yaml:"media"`
}

// Comment is attached either to an Event or to a Media item.
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	UserName  string    `json:"userName" yaml:"userName"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Rating is keyed by UserID; an event holds at most one per user.
type Rating struct {
	UserID  string `json:"userId" yaml:"userId" validate:"required"`
	Stars   int    `json:"stars" yaml:"stars" validate:"min=1,max=5"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty" validate:"max=2000"`
}

// Media is a photo or video shared on an event.
type Media struct {
	ID         string     `json:"id" yaml:"id"`
	Type       MediaType  `json:"type" yaml:"type"`
	URL        string     `json:"url" yaml:"url"`
	UploadedBy string     `json:"uploadedBy" yaml:"uploadedBy"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
	Reactions  []Reaction `json:"reactions" yaml:"reactions"`
	Comments   []Comment  `json:"comments" yaml:"comments"`
}

// Reaction is keyed by UserID; a media item holds at most one per user.
type Reaction struct {
	UserID string       `json:"userId" yaml:"userId"`
	Type   ReactionType `json:"type" yaml:"type"`
}

// HasAttendee reports whether userID has RSVP'd.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// MediaByID returns the index of the media item with the given id, or -1.
func (e *Event) MediaByID(mediaID string) int {
	for i := range e.Media {
		if e.Media[i].ID == mediaID {
			return i
		}
	}
	return -1
}

// AverageRating returns the mean star value, or 0 when unrated.
func (e *Event) AverageRating() float64 {
	if len(e.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range e.Ratings {
		sum += r.Stars
	}
	return float64(sum) / float64(len(e.Ratings))
}

// ParsedDate returns Date as a time in UTC.
func (e *Event) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// Clone returns a deep copy so callers can never alias store state.
func (e Event) Clone() Event {
	out := e
	out.Attendees = append([]string{}, e.Attendees...)
	out.Comments = append([]Comment{}, e.Comments...)
	out.Ratings = append([]Rating{}, e.Ratings...)
	out.Media = make([]Media, len(e.Media))
	for i, m := range e.Media {
		out.Media[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the media item.
func (m Media) Clone() Media {
	out := m
	out.Reactions = append([]Reaction{}, m.Reactions...)
	out.Comments = append([]Comment{}, m.Comments...)
	return out
}
