// Package seed provides the built-in demo catalog and helpers to load or
// generate additional data at start-up.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"hedwig/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/builtin.yml
var builtinYAML []byte

// Dataset is everything the stores are hydrated with at start-up.
type Dataset struct {
	Users         []models.User         `yaml:"users"`
	Events        []models.Event        `yaml:"events"`
	Notifications []models.Notification `yaml:"notifications"`
}

// BuiltIn returns the demo users, events and notifications.
func BuiltIn() (Dataset, error) {
	return Parse(builtinYAML)
}

// MustBuiltIn is BuiltIn for tests and tools; it panics on a malformed embedded file.
func MustBuiltIn() Dataset {
	d, err := BuiltIn()
	if err != nil {
		panic(err)
	}
	return d
}

// LoadFile reads a dataset from a YAML file.
func LoadFile(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read seed file: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and checks a YAML dataset.
func Parse(raw []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Dataset{}, fmt.Errorf("decode seed data: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	d.normalize()
	return d, nil
}

// Validate rejects datasets that would break store invariants.
func (d *Dataset) Validate() error {
	emails := make(map[string]bool)
	for _, u := range d.Users {
		if u.ID == "" || u.Email == "" {
			return models.NewValidationError("seed user requires id and email")
		}
		key := normalizeEmail(u.Email)
		if emails[key] {
			return models.NewValidationError(fmt.Sprintf("duplicate seed user email %q", u.Email))
		}
		emails[key] = true
		for _, c := range u.Interests {
			if !c.Valid() {
				return models.NewValidationError(fmt.Sprintf("user %s has unknown interest %q", u.ID, c))
			}
		}
	}

	ids := make(map[string]bool)
	for _, e := range d.Events {
		if e.ID == "" || ids[e.ID] {
			return models.NewValidationError(fmt.Sprintf("event id %q is empty or duplicated", e.ID))
		}
		ids[e.ID] = true
		if !e.Category.Valid() {
			return models.NewValidationError(fmt.Sprintf("event %s has unknown category %q", e.ID, e.Category))
		}
		if _, err := e.ParsedDate(); err != nil {
			return models.NewValidationError(fmt.Sprintf("event %s has invalid date %q", e.ID, e.Date))
		}
		raters := make(map[string]bool)
		for _, r := range e.Ratings {
			if raters[r.UserID] {
				return models.NewValidationError(fmt.Sprintf("event %s has two ratings from user %s", e.ID, r.UserID))
			}
			raters[r.UserID] = true
		}
	}

	for _, n := range d.Notifications {
		if !n.Type.Valid() {
			return models.NewValidationError(fmt.Sprintf("notification %s has unknown type %q", n.ID, n.Type))
		}
	}
	return nil
}

// normalize replaces nil collections with empty ones so JSON renders [] and drops duplicate attendees.
func (d *Dataset) normalize() {
	for i := range d.Users {
		u := &d.Users[i]
		if u.Interests == nil {
			u.Interests = []models.Category{}
		}
		if u.EventsAttended == nil {
			u.EventsAttended = []string{}
		}
	}
	for i := range d.Events {
		e := &d.Events[i]
		seen := make(map[string]bool)
		attendees := make([]string, 0, len(e.Attendees))
		for _, id := range e.Attendees {
			if !seen[id] {
				seen[id] = true
				attendees = append(attendees, id)
			}
		}
		e.Attendees = attendees
		if e.Comments == nil {
			e.Comments = []models.Comment{}
		}
		if e.Ratings == nil {
			e.Ratings = []models.Rating{}
		}
		if e.Media == nil {
			e.Media = []models.Media{}
		}
		for j := range e.Media {
			m := &e.Media[j]
			if m.Reactions == nil {
				m.Reactions = []models.Reaction{}
			}
			if m.Comments == nil {
				m.Comments = []models.Comment{}
			}
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
