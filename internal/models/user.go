package models

import "strings"

// User is a registered campus identity.
type User struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Email           string     `json:"email" yaml:"email"`
	Department      string     `json:"department" yaml:"department"`
	Year            string     `json:"year" yaml:"year"`
	Interests       []Category `json:"interests" yaml:"interests"`
	EventsAttended  []string   `json:"eventsAttended" yaml:"eventsAttended"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty" yaml:"profileImageUrl,omitempty"`
	PasswordHash    string     `json:"-" yaml:"-"`
}

// EmailMatches compares emails case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// FirstName returns the first word of Name.
func (u *User) FirstName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Clone returns a deep copy.
func (u User) Clone() User {
	out := u
	out.Interests = append([]Category{}, u.Interests...)
	out.EventsAttended = append([]string{}, u.EventsAttended...)
	return out
}
