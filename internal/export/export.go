// Package export renders an event's attendance list as CSV or JSON.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"hedwig/internal/models"
)

// Format is an attendance export encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON:
		return f, nil
	}
	return "", models.NewValidationError(fmt.Sprintf("Unsupported export format %q", s))
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == JSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

var csvHeader = []string{"Name", "Email", "Department", "Year", "Check-in Time"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// UserLookup resolves a user id.
type UserLookup func(id string) (*models.User, bool)

// Attendees resolves the event's attendee ids in order. Unknown ids are skipped.
func Attendees(event models.Event, lookup UserLookup) []models.User {
	out := make([]models.User, 0, len(event.Attendees))
	for _, id := range event.Attendees {
		if u, ok := lookup(id); ok {
			out = append(out, *u)
		}
	}
	return out
}

// FileName is attendance_<name>_<YYYY-MM-DD>.<ext>, whitespace runs in the
// event name replaced by underscores.
func FileName(eventName string, f Format, now time.Time) string {
	name := whitespaceRun.ReplaceAllString(eventName, "_")
	return fmt.Sprintf("attendance_%s_%s.%s", name, now.UTC().Format(models.DateLayout), f)
}

// Write encodes the attendance list in format f.
func Write(w io.Writer, f Format, event models.Event, attendees []models.User, now time.Time) error {
	switch f {
	case CSV:
		return WriteCSV(w, attendees, now)
	case JSON:
		return WriteJSON(w, event, attendees, now)
	}
	return models.NewValidationError(fmt.Sprintf("Unsupported export format %q", f))
}

// WriteCSV writes a header row and one row per attendee with every field
// double-quoted. The check-in time is the export moment.
func WriteCSV(w io.Writer, attendees []models.User, now time.Time) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, csvHeader, false)
	checkIn := now.UTC().Format(time.RFC3339)
	for _, u := range attendees {
		writeRow(bw, []string{u.Name, u.Email, u.Department, u.Year, checkIn}, true)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write attendance csv: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields []string, quote bool) {
	for i, f := range fields {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		if quote {
			_, _ = w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`)
		} else {
			_, _ = w.WriteString(f)
		}
	}
	_ = w.WriteByte('\n')
}

// Document is the JSON attendance export.
type Document struct {
	Event      EventRef   `json:"event"`
	Attendees  []Attendee `json:"attendees"`
	ExportTime time.Time  `json:"exportTime"`
}

// EventRef identifies the exported event.
type EventRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Venue string `json:"venue"`
}

// Attendee is one exported row.
type Attendee struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Year        string    `json:"year"`
	CheckInTime time.Time `json:"checkInTime"`
}

// NewDocument builds the JSON export for event.
func NewDocument(event models.Event, attendees []models.User, now time.Time) Document {
	now = now.UTC()
	doc := Document{
		Event:      EventRef{ID: event.ID, Name: event.Name, Date: event.Date, Venue: event.Venue},
		Attendees:  make([]Attendee, 0, len(attendees)),
		ExportTime: now,
	}
	for _, u := range attendees {
		doc.Attendees = append(doc.Attendees, Attendee{
			Name:        u.Name,
			Email:       u.Email,
			Department:  u.Department,
			Year:        u.Year,
			CheckInTime: now,
		})
	}
	return doc
}

// WriteJSON writes the Document indented by two spaces.
func WriteJSON(w io.Writer, event models.Event, attendees []models.User, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(event, attendees, now)); err != nil {
		return fmt.Errorf("write attendance json: %w", err)
	}
	return nil
}
