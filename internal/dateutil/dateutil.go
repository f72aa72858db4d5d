// Package dateutil formats event dates and times for display.
//
// Every function takes the reference instant explicitly so results are
// deterministic under test. Calendar dates are interpreted in now's location.
package dateutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hedwig/internal/models"
)

// DisplayLayout is the short human form, e.g. "Sat, Apr 19, 2025".
const DisplayLayout = "Mon, Jan 2, 2006"

const (
	minute = 60
	hour   = 3600
	day    = 86400
	week   = 604800
	month  = 2629800
	year   = 31557600
)

var relativeUnits = []struct {
	limit int64
	size  int64
	name  string
}{
	{hour, minute, "minute"},
	{day, hour, "hour"},
	{week, day, "day"},
	{month, week, "week"},
	{year, month, "month"},
	{math.MaxInt64, year, "year"},
}

// ParseDate parses an ISO calendar date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders an ISO calendar date as DisplayLayout.
func FormatDate(date string) (string, error) {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// RelativeTime describes t relative to now: "just now", "5 minutes ago", "in 3 days".
func RelativeTime(t, now time.Time) string {
	diff := int64(now.Sub(t) / time.Second)
	if diff >= 0 {
		if diff < minute {
			return "just now"
		}
		return quantity(diff) + " ago"
	}

	diff = -diff
	if diff < minute {
		return "in " + plural(diff, "second")
	}
	return "in " + quantity(diff)
}

func quantity(seconds int64) string {
	for _, u := range relativeUnits {
		if seconds < u.limit {
			return plural(seconds/u.size, u.name)
		}
	}
	return plural(seconds/year, "year")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// DaysRemaining returns the number of calendar days from now's date to date.
// It is negative for past dates.
func DaysRemaining(date string, now time.Time) (int, error) {
	target, err := ParseDate(date, now.Location())
	if err != nil {
		return 0, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Ceil(target.Sub(today).Hours() / 24)), nil
}

// IsToday reports whether date falls on now's calendar day.
func IsToday(date string, now time.Time) bool {
	t, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	ty, tm, td := t.Date()
	return y == ty && m == tm && d == td
}

// StartTime combines a calendar date with the start of a time range such as
// "2:00 PM - 4:00 PM".
func StartTime(date, timeRange string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	start, _, _ := strings.Cut(timeRange, " - ")
	clock, err := time.Parse("3:04 PM", strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", timeRange, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}

// Countdown renders the time left until the event starts as "1d 2h 3m".
// Zero components other than minutes are omitted.
func Countdown(date, timeRange string, now time.Time) (string, error) {
	start, err := StartTime(date, timeRange, now.Location())
	if err != nil {
		return "", err
	}
	left := start.Sub(now)
	if left <= 0 {
		return "Event has started", nil
	}

	days := int(left / (24 * time.Hour))
	hours := int(left%(24*time.Hour)) / int(time.Hour)
	minutes := int(left%time.Hour) / int(time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " "), nil
}
