package repository

import (
	"time"

	"hedwig/internal/models"
	"hedwig/internal/seed"
)

// demoNow is the reference "today" of the built-in catalog (Game Night and the AI seminar).
var demoNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newDemoEvents() EventRepository {
	return NewEventRepository(seed.MustBuiltIn().Events, fixedClock(demoNow))
}

func eventIDs(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
