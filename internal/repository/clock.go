package repository

import (
	"time"

	"hedwig/internal/models"
)

// Clock supplies the current time. Projections that depend on "today" read it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func (c Clock) today() string {
	return c.now().Format(models.DateLayout)
}
