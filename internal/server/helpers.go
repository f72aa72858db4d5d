package server

import (
	"context"
	"errors"
	"time"

	"hedwig/internal/dateutil"
	"hedwig/internal/middleware"
	"hedwig/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten indicates a helper already committed the response.
// Handlers must return nil (not this error) so the ErrorHandler does not
// overwrite it.
var errResponseWritten = errors.New("response already written")

const maxListLimit = 50

// parseLimit reads the limit query parameter, clamped to (0, maxListLimit].
// Zero means "use the store default".
func parseLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

// respondError maps service errors to the standard error envelope.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.RespondWithError(c, fiber.StatusRequestTimeout,
			&models.AppError{Code: "REQUEST_CANCELLED", Message: "Request was cancelled", Err: err})
	}

	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "error", err, "path", c.Path())
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the JSON body into out, writing a 400 on failure.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// sessionUser returns the user set by SessionRequired.
func sessionUser(c *fiber.Ctx) *models.User {
	u, _ := middleware.SessionUser(c)
	return u
}

// loadEvent reads the :id event or writes a 404.
func (s *Server) loadEvent(c *fiber.Ctx) (*models.Event, error) {
	id := c.Params("id")
	e, ok := s.events.Get(id)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Event", id))
		return nil, errResponseWritten
	}
	return e, nil
}

// EventView is an event with its derived display fields.
type EventView struct {
	models.Event
	AverageRating float64 `json:"averageRating"`
	DisplayDate   string  `json:"displayDate,omitempty"`
	DaysRemaining int     `json:"daysRemaining"`
	IsToday       bool    `json:"isToday"`
}

func (s *Server) view(e models.Event) EventView {
	now := s.now()
	v := EventView{Event: e, AverageRating: e.AverageRating(), IsToday: dateutil.IsToday(e.Date, now)}
	if d, err := dateutil.FormatDate(e.Date); err == nil {
		v.DisplayDate = d
	}
	if n, err := dateutil.DaysRemaining(e.Date, now); err == nil {
		v.DaysRemaining = n
	}
	return v
}

func (s *Server) views(events []models.Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, s.view(e))
	}
	return out
}

// respondEvent re-reads the event after a mutation. A missing event is a 404.
func (s *Server) respondEvent(c *fiber.Ctx, status int) error {
	e, err := s.loadEvent(c)
	if err != nil {
		return nil
	}
	return c.Status(status).JSON(s.view(*e))
}

func (s *Server) timestamp() time.Time {
	return s.now().UTC()
}
