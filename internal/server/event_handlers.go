package server

import (
	"bytes"
	"fmt"

	"hedwig/internal/dateutil"
	"hedwig/internal/export"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/share"

	"github.com/gofiber/fiber/v2"
)

// ListEvents searches by ?q= and ?category= ("all" or empty for any).
// @Summary Search events
// @Tags events
// @Produce json
// @Param q query string false "Case-insensitive text in name, description or venue"
// @Param category query string false "Category, or all"
// @Success 200 {array} server.EventView
// @Failure 400 {object} models.ErrorResponse
// @Router /events [get]
func (s *Server) ListEvents(c *fiber.Ctx) error {
	events, err := s.events.Search(c.Query("q"), c.Query("category"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(s.views(events))
}

// GetUpcomingEvents handles GET /api/events/upcoming
// @Summary Upcoming events
// @Tags events
// @Produce json
// @Success 200 {array} server.EventView
// @Router /events/upcoming [get]
func (s *Server) GetUpcomingEvents(c *fiber.Ctx) error {
	return c.JSON(s.views(s.events.Upcoming()))
}

// GetTodayEvents handles GET /api/events/today
// @Summary Today's events
// @Tags events
// @Produce json
// @Success 200 {array} server.EventView
// @Router /events/today [get]
func (s *Server) GetTodayEvents(c *fiber.Ctx) error {
	return c.JSON(s.views(s.events.Today()))
}

// GetPopularEvents returns the most attended events (?limit=, default 5).
// @Summary Most attended events
// @Tags events
// @Produce json
// @Param limit query int false "Maximum results (default 5, max 50)"
// @Success 200 {array} server.EventView
// @Router /events/popular [get]
func (s *Server) GetPopularEvents(c *fiber.Ctx) error {
	return c.JSON(s.views(s.events.Popular(parseLimit(c))))
}

// GetRecommendedEvents matches the session user's interests. It is empty when signed out.
// @Summary Recommended events
// @Tags events
// @Produce json
// @Param limit query int false "Maximum results (default 4, max 50)"
// @Success 200 {array} server.EventView
// @Router /events/recommended [get]
func (s *Server) GetRecommendedEvents(c *fiber.Ctx) error {
	u, _ := s.session.Current()
	return c.JSON(s.views(s.events.Recommended(u, parseLimit(c))))
}

// GetCategories handles GET /api/events/categories
// @Summary Event categories
// @Tags events
// @Produce json
// @Success 200 {array} models.CategorySummary
// @Router /events/categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(s.events.Categories())
}

// GetEvent handles GET /api/events/:id
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} server.EventView
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id} [get]
func (s *Server) GetEvent(c *fiber.Ctx) error {
	e, err := s.loadEvent(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.view(*e))
}

// GetShareLinks returns the social share URLs for an event.
// @Summary Share links
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} object{url=string,links=map[string]string}
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/share [get]
func (s *Server) GetShareLinks(c *fiber.Ctx) error {
	e, err := s.loadEvent(c)
	if err != nil {
		return nil
	}
	pageURL := share.EventURL(s.config.PublicURL, e.ID)
	return c.JSON(fiber.Map{
		"url":   pageURL,
		"links": share.BuildLinks(e.Name, pageURL),
	})
}

// GetCountdown reports the time left until the event starts.
// @Summary Countdown
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} object{countdown=string,daysRemaining=int,isToday=bool,startsAt=string,relative=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/countdown [get]
func (s *Server) GetCountdown(c *fiber.Ctx) error {
	e, err := s.loadEvent(c)
	if err != nil {
		return nil
	}
	now := s.now()
	countdown, err := dateutil.Countdown(e.Date, e.Time, now)
	if err != nil {
		return s.respondError(c, models.NewValidationError(fmt.Sprintf("Event %s has an unreadable start time", e.ID)))
	}
	days, _ := dateutil.DaysRemaining(e.Date, now)

	resp := fiber.Map{
		"countdown":     countdown,
		"daysRemaining": days,
		"isToday":       dateutil.IsToday(e.Date, now),
	}
	if start, err := dateutil.StartTime(e.Date, e.Time, now.Location()); err == nil {
		resp["startsAt"] = start
		resp["relative"] = dateutil.RelativeTime(start, now)
	}
	return c.JSON(resp)
}

// ExportAttendance serves the attendance list as a download.
// @Summary Export attendance
// @Description Downloads the attendee list as CSV or JSON.
// @Tags events
// @Produce text/csv,application/json
// @Param id path string true "Event ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/attendance.csv [get]
// @Router /events/{id}/attendance.json [get]
func (s *Server) ExportAttendance(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := export.ParseFormat(format)
		if err != nil {
			return s.respondError(c, err)
		}
		e, err := s.loadEvent(c)
		if err != nil {
			return nil
		}

		now := s.timestamp()
		attendees := export.Attendees(*e, s.runtime.LookupUser)

		var buf bytes.Buffer
		if err := export.Write(&buf, f, *e, attendees, now); err != nil {
			return s.respondError(c, err)
		}

		middleware.Logger.InfoContext(c.UserContext(), "attendance exported",
			"event_id", e.ID, "format", string(f), "attendees", len(attendees))

		c.Set(fiber.HeaderContentType, f.ContentType())
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s"`, export.FileName(e.Name, f, now)))
		return c.Send(buf.Bytes())
	}
}
