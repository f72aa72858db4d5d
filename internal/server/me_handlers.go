package server

import (
	"hedwig/internal/share"

	"github.com/gofiber/fiber/v2"
)

// GetMyEvents returns the events the session user is going to and has attended.
// @Summary My events
// @Tags me
// @Produce json
// @Success 200 {object} object{going=[]server.EventView,attended=[]server.EventView}
// @Failure 401 {object} models.ErrorResponse
// @Router /me/events [get]
func (s *Server) GetMyEvents(c *fiber.Ctx) error {
	u := sessionUser(c)
	return c.JSON(fiber.Map{
		"going":    s.views(s.events.RSVPEventsFor(u.ID)),
		"attended": s.views(s.events.AttendedBy(*u)),
	})
}

// GetMySchedule groups the session user's RSVPs by date.
// @Summary My schedule
// @Tags me
// @Produce json
// @Success 200 {array} models.ScheduleDay
// @Failure 401 {object} models.ErrorResponse
// @Router /me/schedule [get]
func (s *Server) GetMySchedule(c *fiber.Ctx) error {
	return c.JSON(s.events.Schedule(sessionUser(c).ID))
}

// GetCheckInCode returns the QR payload for checking the session user in.
// @Summary Check-in QR payload
// @Tags me
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} object{payload=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /me/qr/{id} [get]
func (s *Server) GetCheckInCode(c *fiber.Ctx) error {
	e, err := s.loadEvent(c)
	if err != nil {
		return nil
	}
	payload, err := share.CheckInPayload(e.ID, sessionUser(c).ID, s.timestamp())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"payload": payload})
}
