package server

import (
	"hedwig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the session user's notifications, newest first.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	return c.JSON(s.notifications.For(sessionUser(c).ID))
}

// GetUnreadCount handles GET /api/notifications/unread-count
// @Summary Unread count
// @Tags notifications
// @Produce json
// @Success 200 {object} object{count=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"count": s.notifications.UnreadCount()})
}

// MarkNotificationRead marks one notification read. Unknown or already read ids report updated=false.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} object{updated=bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	updated := s.notifications.MarkRead(c.UserContext(), c.Params("id"))
	return c.JSON(fiber.Map{"updated": updated})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Success 200 {object} object{updated=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n := s.notifications.MarkAllRead(c.UserContext())
	return c.JSON(fiber.Map{"updated": n})
}

// DeleteNotification removes one notification. Unknown ids report deleted=false.
// @Summary Delete notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} object{deleted=bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/{id} [delete]
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	deleted := s.notifications.Clear(c.UserContext(), c.Params("id"))
	return c.JSON(fiber.Map{"deleted": deleted})
}

// CreateNotification adds a notification. The recipient defaults to the session user.
// @Summary Create notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body service.NotificationInput true "Notification; userId defaults to the session user"
// @Success 201 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /notifications [post]
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req service.NotificationInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.UserID == "" {
		req.UserID = sessionUser(c).ID
	}

	n, err := s.notifications.Add(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}
