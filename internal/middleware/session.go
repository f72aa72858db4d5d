package middleware

import (
	"context"

	"hedwig/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserFunc reports the process-wide session identity.
type CurrentUserFunc func() (*models.User, bool)

// SessionRequired rejects the request with 401 when no session is active.
// On success the user is stored in c.Locals("user") and its id in c.Locals("userID").
func SessionRequired(current CurrentUserFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := current()
		if !ok || user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Sign in to continue"))
		}
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, user.ID))
		return c.Next()
	}
}

// SessionUser returns the user stored by SessionRequired.
func SessionUser(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals("user").(*models.User)
	return u, ok && u != nil
}
