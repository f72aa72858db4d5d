package server

import (
	"hedwig/internal/models"
	"hedwig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the sign-in form. Password is only checked when the
// strict_passwords flag is on for the account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

// GetSession returns the current identity.
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} server.SessionResponse
// @Router /session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	u, ok := s.session.Current()
	return c.JSON(SessionResponse{Authenticated: ok, User: u})
}

// Login signs in by email.
// @Summary Sign in
// @Description Signs in with an institutional email. The password is checked only under strict_passwords.
// @Tags session
// @Accept json
// @Produce json
// @Param request body server.LoginRequest true "Credentials"
// @Success 200 {object} server.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /session/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ok, err := s.session.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	u, _ := s.session.Current()
	return c.JSON(SessionResponse{Authenticated: true, User: u})
}

// Logout clears the current identity.
// @Summary Sign out
// @Tags session
// @Produce json
// @Success 200 {object} server.SessionResponse
// @Router /session/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.session.Logout(c.UserContext())
	return c.JSON(SessionResponse{Authenticated: false})
}

// Register creates an account and signs it in.
// @Summary Register
// @Description Creates an account and signs it in.
// @Tags session
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration form"
// @Success 201 {object} server.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /session/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ok, err := s.session.Register(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("An account with this email already exists"))
	}

	u, _ := s.session.Current()
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{Authenticated: true, User: u})
}
