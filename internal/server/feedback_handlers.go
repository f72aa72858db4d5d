package server

import (
	"hedwig/internal/models"
	"hedwig/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text"`
}

type ratingRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

type mediaRequest struct {
	Type models.MediaType `json:"type"`
	URL  string           `json:"url"`
}

type reactionRequest struct {
	Type models.ReactionType `json:"type"`
}

// RSVP adds the session user to the event's attendees. Repeating it is harmless.
// @Summary RSVP
// @Tags feedback
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} server.EventView
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/rsvp [post]
func (s *Server) RSVP(c *fiber.Ctx) error {
	u := sessionUser(c)
	if err := s.events.RSVP(c.UserContext(), c.Params("id"), u.ID); err != nil {
		return s.respondError(c, err)
	}
	return s.respondEvent(c, fiber.StatusOK)
}

// CancelRSVP removes the session user from the event's attendees.
// @Summary Cancel RSVP
// @Tags feedback
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} server.EventView
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/rsvp [delete]
func (s *Server) CancelRSVP(c *fiber.Ctx) error {
	u := sessionUser(c)
	if err := s.events.CancelRSVP(c.UserContext(), c.Params("id"), u.ID); err != nil {
		return s.respondError(c, err)
	}
	return s.respondEvent(c, fiber.StatusOK)
}

// AddComment handles POST /api/events/:id/comments
// @Summary Comment on an event
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /events/{id}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	u := sessionUser(c)

	comment, ok, err := s.events.AddComment(c.UserContext(), c.Params("id"), service.CommentInput{
		UserID:   u.ID,
		UserName: u.Name,
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Event", c.Params("id")))
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// AddRating creates or replaces the session user's rating.
// @Summary Rate an event
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body object{stars=int,comment=string} true "Rating"
// @Success 200 {object} server.EventView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/ratings [post]
func (s *Server) AddRating(c *fiber.Ctx) error {
	var req ratingRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	u := sessionUser(c)

	if _, err := s.events.AddRating(c.UserContext(), c.Params("id"), service.RatingInput{
		UserID:  u.ID,
		Stars:   req.Stars,
		Comment: req.Comment,
	}); err != nil {
		return s.respondError(c, err)
	}
	return s.respondEvent(c, fiber.StatusOK)
}

// AddMedia handles POST /api/events/:id/media
// @Summary Add media
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body object{type=string,url=string} true "Media reference"
// @Success 201 {object} models.Media
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /events/{id}/media [post]
func (s *Server) AddMedia(c *fiber.Ctx) error {
	var req mediaRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	u := sessionUser(c)

	media, ok, err := s.events.AddMedia(c.UserContext(), c.Params("id"), service.MediaInput{
		Type:       req.Type,
		URL:        req.URL,
		UploadedBy: u.ID,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Event", c.Params("id")))
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

// AddMediaComment handles POST /api/events/:id/media/:mediaId/comments
// @Summary Comment on media
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param mediaId path string true "Media ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /events/{id}/media/{mediaId}/comments [post]
func (s *Server) AddMediaComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	u := sessionUser(c)

	comment, ok, err := s.events.AddMediaComment(c.UserContext(), c.Params("id"), c.Params("mediaId"), service.CommentInput{
		UserID:   u.ID,
		UserName: u.Name,
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Media", c.Params("mediaId")))
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// AddMediaReaction creates or replaces the session user's reaction.
// @Summary React to media
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param mediaId path string true "Media ID"
// @Param request body object{type=string} true "Reaction"
// @Success 200 {object} server.EventView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id}/media/{mediaId}/reactions [post]
func (s *Server) AddMediaReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	u := sessionUser(c)

	ok, err := s.events.AddMediaReaction(c.UserContext(), c.Params("id"), c.Params("mediaId"), service.ReactionInput{
		UserID: u.ID,
		Type:   req.Type,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Media", c.Params("mediaId")))
	}
	return s.respondEvent(c, fiber.StatusOK)
}
