package server

import (
	"brrads/internal/models"
	"brrads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentStream handles GET /api/stream/current. Returns 200 with a null
// body when the channel is offline so the frontend can poll cheaply.
func (s *Server) GetCurrentStream(c *fiber.Ctx) error {
	stream, err := s.streamService.CurrentStream(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"stream": stream})
}

// GetStreams handles GET /api/admin/streams
func (s *Server) GetStreams(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	streams, total, err := s.streamService.ListStreams(c.Context(), s.actor(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(streams, total, p))
}

// CreateStream handles POST /api/admin/streams
func (s *Server) CreateStream(c *fiber.Ctx) error {
	var req struct {
		Title        string `json:"title"`
		YoutubeURL   string `json:"youtube_url"`
		ThumbnailURL string `json:"thumbnail_url"`
		Description  string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	stream, err := s.streamService.CreateStream(c.Context(), service.CreateStreamInput{
		Actor:        s.actor(c),
		Title:        req.Title,
		YoutubeURL:   req.YoutubeURL,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stream)
}

// UpdateStream handles PUT /api/admin/streams/:id
func (s *Server) UpdateStream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        *string `json:"title"`
		YoutubeURL   *string `json:"youtube_url"`
		ThumbnailURL *string `json:"thumbnail_url"`
		Description  *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	stream, err := s.streamService.UpdateStream(c.Context(), service.UpdateStreamInput{
		Actor:        s.actor(c),
		StreamID:     id,
		Title:        req.Title,
		YoutubeURL:   req.YoutubeURL,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stream)
}

// SetStreamActive handles PUT /api/admin/streams/:id/active
func (s *Server) SetStreamActive(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return models.RespondWithError(c, models.NewValidationError("is_active is required"))
	}

	stream, err := s.streamService.SetStreamActive(c.Context(), s.actor(c), id, *req.IsActive)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stream)
}

// DeleteStream handles DELETE /api/admin/streams/:id
func (s *Server) DeleteStream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.streamService.DeleteStream(c.Context(), s.actor(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Live stream deleted"})
}
