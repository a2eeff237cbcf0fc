package server

import (
	"brrads/internal/models"
	"brrads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFanArt handles POST /api/fanart. Multipart form data; the image is
// required.
func (s *Server) CreateFanArt(c *fiber.Ctx) error {
	imageName, imageData, err := s.readUpload(c, "image", maxFanArtUploadBytes)
	if err != nil {
		return nil
	}

	art, err := s.fanArtService.SubmitFanArt(c.Context(), service.SubmitFanArtInput{
		Actor:       s.actor(c),
		Title:       c.FormValue("title"),
		ArtistName:  c.FormValue("artist_name"),
		Description: c.FormValue("description"),
		ImageName:   imageName,
		ImageData:   imageData,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(art)
}

// GetFanArtGallery handles GET /api/fanart (public gallery, approved only).
func (s *Server) GetFanArtGallery(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	pieces, total, err := s.fanArtService.ListGallery(
		c.Context(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(pieces, total, p))
}

// GetMyFanArt handles GET /api/fanart/me
func (s *Server) GetMyFanArt(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	pieces, total, err := s.fanArtService.ListMyFanArt(c.Context(), s.actor(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(pieces, total, p))
}

// GetFanArt handles GET /api/fanart/:id
func (s *Server) GetFanArt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	art, err := s.fanArtService.GetFanArt(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(art)
}

// GetAllFanArt handles GET /api/admin/fanart (moderation view).
func (s *Server) GetAllFanArt(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	var statuses []models.FanArtStatus
	if status := c.Query("status"); status != "" {
		statuses = append(statuses, models.FanArtStatus(status))
	}

	pieces, total, err := s.fanArtService.ListAllFanArt(c.Context(), service.ListFanArtInput{
		Actor:    s.actor(c),
		Search:   c.Query("search"),
		Statuses: statuses,
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(pieces, total, p))
}

// UpdateFanArtStatus handles PUT /api/admin/fanart/:id/status
func (s *Server) UpdateFanArtStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	art, err := s.fanArtService.TransitionFanArt(c.Context(), service.TransitionFanArtInput{
		Actor:    s.actor(c),
		FanArtID: id,
		Status:   models.FanArtStatus(req.Status),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(art)
}

// DeleteFanArt handles DELETE /api/admin/fanart/:id
func (s *Server) DeleteFanArt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.fanArtService.DeleteFanArt(c.Context(), s.actor(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Fan art deleted"})
}
