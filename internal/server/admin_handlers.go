package server

import (
	"brrads/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats handles GET /api/admin/stats
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.statsService.GetDashboardStats(c.Context(), s.actor(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}

// GetSettings handles GET /api/settings (public; the frontend renders from
// these values).
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.GetSettings(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSetting handles PUT /api/admin/settings/:key
func (s *Server) UpdateSetting(c *fiber.Ctx) error {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	setting, err := s.settingsService.SetSetting(c.Context(), s.actor(c), c.Params("key"), req.Value)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(setting)
}
