package server

import (
	"brrads/internal/models"
	"brrads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGameRequest handles POST /api/requests. The body is multipart form
// data so an optional cover image can ride along.
func (s *Server) CreateGameRequest(c *fiber.Ctx) error {
	imageName, imageData, err := s.readUpload(c, "image", maxRequestUploadBytes)
	if err != nil {
		return nil
	}

	request, err := s.requestService.SubmitRequest(c.Context(), service.SubmitRequestInput{
		Actor:         s.actor(c),
		GameName:      c.FormValue("game_name"),
		GameLink:      c.FormValue("game_link"),
		RequesterName: c.FormValue("requester_name"),
		ImageName:     imageName,
		ImageData:     imageData,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetGameRequests handles GET /api/requests (public queue view).
func (s *Server) GetGameRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	requests, total, err := s.requestService.ListPublicRequests(
		c.Context(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(requests, total, p))
}

// GetMyGameRequests handles GET /api/requests/me
func (s *Server) GetMyGameRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	requests, total, err := s.requestService.ListMyRequests(c.Context(), s.actor(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(requests, total, p))
}

// GetGameRequest handles GET /api/requests/:id
func (s *Server) GetGameRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	request, err := s.requestService.GetRequest(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// GetAllGameRequests handles GET /api/admin/requests (moderation view).
func (s *Server) GetAllGameRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	var statuses []models.RequestStatus
	if status := c.Query("status"); status != "" {
		statuses = append(statuses, models.RequestStatus(status))
	}

	requests, total, err := s.requestService.ListAllRequests(c.Context(), service.ListRequestsInput{
		Actor:    s.actor(c),
		Search:   c.Query("search"),
		Statuses: statuses,
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(requests, total, p))
}

// UpdateGameRequestStatus handles PUT /api/admin/requests/:id/status
func (s *Server) UpdateGameRequestStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
		DuplicateOf     *uint  `json:"duplicate_of"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	request, err := s.requestService.TransitionRequest(c.Context(), service.TransitionRequestInput{
		Actor:           s.actor(c),
		RequestID:       id,
		Status:          models.RequestStatus(req.Status),
		RejectionReason: req.RejectionReason,
		DuplicateOf:     req.DuplicateOf,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// DeleteGameRequest handles DELETE /api/admin/requests/:id
func (s *Server) DeleteGameRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requestService.DeleteRequest(c.Context(), s.actor(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Game request deleted"})
}
