package server

import (
	"brrads/internal/models"
	"brrads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/admin/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, total, err := s.userService.ListUsers(c.Context(), service.ListUsersInput{
		Actor:  s.actor(c),
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listResponse(users, total, p))
}

// GetUser handles GET /api/admin/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.Context(), s.actor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Password *string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	actor := s.actor(c)
	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		Actor:    actor,
		UserID:   actor.ID,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateUserRole handles PUT /api/admin/users/:id/role
func (s *Server) UpdateUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.ChangeRole(c.Context(), s.actor(c), id, models.Role(req.Role))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateUserStatus handles PUT /api/admin/users/:id/status
func (s *Server) UpdateUserStatus(c *fiber.Ctx) error {
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

	user, err := s.userService.SetActive(c.Context(), s.actor(c), id, *req.IsActive)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.Context(), s.actor(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
