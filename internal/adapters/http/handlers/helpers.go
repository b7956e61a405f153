package handlers

import (
	"memberhub/internal/adapters/http/middleware"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// handleError renders err through the shared AppError mapping
func handleError(c *fiber.Ctx, err error) error {
	return response.FromError(c, err)
}

// currentUserID returns the authenticated user id set by AuthMiddleware
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	return userID, ok && userID != ""
}

// currentRole returns the authenticated role
func currentRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(middleware.LocalRole).(domain.Role)
	return role
}
