package middleware

import (
	"errors"
	"strings"

	"memberhub/internal/config"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/jwt"
	"memberhub/internal/pkg/objectid"
	"memberhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, domain.Role(claims.Role))

		return c.Next()
	}
}

// extractToken reads the access token from the cookie first, then from the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows only the Admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// MemberOnly allows only the Member role
func MemberOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleMember)
}

// ValidateObjectID rejects requests whose named path parameters are not
// 24-hex identifiers
func ValidateObjectID(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range params {
			if !objectid.IsValid(c.Params(name)) {
				return response.BadRequest(c, "Invalid "+name+" format")
			}
		}
		return c.Next()
	}
}
