package response

import (
	"errors"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/jwt"
	"memberhub/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatusFor maps err to an HTTP status and a client-safe message
func StatusFor(err error) (int, string) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case domain.KindValidation:
			return fiber.StatusBadRequest, appErr.Message
		case domain.KindAuthentication:
			return fiber.StatusUnauthorized, appErr.Message
		case domain.KindAuthorization:
			return fiber.StatusForbidden, appErr.Message
		case domain.KindNotFound:
			return fiber.StatusNotFound, appErr.Message
		case domain.KindConflict:
			return fiber.StatusConflict, appErr.Message
		default:
			return fiber.StatusInternalServerError, "Internal server error"
		}
	}

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusConflict, "Resource already exists"
	case errors.Is(err, jwt.ErrTokenExpired):
		return fiber.StatusUnauthorized, "Token expired"
	case errors.Is(err, jwt.ErrTokenInvalid):
		return fiber.StatusUnauthorized, "Invalid token"
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// FromError writes the envelope for err. 5xx causes are logged, never sent.
func FromError(c *fiber.Ctx, err error) error {
	code, message := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"requestId", c.Locals("requestid"),
			"error", err,
		)
	}
	return Error(c, code, message)
}
