package services

import (
	"errors"

	"memberhub/internal/core/domain"

	"gorm.io/gorm"
)

// notFoundAs replaces gorm.ErrRecordNotFound with the domain error for the
// entity and wraps anything else as an internal error.
func notFoundAs(err error, notFound *domain.AppError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return internal(err)
}

// internal wraps an unexpected storage error. Domain errors pass through.
func internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.NewInternalError("Internal server error", err)
}
