package services

import (
	"context"
	"errors"
	"strings"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

// UserService handles admin account management
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// ListUsersInput represents list users filters
type ListUsersInput struct {
	Search   string `query:"search" validate:"omitempty,max=100"`
	Role     string `query:"role" validate:"omitempty,oneof=Admin Member"`
	IsActive *bool  `query:"isActive"`
}

// UpdateUserByAdminInput represents update user input (for admin)
type UpdateUserByAdminInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=Admin Member"`
	IsActive *bool   `json:"isActive"`
}

// ListUsers lists users with filters and pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput, params *pagination.Params) (*pagination.Page[*models.UserResponse], error) {
	filter := repositories.UserFilter{
		Search:   input.Search,
		Role:     domain.Role(input.Role),
		IsActive: input.IsActive,
	}

	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}

	items := make([]*models.UserResponse, len(users))
	for i, user := range users {
		items[i] = user.ToResponse()
	}

	return pagination.NewPage(items, params, total, "Users"), nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}
	return user.ToResponse(), nil
}

// UpdateUserByAdmin updates name, email, role or active flag of a user.
// An admin cannot change their own role or deactivate themselves.
func (s *UserService) UpdateUserByAdmin(ctx context.Context, id, adminID string, input *UpdateUserByAdminInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}

	if id == adminID {
		if input.Role != nil && domain.Role(*input.Role) != user.Role {
			return nil, domain.ErrCannotChangeOwnRole
		}
		if input.IsActive != nil && !*input.IsActive {
			return nil, domain.ErrCannotDisableSelf
		}
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, internal(err)
			}
			if exists {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if input.Role != nil {
		user.Role = domain.Role(*input.Role)
	}

	deactivated := false
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, internal(err)
	}

	if deactivated {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return nil, internal(err)
		}
	}

	logger.Info("User updated by admin", "user_id", user.ID, "admin_id", adminID)
	return user.ToResponse(), nil
}
