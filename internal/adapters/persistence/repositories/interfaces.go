package repositories

import (
	"context"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"
)

// UserFilter narrows user listings
type UserFilter struct {
	Search   string
	Role     domain.Role
	IsActive *bool
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, filter UserFilter, params *pagination.Params) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID string) (int64, error)
}

// ZoneRepository defines zone repository interface
type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByID(ctx context.Context, id string) (*models.Zone, error)
	GetAnyByID(ctx context.Context, id string) (*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	SoftDelete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, search string, params *pagination.Params) ([]*models.Zone, int64, error)
	Search(ctx context.Context, term string, limit int) ([]*models.ZoneWithCount, error)
	CountActive(ctx context.Context) (int64, error)
}

// MemberFilter narrows member listings
type MemberFilter struct {
	ZoneID         string
	Status         domain.MemberStatus
	MembershipType domain.MembershipType
	Search         string
}

// GroupCount is one row of a GROUP BY count
type GroupCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:count" json:"count"`
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Member, error)
	GetAnyByID(ctx context.Context, id string) (*models.Member, error)
	GetByUserID(ctx context.Context, userID string) (*models.Member, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	Update(ctx context.Context, member *models.Member) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	List(ctx context.Context, filter MemberFilter, params *pagination.Params) ([]*models.Member, int64, error)
	Search(ctx context.Context, term string, limit int) ([]*models.Member, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]*models.Member, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	CountActiveByZone(ctx context.Context, zoneID string) (int64, error)
	CountActiveByIDs(ctx context.Context, ids []string) (int64, error)
	CountGrouped(ctx context.Context, column string) ([]GroupCount, error)
}

// EventFilter narrows event listings
type EventFilter struct {
	Status   domain.EventStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

// EventRepository defines event repository interface. Attendees live in
// their own table but are managed through the event aggregate.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Event, error)
	GetWithoutAttendees(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter EventFilter, params *pagination.Params) ([]*models.Event, int64, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]*models.Event, error)
	ListByMember(ctx context.Context, memberID string) ([]*models.Event, error)

	AddAttendee(ctx context.Context, attendee *models.EventAttendee) error
	GetAttendee(ctx context.Context, eventID, memberID string) (*models.EventAttendee, error)
	UpdateAttendee(ctx context.Context, attendee *models.EventAttendee) error
	RemoveAttendee(ctx context.Context, eventID, memberID string) (int64, error)
	ListAttendees(ctx context.Context, eventID string) ([]*models.EventAttendee, error)
	CountAttendees(ctx context.Context, eventID string) (int64, error)
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	MemberID    string
	EventID     string
	PaymentType domain.PaymentType
	Status      domain.PaymentStatus
	DateFrom    *time.Time
	DateTo      *time.Time
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter PaymentFilter, params *pagination.Params) ([]*models.Payment, int64, error)
	ListByMember(ctx context.Context, memberID string) ([]*models.Payment, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Payment, error)
}

// NotificationFilter narrows notification listings
type NotificationFilter struct {
	Type     domain.NotificationType
	Priority domain.NotificationPriority
	Status   domain.NotificationStatus
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	List(ctx context.Context, filter NotificationFilter, params *pagination.Params) ([]*models.Notification, int64, error)
	ListForMember(ctx context.Context, memberID string, unreadOnly bool, params *pagination.Params) ([]*models.Notification, int64, error)
	MarkAsRead(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}
