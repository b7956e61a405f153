package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store groups every repository over one connection. Transaction hands the
// callback a Store bound to the open transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Zones         ZoneRepository
	Members       MemberRepository
	Events        EventRepository
	Payments      PaymentRepository
	Notifications NotificationRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Zones:         NewZoneRepository(db),
		Members:       NewMemberRepository(db),
		Events:        NewEventRepository(db),
		Payments:      NewPaymentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// DB returns the underlying connection for aggregate queries
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a database transaction. Returning an error
// from fn rolls back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
