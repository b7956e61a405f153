package services

import (
	"context"
	"testing"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/config"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/metrics"
	"memberhub/internal/pkg/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture wires every service over one in-memory database
type fixture struct {
	t       *testing.T
	ctx     context.Context
	db      *gorm.DB
	store   *repositories.Store
	metrics *metrics.Registry
	cfg     *config.Config

	auth          *AuthService
	users         *UserService
	members       *MemberService
	zones         *ZoneService
	events        *EventService
	payments      *PaymentService
	notifications *NotificationService
	reports       *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	store := repositories.NewStore(db)
	m := metrics.NewRegistry()
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	return &fixture{
		t:             t,
		ctx:           context.Background(),
		db:            db,
		store:         store,
		metrics:       m,
		cfg:           cfg,
		auth:          NewAuthService(store.Users, store.RefreshTokens, cfg),
		users:         NewUserService(store.Users, store.RefreshTokens),
		members:       NewMemberService(store, NewQRCodeService(), m),
		zones:         NewZoneService(store),
		events:        NewEventService(store, m),
		payments:      NewPaymentService(store, m),
		notifications: NewNotificationService(store),
		reports:       NewReportService(db),
	}
}

func (f *fixture) user(role domain.Role) *models.User {
	f.t.Helper()

	user := &models.User{
		Name:     "User " + uuid.NewString()[:8],
		Email:    uuid.NewString() + "@example.com",
		Password: "secret123",
		Role:     role,
		IsActive: true,
	}
	require.NoError(f.t, f.store.Users.Create(f.ctx, user))
	return user
}

func (f *fixture) zone(name string) *models.Zone {
	f.t.Helper()

	zone, err := f.zones.CreateZone(f.ctx, &ZoneInput{Name: name})
	require.NoError(f.t, err)
	return zone
}

func (f *fixture) member(zone *models.Zone) *models.Member {
	f.t.Helper()

	member, err := f.members.CreateMember(f.ctx, &CreateMemberInput{
		UserID: f.user(domain.RoleMember).ID,
		Phone:  "0812345678",
		ZoneID: zone.ID,
	})
	require.NoError(f.t, err)
	return member
}

func (f *fixture) event(maxAttendees *int, fee float64) *models.Event {
	f.t.Helper()

	event, err := f.events.CreateEvent(f.ctx, f.user(domain.RoleAdmin).ID, &CreateEventInput{
		Title:           "Annual Meeting",
		EventDate:       time.Now().UTC().AddDate(0, 0, 14),
		Location:        "Main Hall",
		MaxAttendees:    maxAttendees,
		RegistrationFee: fee,
	})
	require.NoError(f.t, err)
	return event
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
