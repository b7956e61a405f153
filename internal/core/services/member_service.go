package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/dateutil"
	"memberhub/internal/pkg/idgen"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"
	"memberhub/internal/pkg/pagination"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	defaultRenewalMonths = 12
	defaultExpiringDays  = 30
	maxExpiringDays      = 365
	maxSearchResults     = 20
)

// MemberService handles membership lifecycle and renewal accounting
type MemberService struct {
	store   *repositories.Store
	qr      *QRCodeService
	metrics *metrics.Registry
}

// NewMemberService creates a new member service
func NewMemberService(store *repositories.Store, qr *QRCodeService, m *metrics.Registry) *MemberService {
	return &MemberService{store: store, qr: qr, metrics: m}
}

// CreateMemberInput represents create member input
type CreateMemberInput struct {
	UserID         string     `json:"userId" validate:"required,objectid"`
	Name           string     `json:"name" validate:"omitempty,min=2,max=100"`
	Phone          string     `json:"phone" validate:"required,min=7,max=20"`
	Address        string     `json:"address" validate:"omitempty,max=500"`
	ZoneID         string     `json:"zoneId" validate:"required,objectid"`
	MembershipType string     `json:"membershipType" validate:"omitempty,oneof=Basic Premium VIP"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	JoinDate       *time.Time `json:"joinDate"`
	RenewalDate    *time.Time `json:"renewalDate"`
}

// UpdateMemberInput represents a partial member update
type UpdateMemberInput struct {
	Name           *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Phone          *string    `json:"phone" validate:"omitempty,min=7,max=20"`
	Address        *string    `json:"address" validate:"omitempty,max=500"`
	ZoneID         *string    `json:"zoneId" validate:"omitempty,objectid"`
	MembershipType *string    `json:"membershipType" validate:"omitempty,oneof=Basic Premium VIP"`
	Status         *string    `json:"status" validate:"omitempty,oneof=Active Suspended Expired"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
}

// MemberListInput represents member listing filters
type MemberListInput struct {
	ZoneID         string `query:"zone" validate:"omitempty,objectid"`
	Status         string `query:"status" validate:"omitempty,oneof=Active Inactive Suspended Expired"`
	MembershipType string `query:"membershipType" validate:"omitempty,oneof=Basic Premium VIP"`
	Search         string `query:"search" validate:"omitempty,max=100"`
}

// RenewMembershipInput represents a paid renewal
type RenewMembershipInput struct {
	RenewalPeriod int     `json:"renewalPeriod" validate:"omitempty,min=1,max=60"`
	PaymentAmount float64 `json:"paymentAmount" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=Cash Card 'Bank Transfer' 'Mobile Money' Online Other"`
	TransactionID string  `json:"transactionId" validate:"omitempty,max=100"`
}

// ExtendMembershipInput represents a renewal date override without payment
type ExtendMembershipInput struct {
	NewRenewalDate time.Time `json:"newRenewalDate" validate:"required"`
	Reason         string    `json:"reason" validate:"omitempty,max=500"`
}

// RenewalResult is returned by RenewMembership
type RenewalResult struct {
	Member              *models.Member  `json:"member"`
	Payment             *models.Payment `json:"payment"`
	PreviousRenewalDate time.Time       `json:"previousRenewalDate"`
	NewRenewalDate      time.Time       `json:"newRenewalDate"`
}

// MemberQRCode is returned by GetMemberQRCode
type MemberQRCode struct {
	ID       string `json:"id"`
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	QRCode   string `json:"qrCode"`
}

// MemberStats holds member counts
type MemberStats struct {
	Total            int64                     `json:"total"`
	ByStatus         []repositories.GroupCount `json:"byStatus"`
	ByMembershipType []repositories.GroupCount `json:"byMembershipType"`
}

// CreateMember creates the member profile of a Member-role user
func (s *MemberService) CreateMember(ctx context.Context, input *CreateMemberInput) (*models.Member, error) {
	user, err := s.store.Users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}
	if user.Role != domain.RoleMember {
		return nil, domain.ErrUserNotMemberRole
	}

	exists, err := s.store.Members.ExistsByUserID(ctx, user.ID)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, domain.ErrMemberProfileExists
	}

	if _, err := s.activeZone(ctx, input.ZoneID); err != nil {
		return nil, err
	}

	now := dateutil.Now()
	joinDate := now
	if input.JoinDate != nil {
		joinDate = input.JoinDate.UTC()
	}
	renewalDate := dateutil.AddMonths(joinDate, defaultRenewalMonths)
	if input.RenewalDate != nil {
		renewalDate = input.RenewalDate.UTC()
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = user.Name
	}

	membershipType := domain.MembershipBasic
	if input.MembershipType != "" {
		membershipType = domain.MembershipType(input.MembershipType)
	}

	member := &models.Member{
		UserID:         user.ID,
		Name:           name,
		Phone:          strings.TrimSpace(input.Phone),
		Address:        input.Address,
		ZoneID:         input.ZoneID,
		MembershipType: membershipType,
		Status:         domain.MemberActive,
		DateOfBirth:    utcPtr(input.DateOfBirth),
		JoinDate:       joinDate,
		RenewalDate:    renewalDate,
		IsActive:       true,
	}

	err = createWithGeneratedID(ctx, s.store, idgen.MemberPrefix,
		func(id string) { member.MemberID = id },
		func(tx *repositories.Store) error { return tx.Members.Create(ctx, member) },
	)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if exists, _ := s.store.Members.ExistsByUserID(ctx, user.ID); exists {
				return nil, domain.ErrMemberProfileExists
			}
			return nil, domain.NewConflictError("Could not allocate a unique member ID, please retry")
		}
		return nil, internal(err)
	}

	// A QR failure leaves the member without a cached code; it is
	// generated again on first request.
	if qr, err := s.qr.GenerateForMember(member); err != nil {
		logger.Warn("Failed to generate member QR code", "member_id", member.ID, "error", err)
	} else if err := s.store.Members.UpdateFields(ctx, member.ID, map[string]interface{}{"qr_code": qr}); err != nil {
		logger.Warn("Failed to store member QR code", "member_id", member.ID, "error", err)
	}

	logger.Info("Member created", "member_id", member.ID, "code", member.MemberID, "user_id", user.ID)
	return s.GetMemberByID(ctx, member.ID)
}

// GetAllMembers lists active members
func (s *MemberService) GetAllMembers(ctx context.Context, input *MemberListInput, params *pagination.Params) (*pagination.Page[*models.Member], error) {
	filter := repositories.MemberFilter{
		ZoneID:         input.ZoneID,
		Status:         domain.MemberStatus(input.Status),
		MembershipType: domain.MembershipType(input.MembershipType),
		Search:         input.Search,
	}

	members, total, err := s.store.Members.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(members, params, total, "Members"), nil
}

// GetMemberByID gets an active member
func (s *MemberService) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

// GetMemberByUserID gets the caller's own member profile
func (s *MemberService) GetMemberByUserID(ctx context.Context, userID string) (*models.Member, error) {
	member, err := s.store.Members.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, domain.NewNotFoundError("Member profile not found"))
	}
	return member, nil
}

// UpdateMember applies a partial update
func (s *MemberService) UpdateMember(ctx context.Context, id string, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.ZoneID != nil && *input.ZoneID != member.ZoneID {
		if _, err := s.activeZone(ctx, *input.ZoneID); err != nil {
			return nil, err
		}
		fields["zone_id"] = *input.ZoneID
	}
	if input.MembershipType != nil {
		fields["membership_type"] = domain.MembershipType(*input.MembershipType)
	}
	if input.Status != nil {
		fields["status"] = domain.MemberStatus(*input.Status)
	}
	if input.DateOfBirth != nil {
		fields["date_of_birth"] = input.DateOfBirth.UTC()
	}

	if len(fields) > 0 {
		if err := s.store.Members.UpdateFields(ctx, id, fields); err != nil {
			return nil, internal(err)
		}
	}

	return s.GetMemberByID(ctx, id)
}

// RenewMembership extends the renewal date by whole calendar months and
// records the Completed membership fee in one transaction
func (s *MemberService) RenewMembership(ctx context.Context, id, processedBy string, input *RenewMembershipInput) (*RenewalResult, error) {
	period := input.RenewalPeriod
	if period == 0 {
		period = defaultRenewalMonths
	}

	var result RenewalResult
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		member, err := tx.Members.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		previous := member.RenewalDate.UTC()
		next := dateutil.AddMonths(previous, period)

		payment := &models.Payment{
			MemberID:      member.ID,
			Amount:        input.PaymentAmount,
			PaymentType:   domain.PaymentMembershipFee,
			PaymentMethod: domain.PaymentMethod(input.PaymentMethod),
			Status:        domain.PaymentCompleted,
			TransactionID: input.TransactionID,
			Description:   renewalDescription(period),
			PaymentDate:   dateutil.Now(),
			ProcessedBy:   processedBy,
			IsActive:      true,
		}
		err = createWithGeneratedID(ctx, tx, idgen.PaymentPrefix,
			func(code string) { payment.PaymentID = code },
			func(inner *repositories.Store) error { return inner.Payments.Create(ctx, payment) },
		)
		if err != nil {
			return internal(err)
		}

		err = tx.Members.UpdateFields(ctx, member.ID, map[string]interface{}{
			"renewal_date": next,
			"status":       domain.MemberActive,
		})
		if err != nil {
			return internal(err)
		}

		renewed, err := tx.Members.GetByID(ctx, member.ID)
		if err != nil {
			return internal(err)
		}
		result = RenewalResult{
			Member:              renewed,
			Payment:             payment,
			PreviousRenewalDate: previous,
			NewRenewalDate:      next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.MembershipRenewals.Inc()
	s.metrics.PaymentsCreated.WithLabelValues(string(domain.PaymentMembershipFee)).Inc()
	logger.Info("Membership renewed",
		"member_id", id,
		"months", period,
		"previous", result.PreviousRenewalDate,
		"next", result.NewRenewalDate,
		"payment_id", result.Payment.PaymentID,
	)
	return &result, nil
}

// ExtendMembership overrides the renewal date without a payment. An Expired
// member whose new date lies in the future becomes Active.
func (s *MemberService) ExtendMembership(ctx context.Context, id, extendedBy string, input *ExtendMembershipInput) (*models.Member, error) {
	member, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}

	next := input.NewRenewalDate.UTC()
	if !next.After(member.RenewalDate) {
		return nil, domain.ErrRenewalDateNotAfter
	}

	fields := map[string]interface{}{"renewal_date": next}
	if member.Status == domain.MemberExpired && next.After(dateutil.Now()) {
		fields["status"] = domain.MemberActive
	}

	if err := s.store.Members.UpdateFields(ctx, id, fields); err != nil {
		return nil, internal(err)
	}

	logger.Info("Membership extended",
		"member_id", id,
		"previous", member.RenewalDate,
		"next", next,
		"reason", input.Reason,
		"by", extendedBy,
	)
	return s.GetMemberByID(ctx, id)
}

// DisableMember soft deletes a member. Disabling twice is a no-op.
func (s *MemberService) DisableMember(ctx context.Context, id string) error {
	member, err := s.store.Members.GetAnyByID(ctx, id)
	if err != nil {
		return notFoundAs(err, domain.ErrMemberNotFound)
	}
	if !member.IsActive {
		return nil
	}

	err = s.store.Members.UpdateFields(ctx, id, map[string]interface{}{
		"is_active": false,
		"status":    domain.MemberInactive,
	})
	if err != nil {
		return internal(err)
	}

	logger.Info("Member disabled", "member_id", id)
	return nil
}

// UpdateExpiredMembers moves every overdue member to Expired and returns
// how many changed
func (s *MemberService) UpdateExpiredMembers(ctx context.Context) (int64, error) {
	timer := prometheus.NewTimer(s.metrics.ExpirySweepDuration)
	defer timer.ObserveDuration()

	count, err := s.store.Members.ExpireOverdue(ctx, dateutil.Now())
	if err != nil {
		return 0, internal(err)
	}

	s.metrics.MembersExpired.Add(float64(count))
	if count > 0 {
		logger.Info("Expired memberships updated", "count", count)
	}
	return count, nil
}

// GetExpiringSoon lists Active members renewing within days (default 30)
func (s *MemberService) GetExpiringSoon(ctx context.Context, days int) ([]*models.Member, error) {
	if days == 0 {
		days = defaultExpiringDays
	}
	if days < 1 || days > maxExpiringDays {
		return nil, domain.NewValidationError("days must be between 1 and 365")
	}

	now := dateutil.Now()
	members, err := s.store.Members.ListExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(members), nil
}

// SearchMembers finds active members by name, member id or phone
func (s *MemberService) SearchMembers(ctx context.Context, term string) ([]*models.Member, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewValidationError("Search term is required")
	}

	members, err := s.store.Members.Search(ctx, term, maxSearchResults)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(members), nil
}

// GetMemberQRCode returns the cached QR code, generating it when missing
func (s *MemberService) GetMemberQRCode(ctx context.Context, id string) (*MemberQRCode, error) {
	member, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}

	if member.QRCode == "" {
		qr, err := s.qr.GenerateForMember(member)
		if err != nil {
			return nil, domain.NewInternalError("Failed to generate QR code", err)
		}
		if err := s.store.Members.UpdateFields(ctx, id, map[string]interface{}{"qr_code": qr}); err != nil {
			return nil, internal(err)
		}
		member.QRCode = qr
	}

	return &MemberQRCode{
		ID:       member.ID,
		MemberID: member.MemberID,
		Name:     member.Name,
		QRCode:   member.QRCode,
	}, nil
}

// GetMemberStats counts active members by status and membership type
func (s *MemberService) GetMemberStats(ctx context.Context) (*MemberStats, error) {
	byStatus, err := s.store.Members.CountGrouped(ctx, "status")
	if err != nil {
		return nil, internal(err)
	}
	byType, err := s.store.Members.CountGrouped(ctx, "membership_type")
	if err != nil {
		return nil, internal(err)
	}

	stats := &MemberStats{
		ByStatus:         nonNil(byStatus),
		ByMembershipType: nonNil(byType),
	}
	for _, row := range byStatus {
		stats.Total += row.Count
	}
	return stats, nil
}

func (s *MemberService) activeZone(ctx context.Context, zoneID string) (*models.Zone, error) {
	zone, err := s.store.Zones.GetAnyByID(ctx, zoneID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrZoneNotFound)
	}
	if !zone.IsActive {
		return nil, domain.ErrZoneInactive
	}
	return zone, nil
}

func renewalDescription(months int) string {
	if months == 1 {
		return "Membership renewal for 1 month"
	}
	return fmt.Sprintf("Membership renewal for %d months", months)
}
