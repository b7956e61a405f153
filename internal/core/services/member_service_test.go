package services

import (
	"testing"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember_Defaults(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	user := f.user(domain.RoleMember)
	joined := date(2024, time.March, 10)

	member, err := f.members.CreateMember(f.ctx, &CreateMemberInput{
		UserID:   user.ID,
		Phone:    " 0812345678 ",
		ZoneID:   zone.ID,
		JoinDate: &joined,
	})
	require.NoError(t, err)

	assert.Equal(t, user.Name, member.Name)
	assert.Equal(t, "0812345678", member.Phone)
	assert.Equal(t, domain.MembershipBasic, member.MembershipType)
	assert.Equal(t, domain.MemberActive, member.Status)
	assert.Regexp(t, `^MEM[0-9A-Z]{12}$`, member.MemberID)
	assert.Equal(t, "2025-03-10", member.RenewalDate.UTC().Format(time.DateOnly))
	assert.NotEmpty(t, member.QRCode)
}

func TestCreateMember_Rejections(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")

	t.Run("admin user", func(t *testing.T) {
		_, err := f.members.CreateMember(f.ctx, &CreateMemberInput{
			UserID: f.user(domain.RoleAdmin).ID,
			Phone:  "0812345678",
			ZoneID: zone.ID,
		})
		assert.ErrorIs(t, err, domain.ErrUserNotMemberRole)
	})

	t.Run("second profile", func(t *testing.T) {
		user := f.user(domain.RoleMember)
		input := &CreateMemberInput{UserID: user.ID, Phone: "0812345678", ZoneID: zone.ID}

		_, err := f.members.CreateMember(f.ctx, input)
		require.NoError(t, err)

		_, err = f.members.CreateMember(f.ctx, input)
		assert.ErrorIs(t, err, domain.ErrMemberProfileExists)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := f.members.CreateMember(f.ctx, &CreateMemberInput{
			UserID: f.user(domain.RoleMember).ID,
			Phone:  "0812345678",
			ZoneID: "507f1f77bcf86cd799439011",
		})
		assert.ErrorIs(t, err, domain.ErrZoneNotFound)
	})

	t.Run("inactive zone", func(t *testing.T) {
		closed := f.zone("Closed")
		require.NoError(t, f.zones.DeleteZone(f.ctx, closed.ID))

		_, err := f.members.CreateMember(f.ctx, &CreateMemberInput{
			UserID: f.user(domain.RoleMember).ID,
			Phone:  "0812345678",
			ZoneID: closed.ID,
		})
		assert.ErrorIs(t, err, domain.ErrZoneInactive)
	})
}

func TestCreateMember_UniqueIdentifiers(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		member := f.member(zone)
		assert.False(t, seen[member.MemberID], "duplicate member id %s", member.MemberID)
		seen[member.MemberID] = true
	}
}

func TestRenewMembership_AddsCalendarMonthsAndRecordsPayment(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	member := f.member(zone)
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, member.ID, map[string]interface{}{
		"renewal_date": date(2024, time.January, 15),
		"status":       domain.MemberExpired,
	}))
	admin := f.user(domain.RoleAdmin)

	result, err := f.members.RenewMembership(f.ctx, member.ID, admin.ID, &RenewMembershipInput{
		RenewalPeriod: 3,
		PaymentAmount: 1500,
		PaymentMethod: string(domain.MethodCash),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", result.PreviousRenewalDate.Format(time.DateOnly))
	assert.Equal(t, "2024-04-15", result.NewRenewalDate.Format(time.DateOnly))
	assert.Equal(t, domain.PaymentMembershipFee, result.Payment.PaymentType)
	assert.Equal(t, domain.PaymentCompleted, result.Payment.Status)
	assert.Equal(t, 1500.0, result.Payment.Amount)
	assert.Equal(t, admin.ID, result.Payment.ProcessedBy)
	assert.Regexp(t, `^PAY[0-9A-Z]{12}$`, result.Payment.PaymentID)
	assert.Equal(t, domain.MemberActive, result.Member.Status)
	assert.Equal(t, "2024-04-15", result.Member.RenewalDate.UTC().Format(time.DateOnly))
	require.NotNil(t, result.Member.Zone)
	assert.Equal(t, "North", result.Member.Zone.Name)

	stored, err := f.members.GetMemberByID(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-15", stored.RenewalDate.UTC().Format(time.DateOnly))
	assert.Equal(t, domain.MemberActive, stored.Status)

	payments, err := f.payments.GetMemberPayments(f.ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, result.Payment.PaymentID, payments[0].PaymentID)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.MembershipRenewals))
}

func TestRenewMembership_DefaultPeriodClampsMonthEnd(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, member.ID, map[string]interface{}{
		"renewal_date": date(2024, time.February, 29),
	}))

	result, err := f.members.RenewMembership(f.ctx, member.ID, "", &RenewMembershipInput{
		PaymentMethod: string(domain.MethodCard),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", result.NewRenewalDate.Format(time.DateOnly))
	assert.Equal(t, "Membership renewal for 12 months", result.Payment.Description)
}

func TestRenewMembership_SuccessiveRenewalsAccumulate(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, member.ID, map[string]interface{}{
		"renewal_date": date(2024, time.January, 31),
	}))

	input := &RenewMembershipInput{RenewalPeriod: 1, PaymentAmount: 100, PaymentMethod: string(domain.MethodCash)}
	first, err := f.members.RenewMembership(f.ctx, member.ID, "", input)
	require.NoError(t, err)
	second, err := f.members.RenewMembership(f.ctx, member.ID, "", input)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", first.NewRenewalDate.Format(time.DateOnly))
	assert.Equal(t, "2024-02-29", second.PreviousRenewalDate.Format(time.DateOnly))
	assert.Equal(t, "2024-03-29", second.NewRenewalDate.Format(time.DateOnly))
	assert.NotEqual(t, first.Payment.PaymentID, second.Payment.PaymentID)

	payments, err := f.payments.GetMemberPayments(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestRenewMembership_UnknownMemberLeavesNoPayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.members.RenewMembership(f.ctx, "507f1f77bcf86cd799439011", "", &RenewMembershipInput{
		PaymentMethod: string(domain.MethodCash),
	})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExtendMembership(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	past := time.Now().UTC().AddDate(0, -1, 0)
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, member.ID, map[string]interface{}{
		"renewal_date": past,
		"status":       domain.MemberExpired,
	}))

	_, err := f.members.ExtendMembership(f.ctx, member.ID, "", &ExtendMembershipInput{
		NewRenewalDate: past.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, domain.ErrRenewalDateNotAfter)

	next := time.Now().UTC().AddDate(0, 6, 0)
	updated, err := f.members.ExtendMembership(f.ctx, member.ID, "", &ExtendMembershipInput{
		NewRenewalDate: next,
		Reason:         "Goodwill",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberActive, updated.Status)
	assert.Equal(t, next.Format(time.DateOnly), updated.RenewalDate.UTC().Format(time.DateOnly))

	var payments int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments)
}

func TestDisableMember_SoftDeletes(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	member := f.member(zone)

	require.NoError(t, f.members.DisableMember(f.ctx, member.ID))
	require.NoError(t, f.members.DisableMember(f.ctx, member.ID))

	_, err := f.members.GetMemberByID(f.ctx, member.ID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	var stored models.Member
	require.NoError(t, f.db.First(&stored, "id = ?", member.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, domain.MemberInactive, stored.Status)

	page, err := f.members.GetAllMembers(f.ctx, &MemberListInput{}, &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// A disabled member no longer blocks deleting their zone
	assert.NoError(t, f.zones.DeleteZone(f.ctx, zone.ID))
}

func TestUpdateExpiredMembers(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	overdue := f.member(zone)
	current := f.member(zone)
	suspended := f.member(zone)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, overdue.ID, map[string]interface{}{"renewal_date": yesterday}))
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, suspended.ID, map[string]interface{}{
		"renewal_date": yesterday,
		"status":       domain.MemberSuspended,
	}))

	count, err := f.members.UpdateExpiredMembers(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := f.members.GetMemberByID(f.ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberExpired, got.Status)

	got, err = f.members.GetMemberByID(f.ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberActive, got.Status)

	got, err = f.members.GetMemberByID(f.ctx, suspended.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberExpired, got.Status)

	count, err = f.members.UpdateExpiredMembers(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.MembersExpired))
}

func TestGetExpiringSoon(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	soon := f.member(zone)
	f.member(zone)

	require.NoError(t, f.store.Members.UpdateFields(f.ctx, soon.ID, map[string]interface{}{
		"renewal_date": time.Now().UTC().AddDate(0, 0, 10),
	}))

	members, err := f.members.GetExpiringSoon(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, soon.ID, members[0].ID)

	_, err = f.members.GetExpiringSoon(f.ctx, 400)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestGetAllMembers_Pagination(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	for i := 0; i < 25; i++ {
		f.member(zone)
	}

	params := &pagination.Params{Page: 3, Limit: 10, SortOrder: "desc"}
	page, err := f.members.GetAllMembers(f.ctx, &MemberListInput{}, params)
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(25), page.Meta.TotalCount)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasNext)
	assert.True(t, page.Meta.HasPrev)
}

func TestSearchMembers(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	member := f.member(zone)
	f.member(zone)

	found, err := f.members.SearchMembers(f.ctx, member.MemberID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, member.ID, found[0].ID)

	_, err = f.members.SearchMembers(f.ctx, "  ")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestGetMemberQRCode_RegeneratesWhenMissing(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	require.NoError(t, f.store.Members.UpdateFields(f.ctx, member.ID, map[string]interface{}{"qr_code": ""}))

	qr, err := f.members.GetMemberQRCode(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.MemberID, qr.MemberID)
	assert.Contains(t, qr.QRCode, "data:image/png;base64,")

	stored, err := f.members.GetMemberByID(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, qr.QRCode, stored.QRCode)
}

func TestGetMemberStats(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	f.member(zone)
	premium := f.member(zone)
	_, err := f.members.UpdateMember(f.ctx, premium.ID, &UpdateMemberInput{MembershipType: strPtr("Premium")})
	require.NoError(t, err)

	stats, err := f.members.GetMemberStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Len(t, stats.ByMembershipType, 2)
}
