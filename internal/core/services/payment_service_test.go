package services

import (
	"testing"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	admin := f.user(domain.RoleAdmin)

	payment, err := f.payments.CreatePayment(f.ctx, admin.ID, &CreatePaymentInput{
		MemberID:      member.ID,
		Amount:        75.5,
		PaymentType:   string(domain.PaymentLateFee),
		PaymentMethod: string(domain.MethodBankTransfer),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, admin.ID, payment.ProcessedBy)
	assert.Regexp(t, `^PAY[0-9A-Z]{12}$`, payment.PaymentID)
	assert.False(t, payment.PaymentDate.IsZero())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PaymentsCreated.WithLabelValues("Late Fee")))

	_, err = f.payments.CreatePayment(f.ctx, admin.ID, &CreatePaymentInput{
		MemberID:      "507f1f77bcf86cd799439011",
		PaymentType:   string(domain.PaymentOther),
		PaymentMethod: string(domain.MethodCash),
	})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	missing := "507f1f77bcf86cd799439011"
	_, err = f.payments.CreatePayment(f.ctx, admin.ID, &CreatePaymentInput{
		MemberID:      member.ID,
		PaymentType:   string(domain.PaymentEventRegistration),
		PaymentMethod: string(domain.MethodCash),
		EventID:       &missing,
	})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCreatePayment_SettlesEventRegistration(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	event := f.event(nil, 200)
	_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
	require.NoError(t, err)

	payment, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
		MemberID:      member.ID,
		Amount:        200,
		PaymentType:   string(domain.PaymentEventRegistration),
		PaymentMethod: string(domain.MethodCash),
		EventID:       &event.ID,
	})
	require.NoError(t, err)

	attendee, err := f.store.Events.GetAttendee(f.ctx, event.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendeePaymentPending, attendee.PaymentStatus)

	_, err = f.payments.UpdatePayment(f.ctx, payment.ID, &UpdatePaymentInput{Status: strPtr("Completed")})
	require.NoError(t, err)

	attendee, err = f.store.Events.GetAttendee(f.ctx, event.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendeePaymentPaid, attendee.PaymentStatus)
}

func TestUpdatePayment_OnlyMutableFields(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	payment, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
		MemberID:      member.ID,
		Amount:        10,
		PaymentType:   string(domain.PaymentOther),
		PaymentMethod: string(domain.MethodCash),
	})
	require.NoError(t, err)

	updated, err := f.payments.UpdatePayment(f.ctx, payment.ID, &UpdatePaymentInput{
		TransactionID: strPtr("TX-1"),
		Description:   strPtr("Corrected"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TX-1", updated.TransactionID)
	assert.Equal(t, "Corrected", updated.Description)
	assert.Equal(t, 10.0, updated.Amount)
	assert.Equal(t, payment.PaymentID, updated.PaymentID)
}

func TestGetEventPayments_SumsCompletedOnly(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	event := f.event(nil, 100)

	for _, status := range []domain.PaymentStatus{domain.PaymentCompleted, domain.PaymentCompleted, domain.PaymentPending, domain.PaymentRefunded} {
		_, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
			MemberID:      f.member(zone).ID,
			Amount:        100,
			PaymentType:   string(domain.PaymentEventRegistration),
			PaymentMethod: string(domain.MethodCash),
			Status:        string(status),
			EventID:       &event.ID,
		})
		require.NoError(t, err)
	}

	result, err := f.payments.GetEventPayments(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, result.Payments, 4)
	assert.Equal(t, EventPaymentSummary{
		TotalAmount:       200,
		TotalPayments:     4,
		CompletedPayments: 2,
		PendingPayments:   1,
	}, result.Summary)
}

func TestDeletePayment(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	payment, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
		MemberID:      member.ID,
		Amount:        10,
		PaymentType:   string(domain.PaymentOther),
		PaymentMethod: string(domain.MethodCash),
	})
	require.NoError(t, err)

	require.NoError(t, f.payments.DeletePayment(f.ctx, payment.ID))

	_, err = f.payments.GetPaymentByID(f.ctx, payment.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	page, err := f.payments.GetAllPayments(f.ctx, &PaymentListInput{}, &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetAllPayments_Filters(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	alice := f.member(zone)
	bob := f.member(zone)

	for _, m := range []string{alice.ID, alice.ID, bob.ID} {
		_, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
			MemberID:      m,
			Amount:        10,
			PaymentType:   string(domain.PaymentOther),
			PaymentMethod: string(domain.MethodCash),
		})
		require.NoError(t, err)
	}

	params := &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"}
	page, err := f.payments.GetAllPayments(f.ctx, &PaymentListInput{MemberID: alice.ID}, params)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Meta.TotalCount)
}

func TestUploadReceipt_LinksURL(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	payment, err := f.payments.CreatePayment(f.ctx, "", &CreatePaymentInput{
		MemberID:      member.ID,
		Amount:        10,
		PaymentType:   string(domain.PaymentOther),
		PaymentMethod: string(domain.MethodCash),
	})
	require.NoError(t, err)

	updated, err := f.payments.UploadReceipt(f.ctx, payment.ID, "/uploads/receipts/2024/01/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/receipts/2024/01/a.png", updated.ReceiptFile)

	_, err = f.payments.UploadReceipt(f.ctx, "507f1f77bcf86cd799439011", "x")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}
