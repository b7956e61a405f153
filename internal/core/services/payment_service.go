package services

import (
	"context"
	"errors"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/dateutil"
	"memberhub/internal/pkg/idgen"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

// PaymentService records and queries payments
type PaymentService struct {
	store   *repositories.Store
	metrics *metrics.Registry
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *repositories.Store, m *metrics.Registry) *PaymentService {
	return &PaymentService{store: store, metrics: m}
}

// CreatePaymentInput represents create payment input
type CreatePaymentInput struct {
	MemberID      string     `json:"memberId" validate:"required,objectid"`
	Amount        float64    `json:"amount" validate:"gte=0"`
	PaymentType   string     `json:"paymentType" validate:"required,oneof='Membership Fee' 'Event Registration' 'Late Fee' Other"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=Cash Card 'Bank Transfer' 'Mobile Money' Online Other"`
	Status        string     `json:"status" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
	TransactionID string     `json:"transactionId" validate:"omitempty,max=100"`
	Description   string     `json:"description" validate:"omitempty,max=1000"`
	EventID       *string    `json:"eventId" validate:"omitempty,objectid"`
	PaymentDate   *time.Time `json:"paymentDate"`
}

// UpdatePaymentInput represents the mutable fields of a payment
type UpdatePaymentInput struct {
	Status        *string `json:"status" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
	TransactionID *string `json:"transactionId" validate:"omitempty,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
}

// PaymentListInput represents payment listing filters
type PaymentListInput struct {
	MemberID    string `query:"member" validate:"omitempty,objectid"`
	EventID     string `query:"event" validate:"omitempty,objectid"`
	PaymentType string `query:"paymentType" validate:"omitempty,oneof='Membership Fee' 'Event Registration' 'Late Fee' Other"`
	Status      string `query:"status" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
	StartDate   string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// EventPaymentSummary aggregates the payments of one event
type EventPaymentSummary struct {
	TotalAmount       float64 `json:"totalAmount"`
	TotalPayments     int     `json:"totalPayments"`
	CompletedPayments int     `json:"completedPayments"`
	PendingPayments   int     `json:"pendingPayments"`
}

// EventPayments is returned by GetEventPayments
type EventPayments struct {
	Payments []*models.Payment   `json:"payments"`
	Summary  EventPaymentSummary `json:"summary"`
}

// CreatePayment records a payment for an active member and, when given, an
// active event
func (s *PaymentService) CreatePayment(ctx context.Context, processedBy string, input *CreatePaymentInput) (*models.Payment, error) {
	if _, err := s.store.Members.GetByID(ctx, input.MemberID); err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}

	var eventID *string
	if input.EventID != nil && *input.EventID != "" {
		if _, err := s.store.Events.GetWithoutAttendees(ctx, *input.EventID); err != nil {
			return nil, notFoundAs(err, domain.ErrEventNotFound)
		}
		eventID = input.EventID
	}

	status := domain.PaymentPending
	if input.Status != "" {
		status = domain.PaymentStatus(input.Status)
	}
	paymentDate := dateutil.Now()
	if input.PaymentDate != nil {
		paymentDate = input.PaymentDate.UTC()
	}

	payment := &models.Payment{
		MemberID:      input.MemberID,
		Amount:        input.Amount,
		PaymentType:   domain.PaymentType(input.PaymentType),
		PaymentMethod: domain.PaymentMethod(input.PaymentMethod),
		Status:        status,
		TransactionID: input.TransactionID,
		Description:   input.Description,
		EventID:       eventID,
		PaymentDate:   paymentDate,
		ProcessedBy:   processedBy,
		IsActive:      true,
	}

	err := createWithGeneratedID(ctx, s.store, idgen.PaymentPrefix,
		func(code string) { payment.PaymentID = code },
		func(tx *repositories.Store) error { return tx.Payments.Create(ctx, payment) },
	)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewConflictError("Could not allocate a unique payment ID, please retry")
		}
		return nil, internal(err)
	}

	if err := s.settleEventRegistration(ctx, payment); err != nil {
		logger.Warn("Failed to mark event registration paid", "payment_id", payment.ID, "error", err)
	}

	s.metrics.PaymentsCreated.WithLabelValues(string(payment.PaymentType)).Inc()
	logger.Info("Payment created", "payment_id", payment.PaymentID, "member_id", payment.MemberID, "amount", payment.Amount)
	return payment, nil
}

// GetAllPayments lists active payments
func (s *PaymentService) GetAllPayments(ctx context.Context, input *PaymentListInput, params *pagination.Params) (*pagination.Page[*models.Payment], error) {
	from, to := parseDateRange(input.StartDate, input.EndDate)
	filter := repositories.PaymentFilter{
		MemberID:    input.MemberID,
		EventID:     input.EventID,
		PaymentType: domain.PaymentType(input.PaymentType),
		Status:      domain.PaymentStatus(input.Status),
		DateFrom:    from,
		DateTo:      to,
	}

	payments, total, err := s.store.Payments.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(payments, params, total, "Payments"), nil
}

// GetPaymentByID gets an active payment
func (s *PaymentService) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.store.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound)
	}
	return payment, nil
}

// GetMemberPayments lists the payments of a member
func (s *PaymentService) GetMemberPayments(ctx context.Context, memberID string) ([]*models.Payment, error) {
	if _, err := s.store.Members.GetByID(ctx, memberID); err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}

	payments, err := s.store.Payments.ListByMember(ctx, memberID)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(payments), nil
}

// UpdatePayment updates status, transaction id or description only
func (s *PaymentService) UpdatePayment(ctx context.Context, id string, input *UpdatePaymentInput) (*models.Payment, error) {
	payment, err := s.store.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound)
	}

	fields := map[string]interface{}{}
	if input.Status != nil {
		fields["status"] = domain.PaymentStatus(*input.Status)
	}
	if input.TransactionID != nil {
		fields["transaction_id"] = *input.TransactionID
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if len(fields) > 0 {
		if err := s.store.Payments.UpdateFields(ctx, id, fields); err != nil {
			return nil, internal(err)
		}
	}

	updated, err := s.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != nil && payment.Status != updated.Status {
		if err := s.settleEventRegistration(ctx, updated); err != nil {
			logger.Warn("Failed to mark event registration paid", "payment_id", id, "error", err)
		}
	}
	return updated, nil
}

// DeletePayment soft deletes a payment
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	if _, err := s.store.Payments.GetByID(ctx, id); err != nil {
		return notFoundAs(err, domain.ErrPaymentNotFound)
	}
	if err := s.store.Payments.SoftDelete(ctx, id); err != nil {
		return internal(err)
	}

	logger.Info("Payment deleted", "payment_id", id)
	return nil
}

// GetEventPayments lists the payments of an event with totals. TotalAmount
// sums Completed payments only.
func (s *PaymentService) GetEventPayments(ctx context.Context, eventID string) (*EventPayments, error) {
	if _, err := s.store.Events.GetWithoutAttendees(ctx, eventID); err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}

	payments, err := s.store.Payments.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, internal(err)
	}

	summary := EventPaymentSummary{TotalPayments: len(payments)}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentCompleted:
			summary.CompletedPayments++
			summary.TotalAmount += p.Amount
		case domain.PaymentPending:
			summary.PendingPayments++
		}
	}

	return &EventPayments{Payments: nonNil(payments), Summary: summary}, nil
}

// UploadReceipt attaches a stored receipt URL to a payment
func (s *PaymentService) UploadReceipt(ctx context.Context, id, receiptURL string) (*models.Payment, error) {
	if _, err := s.store.Payments.GetByID(ctx, id); err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound)
	}

	if err := s.store.Payments.UpdateFields(ctx, id, map[string]interface{}{"receipt_file": receiptURL}); err != nil {
		return nil, internal(err)
	}
	return s.GetPaymentByID(ctx, id)
}

// settleEventRegistration marks the attendee row Paid once a Completed
// event registration payment exists for it
func (s *PaymentService) settleEventRegistration(ctx context.Context, payment *models.Payment) error {
	if payment.EventID == nil || payment.PaymentType != domain.PaymentEventRegistration || payment.Status != domain.PaymentCompleted {
		return nil
	}

	attendee, err := s.store.Events.GetAttendee(ctx, *payment.EventID, payment.MemberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if attendee.PaymentStatus == domain.AttendeePaymentPaid {
		return nil
	}

	attendee.PaymentStatus = domain.AttendeePaymentPaid
	return s.store.Events.UpdateAttendee(ctx, attendee)
}
