package repositories

import (
	"context"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var paymentSortFields = map[string]string{
	"paymentDate": "payment_date",
	"amount":      "amount",
	"createdAt":   "created_at",
}

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Payment{}).Where("payments.is_active = ?", true)
}

// Create creates a new payment. The unique payment_id index rejects a
// colliding identifier with gorm.ErrDuplicatedKey.
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error
}

// GetByID gets an active payment with its member and event
func (r *paymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.active(ctx).
		Preload("Member").
		Preload("Event").
		Where("payments.id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateFields updates the given columns of a payment
func (r *paymentRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(fields).Error
}

// SoftDelete marks a payment inactive
func (r *paymentRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("is_active", false).Error
}

// List lists active payments with filters and pagination
func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter, params *pagination.Params) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.active(ctx)
	if filter.MemberID != "" {
		query = query.Where("payments.member_id = ?", filter.MemberID)
	}
	if filter.EventID != "" {
		query = query.Where("payments.event_id = ?", filter.EventID)
	}
	if filter.PaymentType != "" {
		query = query.Where("payments.payment_type = ?", filter.PaymentType)
	}
	if filter.Status != "" {
		query = query.Where("payments.status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("payments.payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payments.payment_date <= ?", *filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Member").
		Order(params.OrderClause(paymentSortFields, "payment_date")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// ListByMember lists active payments of a member, newest first
func (r *paymentRepository) ListByMember(ctx context.Context, memberID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.active(ctx).
		Preload("Event").
		Where("member_id = ?", memberID).
		Order("payment_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListByEvent lists active payments linked to an event, newest first
func (r *paymentRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.active(ctx).
		Preload("Member").
		Where("event_id = ?", eventID).
		Order("payment_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
