package repositories

import (
	"context"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

var notificationSortFields = map[string]string{
	"sentAt":    "sent_at",
	"priority":  "priority",
	"createdAt": "created_at",
}

// visibleToMember matches broadcasts and notifications targeting the member
const visibleToMember = `(NOT EXISTS (SELECT 1 FROM notification_targets nt WHERE nt.notification_id = notifications.id)
	OR EXISTS (SELECT 1 FROM notification_targets nt WHERE nt.notification_id = notifications.id AND nt.member_id = ?))`

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("notifications.is_active = ?", true)
}

// Create creates a notification together with its target rows
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByID gets an active notification with its targets
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.active(ctx).
		Preload("Targets").
		Where("notifications.id = ?", id).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// List lists active notifications with filters and pagination
func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter, params *pagination.Params) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := r.active(ctx)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Targets").
		Order(params.OrderClause(notificationSortFields, "created_at")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// ListForMember lists Sent notifications visible to a member
func (r *notificationRepository) ListForMember(ctx context.Context, memberID string, unreadOnly bool, params *pagination.Params) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := r.active(ctx).
		Where("status = ?", domain.NotificationSent).
		Where(visibleToMember, memberID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Targets").
		Order(params.OrderClause(notificationSortFields, "sent_at")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkAsRead flags a notification as read
func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

// SoftDelete marks a notification inactive
func (r *notificationRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_active", false).Error
}
