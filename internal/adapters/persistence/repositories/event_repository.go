package repositories

import (
	"context"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var eventSortFields = map[string]string{
	"eventDate": "event_date",
	"title":     "title",
	"status":    "status",
	"createdAt": "created_at",
}

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func orderedAttendees(db *gorm.DB) *gorm.DB {
	return db.Order("registration_date ASC")
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

// GetByID gets an active event with its attendees in registration order
func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Attendees", orderedAttendees).
		Preload("Attendees.Member").
		Where("id = ? AND is_active = ?", id, true).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByIDForUpdate gets an active event and locks its row until the
// surrounding transaction ends. Dialects without row locks ignore the clause.
func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetWithoutAttendees gets an active event row only
func (r *eventRepository) GetWithoutAttendees(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update saves the event columns, leaving attendees untouched
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error
}

// SoftDelete marks an event inactive
func (r *eventRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Update("is_active", false).Error
}

// List lists active events with filters and pagination
func (r *eventRepository) List(ctx context.Context, filter EventFilter, params *pagination.Params) ([]*models.Event, int64, error) {
	var events []*models.Event
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Event{}).Where("is_active = ?", true)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("event_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("event_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?", p, p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Attendees", orderedAttendees).
		Order(params.OrderClause(eventSortFields, "event_date")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Upcoming lists the next Upcoming events on or after from
func (r *eventRepository) Upcoming(ctx context.Context, from time.Time, limit int) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Preload("Attendees", orderedAttendees).
		Where("is_active = ? AND status = ? AND event_date >= ?", true, domain.EventUpcoming, from).
		Order("event_date ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListByMember lists active events a member is registered for, each with
// only that member's attendee row
func (r *eventRepository) ListByMember(ctx context.Context, memberID string) ([]*models.Event, error) {
	var events []*models.Event
	registered := r.db.Model(&models.EventAttendee{}).Select("event_id").Where("member_id = ?", memberID)
	err := r.db.WithContext(ctx).
		Preload("Attendees", "member_id = ?", memberID).
		Where("is_active = ?", true).
		Where("id IN (?)", registered).
		Order("event_date DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AddAttendee inserts a registration. The unique (event_id, member_id)
// index rejects duplicates with gorm.ErrDuplicatedKey.
func (r *eventRepository) AddAttendee(ctx context.Context, attendee *models.EventAttendee) error {
	return r.db.WithContext(ctx).Omit("Member").Create(attendee).Error
}

// GetAttendee gets one registration
func (r *eventRepository) GetAttendee(ctx context.Context, eventID, memberID string) (*models.EventAttendee, error) {
	var attendee models.EventAttendee
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND member_id = ?", eventID, memberID).
		First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// UpdateAttendee saves a registration
func (r *eventRepository) UpdateAttendee(ctx context.Context, attendee *models.EventAttendee) error {
	return r.db.WithContext(ctx).Omit("Member").Save(attendee).Error
}

// RemoveAttendee deletes a registration and returns the affected row count
func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, memberID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND member_id = ?", eventID, memberID).
		Delete(&models.EventAttendee{})
	return result.RowsAffected, result.Error
}

// ListAttendees lists registrations of an event in registration order
func (r *eventRepository) ListAttendees(ctx context.Context, eventID string) ([]*models.EventAttendee, error) {
	var attendees []*models.EventAttendee
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("event_id = ?", eventID).
		Order("registration_date ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, err
	}
	return attendees, nil
}

// CountAttendees counts registrations of an event
func (r *eventRepository) CountAttendees(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
