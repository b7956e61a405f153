package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/dateutil"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

const (
	defaultUpcomingLimit = 5
	maxUpcomingLimit     = 50
)

// EventService manages events and their attendee lists
type EventService struct {
	store   *repositories.Store
	metrics *metrics.Registry
}

// NewEventService creates a new event service
func NewEventService(store *repositories.Store, m *metrics.Registry) *EventService {
	return &EventService{store: store, metrics: m}
}

// CreateEventInput represents create event input
type CreateEventInput struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	Description     string    `json:"description" validate:"omitempty,max=5000"`
	EventDate       time.Time `json:"eventDate" validate:"required"`
	Location        string    `json:"location" validate:"required,max=255"`
	MaxAttendees    *int      `json:"maxAttendees" validate:"omitempty,min=1"`
	RegistrationFee float64   `json:"registrationFee" validate:"gte=0"`
	Status          string    `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

// UpdateEventInput represents a partial event update
type UpdateEventInput struct {
	Title           *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=5000"`
	EventDate       *time.Time `json:"eventDate"`
	Location        *string    `json:"location" validate:"omitempty,max=255"`
	MaxAttendees    *int       `json:"maxAttendees" validate:"omitempty,min=1"`
	RegistrationFee *float64   `json:"registrationFee" validate:"omitempty,gte=0"`
	Status          *string    `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

// EventListInput represents event listing filters
type EventListInput struct {
	Status    string `query:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Search    string `query:"search" validate:"omitempty,max=100"`
}

// RegisterForEventInput represents an admin registering a member
type RegisterForEventInput struct {
	MemberID string `json:"memberId" validate:"required,objectid"`
}

// RecordAttendanceInput represents an attendance update
type RecordAttendanceInput struct {
	MemberID         string `json:"memberId" validate:"required,objectid"`
	AttendanceStatus string `json:"attendanceStatus" validate:"required,oneof=Registered Attended 'No Show'"`
	PaymentStatus    string `json:"paymentStatus" validate:"omitempty,oneof=Pending Paid Refunded"`
}

// AttendeeSummary counts attendees by attendance status
type AttendeeSummary struct {
	TotalRegistered int `json:"totalRegistered"`
	Attended        int `json:"attended"`
	NoShow          int `json:"noShow"`
	Pending         int `json:"pending"`
}

// EventAttendees is returned by GetEventAttendees
type EventAttendees struct {
	EventID   string                  `json:"eventId"`
	Title     string                  `json:"title"`
	Attendees []*models.EventAttendee `json:"attendees"`
	Summary   AttendeeSummary         `json:"summary"`
}

// CreateEvent creates an event
func (s *EventService) CreateEvent(ctx context.Context, createdBy string, input *CreateEventInput) (*models.Event, error) {
	status := domain.EventUpcoming
	if input.Status != "" {
		status = domain.EventStatus(input.Status)
	}

	event := &models.Event{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		EventDate:       input.EventDate.UTC(),
		Location:        strings.TrimSpace(input.Location),
		MaxAttendees:    input.MaxAttendees,
		RegistrationFee: input.RegistrationFee,
		Status:          status,
		CreatedBy:       createdBy,
		IsActive:        true,
	}
	if err := s.store.Events.Create(ctx, event); err != nil {
		return nil, internal(err)
	}

	logger.Info("Event created", "event_id", event.ID, "title", event.Title)
	event.Attendees = []models.EventAttendee{}
	return event, nil
}

// GetAllEvents lists active events
func (s *EventService) GetAllEvents(ctx context.Context, input *EventListInput, params *pagination.Params) (*pagination.Page[*models.Event], error) {
	from, to := parseDateRange(input.StartDate, input.EndDate)
	filter := repositories.EventFilter{
		Status:   domain.EventStatus(input.Status),
		DateFrom: from,
		DateTo:   to,
		Search:   input.Search,
	}

	events, total, err := s.store.Events.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(events, params, total, "Events"), nil
}

// GetEventByID gets an active event with attendees
func (s *EventService) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}
	return event, nil
}

// UpdateEvent applies a partial update. Capacity cannot drop below the
// current number of registrations.
func (s *EventService) UpdateEvent(ctx context.Context, id string, input *UpdateEventInput) (*models.Event, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		event, err := tx.Events.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrEventNotFound)
		}

		if input.MaxAttendees != nil {
			count, err := tx.Events.CountAttendees(ctx, id)
			if err != nil {
				return internal(err)
			}
			if int64(*input.MaxAttendees) < count {
				return domain.ErrCapacityBelowAttendees
			}
			event.MaxAttendees = input.MaxAttendees
		}
		if input.Title != nil {
			event.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			event.Description = *input.Description
		}
		if input.EventDate != nil {
			event.EventDate = input.EventDate.UTC()
		}
		if input.Location != nil {
			event.Location = strings.TrimSpace(*input.Location)
		}
		if input.RegistrationFee != nil {
			event.RegistrationFee = *input.RegistrationFee
		}
		if input.Status != nil {
			event.Status = domain.EventStatus(*input.Status)
		}

		return internal(tx.Events.Update(ctx, event))
	})
	if err != nil {
		return nil, err
	}
	return s.GetEventByID(ctx, id)
}

// DeleteEvent soft deletes an event
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.store.Events.GetWithoutAttendees(ctx, id); err != nil {
		return notFoundAs(err, domain.ErrEventNotFound)
	}
	if err := s.store.Events.SoftDelete(ctx, id); err != nil {
		return internal(err)
	}

	logger.Info("Event deleted", "event_id", id)
	return nil
}

// RegisterMemberForEvent adds a member to an Upcoming event. The event row
// is locked for the duration so concurrent registrations cannot overshoot
// the capacity.
func (s *EventService) RegisterMemberForEvent(ctx context.Context, eventID, memberID string) (*models.EventAttendee, error) {
	var attendee *models.EventAttendee
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		event, err := tx.Events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return notFoundAs(err, domain.ErrEventNotFound)
		}

		member, err := tx.Members.GetByID(ctx, memberID)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		if event.Status != domain.EventUpcoming {
			return domain.ErrEventNotOpen
		}

		if _, err := tx.Events.GetAttendee(ctx, eventID, memberID); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return internal(err)
		}

		count, err := tx.Events.CountAttendees(ctx, eventID)
		if err != nil {
			return internal(err)
		}
		if !event.HasCapacity(count) {
			return domain.ErrEventFull
		}

		paymentStatus := domain.AttendeePaymentPaid
		if event.RegistrationFee > 0 {
			paymentStatus = domain.AttendeePaymentPending
		}

		attendee = &models.EventAttendee{
			EventID:          eventID,
			MemberID:         memberID,
			RegistrationDate: dateutil.Now(),
			AttendanceStatus: domain.AttendanceRegistered,
			PaymentStatus:    paymentStatus,
		}
		if err := tx.Events.AddAttendee(ctx, attendee); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyRegistered
			}
			return internal(err)
		}
		attendee.Member = member
		return nil
	})
	if err != nil {
		s.metrics.EventRegistrations.WithLabelValues(registrationOutcome(err)).Inc()
		return nil, err
	}

	s.metrics.EventRegistrations.WithLabelValues("registered").Inc()
	logger.Info("Member registered for event", "event_id", eventID, "member_id", memberID)
	return attendee, nil
}

// UnregisterMemberFromEvent removes a registration while the event is
// still Upcoming
func (s *EventService) UnregisterMemberFromEvent(ctx context.Context, eventID, memberID string) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		event, err := tx.Events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return notFoundAs(err, domain.ErrEventNotFound)
		}
		if event.Status != domain.EventUpcoming {
			return domain.ErrEventNotOpen
		}

		removed, err := tx.Events.RemoveAttendee(ctx, eventID, memberID)
		if err != nil {
			return internal(err)
		}
		if removed == 0 {
			return domain.ErrAttendeeNotFound
		}

		logger.Info("Member unregistered from event", "event_id", eventID, "member_id", memberID)
		return nil
	})
}

// RecordAttendance updates the attendance (and optionally payment) status
// of a registered member
func (s *EventService) RecordAttendance(ctx context.Context, eventID string, input *RecordAttendanceInput) (*models.EventAttendee, error) {
	if _, err := s.store.Events.GetWithoutAttendees(ctx, eventID); err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}

	attendee, err := s.store.Events.GetAttendee(ctx, eventID, input.MemberID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAttendeeNotFound)
	}

	attendee.AttendanceStatus = domain.AttendanceStatus(input.AttendanceStatus)
	if input.PaymentStatus != "" {
		attendee.PaymentStatus = domain.AttendeePaymentStatus(input.PaymentStatus)
	}

	if err := s.store.Events.UpdateAttendee(ctx, attendee); err != nil {
		return nil, internal(err)
	}
	return attendee, nil
}

// GetEventAttendees lists attendees in registration order with a summary
func (s *EventService) GetEventAttendees(ctx context.Context, eventID string) (*EventAttendees, error) {
	event, err := s.store.Events.GetWithoutAttendees(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}

	attendees, err := s.store.Events.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, internal(err)
	}

	return &EventAttendees{
		EventID:   event.ID,
		Title:     event.Title,
		Attendees: nonNil(attendees),
		Summary:   summarizeAttendees(attendees),
	}, nil
}

// GetUpcomingEvents lists the next Upcoming events
func (s *EventService) GetUpcomingEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit < 1 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	events, err := s.store.Events.Upcoming(ctx, dateutil.Now(), limit)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(events), nil
}

// GetMemberEvents lists events a member is registered for
func (s *EventService) GetMemberEvents(ctx context.Context, memberID string) ([]*models.Event, error) {
	events, err := s.store.Events.ListByMember(ctx, memberID)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(events), nil
}

func summarizeAttendees(attendees []*models.EventAttendee) AttendeeSummary {
	summary := AttendeeSummary{TotalRegistered: len(attendees)}
	for _, a := range attendees {
		switch a.AttendanceStatus {
		case domain.AttendanceAttended:
			summary.Attended++
		case domain.AttendanceNoShow:
			summary.NoShow++
		case domain.AttendanceRegistered:
			summary.Pending++
		}
	}
	return summary
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, domain.ErrEventFull):
		return "full"
	case errors.Is(err, domain.ErrEventNotOpen):
		return "closed"
	default:
		return "error"
	}
}
