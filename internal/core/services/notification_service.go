package services

import (
	"context"
	"strings"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/dateutil"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/pagination"
)

// NotificationService stores admin messages and resolves which members
// can see them
type NotificationService struct {
	store *repositories.Store
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *repositories.Store) *NotificationService {
	return &NotificationService{store: store}
}

// CreateNotificationInput represents create notification input. An empty
// TargetMembers list broadcasts to every member.
type CreateNotificationInput struct {
	Title         string   `json:"title" validate:"required,min=2,max=200"`
	Message       string   `json:"message" validate:"required,max=5000"`
	Type          string   `json:"type" validate:"omitempty,oneof=General Event Payment Membership Urgent"`
	Priority      string   `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status        string   `json:"status" validate:"omitempty,oneof=Draft Scheduled Sent"`
	TargetMembers []string `json:"targetMembers" validate:"omitempty,max=1000,dive,objectid"`
}

// SendToMembersInput requires at least one target
type SendToMembersInput struct {
	Title         string   `json:"title" validate:"required,min=2,max=200"`
	Message       string   `json:"message" validate:"required,max=5000"`
	Type          string   `json:"type" validate:"omitempty,oneof=General Event Payment Membership Urgent"`
	Priority      string   `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	TargetMembers []string `json:"targetMembers" validate:"required,min=1,max=1000,dive,objectid"`
}

// BroadcastInput represents a message to every member
type BroadcastInput struct {
	Title    string `json:"title" validate:"required,min=2,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	Type     string `json:"type" validate:"omitempty,oneof=General Event Payment Membership Urgent"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

// NotificationListInput represents admin listing filters
type NotificationListInput struct {
	Type     string `query:"type" validate:"omitempty,oneof=General Event Payment Membership Urgent"`
	Priority string `query:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status   string `query:"status" validate:"omitempty,oneof=Draft Scheduled Sent Failed"`
}

// MemberNotificationListInput represents a member's own listing filters
type MemberNotificationListInput struct {
	UnreadOnly bool `query:"unreadOnly"`
}

// CreateNotification validates targets and stores the notification. Any
// unknown or inactive target rejects the whole request.
func (s *NotificationService) CreateNotification(ctx context.Context, sentBy string, input *CreateNotificationInput) (*models.Notification, error) {
	targets := dedupe(input.TargetMembers)
	if len(targets) > 0 {
		count, err := s.store.Members.CountActiveByIDs(ctx, targets)
		if err != nil {
			return nil, internal(err)
		}
		if count != int64(len(targets)) {
			return nil, domain.ErrTargetMembersInvalid
		}
	}

	notification := &models.Notification{
		Title:         strings.TrimSpace(input.Title),
		Message:       input.Message,
		Type:          domain.NotificationGeneral,
		Priority:      domain.PriorityMedium,
		Status:        domain.NotificationSent,
		SentBy:        sentBy,
		IsActive:      true,
		TargetMembers: nonNil(targets),
	}
	if input.Type != "" {
		notification.Type = domain.NotificationType(input.Type)
	}
	if input.Priority != "" {
		notification.Priority = domain.NotificationPriority(input.Priority)
	}
	if input.Status != "" {
		notification.Status = domain.NotificationStatus(input.Status)
	}
	if notification.Status == domain.NotificationSent {
		now := dateutil.Now()
		notification.SentAt = &now
	}
	for _, memberID := range targets {
		notification.Targets = append(notification.Targets, models.NotificationTarget{MemberID: memberID})
	}

	if err := s.store.Notifications.Create(ctx, notification); err != nil {
		return nil, internal(err)
	}

	logger.Info("Notification created",
		"notification_id", notification.ID,
		"status", notification.Status,
		"targets", len(targets),
	)
	return notification, nil
}

// SendToAllMembers broadcasts a notification
func (s *NotificationService) SendToAllMembers(ctx context.Context, sentBy string, input *BroadcastInput) (*models.Notification, error) {
	return s.CreateNotification(ctx, sentBy, &CreateNotificationInput{
		Title:    input.Title,
		Message:  input.Message,
		Type:     input.Type,
		Priority: input.Priority,
		Status:   string(domain.NotificationSent),
	})
}

// SendToMembers sends a notification to the listed members only
func (s *NotificationService) SendToMembers(ctx context.Context, sentBy string, input *SendToMembersInput) (*models.Notification, error) {
	return s.CreateNotification(ctx, sentBy, &CreateNotificationInput{
		Title:         input.Title,
		Message:       input.Message,
		Type:          input.Type,
		Priority:      input.Priority,
		Status:        string(domain.NotificationSent),
		TargetMembers: input.TargetMembers,
	})
}

// GetAllNotifications lists notifications for admins
func (s *NotificationService) GetAllNotifications(ctx context.Context, input *NotificationListInput, params *pagination.Params) (*pagination.Page[*models.Notification], error) {
	filter := repositories.NotificationFilter{
		Type:     domain.NotificationType(input.Type),
		Priority: domain.NotificationPriority(input.Priority),
		Status:   domain.NotificationStatus(input.Status),
	}

	notifications, total, err := s.store.Notifications.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(notifications, params, total, "Notifications"), nil
}

// GetNotificationByID gets an active notification
func (s *NotificationService) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.store.Notifications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotificationNotFound)
	}
	return notification, nil
}

// GetMemberNotifications lists Sent notifications that are broadcast or
// explicitly target the member
func (s *NotificationService) GetMemberNotifications(ctx context.Context, memberID string, input *MemberNotificationListInput, params *pagination.Params) (*pagination.Page[*models.Notification], error) {
	notifications, total, err := s.store.Notifications.ListForMember(ctx, memberID, input.UnreadOnly, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(notifications, params, total, "Notifications"), nil
}

// MarkAsRead flags a notification read. When memberID is set the
// notification must be visible to that member.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, memberID string) (*models.Notification, error) {
	notification, err := s.store.Notifications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotificationNotFound)
	}

	if memberID != "" && !visibleTo(notification, memberID) {
		return nil, domain.ErrNotificationNotFound
	}

	if !notification.IsRead {
		if err := s.store.Notifications.MarkAsRead(ctx, id); err != nil {
			return nil, internal(err)
		}
		notification.IsRead = true
	}
	return notification, nil
}

// DeleteNotification soft deletes a notification
func (s *NotificationService) DeleteNotification(ctx context.Context, id string) error {
	if _, err := s.store.Notifications.GetByID(ctx, id); err != nil {
		return notFoundAs(err, domain.ErrNotificationNotFound)
	}
	if err := s.store.Notifications.SoftDelete(ctx, id); err != nil {
		return internal(err)
	}
	return nil
}

func visibleTo(n *models.Notification, memberID string) bool {
	if n.Status != domain.NotificationSent {
		return false
	}
	if n.IsBroadcast() {
		return true
	}
	for _, target := range n.TargetMembers {
		if target == memberID {
			return true
		}
	}
	return false
}

// dedupe drops repeated ids keeping first-seen order
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
