package handlers

import (
	"memberhub/internal/core/domain"
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/pagination"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
	memberService       *services.MemberService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, memberService *services.MemberService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		memberService:       memberService,
	}
}

// CreateNotification creates a notification
// @Summary Create notification
// @Description An empty targetMembers list broadcasts to every member
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateNotificationInput true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notifications [post]
func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateNotificationInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	notification, err := h.notificationService.CreateNotification(c.UserContext(), userID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Notification created successfully", notification)
}

// SendToAllMembers broadcasts a notification
// @Summary Broadcast notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BroadcastInput true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notifications/send-all [post]
func (h *NotificationHandler) SendToAllMembers(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.BroadcastInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	notification, err := h.notificationService.SendToAllMembers(c.UserContext(), userID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Notification sent to all members", notification)
}

// SendToMembers sends a notification to selected members
// @Summary Send notification to members
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SendToMembersInput true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notifications/send-members [post]
func (h *NotificationHandler) SendToMembers(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SendToMembersInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	notification, err := h.notificationService.SendToMembers(c.UserContext(), userID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Notification sent to selected members", notification)
}

// GetAllNotifications lists notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param type query string false "Notification type"
// @Param priority query string false "Priority"
// @Param status query string false "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) GetAllNotifications(c *fiber.Ctx) error {
	var input services.NotificationListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.notificationService.GetAllNotifications(c.UserContext(), &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Notifications retrieved successfully", page.Items, page.Meta)
}

// GetNotification returns one notification
// @Summary Get notification by ID
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	notification, err := h.notificationService.GetNotificationByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Notification retrieved successfully", notification)
}

// MarkAsRead flags a notification read. Members can only mark
// notifications visible to them.
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	memberID := ""
	if currentRole(c) != domain.RoleAdmin {
		userID, ok := currentUserID(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		member, err := h.memberService.GetMemberByUserID(c.UserContext(), userID)
		if err != nil {
			return handleError(c, err)
		}
		memberID = member.ID
	}

	notification, err := h.notificationService.MarkAsRead(c.UserContext(), c.Params("id"), memberID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Notification marked as read", notification)
}

// DeleteNotification soft deletes a notification
// @Summary Delete notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	if err := h.notificationService.DeleteNotification(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Notification deleted successfully", nil)
}
