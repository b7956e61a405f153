package handlers

import (
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/pagination"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints, including the /members/me views
type MemberHandler struct {
	memberService       *services.MemberService
	paymentService      *services.PaymentService
	eventService        *services.EventService
	notificationService *services.NotificationService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(
	memberService *services.MemberService,
	paymentService *services.PaymentService,
	eventService *services.EventService,
	notificationService *services.NotificationService,
) *MemberHandler {
	return &MemberHandler{
		memberService:       memberService,
		paymentService:      paymentService,
		eventService:        eventService,
		notificationService: notificationService,
	}
}

// CreateMember creates a member profile for a user
// @Summary Create member
// @Description Create a member profile for an active user with the Member role
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	member, err := h.memberService.CreateMember(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Member created successfully", member)
}

// GetAllMembers lists members
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param sortBy query string false "name, memberId, joinDate, renewalDate or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param zone query string false "Zone ID"
// @Param status query string false "Member status"
// @Param membershipType query string false "Membership type"
// @Param search query string false "Name, member ID or phone contains"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) GetAllMembers(c *fiber.Ctx) error {
	var input services.MemberListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.memberService.GetAllMembers(c.UserContext(), &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Members retrieved successfully", page.Items, page.Meta)
}

// GetMember returns one member
// @Summary Get member by ID
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	member, err := h.memberService.GetMemberByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// UpdateMember partially updates a member
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.UpdateMemberInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	var input services.UpdateMemberInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	member, err := h.memberService.UpdateMember(c.UserContext(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member updated successfully", member)
}

// DisableMember soft deletes a member
// @Summary Disable member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) DisableMember(c *fiber.Ctx) error {
	if err := h.memberService.DisableMember(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member disabled successfully", nil)
}

// RenewMembership records a paid renewal
// @Summary Renew membership
// @Description Extend the renewal date by whole months and record a completed membership fee
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.RenewMembershipInput true "Renewal"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/renew [post]
func (h *MemberHandler) RenewMembership(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RenewMembershipInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	result, err := h.memberService.RenewMembership(c.UserContext(), c.Params("id"), adminID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Membership renewed successfully", result)
}

// ExtendMembership overrides the renewal date
// @Summary Extend membership
// @Description Move the renewal date forward without a payment
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.ExtendMembershipInput true "New renewal date"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/extend [put]
func (h *MemberHandler) ExtendMembership(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ExtendMembershipInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	member, err := h.memberService.ExtendMembership(c.UserContext(), c.Params("id"), adminID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Membership extended successfully", member)
}

// GetMemberQRCode returns a member's QR code
// @Summary Get member QR code
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/qr-code [get]
func (h *MemberHandler) GetMemberQRCode(c *fiber.Ctx) error {
	qr, err := h.memberService.GetMemberQRCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "QR code retrieved successfully", qr)
}

// SearchMembers finds members by name, member ID or phone
// @Summary Search members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) SearchMembers(c *fiber.Ctx) error {
	term := c.Query("q")
	if err := validator.Var(term, "q", "required,max=100"); err != nil {
		return handleError(c, err)
	}

	members, err := h.memberService.SearchMembers(c.UserContext(), term)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Members retrieved successfully", members)
}

// GetExpiringSoon lists active members whose renewal date is near
// @Summary Members expiring soon
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (max 365)" default(30)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members/expiring-soon [get]
func (h *MemberHandler) GetExpiringSoon(c *fiber.Ctx) error {
	members, err := h.memberService.GetExpiringSoon(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Expiring members retrieved successfully", members)
}

// GetMemberStats returns member counts
// @Summary Member statistics
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /members/stats [get]
func (h *MemberHandler) GetMemberStats(c *fiber.Ctx) error {
	stats, err := h.memberService.GetMemberStats(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member statistics retrieved successfully", stats)
}

// UpdateExpiredMembers runs the expiry sweep on demand
// @Summary Run expiry sweep
// @Description Mark every overdue member as Expired
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /members/update-expired [post]
func (h *MemberHandler) UpdateExpiredMembers(c *fiber.Ctx) error {
	count, err := h.memberService.UpdateExpiredMembers(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Expired memberships updated", fiber.Map{
		"updatedCount": count,
	})
}

// ============================================================
// Self-service
// ============================================================

// GetMyProfile returns the caller's member profile
// @Summary My member profile
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/me [get]
func (h *MemberHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.memberService.GetMemberByUserID(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Profile retrieved successfully", member)
}

// GetMyQRCode returns the caller's QR code
// @Summary My QR code
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/me/qr-code [get]
func (h *MemberHandler) GetMyQRCode(c *fiber.Ctx) error {
	memberID, err := h.me(c)
	if err != nil {
		return handleError(c, err)
	}

	qr, err := h.memberService.GetMemberQRCode(c.UserContext(), memberID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "QR code retrieved successfully", qr)
}

// GetMyPayments returns the caller's payments
// @Summary My payments
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/me/payments [get]
func (h *MemberHandler) GetMyPayments(c *fiber.Ctx) error {
	memberID, err := h.me(c)
	if err != nil {
		return handleError(c, err)
	}

	payments, err := h.paymentService.GetMemberPayments(c.UserContext(), memberID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", payments)
}

// GetMyEvents returns the events the caller is registered for
// @Summary My events
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/me/events [get]
func (h *MemberHandler) GetMyEvents(c *fiber.Ctx) error {
	memberID, err := h.me(c)
	if err != nil {
		return handleError(c, err)
	}

	events, err := h.eventService.GetMemberEvents(c.UserContext(), memberID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Events retrieved successfully", events)
}

// GetMyNotifications returns notifications visible to the caller
// @Summary My notifications
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/me/notifications [get]
func (h *MemberHandler) GetMyNotifications(c *fiber.Ctx) error {
	memberID, err := h.me(c)
	if err != nil {
		return handleError(c, err)
	}

	var input services.MemberNotificationListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.notificationService.GetMemberNotifications(c.UserContext(), memberID, &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Notifications retrieved successfully", page.Items, page.Meta)
}

// me resolves the caller's member id
func (h *MemberHandler) me(c *fiber.Ctx) (string, error) {
	userID, ok := currentUserID(c)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	member, err := h.memberService.GetMemberByUserID(c.UserContext(), userID)
	if err != nil {
		return "", err
	}
	return member.ID, nil
}
