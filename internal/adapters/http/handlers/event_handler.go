package handlers

import (
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/pagination"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEvent creates an event
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEventInput true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateEventInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), userID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Event created successfully", event)
}

// GetAllEvents lists events
// @Summary List events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param sortBy query string false "eventDate, title or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "Event status"
// @Param startDate query string false "From date (yyyy-mm-dd, inclusive)"
// @Param endDate query string false "To date (yyyy-mm-dd, inclusive)"
// @Param search query string false "Title, description or location contains"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events [get]
func (h *EventHandler) GetAllEvents(c *fiber.Ctx) error {
	var input services.EventListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.eventService.GetAllEvents(c.UserContext(), &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Events retrieved successfully", page.Items, page.Meta)
}

// GetUpcomingEvents lists the next upcoming events
// @Summary Upcoming events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max results (max 50)" default(5)
// @Success 200 {object} response.Response
// @Router /events/upcoming [get]
func (h *EventHandler) GetUpcomingEvents(c *fiber.Ctx) error {
	events, err := h.eventService.GetUpcomingEvents(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Upcoming events retrieved successfully", events)
}

// GetEvent returns an event with its attendees
// @Summary Get event by ID
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.eventService.GetEventByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Event retrieved successfully", event)
}

// UpdateEvent partially updates an event
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body services.UpdateEventInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var input services.UpdateEventInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	event, err := h.eventService.UpdateEvent(c.UserContext(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Event updated successfully", event)
}

// DeleteEvent soft deletes an event
// @Summary Delete event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.eventService.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Event deleted successfully", nil)
}

// RegisterMember registers a member for an event
// @Summary Register member for event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body services.RegisterForEventInput true "Member"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/register [post]
func (h *EventHandler) RegisterMember(c *fiber.Ctx) error {
	var input services.RegisterForEventInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	attendee, err := h.eventService.RegisterMemberForEvent(c.UserContext(), c.Params("id"), input.MemberID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Member registered for event successfully", attendee)
}

// UnregisterMember removes a registration
// @Summary Unregister member from event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/register/{memberId} [delete]
func (h *EventHandler) UnregisterMember(c *fiber.Ctx) error {
	if err := h.eventService.UnregisterMemberFromEvent(c.UserContext(), c.Params("id"), c.Params("memberId")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member unregistered from event successfully", nil)
}

// RecordAttendance updates an attendee's attendance status
// @Summary Record attendance
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body services.RecordAttendanceInput true "Attendance"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/attendance [patch]
func (h *EventHandler) RecordAttendance(c *fiber.Ctx) error {
	var input services.RecordAttendanceInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	attendee, err := h.eventService.RecordAttendance(c.UserContext(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Attendance recorded successfully", attendee)
}

// GetEventAttendees lists attendees with a summary
// @Summary Event attendees
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/attendees [get]
func (h *EventHandler) GetEventAttendees(c *fiber.Ctx) error {
	attendees, err := h.eventService.GetEventAttendees(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Attendees retrieved successfully", attendees)
}
