package handlers

import (
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/pagination"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ZoneHandler handles zone endpoints
type ZoneHandler struct {
	zoneService *services.ZoneService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zoneService *services.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// CreateZone creates a zone
// @Summary Create zone
// @Tags Zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ZoneInput true "Zone data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /zones [post]
func (h *ZoneHandler) CreateZone(c *fiber.Ctx) error {
	var input services.ZoneInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	zone, err := h.zoneService.CreateZone(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Zone created successfully", zone)
}

// GetAllZones lists zones
// @Summary List zones
// @Tags Zones
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param sortBy query string false "name or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param search query string false "Name or description contains"
// @Success 200 {object} response.Response
// @Router /zones [get]
func (h *ZoneHandler) GetAllZones(c *fiber.Ctx) error {
	search := c.Query("search")
	if err := validator.Var(search, "search", "omitempty,max=100"); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.zoneService.GetAllZones(c.UserContext(), search, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Zones retrieved successfully", page.Items, page.Meta)
}

// SearchZones finds zones with their member counts
// @Summary Search zones
// @Tags Zones
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /zones/search [get]
func (h *ZoneHandler) SearchZones(c *fiber.Ctx) error {
	term := c.Query("q")
	if err := validator.Var(term, "q", "required,max=100"); err != nil {
		return handleError(c, err)
	}

	zones, err := h.zoneService.SearchZones(c.UserContext(), term)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Zones retrieved successfully", zones)
}

// GetZone returns a zone with its active member count
// @Summary Get zone by ID
// @Tags Zones
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /zones/{id} [get]
func (h *ZoneHandler) GetZone(c *fiber.Ctx) error {
	zone, err := h.zoneService.GetZoneByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Zone retrieved successfully", zone)
}

// UpdateZone partially updates a zone
// @Summary Update zone
// @Tags Zones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Param body body services.UpdateZoneInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /zones/{id} [put]
func (h *ZoneHandler) UpdateZone(c *fiber.Ctx) error {
	var input services.UpdateZoneInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	zone, err := h.zoneService.UpdateZone(c.UserContext(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Zone updated successfully", zone)
}

// DeleteZone soft deletes a zone without active members
// @Summary Delete zone
// @Tags Zones
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /zones/{id} [delete]
func (h *ZoneHandler) DeleteZone(c *fiber.Ctx) error {
	if err := h.zoneService.DeleteZone(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Zone deleted successfully", nil)
}

// GetZoneMembers lists a zone's members
// @Summary Zone members
// @Tags Zones
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Member status"
// @Param membershipType query string false "Membership type"
// @Param search query string false "Name, member ID or phone contains"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /zones/{id}/members [get]
func (h *ZoneHandler) GetZoneMembers(c *fiber.Ctx) error {
	var input services.MemberListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.zoneService.GetZoneMembers(c.UserContext(), c.Params("id"), &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Zone members retrieved successfully", page.Items, page.Meta)
}
