package handlers

import (
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles dashboard and report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDashboard returns the admin dashboard
// @Summary Admin dashboard
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.reportService.GetDashboard(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetMembershipReport returns membership statistics
// @Summary Membership report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param zone query string false "Zone ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/members [get]
func (h *ReportHandler) GetMembershipReport(c *fiber.Ctx) error {
	var input services.MembershipReportInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	report, err := h.reportService.GetMembershipReport(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Membership report retrieved successfully", report)
}

// GetPaymentReport returns payment totals by type, method and status
// @Summary Payment report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "From date (yyyy-mm-dd, inclusive)"
// @Param endDate query string false "To date (yyyy-mm-dd, inclusive)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/payments [get]
func (h *ReportHandler) GetPaymentReport(c *fiber.Ctx) error {
	var input services.DateRangeInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	report, err := h.reportService.GetPaymentReport(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment report retrieved successfully", report)
}

// GetEventReport returns event and attendance statistics
// @Summary Event report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "From date (yyyy-mm-dd, inclusive)"
// @Param endDate query string false "To date (yyyy-mm-dd, inclusive)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/events [get]
func (h *ReportHandler) GetEventReport(c *fiber.Ctx) error {
	var input services.DateRangeInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	report, err := h.reportService.GetEventReport(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Event report retrieved successfully", report)
}
