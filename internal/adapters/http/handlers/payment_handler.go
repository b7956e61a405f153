package handlers

import (
	"mime/multipart"

	"memberhub/internal/adapters/http/middleware"
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/pagination"
	"memberhub/internal/pkg/response"
	"memberhub/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	uploadService  *services.UploadService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, uploadService *services.UploadService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		uploadService:  uploadService,
	}
}

// CreatePayment records a payment
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePaymentInput true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreatePaymentInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	payment, err := h.paymentService.CreatePayment(c.UserContext(), userID, &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Payment created successfully", payment)
}

// GetAllPayments lists payments
// @Summary List payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param sortBy query string false "paymentDate, amount or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param member query string false "Member ID"
// @Param event query string false "Event ID"
// @Param paymentType query string false "Payment type"
// @Param status query string false "Payment status"
// @Param startDate query string false "From date (yyyy-mm-dd, inclusive)"
// @Param endDate query string false "To date (yyyy-mm-dd, inclusive)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) GetAllPayments(c *fiber.Ctx) error {
	var input services.PaymentListInput
	if err := validator.ParseQuery(c, &input); err != nil {
		return handleError(c, err)
	}

	params, err := pagination.GetParams(c)
	if err != nil {
		return handleError(c, err)
	}

	page, err := h.paymentService.GetAllPayments(c.UserContext(), &input, params)
	if err != nil {
		return handleError(c, err)
	}

	return response.Paginated(c, "Payments retrieved successfully", page.Items, page.Meta)
}

// GetPayment returns one payment
// @Summary Get payment by ID
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	payment, err := h.paymentService.GetPaymentByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment retrieved successfully", payment)
}

// UpdatePayment updates status, transaction ID or description
// @Summary Update payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param body body services.UpdatePaymentInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c *fiber.Ctx) error {
	var input services.UpdatePaymentInput
	if err := validator.ParseAndValidate(c, &input); err != nil {
		return handleError(c, err)
	}

	payment, err := h.paymentService.UpdatePayment(c.UserContext(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment updated successfully", payment)
}

// DeletePayment soft deletes a payment
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.paymentService.DeletePayment(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment deleted successfully", nil)
}

// GetMemberPayments lists a member's payments
// @Summary Payments of a member
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/member/{memberId} [get]
func (h *PaymentHandler) GetMemberPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.GetMemberPayments(c.UserContext(), c.Params("memberId"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", payments)
}

// GetEventPayments lists an event's payments with totals
// @Summary Payments of an event
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/event/{eventId} [get]
func (h *PaymentHandler) GetEventPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.GetEventPayments(c.UserContext(), c.Params("eventId"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Event payments retrieved successfully", payments)
}

// UploadReceipt stores a receipt image and links it to the payment
// @Summary Upload payment receipt
// @Description JPEG, PNG or WebP, size capped
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param receipt formData file true "Receipt image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c *fiber.Ctx) error {
	file, ok := c.Locals(middleware.LocalUploadFile).(*multipart.FileHeader)
	if !ok {
		return response.BadRequest(c, "Receipt file is required")
	}
	contentType, _ := c.Locals(middleware.LocalUploadContentType).(string)

	// Fail before writing anything for unknown payments
	if _, err := h.paymentService.GetPaymentByID(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}

	f, err := file.Open()
	if err != nil {
		return response.BadRequest(c, "Unable to read uploaded file")
	}
	defer f.Close()

	uploaded, err := h.uploadService.Upload(c.UserContext(), services.FolderReceipts, file.Filename, f, file.Size, contentType)
	if err != nil {
		return handleError(c, err)
	}

	payment, err := h.paymentService.UploadReceipt(c.UserContext(), c.Params("id"), uploaded.URL)
	if err != nil {
		if rmErr := h.uploadService.Remove(c.UserContext(), uploaded.Key); rmErr != nil {
			logger.Warn("Failed to remove orphaned receipt", "key", uploaded.Key, "error", rmErr)
		}
		return handleError(c, err)
	}

	return response.Success(c, "Receipt uploaded successfully", payment)
}
