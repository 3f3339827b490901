package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/response"
)

// PaymentHandler handles payment batch HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func paymentError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFound(c, "Payment not found")
	case errors.Is(err, service.ErrNotPaymentOwner):
		response.Forbidden(c, "You may only access your own payments")
	case errors.Is(err, service.ErrSessionNotFound):
		response.BadRequest(c, "A selected session does not exist")
	case errors.Is(err, service.ErrNoSessionsSelected):
		response.BadRequest(c, "Select at least one session")
	case errors.Is(err, service.ErrSessionNotApproved):
		response.Error(c, http.StatusConflict, "SESSION_NOT_APPROVED", "Only approved sessions can be paid")
	case errors.Is(err, service.ErrMixedProfessors):
		response.BadRequest(c, "All sessions must belong to the named professor")
	case errors.Is(err, service.ErrPaymentNotPending):
		response.Error(c, http.StatusConflict, "PAYMENT_NOT_PENDING", "Payment is already completed")
	default:
		logger.Get().Error(operation+" failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

// Create handles POST /api/v1/payments (admin)
func (h *PaymentHandler) Create(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		paymentError(c, err, "create payment")
		return
	}

	response.Created(c, dto.NewPaymentResponse(payment))
}

// List handles GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var query dto.PaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), principal, &query)
	if err != nil {
		paymentError(c, err, "list payments")
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Success: true,
		Data:    dto.NewPaymentListResponse(payments),
		Meta:    dto.ListMeta{Page: query.Page, PageSize: query.PageSize, Total: total},
	})
}

// Get handles GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	payment, err := h.paymentService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		paymentError(c, err, "get payment")
		return
	}

	response.Success(c, dto.NewPaymentResponse(payment))
}

// MarkPaid handles POST /api/v1/payments/:id/complete (admin)
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		paymentError(c, err, "complete payment")
		return
	}

	response.Success(c, dto.NewPaymentResponse(payment))
}
