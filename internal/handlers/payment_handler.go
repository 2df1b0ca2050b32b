package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Get a paginated list of payments visible to the current user
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param unit_id query int false "Filter by unit"
// @Param status query string false "Filter by status"
// @Param month query string false "Filter by month label"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := &repository.PaymentQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if unitID, err := strconv.ParseUint(c.Query("unit_id"), 10, 32); err == nil {
		query.UnitID = uint(unitID)
	}
	if propertyID, err := strconv.ParseUint(c.Query("property_id"), 10, 32); err == nil {
		query.PropertyID = uint(propertyID)
	}
	query.Status = c.Query("status")
	if month := c.Query("month"); month != "" {
		query.Filters["month"] = month
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), currentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Payment
// @Description Get a payment by ID
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), currentActor(c), paramUint(c, "payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

type ConfirmPaymentRequest struct {
	Method   string  `json:"method" binding:"omitempty,oneof=card bank cash"`
	IntentID *string `json:"intent_id"`
}

// @Summary Confirm Payment
// @Description Mark a pending payment as succeeded
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body ConfirmPaymentRequest false "Payment Details"
// @Success 200 {object} models.PaymentResponse
// @Failure 403,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmPaymentRequest
	c.ShouldBindJSON(&req)

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), currentActor(c),
		paramUint(c, "payment_id"), req.Method, req.IntentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "Payment confirmed"})
}

type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary Fail Payment
// @Description Mark a pending payment as failed with a reason
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body FailPaymentRequest true "Failure Reason"
// @Success 200 {object} models.PaymentResponse
// @Failure 400,403,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	var req FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failure reason is required"})
		return
	}

	payment, err := h.paymentService.FailPayment(c.Request.Context(), currentActor(c),
		paramUint(c, "payment_id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "Payment marked as failed"})
}

// @Summary Retry Payment
// @Description Re-open a failed payment so it can be paid again
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 403,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/retry [post]
func (h *PaymentHandler) Retry(c *gin.Context) {
	payment, err := h.paymentService.RetryPayment(c.Request.Context(), currentActor(c), paramUint(c, "payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "Payment re-opened"})
}
