package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices visible to the current user
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param period query string false "Filter by period (YYYY-MM)"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := &repository.InvoiceQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Period = c.Query("period")
	query.Status = c.Query("status")
	if propertyID, err := strconv.ParseUint(c.Query("property_id"), 10, 32); err == nil {
		query.PropertyID = uint(propertyID)
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), currentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, invoices[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":   responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), currentActor(c), paramUint(c, "invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type GenerateInvoicesRequest struct {
	Period string `json:"period" binding:"required"`
}

// @Summary Generate Invoices
// @Description Run invoice generation for a period (Admin). Idempotent: repeated runs skip already-invoiced units.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body GenerateInvoicesRequest true "Period (YYYY-MM)"
// @Success 200 {object} services.GenerationResult
// @Failure 400,403 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/generate [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Period is required"})
		return
	}

	result, err := h.invoiceService.GenerateForPeriod(c.Request.Context(), req.Period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "message": "Invoice generation complete"})
}
