package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/services"
	"github.com/rvaldez/rentora-api/internal/storage"
)

type LeaseHandler struct {
	leaseService *services.LeaseService
	storage      *storage.LocalStorage
}

func NewLeaseHandler(leaseService *services.LeaseService, storage *storage.LocalStorage) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService, storage: storage}
}

type MoveInRequest struct {
	TenantID        uint               `json:"tenant_id"`
	LeaseStartDate  string             `json:"lease_start_date"`
	LeaseEndDate    string             `json:"lease_end_date"`
	MonthlyRent     float64            `json:"monthly_rent"`
	SecurityDeposit float64            `json:"security_deposit"`
	AdvancePayment  float64            `json:"advance_payment"`
	Terms           *models.LeaseTerms `json:"terms"`
	Notes           *string            `json:"notes"`
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be formatted YYYY-MM-DD", field)
	}
	return parsed, nil
}

// @Summary Move Tenant In
// @Description Create an active lease for an available unit, generate the agreement PDF and the monthly rent schedule
// @Tags MoveIn
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param unit_id path int true "Unit ID"
// @Param request body MoveInRequest true "Lease Data"
// @Success 201 {object} models.LeaseResponse
// @Failure 400,403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/{property_id}/{unit_id} [post]
func (h *LeaseHandler) MoveIn(c *gin.Context) {
	var req MoveInRequest
	if err := BindNestedOrFlat(c, "lease", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID is required"})
		return
	}
	startDate, err := parseDate(req.LeaseStartDate, "lease_start_date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endDate, err := parseDate(req.LeaseEndDate, "lease_end_date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &services.MoveInInput{
		TenantID:        req.TenantID,
		LeaseStartDate:  startDate,
		LeaseEndDate:    endDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		AdvancePayment:  req.AdvancePayment,
		Terms:           req.Terms,
		Notes:           req.Notes,
	}

	lease, err := h.leaseService.MoveIn(c.Request.Context(), currentActor(c),
		paramUint(c, "property_id"), paramUint(c, "unit_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lease": lease.ToResponse(), "message": "Tenant moved in successfully"})
}

type UpdateLeaseRequest struct {
	LeaseStartDate  *string            `json:"lease_start_date"`
	LeaseEndDate    *string            `json:"lease_end_date"`
	MonthlyRent     *float64           `json:"monthly_rent"`
	SecurityDeposit *float64           `json:"security_deposit"`
	Terms           *models.LeaseTerms `json:"terms"`
	Notes           *string            `json:"notes"`
}

// @Summary Update Lease
// @Description Edit an active lease. Rejected once any rent payment has succeeded.
// @Tags MoveIn
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param request body UpdateLeaseRequest true "Lease Data"
// @Success 200 {object} models.LeaseResponse
// @Failure 400,403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/leases/{lease_id} [put]
func (h *LeaseHandler) Update(c *gin.Context) {
	var req UpdateLeaseRequest
	if err := BindNestedOrFlat(c, "lease", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &services.UpdateLeaseInput{
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Terms:           req.Terms,
		Notes:           req.Notes,
	}
	if req.LeaseStartDate != nil {
		parsed, err := parseDate(*req.LeaseStartDate, "lease_start_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.LeaseStartDate = &parsed
	}
	if req.LeaseEndDate != nil {
		parsed, err := parseDate(*req.LeaseEndDate, "lease_end_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.LeaseEndDate = &parsed
	}

	lease, err := h.leaseService.UpdateLease(c.Request.Context(), currentActor(c), paramUint(c, "lease_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse(), "message": "Lease updated"})
}

type MoveOutRequest struct {
	MoveOutDate string  `json:"move_out_date"`
	Notes       *string `json:"notes"`
}

// @Summary Move Tenant Out
// @Description Terminate an active lease, free the unit and drop pending payments
// @Tags MoveIn
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param request body MoveOutRequest true "Move-out Data"
// @Success 200 {object} models.LeaseResponse
// @Failure 400,403,404,422 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/leases/{lease_id}/move-out [post]
func (h *LeaseHandler) MoveOut(c *gin.Context) {
	var req MoveOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	moveOutDate := time.Now()
	if req.MoveOutDate != "" {
		parsed, err := parseDate(req.MoveOutDate, "move_out_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		moveOutDate = parsed
	}

	input := &services.MoveOutInput{MoveOutDate: moveOutDate, Notes: req.Notes}
	lease, err := h.leaseService.MoveOut(c.Request.Context(), currentActor(c), paramUint(c, "lease_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse(), "message": "Tenant moved out successfully"})
}

// @Summary List Leases
// @Description Get a paginated list of leases visible to the current user
// @Tags MoveIn
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param unit_id query int false "Filter by unit"
// @Param property_id query int false "Filter by property"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /move-in/leases [get]
func (h *LeaseHandler) Index(c *gin.Context) {
	query := &repository.LeaseQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if unitID, err := strconv.ParseUint(c.Query("unit_id"), 10, 32); err == nil {
		query.UnitID = uint(unitID)
	}
	if propertyID, err := strconv.ParseUint(c.Query("property_id"), 10, 32); err == nil {
		query.PropertyID = uint(propertyID)
	}
	query.Status = c.Query("status")

	leases, total, err := h.leaseService.ListLeases(c.Request.Context(), currentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, leases[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leases":     responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Lease
// @Description Get a lease with its property, unit, tenant and documents
// @Tags MoveIn
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Success 200 {object} models.LeaseResponse
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/leases/{lease_id} [get]
func (h *LeaseHandler) Show(c *gin.Context) {
	lease, err := h.leaseService.GetLease(c.Request.Context(), currentActor(c), paramUint(c, "lease_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// @Summary Unit Lease History
// @Description Get every lease a unit has had, newest first
// @Tags MoveIn
// @Produce json
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/units/{unit_id}/lease-history [get]
func (h *LeaseHandler) History(c *gin.Context) {
	leases, err := h.leaseService.LeaseHistoryByUnit(c.Request.Context(), currentActor(c), paramUint(c, "unit_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, leases[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"leases": responses})
}

// @Summary Download Agreement
// @Description Download the generated lease agreement PDF
// @Tags MoveIn
// @Produce application/pdf
// @Param lease_id path int true "Lease ID"
// @Success 200 {file} binary
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/agreement/{lease_id} [get]
func (h *LeaseHandler) DownloadAgreement(c *gin.Context) {
	lease, err := h.leaseService.GetLease(c.Request.Context(), currentActor(c), paramUint(c, "lease_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if lease.AgreementPDFPath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agreement has not been generated"})
		return
	}

	filename := fmt.Sprintf("%s.pdf", lease.AgreementNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/pdf")
	c.File(*lease.AgreementPDFPath)
}

// @Summary Upload Lease Document
// @Description Store a document in one of the lease's fixed slots (signed_lease, id_proof, deposit_receipt, move_in_inspection)
// @Tags MoveIn
// @Accept multipart/form-data
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param kind formData string true "Document kind"
// @Param document formData file true "Document"
// @Success 200 {object} map[string]string
// @Failure 400,403,404 {object} map[string]string
// @Security BearerAuth
// @Router /move-in/leases/{lease_id}/documents [post]
func (h *LeaseHandler) UploadDocument(c *gin.Context) {
	kind := c.PostForm("kind")
	if !models.ValidDocumentKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document kind"})
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document file is required"})
		return
	}
	if fileHeader.Size > storage.MaxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}
	if !storage.IsAllowedDocumentType(fileHeader.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	path, err := h.storage.Upload(file, fileHeader, "lease_documents")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doc := &models.LeaseDocument{
		Kind:     kind,
		URL:      path,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Type:     fileHeader.Header.Get("Content-Type"),
	}
	if err := h.leaseService.AttachDocument(c.Request.Context(), currentActor(c), paramUint(c, "lease_id"), doc); err != nil {
		h.storage.Delete(path)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document uploaded", "path": path})
}
