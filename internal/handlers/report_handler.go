package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rvaldez/rentora-api/internal/services"
)

type ReportHandler struct {
	exportService *services.ExportService
}

func NewReportHandler(exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

// @Summary Export Rent Roll
// @Description Download the rent roll as CSV or XLSX
// @Tags Reports
// @Produce application/octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/rent-roll [get]
func (h *ReportHandler) RentRoll(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	var data []byte
	var filename string
	var contentType string
	var err error

	switch format {
	case "xlsx":
		data, filename, err = h.exportService.ExportRentRollXLSX(c.Request.Context(), currentActor(c))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, filename, err = h.exportService.ExportRentRollCSV(c.Request.Context(), currentActor(c))
		contentType = "text/csv"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be csv or xlsx"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Tenant Statement
// @Description Download a tenant's payment history as a PDF statement
// @Tags Reports
// @Produce application/pdf
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {file} binary
// @Failure 403,404 {object} map[string]string
// @Security BearerAuth
// @Router /reports/statement/{tenant_id} [get]
func (h *ReportHandler) TenantStatement(c *gin.Context) {
	data, filename, err := h.exportService.ExportTenantStatementPDF(c.Request.Context(), currentActor(c), paramUint(c, "tenant_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
