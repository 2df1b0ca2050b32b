package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/services"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// @Summary List Properties
// @Description Get a paginated list of properties for the current user (or all for admin)
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param property_type query string false "Filter by property type"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /properties [get]
func (h *PropertyHandler) Index(c *gin.Context) {
	query := &repository.PropertyQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	if pt := c.Query("property_type"); pt != "" {
		query.Filters["property_type"] = pt
	}

	properties, total, err := h.propertyService.ListProperties(c.Request.Context(), currentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, properties[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Property
// @Description Get a property with its units
// @Tags Properties
// @Produce json
// @Param property_id path int true "Property ID"
// @Success 200 {object} models.PropertyResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id} [get]
func (h *PropertyHandler) Show(c *gin.Context) {
	property, err := h.propertyService.GetProperty(c.Request.Context(), currentActor(c), paramUint(c, "property_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property.ToResponse()})
}

// @Summary Create Property
// @Description Create a new property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body services.CreatePropertyInput true "Property Data"
// @Success 201 {object} models.PropertyResponse
// @Failure 400,403 {object} map[string]string
// @Security BearerAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var input services.CreatePropertyInput
	if err := BindNestedOrFlat(c, "property", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" || input.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and address are required"})
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), currentActor(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property.ToResponse(), "message": "Property created successfully"})
}

// @Summary Update Property
// @Description Update a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param request body services.UpdatePropertyInput true "Property Data"
// @Success 200 {object} models.PropertyResponse
// @Failure 400,403,404 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id} [patch]
func (h *PropertyHandler) Update(c *gin.Context) {
	var input services.UpdatePropertyInput
	if err := BindNestedOrFlat(c, "property", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), currentActor(c), paramUint(c, "property_id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property.ToResponse(), "message": "Property updated"})
}

// @Summary Delete Property
// @Description Delete a property. Fails while any unit is occupied.
// @Tags Properties
// @Produce json
// @Param property_id path int true "Property ID"
// @Success 200 {object} map[string]string
// @Failure 403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.propertyService.DeleteProperty(c.Request.Context(), currentActor(c), paramUint(c, "property_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// @Summary Upload Property Photo
// @Description Upload or replace the property photo
// @Tags Properties
// @Accept multipart/form-data
// @Produce json
// @Param property_id path int true "Property ID"
// @Param photo formData file true "Photo"
// @Success 200 {object} models.PropertyResponse
// @Failure 400,403,404 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id}/photo [post]
func (h *PropertyHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	property, err := h.propertyService.UploadPhoto(c.Request.Context(), currentActor(c), paramUint(c, "property_id"), file, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property.ToResponse(), "message": "Photo uploaded"})
}

// @Summary List Units
// @Description List a property's units
// @Tags Units
// @Produce json
// @Param property_id path int true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /properties/{property_id}/units [get]
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	units, err := h.propertyService.ListUnits(c.Request.Context(), currentActor(c), paramUint(c, "property_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.UnitResponse, 0, len(units))
	for i := range units {
		responses = append(responses, units[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"units": responses})
}

// @Summary Create Unit
// @Description Add a unit to a property
// @Tags Units
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param request body services.CreateUnitInput true "Unit Data"
// @Success 201 {object} models.UnitResponse
// @Failure 400,403,404 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id}/units [post]
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	var input services.CreateUnitInput
	if err := BindNestedOrFlat(c, "unit", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" || input.RentAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a positive rent amount are required"})
		return
	}

	unit, err := h.propertyService.CreateUnit(c.Request.Context(), currentActor(c), paramUint(c, "property_id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"unit": unit.ToResponse(), "message": "Unit created successfully"})
}

// @Summary Update Unit
// @Description Update a unit. Occupied status is owned by move-in/move-out.
// @Tags Units
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param unit_id path int true "Unit ID"
// @Param request body services.UpdateUnitInput true "Unit Data"
// @Success 200 {object} models.UnitResponse
// @Failure 400,403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id}/units/{unit_id} [patch]
func (h *PropertyHandler) UpdateUnit(c *gin.Context) {
	var input services.UpdateUnitInput
	if err := BindNestedOrFlat(c, "unit", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit, err := h.propertyService.UpdateUnit(c.Request.Context(), currentActor(c), paramUint(c, "unit_id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit.ToResponse(), "message": "Unit updated"})
}

// @Summary Delete Unit
// @Description Delete a unit. Fails while occupied or with lease history.
// @Tags Units
// @Produce json
// @Param property_id path int true "Property ID"
// @Param unit_id path int true "Unit ID"
// @Success 200 {object} map[string]string
// @Failure 403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id}/units/{unit_id} [delete]
func (h *PropertyHandler) DeleteUnit(c *gin.Context) {
	if err := h.propertyService.DeleteUnit(c.Request.Context(), currentActor(c), paramUint(c, "unit_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted"})
}
