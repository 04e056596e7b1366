package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venueworks/service-booking/internal/application"
	"github.com/venueworks/service-booking/internal/auth"
	"github.com/venueworks/service-booking/internal/middleware"
	"github.com/venueworks/service-booking/internal/response"
)

// VenueHandler handles HTTP requests for the venue catalog.
type VenueHandler struct {
	service *application.VenueService
}

// NewVenueHandler creates a new VenueHandler.
func NewVenueHandler(service *application.VenueService) *VenueHandler {
	return &VenueHandler{service: service}
}

// RegisterRoutes registers all venue routes on the given router group.
// Reading the catalog is open to any authenticated user; writes require
// the manager role.
func (h *VenueHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	managerRole := middleware.RequireRole(auth.RoleManager)

	venues := r.Group("/api/v1/venues")
	venues.Use(authMW)
	{
		venues.GET("", h.ListVenues)
		venues.GET("/:id", h.GetVenue)
		venues.POST("", managerRole, h.CreateVenue)
		venues.PUT("/:id", managerRole, h.UpdateVenue)
		venues.DELETE("/:id", managerRole, h.DeactivateVenue)
	}
}

// ListVenues handles GET /api/v1/venues.
func (h *VenueHandler) ListVenues(c *gin.Context) {
	venues, err := h.service.ListVenues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, venues)
}

// GetVenue handles GET /api/v1/venues/:id.
func (h *VenueHandler) GetVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	result, err := h.service.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateVenue handles POST /api/v1/venues.
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req application.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateVenue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateVenue handles PUT /api/v1/venues/:id.
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	var req application.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateVenue(c.Request.Context(), venueID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeactivateVenue handles DELETE /api/v1/venues/:id.
func (h *VenueHandler) DeactivateVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	if err := h.service.DeactivateVenue(c.Request.Context(), venueID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deactivated": true})
}
