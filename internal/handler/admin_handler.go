package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venueworks/service-booking/internal/application"
	"github.com/venueworks/service-booking/internal/auth"
	"github.com/venueworks/service-booking/internal/middleware"
	"github.com/venueworks/service-booking/internal/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service       *application.BookingService
	statusService *application.StatusService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService, statusService *application.StatusService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service, statusService: statusService}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/status-counts", h.StatusCounts)
		admin.POST("/bookings/:id/archive", h.ArchiveBooking)
		admin.POST("/status-refresh", h.RefreshStatuses)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// StatusCounts handles GET /api/v1/admin/bookings/status-counts.
func (h *AdminBookingHandler) StatusCounts(c *gin.Context) {
	counts, err := h.service.GetStatusCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, counts)
}

// ArchiveBooking handles POST /api/v1/admin/bookings/:id/archive.
func (h *AdminBookingHandler) ArchiveBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.ArchiveBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RefreshStatuses handles POST /api/v1/admin/status-refresh, the on-demand
// version of the periodic derivation pass.
func (h *AdminBookingHandler) RefreshStatuses(c *gin.Context) {
	changes, err := h.statusService.RefreshStatuses(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"changes": changes})
}
