package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/common/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	bookings *application.BookingService
	activity *application.ActivityService
	stats    *application.StatsService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(
	bookings *application.BookingService,
	activity *application.ActivityService,
	stats *application.StatsService,
) *AdminBookingHandler {
	return &AdminBookingHandler{bookings: bookings, activity: activity, stats: stats}
}

// RegisterRoutes registers admin booking and dashboard routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	bookings := r.Group("/bookings")
	bookings.Use(authMW, adminRole)
	{
		bookings.GET("/all", h.ListBookings)
		bookings.PUT("/:id/status", h.UpdateStatus)
		bookings.GET("/:id/activity", h.BookingActivity)
	}

	r.GET("/stats", authMW, adminRole, h.Stats)
}

// ListBookings handles GET /api/bookings/all.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	result, err := h.bookings.ListAllBookings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStatus handles PUT /api/bookings/:id/status.
func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := parseBookingID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, adminID, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "booking status updated")
}

// BookingActivity handles GET /api/bookings/:id/activity.
func (h *AdminBookingHandler) BookingActivity(c *gin.Context) {
	bookingID, err := parseBookingID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.activity.GetBookingActivity(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Stats handles GET /api/stats.
func (h *AdminBookingHandler) Stats(c *gin.Context) {
	result, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
