package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(userCtx.UserID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed",
		"booking": booking,
	})
}

// List handles GET /api/bookings
func (h *BookingHandler) List(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetUserBookings(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.BookingListResult{
		Bookings: bookings,
	})
}

// Get handles GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	caller := services.UserRef{ID: userCtx.UserID, Role: userCtx.Role}
	booking, err := h.bookingService.GetBooking(bookingID, caller)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}

// Cancel handles PUT /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.CancelBooking(bookingID, userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled. Your payment will be refunded.",
		"booking": booking,
	})
}
