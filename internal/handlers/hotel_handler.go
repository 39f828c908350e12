package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/middleware"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
)

// HotelHandler handles the public catalog and owner management endpoints
type HotelHandler struct {
	hotelService *services.HotelService
	logger       *logrus.Logger
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotelService *services.HotelService, logger *logrus.Logger) *HotelHandler {
	return &HotelHandler{
		hotelService: hotelService,
		logger:       logger,
	}
}

// Search handles GET /api/hotels
func (h *HotelHandler) Search(c *gin.Context) {
	filter := models.HotelSearchFilter{
		City:   c.Query("city"),
		Search: c.Query("search"),
		SortBy: models.HotelSortKey(c.DefaultQuery("sortBy", "rating")),
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.Query("minRating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinRating = &rating
		}
	}
	if v := c.Query("amenities"); v != "" {
		for _, amenity := range strings.Split(v, ",") {
			if amenity = strings.TrimSpace(amenity); amenity != "" {
				filter.Amenities = append(filter.Amenities, amenity)
			}
		}
	}

	result, err := h.hotelService.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cities handles GET /api/hotels/cities/list
func (h *HotelHandler) Cities(c *gin.Context) {
	cities, err := h.hotelService.Cities(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cities": cities,
	})
}

// Get handles GET /api/hotels/:id. Inactive hotels 404 unless the caller
// is the owner or an admin.
func (h *HotelHandler) Get(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var caller *services.UserRef
	if userCtx, ok := middleware.GetUserContext(c); ok {
		caller = &services.UserRef{ID: userCtx.UserID, Role: userCtx.Role}
	}

	hotel, err := h.hotelService.Get(hotelID, caller)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hotel": hotel,
	})
}

// MyHotels handles GET /api/hotels/my-hotels
func (h *HotelHandler) MyHotels(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	hotels, err := h.hotelService.ListByOwner(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	hotels = filterByStatus(hotels, c.DefaultQuery("status", "all"))

	c.JSON(http.StatusOK, gin.H{
		"hotels": hotels,
	})
}

// ByOwner handles GET /api/hotels/owner/:ownerId
func (h *HotelHandler) ByOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "ownerId")
	if !ok {
		return
	}

	hotels, err := h.hotelService.ListByOwner(ownerID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hotels": hotels,
	})
}

// Create handles POST /api/hotels
func (h *HotelHandler) Create(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	hotel, err := h.hotelService.Create(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Hotel created successfully",
		"hotel":   hotel,
	})
}

// Update handles PUT /api/hotels/:id
func (h *HotelHandler) Update(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	caller := services.UserRef{ID: userCtx.UserID, Role: userCtx.Role}
	hotel, err := h.hotelService.Update(c.Request.Context(), hotelID, caller, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hotel updated successfully",
		"hotel":   hotel,
	})
}

// Delete handles DELETE /api/hotels/:id. Hotels are taken off the market
// rather than removed, so existing bookings keep their references.
func (h *HotelHandler) Delete(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	caller := services.UserRef{ID: userCtx.UserID, Role: userCtx.Role}
	if err := h.hotelService.Deactivate(c.Request.Context(), hotelID, caller); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hotel deleted successfully",
	})
}

// ToggleStatus handles PATCH /api/hotels/:id/toggle-status
func (h *HotelHandler) ToggleStatus(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	caller := services.UserRef{ID: userCtx.UserID, Role: userCtx.Role}
	hotel, err := h.hotelService.ToggleStatus(c.Request.Context(), hotelID, caller)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	message := "Hotel is now hidden from guests"
	if hotel.IsActive {
		message = "Hotel is now visible to guests"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"isActive": hotel.IsActive,
	})
}

// filterByStatus narrows an owner's hotel list to active or inactive rows
func filterByStatus(hotels []models.Hotel, status string) []models.Hotel {
	var wantActive bool
	switch status {
	case "active":
		wantActive = true
	case "inactive":
		wantActive = false
	default:
		return hotels
	}

	filtered := make([]models.Hotel, 0, len(hotels))
	for _, hotel := range hotels {
		if hotel.IsActive == wantActive {
			filtered = append(filtered, hotel)
		}
	}
	return filtered
}
