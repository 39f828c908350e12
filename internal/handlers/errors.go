package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/middleware"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondServiceError maps service-layer errors onto HTTP status codes.
// Anything not in the domain taxonomy is logged and surfaced as a
// generic 500 without internal detail.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validationErr *services.ValidationError
		dateErr       *services.InvalidDateError
		roomErr       *services.InvalidRoomError
		inventoryErr  *services.InsufficientInventoryError
		capacityErr   *services.CapacityExceededError
		authnErr      *services.AuthenticationError
		authzErr      *services.AuthorizationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
		})
	case errors.As(err, &dateErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_dates",
			Message: dateErr.Message,
		})
	case errors.As(err, &roomErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_room_type",
			Message: roomErr.Message,
		})
	case errors.As(err, &inventoryErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "insufficient_availability",
			Message: inventoryErr.Error(),
		})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "capacity_exceeded",
			Message: capacityErr.Error(),
		})
	case errors.As(err, &authnErr):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: authnErr.Message,
		})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: authzErr.Message,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: conflictErr.Message,
		})
	default:
		logger.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again later.",
		})
	}
}

// parseIDParam reads a UUID path parameter; false means a 400 was written
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid " + name + " parameter",
		})
		return uuid.Nil, false
	}
	return id, true
}

// requireUser pulls the authenticated user set by AuthMiddleware; false
// means a 401 was written
func requireUser(c *gin.Context) (middleware.UserContext, bool) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return middleware.UserContext{}, false
	}
	return userCtx, true
}
