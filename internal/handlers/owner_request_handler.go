package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
)

// OwnerRequestHandler handles the owner-access request workflow
type OwnerRequestHandler struct {
	ownerRequests *services.OwnerRequestService
	logger        *logrus.Logger
}

// NewOwnerRequestHandler creates a new owner request handler
func NewOwnerRequestHandler(ownerRequests *services.OwnerRequestService, logger *logrus.Logger) *OwnerRequestHandler {
	return &OwnerRequestHandler{
		ownerRequests: ownerRequests,
		logger:        logger,
	}
}

// ownerRequestItem is one row in the admin review list
type ownerRequestItem struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Phone        models.NullString    `json:"phone,omitempty"`
	Role         string               `json:"role"`
	OwnerRequest *models.OwnerRequest `json:"ownerRequest"`
}

// Request handles POST /api/auth/request-owner-access
func (h *OwnerRequestHandler) Request(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.ownerRequests.Request(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Owner access request submitted. An administrator will review it shortly.",
		"ownerRequest": user.OwnerRequestView(),
	})
}

// MyRequest handles GET /api/auth/my-owner-request
func (h *OwnerRequestHandler) MyRequest(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	request, err := h.ownerRequests.Status(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ownerRequest": request,
	})
}

// List handles GET /api/auth/owner-requests
func (h *OwnerRequestHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, total, err := h.ownerRequests.List(status, page, limit)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	items := make([]ownerRequestItem, 0, len(users))
	for i := range users {
		user := &users[i]
		items = append(items, ownerRequestItem{
			ID:           user.ID.String(),
			Name:         user.Name,
			Email:        user.Email,
			Phone:        user.Phone,
			Role:         user.Role(),
			OwnerRequest: user.OwnerRequestView(),
		})
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"requests": items,
		"pagination": gin.H{
			"currentPage":   page,
			"totalPages":    totalPages,
			"totalRequests": total,
			"limit":         limit,
		},
	})
}

// Approve handles POST /api/auth/approve-owner-request/:userId
func (h *OwnerRequestHandler) Approve(c *gin.Context) {
	adminCtx, ok := requireUser(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.ownerRequests.Approve(adminCtx.UserID, userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Owner request approved",
		"user":         user.Summary(),
		"ownerRequest": user.OwnerRequestView(),
	})
}

// Reject handles POST /api/auth/reject-owner-request/:userId
func (h *OwnerRequestHandler) Reject(c *gin.Context) {
	adminCtx, ok := requireUser(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var body models.RejectOwnerRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "A rejection reason is required",
		})
		return
	}

	user, err := h.ownerRequests.Reject(adminCtx.UserID, userID, body.Reason)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Owner request rejected",
		"user":         user.Summary(),
		"ownerRequest": user.OwnerRequestView(),
	})
}
