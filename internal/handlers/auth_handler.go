package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
	"github.com/stayscape/hotel-reservation-backend/internal/utils"
)

// AuthHandler handles registration, login and profile HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// AuthResponse is the body returned from register, login and refresh
type AuthResponse struct {
	Message      string             `json:"message"`
	User         models.UserSummary `json:"user"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	user, tokens, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.recordSession(c, user)

	c.JSON(http.StatusCreated, AuthResponse{
		Message:      "Account created successfully",
		User:         user.Summary(),
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Email and password are required",
		})
		return
	}

	user, tokens, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.recordSession(c, user)

	c.JSON(http.StatusOK, AuthResponse{
		Message:      "Login successful",
		User:         user.Summary(),
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Refresh token is required",
		})
		return
	}

	user, tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Message:      "Token refreshed",
		User:         user.Summary(),
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"role":         user.Role(),
		"ownerRequest": user.OwnerRequestView(),
	})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.authService.UpdateProfile(userCtx.UserID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
		"role":    user.Role(),
	})
}

// ChangePassword handles PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Current and new passwords are required",
		})
		return
	}

	if err := h.authService.ChangePassword(userCtx.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
	})
}

// Sessions handles GET /api/auth/sessions
func (h *AuthHandler) Sessions(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	sessions, err := h.authService.Sessions(userCtx.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
	})
}

// recordSession captures the device behind a successful login. Failures
// are logged inside the service and never block the response.
func (h *AuthHandler) recordSession(c *gin.Context, user *models.User) {
	ua := utils.GetUserAgent(c)
	device := utils.ParseUserAgent(ua)

	session := &models.UserSession{
		UserID:     user.ID,
		DeviceType: device.DeviceType,
	}
	if ip := utils.GetRealIP(c); ip != "" {
		session.IPAddress = models.NewNullString(ip)
	}
	if device.OS != "" && device.OS != "Unknown" {
		session.OS = models.NewNullString(device.OS)
	}
	if device.Browser != "" && device.Browser != "Unknown" {
		session.Browser = models.NewNullString(device.Browser)
	}
	if ua != "" && ua != "Unknown" {
		session.UserAgent = models.NewNullString(ua)
	}

	h.authService.RecordSession(session)
}
