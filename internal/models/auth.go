package models

// RegisterRequest is the body for POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body for POST /api/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest is the body for PUT /api/auth/profile. Nil fields
// are left unchanged; empty strings clear optional fields.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
}

// ChangePasswordRequest is the body for PUT /api/auth/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// RejectOwnerRequestBody is the body for the admin rejection endpoint
type RejectOwnerRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}
