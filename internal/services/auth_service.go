package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/pkg/jwt"
	"github.com/stayscape/hotel-reservation-backend/pkg/validator"
)

// TokenPair bundles the tokens returned from register, login and refresh
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService implements account registration, login and profile changes
type AuthService struct {
	users          *database.UserRepository
	sessions       *database.UserSessionRepository
	jwtService     *jwt.Service
	phoneValidator *validator.PhoneValidator
	bcryptCost     int
	logger         *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users *database.UserRepository,
	sessions *database.UserSessionRepository,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:          users,
		sessions:       sessions,
		jwtService:     jwtService,
		phoneValidator: validator.NewPhoneValidator(),
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a new account and signs the user in
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, nil, &ConflictError{Message: "An account with this email already exists"}
	}

	user := &models.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		AccessState: models.AccessGuest,
	}

	if req.Phone != "" {
		phone, err := s.phoneValidator.Validate(req.Phone)
		if err != nil {
			return nil, nil, &ValidationError{Message: "Invalid phone number"}
		}
		user.Phone = models.NewNullString(phone)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return user, tokens, nil
}

// Login verifies credentials and signs the user in. The same error covers
// unknown emails and wrong passwords.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, &AuthenticationError{Message: "Invalid email or password"}
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, &AuthenticationError{Message: "Invalid email or password"}
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// RecordSession stores the login's device fingerprint for session auditing
func (s *AuthService) RecordSession(session *models.UserSession) {
	if err := s.sessions.Create(session); err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).
			Warn("Failed to record login session")
	}
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, &AuthenticationError{Message: "Invalid refresh token"}
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, &AuthenticationError{Message: "Account no longer exists"}
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// GetProfile returns the full account record
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits name, phone and profile photo
func (s *AuthService) UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Message: "Name cannot be empty"}
		}
	}

	email := user.Email
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, &ValidationError{Message: "Email cannot be empty"}
		}
		if email != user.Email {
			exists, err := s.users.EmailExists(email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, &ConflictError{Message: "Email is already in use"}
			}
		}
	}

	phone := user.Phone
	if req.Phone != nil {
		if *req.Phone == "" {
			phone = models.NullString{}
		} else {
			validated, err := s.phoneValidator.Validate(*req.Phone)
			if err != nil {
				return nil, &ValidationError{Message: "Invalid phone number"}
			}
			phone = models.NewNullString(validated)
		}
	}

	profilePhoto := user.ProfilePhoto
	if req.ProfilePhoto != nil {
		if *req.ProfilePhoto == "" {
			profilePhoto = models.NullString{}
		} else {
			profilePhoto = models.NewNullString(*req.ProfilePhoto)
		}
	}

	if err := s.users.UpdateProfile(userID, name, email, phone, profilePhoto); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.users.GetByID(userID)
}

// ChangePassword verifies the current password before storing a new hash
// and closes the user's other sessions.
func (s *AuthService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return &AuthenticationError{Message: "Current password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.sessions.DeactivateByUser(userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).
			Warn("Failed to close sessions after password change")
	}

	s.logger.WithField("user_id", userID).Info("Password changed")

	return nil
}

// Sessions returns the user's active login sessions
func (s *AuthService) Sessions(userID uuid.UUID) ([]models.UserSession, error) {
	return s.sessions.GetActiveByUser(userID)
}

// issueTokens builds the access and refresh token pair for a user
func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
