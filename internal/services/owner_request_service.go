package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

const maxRejectionReasonLength = 500

// OwnerRequestService drives the owner-access state machine. Every
// transition is guarded twice: once here against the loaded state for a
// precise error message, and once in the repository's conditional UPDATE
// so concurrent requests cannot double-apply.
type OwnerRequestService struct {
	users  *database.UserRepository
	policy string
	logger *logrus.Logger
}

// NewOwnerRequestService creates a new OwnerRequestService
func NewOwnerRequestService(users *database.UserRepository, cfg config.OwnerAccessConfig, logger *logrus.Logger) *OwnerRequestService {
	return &OwnerRequestService{
		users:  users,
		policy: cfg.ReapplyPolicy,
		logger: logger,
	}
}

// Request submits an owner-access request for the user
func (s *OwnerRequestService) Request(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, err
	}

	switch user.AccessState {
	case models.AccessAdmin:
		return nil, &ConflictError{Message: "Administrators cannot request owner access"}
	case models.AccessOwnerPending:
		return nil, &ConflictError{Message: "An owner request is already pending"}
	case models.AccessOwnerApproved:
		return nil, &ConflictError{Message: "You already have owner access"}
	case models.AccessOwnerRejected:
		if s.policy == config.ReapplyBlock {
			return nil, &ConflictError{Message: "A previous owner request was rejected"}
		}
	}

	fromStates := []models.AccessState{models.AccessGuest}
	if s.policy == config.ReapplyAllow {
		fromStates = append(fromStates, models.AccessOwnerRejected)
	}

	ok, err := s.users.SubmitOwnerRequest(userID, fromStates)
	if err != nil {
		return nil, fmt.Errorf("failed to submit owner request: %w", err)
	}
	if !ok {
		return nil, &ConflictError{Message: "Owner request is no longer possible in your current state"}
	}

	s.logger.WithField("user_id", userID).Info("Owner request submitted")

	return s.users.GetByID(userID)
}

// Status returns the user's owner request record, nil when none exists
func (s *OwnerRequestService) Status(userID uuid.UUID) (*models.OwnerRequest, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, err
	}
	return user.OwnerRequestView(), nil
}

// List returns users with owner requests in the given status, newest
// request first. Status may be pending, approved, rejected or all; an
// empty status defaults to all.
func (s *OwnerRequestService) List(status string, page, limit int) ([]models.User, int64, error) {
	var states []models.AccessState
	switch status {
	case "pending":
		states = []models.AccessState{models.AccessOwnerPending}
	case "approved":
		states = []models.AccessState{models.AccessOwnerApproved}
	case "rejected":
		states = []models.AccessState{models.AccessOwnerRejected}
	case "", "all":
		states = []models.AccessState{
			models.AccessOwnerPending,
			models.AccessOwnerApproved,
			models.AccessOwnerRejected,
		}
	default:
		return nil, 0, &ValidationError{Message: "Status must be pending, approved, rejected or all"}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return s.users.ListOwnerRequests(states, limit, (page-1)*limit)
}

// Approve grants owner access. Re-approving a rejected request is allowed;
// approving an already approved user is rejected with a conflict.
func (s *OwnerRequestService) Approve(adminID, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, err
	}

	switch user.AccessState {
	case models.AccessAdmin:
		return nil, &ConflictError{Message: "Administrators cannot be granted owner access"}
	case models.AccessOwnerApproved:
		return nil, &ConflictError{Message: "User already has owner access"}
	case models.AccessGuest:
		return nil, &NotFoundError{Message: "No owner request found for this user"}
	}

	ok, err := s.users.ReviewOwnerRequest(
		userID, models.AccessOwnerApproved, adminID, models.NullString{},
		[]models.AccessState{models.AccessOwnerPending, models.AccessOwnerRejected},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to approve owner request: %w", err)
	}
	if !ok {
		return nil, &ConflictError{Message: "Owner request changed state during review"}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": adminID,
	}).Info("Owner request approved")

	return s.users.GetByID(userID)
}

// Reject denies owner access with a mandatory reason. Rejecting an
// approved owner demotes them back to a regular user.
func (s *OwnerRequestService) Reject(adminID, userID uuid.UUID, reason string) (*models.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Message: "A rejection reason is required"}
	}
	if len(reason) > maxRejectionReasonLength {
		return nil, &ValidationError{Message: "Rejection reason must be 500 characters or fewer"}
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, err
	}

	switch user.AccessState {
	case models.AccessAdmin:
		return nil, &ConflictError{Message: "Administrators cannot be rejected"}
	case models.AccessOwnerRejected:
		return nil, &ConflictError{Message: "Owner request is already rejected"}
	case models.AccessGuest:
		return nil, &NotFoundError{Message: "No owner request found for this user"}
	}

	ok, err := s.users.ReviewOwnerRequest(
		userID, models.AccessOwnerRejected, adminID,
		models.NullString{NullString: sql.NullString{String: reason, Valid: true}},
		[]models.AccessState{models.AccessOwnerPending, models.AccessOwnerApproved},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reject owner request: %w", err)
	}
	if !ok {
		return nil, &ConflictError{Message: "Owner request changed state during review"}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": adminID,
	}).Info("Owner request rejected")

	return s.users.GetByID(userID)
}
