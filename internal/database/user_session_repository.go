package database

import (
	"github.com/google/uuid"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

// UserSessionRepository handles database operations for login sessions
type UserSessionRepository struct {
	db DB
}

// NewUserSessionRepository creates a new UserSessionRepository
func NewUserSessionRepository(db DB) *UserSessionRepository {
	return &UserSessionRepository{db: db}
}

// Create records a new login session
func (r *UserSessionRepository) Create(session *models.UserSession) error {
	query := `
		INSERT INTO user_sessions (
			id, user_id, ip_address, device_type, os, browser, user_agent,
			last_activity_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), TRUE)
		RETURNING last_activity_at, is_active, created_at, updated_at
	`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	return r.db.QueryRow(
		query,
		session.ID, session.UserID, session.IPAddress,
		session.DeviceType, session.OS, session.Browser, session.UserAgent,
	).Scan(&session.LastActivityAt, &session.IsActive, &session.CreatedAt, &session.UpdatedAt)
}

// Touch refreshes the session's last activity timestamp
func (r *UserSessionRepository) Touch(id uuid.UUID) error {
	query := `
		UPDATE user_sessions
		SET last_activity_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeactivateByUser closes every active session for a user
func (r *UserSessionRepository) DeactivateByUser(userID uuid.UUID) error {
	query := `
		UPDATE user_sessions
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_active = TRUE
	`

	_, err := r.db.Exec(query, userID)
	return err
}

// GetActiveByUser returns a user's active sessions, most recent first
func (r *UserSessionRepository) GetActiveByUser(userID uuid.UUID) ([]models.UserSession, error) {
	query := `
		SELECT id, user_id, ip_address, device_type, os, browser, user_agent,
			   last_activity_at, is_active, created_at, updated_at
		FROM user_sessions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY last_activity_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.UserSession{}
	for rows.Next() {
		var s models.UserSession
		err := rows.Scan(
			&s.ID, &s.UserID, &s.IPAddress, &s.DeviceType, &s.OS, &s.Browser,
			&s.UserAgent, &s.LastActivityAt, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
