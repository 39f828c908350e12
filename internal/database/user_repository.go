package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = fmt.Errorf("not found")

const userColumns = `
	id, name, email, password_hash, phone, profile_photo,
	access_state, owner_requested_at, owner_reviewed_at,
	owner_reviewed_by, owner_rejection_reason,
	created_at, updated_at
`

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, access_state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.AccessState == "" {
		user.AccessState = models.AccessGuest
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Phone, user.AccessState,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRow(query, email))
}

// EmailExists reports whether a user with the email already exists
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	err := r.db.QueryRow(query, email).Scan(&exists)
	return exists, err
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepository) UpdateProfile(id uuid.UUID, name, email string, phone, profilePhoto models.NullString) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, profile_photo = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, name, email, phone, profilePhoto)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, passwordHash)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SubmitOwnerRequest moves the user into the pending state. The state list
// in the WHERE clause guards the transition; zero rows means the user was
// not eligible at the time of the update.
func (r *UserRepository) SubmitOwnerRequest(id uuid.UUID, fromStates []models.AccessState) (bool, error) {
	query := `
		UPDATE users
		SET access_state = $2,
			owner_requested_at = NOW(),
			owner_reviewed_at = NULL,
			owner_reviewed_by = NULL,
			owner_rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1 AND access_state = ANY($3)
	`

	states := make([]string, len(fromStates))
	for i, s := range fromStates {
		states[i] = string(s)
	}

	result, err := r.db.Exec(query, id, models.AccessOwnerPending, pq.Array(states))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ReviewOwnerRequest records an admin decision, transitioning the user to
// the given state. Allowed source states guard the transition.
func (r *UserRepository) ReviewOwnerRequest(
	id uuid.UUID,
	toState models.AccessState,
	reviewedBy uuid.UUID,
	rejectionReason models.NullString,
	fromStates []models.AccessState,
) (bool, error) {
	query := `
		UPDATE users
		SET access_state = $2,
			owner_reviewed_at = NOW(),
			owner_reviewed_by = $3,
			owner_rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND access_state = ANY($5)
	`

	states := make([]string, len(fromStates))
	for i, s := range fromStates {
		states[i] = string(s)
	}

	result, err := r.db.Exec(query, id, toState, reviewedBy, rejectionReason, pq.Array(states))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SetAccessState sets the state unconditionally. Used by maintenance
// tooling, never by request handlers.
func (r *UserRepository) SetAccessState(id uuid.UUID, state models.AccessState) error {
	query := `
		UPDATE users
		SET access_state = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, state)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListOwnerRequests returns users whose access state matches one of the
// given request states, most recent request first, plus the total match
// count before pagination.
func (r *UserRepository) ListOwnerRequests(states []models.AccessState, limit, offset int) ([]models.User, int64, error) {
	params := make([]string, len(states))
	for i, s := range states {
		params[i] = string(s)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE access_state = ANY($1)`
	if err := r.db.QueryRow(countQuery, pq.Array(params)).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE access_state = ANY($1)
		ORDER BY owner_requested_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, pq.Array(params), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := r.scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// scanUser scans a single user row
func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.ProfilePhoto,
		&user.AccessState, &user.OwnerRequestedAt, &user.OwnerReviewedAt,
		&user.OwnerReviewedBy, &user.OwnerRejectionReason,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// scanUsers scans multiple user rows
func (r *UserRepository) scanUsers(rows *sql.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.Phone, &user.ProfilePhoto,
			&user.AccessState, &user.OwnerRequestedAt, &user.OwnerReviewedAt,
			&user.OwnerReviewedBy, &user.OwnerRejectionReason,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// requireAffected converts a zero-row update into ErrNotFound
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
