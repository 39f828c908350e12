package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NewNullString builds a valid NullString from a plain string
func NewNullString(s string) NullString {
	return NullString{NullString: sql.NullString{String: s, Valid: true}}
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t != nil {
		nt.Valid = true
		nt.Time = *t
	} else {
		nt.Valid = false
	}
	return nil
}

// AccessState is the single authoritative owner-access state of a user.
// The flat role string plus the side ownerRequest record collapse into this
// one tagged value; the role exposed over the API is derived from it.
type AccessState string

const (
	AccessGuest         AccessState = "guest"
	AccessOwnerPending  AccessState = "owner_pending"
	AccessOwnerApproved AccessState = "owner_approved"
	AccessOwnerRejected AccessState = "owner_rejected"
	AccessAdmin         AccessState = "admin"
)

// Role names derived from AccessState for API responses and JWT claims.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Role derives the flat role string from the access state.
func (s AccessState) Role() string {
	switch s {
	case AccessAdmin:
		return RoleAdmin
	case AccessOwnerApproved:
		return RoleOwner
	default:
		return RoleUser
	}
}

// RequestStatus derives the ownerRequest.status value clients expect,
// empty when no request has ever been made.
func (s AccessState) RequestStatus() string {
	switch s {
	case AccessOwnerPending:
		return "pending"
	case AccessOwnerApproved:
		return "approved"
	case AccessOwnerRejected:
		return "rejected"
	default:
		return ""
	}
}

// HasRequest reports whether the state carries an owner request record.
func (s AccessState) HasRequest() bool {
	return s == AccessOwnerPending || s == AccessOwnerApproved || s == AccessOwnerRejected
}

// User represents a registered account
type User struct {
	ID                   uuid.UUID     `json:"id" db:"id"`
	Name                 string        `json:"name" db:"name"`
	Email                string        `json:"email" db:"email"`
	PasswordHash         string        `json:"-" db:"password_hash"` // Never expose in JSON
	Phone                NullString    `json:"phone,omitempty" db:"phone"`
	ProfilePhoto         NullString    `json:"profile_photo,omitempty" db:"profile_photo"`
	AccessState          AccessState   `json:"-" db:"access_state"`
	OwnerRequestedAt     NullTime      `json:"-" db:"owner_requested_at"`
	OwnerReviewedAt      NullTime      `json:"-" db:"owner_reviewed_at"`
	OwnerReviewedBy      uuid.NullUUID `json:"-" db:"owner_reviewed_by"`
	OwnerRejectionReason NullString    `json:"-" db:"owner_rejection_reason"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`
}

// Role returns the derived flat role string for this user.
func (u *User) Role() string {
	return u.AccessState.Role()
}

// IsAdmin reports whether this user is an administrator.
func (u *User) IsAdmin() bool {
	return u.AccessState == AccessAdmin
}

// IsApprovedOwner reports whether this user may manage hotels.
func (u *User) IsApprovedOwner() bool {
	return u.AccessState == AccessOwnerApproved
}

// OwnerRequest is the API view of a user's owner-access request, rebuilt
// from the tagged access state so responses keep the shape clients expect.
type OwnerRequest struct {
	Requested       bool          `json:"requested"`
	RequestedAt     NullTime      `json:"requestedAt"`
	Status          string        `json:"status"`
	ReviewedAt      NullTime      `json:"reviewedAt"`
	ReviewedBy      uuid.NullUUID `json:"reviewedBy"`
	RejectionReason NullString    `json:"rejectionReason"`
}

// OwnerRequestView returns the request record derived from the access state,
// or nil when the user has never requested owner access.
func (u *User) OwnerRequestView() *OwnerRequest {
	if !u.AccessState.HasRequest() {
		return nil
	}
	return &OwnerRequest{
		Requested:       true,
		RequestedAt:     u.OwnerRequestedAt,
		Status:          u.AccessState.RequestStatus(),
		ReviewedAt:      u.OwnerReviewedAt,
		ReviewedBy:      u.OwnerReviewedBy,
		RejectionReason: u.OwnerRejectionReason,
	}
}

// UserSummary is the trimmed user payload returned from register/login.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Summary builds the trimmed payload for auth responses.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role(),
	}
}

// UserSession records a login from a device, for session auditing
type UserSession struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	IPAddress      NullString `json:"ip_address,omitempty" db:"ip_address"`
	DeviceType     string     `json:"device_type" db:"device_type"`
	OS             NullString `json:"os,omitempty" db:"os"`
	Browser        NullString `json:"browser,omitempty" db:"browser"`
	UserAgent      NullString `json:"user_agent,omitempty" db:"user_agent"`
	LastActivityAt time.Time  `json:"last_activity_at" db:"last_activity_at"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
