package domain

import (
	"time"
)

// Role represents user role
type Role string

const (
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

// User represents an account: a freelance professor or an administrator
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	HourlyRate   float64   `json:"hourly_rate"` // default rate for new teaching sessions
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a request after
// access-token verification.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// RefreshToken is the persisted record backing a long-lived credential.
// One row per active session/device; deleting the row revokes the token
// regardless of its signature still verifying.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLog is an append-only audit record
type ActivityLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}
