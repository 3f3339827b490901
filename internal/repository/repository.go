package repository

import (
	"context"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update updates a user
	Update(ctx context.Context, user *domain.User) error
	// ExistsByEmail checks if a user exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListProfessors retrieves all active professors
	ListProfessors(ctx context.Context) ([]*domain.User, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence.
// A token row existing and being unexpired is what makes the token usable;
// revocation is deletion.
type RefreshTokenRepository interface {
	// Create persists a newly issued refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error
	// GetValid retrieves an unexpired token row by its token string
	GetValid(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Delete removes a single token, revoking it
	Delete(ctx context.Context, token string) error
	// DeleteByUserID removes every token a user holds
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired removes tokens past their expiry
	DeleteExpired(ctx context.Context) error
}

// SessionFilter narrows teaching session listings
type SessionFilter struct {
	ProfessorID string
	Status      domain.SessionStatus
	Month       time.Time // zero value means no month filter
	Limit       int
	Offset      int
}

// SessionRepository defines the interface for teaching session data access
type SessionRepository interface {
	// Create creates a new teaching session
	Create(ctx context.Context, session *domain.TeachingSession) error
	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id string) (*domain.TeachingSession, error)
	// GetByIDs retrieves sessions by ID, preserving no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*domain.TeachingSession, error)
	// List retrieves sessions matching the filter plus the unpaginated total
	List(ctx context.Context, filter SessionFilter) ([]*domain.TeachingSession, int64, error)
	// Update updates a session
	Update(ctx context.Context, session *domain.TeachingSession) error
	// Delete deletes a session
	Delete(ctx context.Context, id string) error
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	ProfessorID string
	Status      domain.PaymentStatus
	Limit       int
	Offset      int
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// CreateWithSessions persists the payment and marks its sessions paid in
	// one transaction
	CreateWithSessions(ctx context.Context, payment *domain.Payment, sessionIDs []string) error
	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	// List retrieves payments matching the filter plus the unpaginated total
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, int64, error)
	// MarkCompleted stamps the payment completed with its paid time
	MarkCompleted(ctx context.Context, id string, paidAt time.Time) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(ctx context.Context, n *domain.Notification) error
	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	// MarkRead marks one of the user's notifications read
	MarkRead(ctx context.Context, userID, id string) error
	// MarkAllRead marks all of the user's notifications read
	MarkAllRead(ctx context.Context, userID string) error
	// CountUnread counts the user's unread notifications
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// ActivityLogRepository defines the interface for the append-only audit trail
type ActivityLogRepository interface {
	// Create appends an activity entry
	Create(ctx context.Context, entry *domain.ActivityLog) error
	// ListRecent retrieves the newest entries
	ListRecent(ctx context.Context, limit int) ([]*domain.ActivityLog, error)
}

// AnalyticsRepository defines the interface for reporting aggregations
type AnalyticsRepository interface {
	// MonthlyEarnings aggregates a professor's sessions by month
	MonthlyEarnings(ctx context.Context, professorID string, months int) ([]*domain.MonthlyEarnings, error)
	// ProfessorTotals aggregates sessions per professor for the admin view
	ProfessorTotals(ctx context.Context) ([]*domain.ProfessorTotals, error)
	// StatusTotals aggregates all sessions by status
	StatusTotals(ctx context.Context) ([]*domain.StatusTotals, error)
}
