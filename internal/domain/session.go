package domain

import (
	"time"
)

// SessionStatus represents the lifecycle state of a teaching session
type SessionStatus string

const (
	SessionPending  SessionStatus = "pending"
	SessionApproved SessionStatus = "approved"
	SessionRejected SessionStatus = "rejected"
	SessionPaid     SessionStatus = "paid"
)

// TeachingSession is a unit of teaching work submitted by a professor.
// pending -> approved | rejected; approved -> paid (via a payment batch).
type TeachingSession struct {
	ID          string        `json:"id"`
	ProfessorID string        `json:"professor_id"`
	CourseName  string        `json:"course_name"`
	Date        time.Time     `json:"date"`
	Hours       float64       `json:"hours"`
	HourlyRate  float64       `json:"hourly_rate"`
	Amount      float64       `json:"amount"` // hours * hourly rate, fixed at submission
	Status      SessionStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	ReviewNote  string        `json:"review_note,omitempty"` // set on approve/reject
	ReviewedBy  string        `json:"reviewed_by,omitempty"`
	PaymentID   string        `json:"payment_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CanTransition reports whether moving to the given status is allowed
func (s *TeachingSession) CanTransition(to SessionStatus) bool {
	switch s.Status {
	case SessionPending:
		return to == SessionApproved || to == SessionRejected
	case SessionApproved:
		return to == SessionPaid
	default:
		return false
	}
}
