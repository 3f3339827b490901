package domain

import (
	"time"
)

// PaymentStatus represents the state of a payment batch
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Payment is a batch of approved teaching sessions paid out together.
// The invoice number is generated at creation and never changes.
type Payment struct {
	ID            string        `json:"id"`
	ProfessorID   string        `json:"professor_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Amount        float64       `json:"amount"`
	TotalHours    float64       `json:"total_hours"`
	SessionCount  int           `json:"session_count"`
	Status        PaymentStatus `json:"status"`
	CreatedBy     string        `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// Notification is a per-user message created by session/payment events
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"` // session_approved, session_rejected, payment_created, payment_completed
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MonthlyEarnings is one bucket of the professor earnings aggregation
type MonthlyEarnings struct {
	Month         string  `json:"month"` // YYYY-MM
	SessionCount  int     `json:"session_count"`
	TotalHours    float64 `json:"total_hours"`
	ApprovedTotal float64 `json:"approved_total"`
	PaidTotal     float64 `json:"paid_total"`
}

// ProfessorTotals is one row of the admin per-professor aggregation
type ProfessorTotals struct {
	ProfessorID   string  `json:"professor_id"`
	ProfessorName string  `json:"professor_name"`
	SessionCount  int     `json:"session_count"`
	TotalHours    float64 `json:"total_hours"`
	PendingTotal  float64 `json:"pending_total"`
	ApprovedTotal float64 `json:"approved_total"`
	PaidTotal     float64 `json:"paid_total"`
}

// StatusTotals is the admin overview aggregation by session status
type StatusTotals struct {
	Status       SessionStatus `json:"status"`
	SessionCount int           `json:"session_count"`
	TotalHours   float64       `json:"total_hours"`
	TotalAmount  float64       `json:"total_amount"`
}
