package dto

import (
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

// CreateSessionRequest represents a professor logging a teaching session
type CreateSessionRequest struct {
	CourseName string  `json:"course_name" binding:"required,min=2,max=200"`
	Date       string  `json:"date" binding:"required"` // YYYY-MM-DD
	Hours      float64 `json:"hours" binding:"required,gt=0,lte=24"`
	Notes      string  `json:"notes" binding:"omitempty,max=2000"`
}

// ParseDate validates and parses the session date
func (r *CreateSessionRequest) ParseDate() (time.Time, bool) {
	d, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// UpdateSessionRequest represents editing a still-pending session
type UpdateSessionRequest struct {
	CourseName string  `json:"course_name" binding:"omitempty,min=2,max=200"`
	Date       string  `json:"date" binding:"omitempty"`
	Hours      float64 `json:"hours" binding:"omitempty,gt=0,lte=24"`
	Notes      string  `json:"notes" binding:"omitempty,max=2000"`
}

// ParseDate validates and parses the updated date when one was supplied
func (r *UpdateSessionRequest) ParseDate() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, true
	}
	d, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ReviewSessionRequest represents an admin approving or rejecting a session
type ReviewSessionRequest struct {
	Note string `json:"note" binding:"omitempty,max=2000"`
}

// SessionListQuery represents list filters bound from the query string
type SessionListQuery struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected paid"`
	ProfessorID string `form:"professor_id" binding:"omitempty,uuid"`
	Month       string `form:"month" binding:"omitempty"` // YYYY-MM
	Page        int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=100"`
}

// ValidMonth reports whether the month filter, when present, parses as YYYY-MM
func (q *SessionListQuery) ValidMonth() bool {
	if q.Month == "" {
		return true
	}
	_, err := time.Parse("2006-01", q.Month)
	return err == nil
}

// SessionResponse represents a teaching session in responses
type SessionResponse struct {
	ID          string  `json:"id"`
	ProfessorID string  `json:"professor_id"`
	CourseName  string  `json:"course_name"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	HourlyRate  float64 `json:"hourly_rate"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	ReviewNote  string  `json:"review_note,omitempty"`
	ReviewedBy  string  `json:"reviewed_by,omitempty"`
	PaymentID   string  `json:"payment_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// NewSessionResponse maps a domain session into its response shape
func NewSessionResponse(s *domain.TeachingSession) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		ProfessorID: s.ProfessorID,
		CourseName:  s.CourseName,
		Date:        s.Date.Format("2006-01-02"),
		Hours:       s.Hours,
		HourlyRate:  s.HourlyRate,
		Amount:      s.Amount,
		Status:      string(s.Status),
		Notes:       s.Notes,
		ReviewNote:  s.ReviewNote,
		ReviewedBy:  s.ReviewedBy,
		PaymentID:   s.PaymentID,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// NewSessionListResponse maps a slice of sessions
func NewSessionListResponse(sessions []*domain.TeachingSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}

// ListMeta carries pagination info in the response envelope meta field
type ListMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}
