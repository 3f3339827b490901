package dto

import (
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

// CreatePaymentRequest represents an admin batching approved sessions into
// a payment
type CreatePaymentRequest struct {
	ProfessorID string   `json:"professor_id" binding:"required,uuid"`
	SessionIDs  []string `json:"session_ids" binding:"required,min=1,dive,uuid"`
}

// PaymentListQuery represents payment list filters
type PaymentListQuery struct {
	ProfessorID string `form:"professor_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=pending completed"`
	Page        int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=100"`
}

// PaymentResponse represents a payment batch in responses
type PaymentResponse struct {
	ID            string  `json:"id"`
	ProfessorID   string  `json:"professor_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	TotalHours    float64 `json:"total_hours"`
	SessionCount  int     `json:"session_count"`
	Status        string  `json:"status"`
	CreatedBy     string  `json:"created_by"`
	CreatedAt     string  `json:"created_at"`
	PaidAt        string  `json:"paid_at,omitempty"`
}

// NewPaymentResponse maps a domain payment into its response shape
func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		ProfessorID:   p.ProfessorID,
		InvoiceNumber: p.InvoiceNumber,
		Amount:        p.Amount,
		TotalHours:    p.TotalHours,
		SessionCount:  p.SessionCount,
		Status:        string(p.Status),
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		resp.PaidAt = p.PaidAt.Format(time.RFC3339)
	}
	return resp
}

// NewPaymentListResponse maps a slice of payments
func NewPaymentListResponse(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}

// NotificationResponse represents a notification in responses
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NewNotificationResponse maps a domain notification into its response shape
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// NewNotificationListResponse maps a slice of notifications
func NewNotificationListResponse(notifications []*domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}
