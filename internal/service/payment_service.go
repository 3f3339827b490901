package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/events"
	"github.com/u1krsh/EduPay/internal/repository"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrNotPaymentOwner    = errors.New("payment belongs to another professor")
	ErrNoSessionsSelected = errors.New("no sessions selected")
	ErrSessionNotApproved = errors.New("a selected session is not approved")
	ErrMixedProfessors    = errors.New("selected sessions belong to different professors")
	ErrPaymentNotPending  = errors.New("payment is not pending")
)

// PaymentService defines the interface for payment batch operations
type PaymentService interface {
	// Create batches a professor's approved sessions into a payment
	Create(ctx context.Context, adminID string, req *dto.CreatePaymentRequest) (*domain.Payment, error)
	// Get retrieves a payment the principal may see
	Get(ctx context.Context, principal *domain.Principal, id string) (*domain.Payment, error)
	// List retrieves payments: professors see their own, admins see all
	List(ctx context.Context, principal *domain.Principal, query *dto.PaymentListQuery) ([]*domain.Payment, int64, error)
	// MarkPaid marks a pending payment completed
	MarkPaid(ctx context.Context, adminID, id string) (*domain.Payment, error)
}

// paymentService implements PaymentService
type paymentService struct {
	payments      repository.PaymentRepository
	sessions      repository.SessionRepository
	notifications *NotificationService
	producer      *events.Producer
	activity      ActivityRecorder
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments repository.PaymentRepository,
	sessions repository.SessionRepository,
	notifications *NotificationService,
	producer *events.Producer,
	activity ActivityRecorder,
) PaymentService {
	return &paymentService{
		payments:      payments,
		sessions:      sessions,
		notifications: notifications,
		producer:      producer,
		activity:      activity,
	}
}

// Create batches approved sessions into a payment. Every selected session
// must exist, be approved and belong to the named professor; the repository
// transaction re-checks approval so a concurrent batch cannot double-pay.
func (s *paymentService) Create(ctx context.Context, adminID string, req *dto.CreatePaymentRequest) (*domain.Payment, error) {
	if len(req.SessionIDs) == 0 {
		return nil, ErrNoSessionsSelected
	}

	sessions, err := s.sessions.GetByIDs(ctx, req.SessionIDs)
	if err != nil {
		return nil, err
	}
	if len(sessions) != len(req.SessionIDs) {
		return nil, ErrSessionNotFound
	}

	var amount, hours float64
	for _, session := range sessions {
		if session.ProfessorID != req.ProfessorID {
			return nil, ErrMixedProfessors
		}
		if session.Status != domain.SessionApproved {
			return nil, ErrSessionNotApproved
		}
		amount += session.Amount
		hours += session.Hours
	}

	id := uuid.New().String()
	payment := &domain.Payment{
		ID:            id,
		ProfessorID:   req.ProfessorID,
		InvoiceNumber: invoiceNumber(time.Now(), id),
		Amount:        amount,
		TotalHours:    hours,
		SessionCount:  len(sessions),
		Status:        domain.PaymentPending,
		CreatedBy:     adminID,
		CreatedAt:     time.Now(),
	}

	if err := s.payments.CreateWithSessions(ctx, payment, req.SessionIDs); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, req.ProfessorID, NotifyPaymentCreated, "Payment created",
		fmt.Sprintf("Invoice %s covers %d sessions totalling %.2f", payment.InvoiceNumber, payment.SessionCount, payment.Amount))
	s.activity.Record(ctx, adminID, "payment.created", "payment", payment.ID, payment.InvoiceNumber)
	s.producer.Publish(ctx, events.TopicPaymentCreated, &events.Event{
		EventType: "payment.created",
		EntityID:  payment.ID,
		UserID:    payment.ProfessorID,
		Payload:   map[string]interface{}{"invoice_number": payment.InvoiceNumber, "amount": payment.Amount},
	})

	return payment, nil
}

// Get retrieves a payment. Professors only see their own.
func (s *paymentService) Get(ctx context.Context, principal *domain.Principal, id string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if principal.Role != domain.RoleAdmin && payment.ProfessorID != principal.ID {
		return nil, ErrNotPaymentOwner
	}
	return payment, nil
}

// List retrieves payments. Professors are pinned to their own.
func (s *paymentService) List(ctx context.Context, principal *domain.Principal, query *dto.PaymentListQuery) ([]*domain.Payment, int64, error) {
	filter := repository.PaymentFilter{
		Status: domain.PaymentStatus(query.Status),
		Limit:  query.PageSize,
		Offset: (query.Page - 1) * query.PageSize,
	}

	if principal.Role == domain.RoleAdmin {
		filter.ProfessorID = query.ProfessorID
	} else {
		filter.ProfessorID = principal.ID
	}

	return s.payments.List(ctx, filter)
}

// MarkPaid marks a pending payment completed
func (s *paymentService) MarkPaid(ctx context.Context, adminID, id string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != domain.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	paidAt := time.Now()
	if err := s.payments.MarkCompleted(ctx, id, paidAt); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentCompleted
	payment.PaidAt = &paidAt

	s.notifications.Notify(ctx, payment.ProfessorID, NotifyPaymentCompleted, "Payment completed",
		fmt.Sprintf("Invoice %s has been paid out", payment.InvoiceNumber))
	s.activity.Record(ctx, adminID, "payment.completed", "payment", payment.ID, payment.InvoiceNumber)
	s.producer.Publish(ctx, events.TopicPaymentPaid, &events.Event{
		EventType: "payment.completed",
		EntityID:  payment.ID,
		UserID:    payment.ProfessorID,
		Payload:   map[string]interface{}{"invoice_number": payment.InvoiceNumber, "amount": payment.Amount},
	})

	return payment, nil
}

// invoiceNumber builds INV-YYYYMM-xxxxxxxx from the creation time and the
// payment's own ID, so it is stable and needs no extra sequence state.
func invoiceNumber(createdAt time.Time, paymentID string) string {
	fragment := strings.ReplaceAll(paymentID, "-", "")
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}
	return fmt.Sprintf("INV-%s-%s", createdAt.Format("200601"), fragment)
}
