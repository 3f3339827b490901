package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/notify"
)

type paymentFixture struct {
	svc       PaymentService
	sessions  *mockSessionRepository
	payments  *mockPaymentRepository
	notifRepo *mockNotificationRepository
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	sessions := newMockSessionRepository()
	payments := newMockPaymentRepository(sessions)
	notifRepo := &mockNotificationRepository{}
	notifications := NewNotificationService(notifRepo, notify.NewHub())

	svc := NewPaymentService(payments, sessions, notifications, nil, &mockActivityRecorder{})
	return &paymentFixture{svc: svc, sessions: sessions, payments: payments, notifRepo: notifRepo}
}

func (f *paymentFixture) seedSession(t *testing.T, id, professorID string, status domain.SessionStatus, hours, rate float64) {
	t.Helper()
	err := f.sessions.Create(context.Background(), &domain.TeachingSession{
		ID:          id,
		ProfessorID: professorID,
		CourseName:  "Course " + id,
		Date:        time.Now(),
		Hours:       hours,
		HourlyRate:  rate,
		Amount:      hours * rate,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestPaymentService_Create(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	f.seedSession(t, "s-1", "prof-1", domain.SessionApproved, 2, 80)
	f.seedSession(t, "s-2", "prof-1", domain.SessionApproved, 3, 80)

	payment, err := f.svc.Create(ctx, "admin-1", &dto.CreatePaymentRequest{
		ProfessorID: "prof-1",
		SessionIDs:  []string{"s-1", "s-2"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if payment.Amount != 400 {
		t.Errorf("Amount = %v, want 400", payment.Amount)
	}
	if payment.TotalHours != 5 {
		t.Errorf("TotalHours = %v, want 5", payment.TotalHours)
	}
	if payment.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", payment.SessionCount)
	}
	if payment.Status != domain.PaymentPending {
		t.Errorf("Status = %q, want pending", payment.Status)
	}

	wantPrefix := "INV-" + time.Now().Format("200601") + "-"
	if !strings.HasPrefix(payment.InvoiceNumber, wantPrefix) {
		t.Errorf("InvoiceNumber = %q, want prefix %q", payment.InvoiceNumber, wantPrefix)
	}
	if got := len(payment.InvoiceNumber); got != len(wantPrefix)+8 {
		t.Errorf("InvoiceNumber length = %d, want %d", got, len(wantPrefix)+8)
	}

	// Sessions are marked paid and linked to the payment
	for _, id := range []string{"s-1", "s-2"} {
		s, _ := f.sessions.GetByID(ctx, id)
		if s.Status != domain.SessionPaid {
			t.Errorf("session %s status = %q, want paid", id, s.Status)
		}
		if s.PaymentID != payment.ID {
			t.Errorf("session %s payment_id = %q, want %q", id, s.PaymentID, payment.ID)
		}
	}

	// Professor got a payment_created notification
	notifications, _ := f.notifRepo.ListByUser(ctx, "prof-1", false, 10)
	if len(notifications) != 1 || notifications[0].Type != NotifyPaymentCreated {
		t.Errorf("notifications = %+v, want one payment_created", notifications)
	}
}

func TestPaymentService_Create_Validation(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	f.seedSession(t, "s-approved", "prof-1", domain.SessionApproved, 2, 80)
	f.seedSession(t, "s-pending", "prof-1", domain.SessionPending, 2, 80)
	f.seedSession(t, "s-other", "prof-2", domain.SessionApproved, 2, 60)

	tests := []struct {
		name    string
		req     *dto.CreatePaymentRequest
		wantErr error
	}{
		{
			"empty selection",
			&dto.CreatePaymentRequest{ProfessorID: "prof-1"},
			ErrNoSessionsSelected,
		},
		{
			"unknown session",
			&dto.CreatePaymentRequest{ProfessorID: "prof-1", SessionIDs: []string{"missing"}},
			ErrSessionNotFound,
		},
		{
			"unapproved session",
			&dto.CreatePaymentRequest{ProfessorID: "prof-1", SessionIDs: []string{"s-approved", "s-pending"}},
			ErrSessionNotApproved,
		},
		{
			"mixed professors",
			&dto.CreatePaymentRequest{ProfessorID: "prof-1", SessionIDs: []string{"s-approved", "s-other"}},
			ErrMixedProfessors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, "admin-1", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentService_MarkPaid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	f.seedSession(t, "s-1", "prof-1", domain.SessionApproved, 2, 80)

	payment, err := f.svc.Create(ctx, "admin-1", &dto.CreatePaymentRequest{
		ProfessorID: "prof-1",
		SessionIDs:  []string{"s-1"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	paid, err := f.svc.MarkPaid(ctx, "admin-1", payment.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if paid.Status != domain.PaymentCompleted {
		t.Errorf("Status = %q, want completed", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Error("PaidAt not set")
	}

	if _, err := f.svc.MarkPaid(ctx, "admin-1", payment.ID); !errors.Is(err, ErrPaymentNotPending) {
		t.Errorf("second MarkPaid() error = %v, want ErrPaymentNotPending", err)
	}
}

func TestPaymentService_GetAndList_Scoping(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	f.seedSession(t, "s-1", "prof-1", domain.SessionApproved, 2, 80)

	payment, err := f.svc.Create(ctx, "admin-1", &dto.CreatePaymentRequest{
		ProfessorID: "prof-1",
		SessionIDs:  []string{"s-1"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stranger := &domain.Principal{ID: "prof-9", Role: domain.RoleProfessor}
	if _, err := f.svc.Get(ctx, stranger, payment.ID); !errors.Is(err, ErrNotPaymentOwner) {
		t.Errorf("Get() by stranger error = %v, want ErrNotPaymentOwner", err)
	}

	owner := &domain.Principal{ID: "prof-1", Role: domain.RoleProfessor}
	if _, err := f.svc.Get(ctx, owner, payment.ID); err != nil {
		t.Errorf("Get() by owner error = %v", err)
	}

	list, total, err := f.svc.List(ctx, stranger, &dto.PaymentListQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Errorf("stranger sees %d payments, want 0", len(list))
	}
}
