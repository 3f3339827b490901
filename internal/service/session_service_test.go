package service

import (
	"context"
	"errors"
	"testing"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/notify"
)

type sessionFixture struct {
	svc       SessionService
	users     *mockUserRepository
	sessions  *mockSessionRepository
	notifRepo *mockNotificationRepository
	activity  *mockActivityRecorder
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	notifRepo := &mockNotificationRepository{}
	activity := &mockActivityRecorder{}
	notifications := NewNotificationService(notifRepo, notify.NewHub())

	svc := NewSessionService(sessions, users, notifications, nil, activity)
	return &sessionFixture{svc: svc, users: users, sessions: sessions, notifRepo: notifRepo, activity: activity}
}

func (f *sessionFixture) seedProfessor(t *testing.T, id string, rate float64) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:         id,
		Email:      id + "@university.edu",
		Name:       "Prof " + id,
		Role:       domain.RoleProfessor,
		HourlyRate: rate,
		IsActive:   true,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed professor: %v", err)
	}
	return user
}

func TestSessionService_Create(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.seedProfessor(t, "prof-1", 80)

	session, err := f.svc.Create(ctx, "prof-1", &dto.CreateSessionRequest{
		CourseName: "Distributed Systems",
		Date:       "2026-03-15",
		Hours:      2.5,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.Status != domain.SessionPending {
		t.Errorf("Status = %q, want pending", session.Status)
	}
	if session.Amount != 200 {
		t.Errorf("Amount = %v, want 200 (2.5h x 80)", session.Amount)
	}
	if session.HourlyRate != 80 {
		t.Errorf("HourlyRate = %v, want snapshot 80", session.HourlyRate)
	}
}

func TestSessionService_Create_RequiresRate(t *testing.T) {
	f := newSessionFixture(t)
	f.seedProfessor(t, "prof-1", 0)

	_, err := f.svc.Create(context.Background(), "prof-1", &dto.CreateSessionRequest{
		CourseName: "Algorithms",
		Date:       "2026-03-15",
		Hours:      1,
	})
	if !errors.Is(err, ErrProfessorWithoutRate) {
		t.Errorf("Create() error = %v, want ErrProfessorWithoutRate", err)
	}
}

func TestSessionService_UpdateAndDelete_PendingOnly(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.seedProfessor(t, "prof-1", 80)

	session, err := f.svc.Create(ctx, "prof-1", &dto.CreateSessionRequest{
		CourseName: "Algorithms",
		Date:       "2026-03-15",
		Hours:      2,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("owner can edit pending", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, "prof-1", session.ID, &dto.UpdateSessionRequest{Hours: 3})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Amount != 240 {
			t.Errorf("Amount = %v, want 240 after hours change", updated.Amount)
		}
	})

	t.Run("other professor cannot edit", func(t *testing.T) {
		f.seedProfessor(t, "prof-2", 60)
		_, err := f.svc.Update(ctx, "prof-2", session.ID, &dto.UpdateSessionRequest{Hours: 1})
		if !errors.Is(err, ErrNotSessionOwner) {
			t.Errorf("Update() error = %v, want ErrNotSessionOwner", err)
		}
	})

	t.Run("approved session is frozen", func(t *testing.T) {
		if _, err := f.svc.Approve(ctx, "admin-1", session.ID, ""); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if _, err := f.svc.Update(ctx, "prof-1", session.ID, &dto.UpdateSessionRequest{Hours: 1}); !errors.Is(err, ErrSessionNotPending) {
			t.Errorf("Update() error = %v, want ErrSessionNotPending", err)
		}
		if err := f.svc.Delete(ctx, "prof-1", session.ID); !errors.Is(err, ErrSessionNotPending) {
			t.Errorf("Delete() error = %v, want ErrSessionNotPending", err)
		}
	})
}

func TestSessionService_Review(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.seedProfessor(t, "prof-1", 80)

	session, err := f.svc.Create(ctx, "prof-1", &dto.CreateSessionRequest{
		CourseName: "Compilers",
		Date:       "2026-04-01",
		Hours:      2,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	approved, err := f.svc.Approve(ctx, "admin-1", session.ID, "looks right")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != domain.SessionApproved {
		t.Errorf("Status = %q, want approved", approved.Status)
	}
	if approved.ReviewedBy != "admin-1" || approved.ReviewNote != "looks right" {
		t.Errorf("review fields = (%q, %q), want (admin-1, looks right)", approved.ReviewedBy, approved.ReviewNote)
	}

	// The professor gets a notification
	notifications, err := f.notifRepo.ListByUser(ctx, "prof-1", false, 10)
	if err != nil || len(notifications) != 1 {
		t.Fatalf("notifications = %d (err %v), want 1", len(notifications), err)
	}
	if notifications[0].Type != NotifySessionApproved {
		t.Errorf("notification type = %q, want %q", notifications[0].Type, NotifySessionApproved)
	}

	// Re-reviewing an approved session is rejected
	if _, err := f.svc.Reject(ctx, "admin-1", session.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Reject() after approve error = %v, want ErrInvalidTransition", err)
	}
}

func TestSessionService_ListScoping(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.seedProfessor(t, "prof-1", 80)
	f.seedProfessor(t, "prof-2", 60)

	for _, professorID := range []string{"prof-1", "prof-1", "prof-2"} {
		if _, err := f.svc.Create(ctx, professorID, &dto.CreateSessionRequest{
			CourseName: "Course",
			Date:       "2026-03-15",
			Hours:      1,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	query := &dto.SessionListQuery{Page: 1, PageSize: 20, ProfessorID: "prof-2"}

	// A professor is pinned to their own sessions even when filtering
	professor := &domain.Principal{ID: "prof-1", Role: domain.RoleProfessor}
	own, total, err := f.svc.List(ctx, professor, query)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(own) != 2 {
		t.Errorf("professor list = %d/%d, want 2/2", len(own), total)
	}

	// An admin's professor filter is honored
	admin := &domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	filtered, total, err := f.svc.List(ctx, admin, query)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(filtered) != 1 {
		t.Errorf("admin filtered list = %d/%d, want 1/1", len(filtered), total)
	}
}

func TestSessionService_Get_Ownership(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.seedProfessor(t, "prof-1", 80)

	session, err := f.svc.Create(ctx, "prof-1", &dto.CreateSessionRequest{
		CourseName: "Networks",
		Date:       "2026-05-01",
		Hours:      1,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stranger := &domain.Principal{ID: "prof-9", Role: domain.RoleProfessor}
	if _, err := f.svc.Get(ctx, stranger, session.ID); !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("Get() by stranger error = %v, want ErrNotSessionOwner", err)
	}

	admin := &domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	if _, err := f.svc.Get(ctx, admin, session.ID); err != nil {
		t.Errorf("Get() by admin error = %v", err)
	}

	if _, err := f.svc.Get(ctx, admin, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() missing error = %v, want ErrSessionNotFound", err)
	}
}
