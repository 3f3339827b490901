package service

import (
	"context"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/repository"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	emailIndex  map[string]*domain.User
	createError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users[id], nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.emailIndex[email], nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, exists := r.emailIndex[email]
	return exists, nil
}

func (r *mockUserRepository) ListProfessors(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleProfessor && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockRefreshTokenRepository is a mock implementation of RefreshTokenRepository
type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *mockRefreshTokenRepository) GetValid(ctx context.Context, token string) (*domain.RefreshToken, error) {
	stored, ok := r.tokens[token]
	if !ok || time.Now().After(stored.ExpiresAt) {
		return nil, nil
	}
	return stored, nil
}

func (r *mockRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *mockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for key, stored := range r.tokens {
		if stored.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *mockRefreshTokenRepository) DeleteExpired(ctx context.Context) error {
	now := time.Now()
	for key, stored := range r.tokens {
		if now.After(stored.ExpiresAt) {
			delete(r.tokens, key)
		}
	}
	return nil
}

// mockSessionRepository is a mock implementation of SessionRepository
type mockSessionRepository struct {
	sessions map[string]*domain.TeachingSession
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*domain.TeachingSession)}
}

func (r *mockSessionRepository) Create(ctx context.Context, session *domain.TeachingSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepository) GetByID(ctx context.Context, id string) (*domain.TeachingSession, error) {
	return r.sessions[id], nil
}

func (r *mockSessionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.TeachingSession, error) {
	var out []*domain.TeachingSession
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mockSessionRepository) List(ctx context.Context, filter repository.SessionFilter) ([]*domain.TeachingSession, int64, error) {
	var out []*domain.TeachingSession
	for _, s := range r.sessions {
		if filter.ProfessorID != "" && s.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *mockSessionRepository) Update(ctx context.Context, session *domain.TeachingSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepository) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

// mockPaymentRepository is a mock implementation of PaymentRepository
type mockPaymentRepository struct {
	payments map[string]*domain.Payment
	sessions *mockSessionRepository
}

func newMockPaymentRepository(sessions *mockSessionRepository) *mockPaymentRepository {
	return &mockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		sessions: sessions,
	}
}

func (r *mockPaymentRepository) CreateWithSessions(ctx context.Context, payment *domain.Payment, sessionIDs []string) error {
	r.payments[payment.ID] = payment
	for _, id := range sessionIDs {
		if s, ok := r.sessions.sessions[id]; ok {
			s.Status = domain.SessionPaid
			s.PaymentID = payment.ID
		}
	}
	return nil
}

func (r *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.payments[id], nil
}

func (r *mockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*domain.Payment, int64, error) {
	var out []*domain.Payment
	for _, p := range r.payments {
		if filter.ProfessorID != "" && p.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *mockPaymentRepository) MarkCompleted(ctx context.Context, id string, paidAt time.Time) error {
	p := r.payments[id]
	p.Status = domain.PaymentCompleted
	p.PaidAt = &paidAt
	return nil
}

// mockNotificationRepository is a mock implementation of NotificationRepository
type mockNotificationRepository struct {
	notifications []*domain.Notification
}

func (r *mockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *mockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *mockNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *mockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// recordedActivity captures audit calls for assertions
type recordedActivity struct {
	Action   string
	EntityID string
}

// mockActivityRecorder is a no-op ActivityRecorder that remembers calls
type mockActivityRecorder struct {
	recorded []recordedActivity
}

func (r *mockActivityRecorder) Record(ctx context.Context, userID, action, entityType, entityID, details string) {
	r.recorded = append(r.recorded, recordedActivity{Action: action, EntityID: entityID})
}
