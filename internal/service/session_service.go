package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/events"
	"github.com/u1krsh/EduPay/internal/repository"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotSessionOwner      = errors.New("session belongs to another professor")
	ErrSessionNotPending    = errors.New("session is no longer pending")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrProfessorWithoutRate = errors.New("professor has no hourly rate configured")
)

// SessionService defines the interface for teaching session operations
type SessionService interface {
	// Create logs a new teaching session for the professor
	Create(ctx context.Context, professorID string, req *dto.CreateSessionRequest) (*domain.TeachingSession, error)
	// Get retrieves a session the principal may see
	Get(ctx context.Context, principal *domain.Principal, id string) (*domain.TeachingSession, error)
	// List retrieves sessions: professors see their own, admins see all
	List(ctx context.Context, principal *domain.Principal, query *dto.SessionListQuery) ([]*domain.TeachingSession, int64, error)
	// Update edits a still-pending session owned by the professor
	Update(ctx context.Context, professorID, id string, req *dto.UpdateSessionRequest) (*domain.TeachingSession, error)
	// Delete removes a still-pending session owned by the professor
	Delete(ctx context.Context, professorID, id string) error
	// Approve approves a pending session
	Approve(ctx context.Context, adminID, id, note string) (*domain.TeachingSession, error)
	// Reject rejects a pending session
	Reject(ctx context.Context, adminID, id, note string) (*domain.TeachingSession, error)
}

// sessionService implements SessionService
type sessionService struct {
	sessions      repository.SessionRepository
	users         repository.UserRepository
	notifications *NotificationService
	producer      *events.Producer
	activity      ActivityRecorder
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	producer *events.Producer,
	activity ActivityRecorder,
) SessionService {
	return &sessionService{
		sessions:      sessions,
		users:         users,
		notifications: notifications,
		producer:      producer,
		activity:      activity,
	}
}

// Create logs a new teaching session. The hourly rate is snapshotted from
// the professor's profile at creation, so later rate changes do not reprice
// logged work.
func (s *sessionService) Create(ctx context.Context, professorID string, req *dto.CreateSessionRequest) (*domain.TeachingSession, error) {
	professor, err := s.users.GetByID(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if professor == nil {
		return nil, ErrUserNotFound
	}
	if professor.HourlyRate <= 0 {
		return nil, ErrProfessorWithoutRate
	}

	date, ok := req.ParseDate()
	if !ok {
		return nil, fmt.Errorf("invalid session date %q", req.Date)
	}

	now := time.Now()
	session := &domain.TeachingSession{
		ID:          uuid.New().String(),
		ProfessorID: professorID,
		CourseName:  req.CourseName,
		Date:        date,
		Hours:       req.Hours,
		HourlyRate:  professor.HourlyRate,
		Amount:      req.Hours * professor.HourlyRate,
		Status:      domain.SessionPending,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, professorID, "session.created", "session", session.ID, session.CourseName)
	return session, nil
}

// Get retrieves a session. Professors only see their own.
func (s *sessionService) Get(ctx context.Context, principal *domain.Principal, id string) (*domain.TeachingSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if principal.Role != domain.RoleAdmin && session.ProfessorID != principal.ID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// List retrieves sessions. Professors are pinned to their own sessions no
// matter what filter they send; admins may filter by professor.
func (s *sessionService) List(ctx context.Context, principal *domain.Principal, query *dto.SessionListQuery) ([]*domain.TeachingSession, int64, error) {
	filter := repository.SessionFilter{
		Status: domain.SessionStatus(query.Status),
		Limit:  query.PageSize,
		Offset: (query.Page - 1) * query.PageSize,
	}

	if principal.Role == domain.RoleAdmin {
		filter.ProfessorID = query.ProfessorID
	} else {
		filter.ProfessorID = principal.ID
	}

	if query.Month != "" {
		month, err := time.Parse("2006-01", query.Month)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid month filter %q", query.Month)
		}
		filter.Month = month
	}

	return s.sessions.List(ctx, filter)
}

// Update edits a still-pending session owned by the professor. Hours and
// date changes recompute the amount at the snapshotted rate.
func (s *sessionService) Update(ctx context.Context, professorID, id string, req *dto.UpdateSessionRequest) (*domain.TeachingSession, error) {
	session, err := s.ownPendingSession(ctx, professorID, id)
	if err != nil {
		return nil, err
	}

	if req.CourseName != "" {
		session.CourseName = req.CourseName
	}
	if req.Date != "" {
		date, ok := req.ParseDate()
		if !ok {
			return nil, fmt.Errorf("invalid session date %q", req.Date)
		}
		session.Date = date
	}
	if req.Hours > 0 {
		session.Hours = req.Hours
		session.Amount = req.Hours * session.HourlyRate
	}
	if req.Notes != "" {
		session.Notes = req.Notes
	}
	session.UpdatedAt = time.Now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, professorID, "session.updated", "session", session.ID, "")
	return session, nil
}

// Delete removes a still-pending session owned by the professor
func (s *sessionService) Delete(ctx context.Context, professorID, id string) error {
	session, err := s.ownPendingSession(ctx, professorID, id)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}

	s.activity.Record(ctx, professorID, "session.deleted", "session", session.ID, "")
	return nil
}

// Approve approves a pending session
func (s *sessionService) Approve(ctx context.Context, adminID, id, note string) (*domain.TeachingSession, error) {
	return s.review(ctx, adminID, id, note, domain.SessionApproved)
}

// Reject rejects a pending session
func (s *sessionService) Reject(ctx context.Context, adminID, id, note string) (*domain.TeachingSession, error) {
	return s.review(ctx, adminID, id, note, domain.SessionRejected)
}

func (s *sessionService) review(ctx context.Context, adminID, id, note string, to domain.SessionStatus) (*domain.TeachingSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	session.Status = to
	session.ReviewNote = note
	session.ReviewedBy = adminID
	session.UpdatedAt = time.Now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	notifType := NotifySessionApproved
	title := "Session approved"
	action := "session.approved"
	if to == domain.SessionRejected {
		notifType = NotifySessionRejected
		title = "Session rejected"
		action = "session.rejected"
	}
	message := fmt.Sprintf("Your session %q on %s was %s", session.CourseName,
		session.Date.Format("2006-01-02"), to)
	if note != "" {
		message += ": " + note
	}

	s.notifications.Notify(ctx, session.ProfessorID, notifType, title, message)
	s.activity.Record(ctx, adminID, action, "session", session.ID, note)
	s.producer.Publish(ctx, events.TopicSessionReviewed, &events.Event{
		EventType: action,
		EntityID:  session.ID,
		UserID:    session.ProfessorID,
		Payload:   map[string]interface{}{"status": to, "amount": session.Amount},
	})

	return session, nil
}

// ownPendingSession loads a session and checks ownership and pending state
func (s *sessionService) ownPendingSession(ctx context.Context, professorID, id string) (*domain.TeachingSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.ProfessorID != professorID {
		return nil, ErrNotSessionOwner
	}
	if session.Status != domain.SessionPending {
		return nil, ErrSessionNotPending
	}
	return session, nil
}
