package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/notify"
	"github.com/u1krsh/EduPay/internal/repository"
	"github.com/u1krsh/EduPay/pkg/logger"
)

// Notification types
const (
	NotifySessionApproved  = "session_approved"
	NotifySessionRejected  = "session_rejected"
	NotifyPaymentCreated   = "payment_created"
	NotifyPaymentCompleted = "payment_completed"
)

// NotificationService persists notifications and pushes them to live SSE
// subscribers through the hub.
type NotificationService struct {
	repo repository.NotificationRepository
	hub  *notify.Hub
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository, hub *notify.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// Notify creates a notification and fans it out. Persistence failure is
// logged and swallowed: a broken notification must not fail the approval or
// payment that raised it.
func (s *NotificationService) Notify(ctx context.Context, userID, notifType, title, message string) {
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Get().Error("failed to create notification",
			zap.String("user_id", userID),
			zap.String("type", notifType),
			zap.Error(err))
		return
	}
	s.hub.Publish(n)
}

// List retrieves the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit)
}

// MarkRead marks one of the user's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount counts the user's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Subscribe attaches a live SSE subscriber for the user
func (s *NotificationService) Subscribe(userID string) (<-chan *domain.Notification, func()) {
	return s.hub.Subscribe(userID)
}
