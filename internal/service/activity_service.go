package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/repository"
	"github.com/u1krsh/EduPay/pkg/logger"
)

// ActivityRecorder appends entries to the audit trail. Recording is
// best-effort: a failed append is logged and swallowed so it never fails
// the operation being audited.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action, entityType, entityID, details string)
}

// ActivityService implements ActivityRecorder backed by the activity_log
// table, and serves the admin listing.
type ActivityService struct {
	repo repository.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends an audit entry
func (s *ActivityService) Record(ctx context.Context, userID, action, entityType, entityID, details string) {
	entry := &domain.ActivityLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Get().Error("failed to record activity",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

// ListRecent retrieves the newest audit entries for the admin view
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
