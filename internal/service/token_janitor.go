package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/repository"
	"github.com/u1krsh/EduPay/pkg/logger"
)

// TokenJanitor deletes expired refresh token rows on an interval. Expired
// rows are already unusable (GetValid filters on expiry), so the sweep only
// keeps the table from growing without bound.
type TokenJanitor struct {
	tokenRepo repository.RefreshTokenRepository
	interval  time.Duration
}

// NewTokenJanitor creates a new TokenJanitor. interval <= 0 falls back to
// one hour.
func NewTokenJanitor(tokenRepo repository.RefreshTokenRepository, interval time.Duration) *TokenJanitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenJanitor{tokenRepo: tokenRepo, interval: interval}
}

// Start runs the sweep loop until the context is cancelled
func (j *TokenJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep. Failures are logged, not returned; the next
// tick retries.
func (j *TokenJanitor) SweepOnce(ctx context.Context) {
	if err := j.tokenRepo.DeleteExpired(ctx); err != nil {
		logger.Get().Error("refresh token sweep failed", zap.Error(err))
	}
}
