package service

import (
	"context"
	"testing"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

func TestTokenJanitor_SweepOnce(t *testing.T) {
	repo := newMockRefreshTokenRepository()
	repo.Create(context.Background(), &domain.RefreshToken{
		ID:        "expired",
		UserID:    "u1",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	repo.Create(context.Background(), &domain.RefreshToken{
		ID:        "live",
		UserID:    "u1",
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	NewTokenJanitor(repo, time.Hour).SweepOnce(context.Background())

	if _, ok := repo.tokens["expired-token"]; ok {
		t.Error("expired token survived the sweep")
	}
	if _, ok := repo.tokens["live-token"]; !ok {
		t.Error("live token was deleted by the sweep")
	}
}

// sweepSignalRepo signals every DeleteExpired call
type sweepSignalRepo struct {
	*mockRefreshTokenRepository
	swept chan struct{}
}

func (r *sweepSignalRepo) DeleteExpired(ctx context.Context) error {
	select {
	case r.swept <- struct{}{}:
	default:
	}
	return r.mockRefreshTokenRepository.DeleteExpired(ctx)
}

func TestTokenJanitor_StartSweepsOnInterval(t *testing.T) {
	repo := &sweepSignalRepo{
		mockRefreshTokenRepository: newMockRefreshTokenRepository(),
		swept:                      make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewTokenJanitor(repo, 10*time.Millisecond).Start(ctx)
		close(done)
	}()

	select {
	case <-repo.swept:
	case <-time.After(time.Second):
		t.Fatal("janitor never swept")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on context cancel")
	}
}
