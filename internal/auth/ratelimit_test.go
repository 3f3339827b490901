package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AllowsWithinBudget(t *testing.T) {
	store := NewMemoryWindowStore(0)
	defer store.Stop()
	limiter := NewLimiter(store, 5, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		decision, err := limiter.Check(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d rejected, want all %d allowed", i, 5)
		}
		if want := 5 - i; decision.Remaining != want {
			t.Errorf("Remaining = %d on request %d, want %d", decision.Remaining, i, want)
		}
	}
}

func TestLimiter_RejectsOverBudget(t *testing.T) {
	store := NewMemoryWindowStore(0)
	defer store.Stop()
	limiter := NewLimiter(store, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := limiter.Check(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Check() error = %v", err)
		}
	}

	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if decision.Allowed {
		t.Fatal("request over budget allowed")
	}
	if decision.RetryAfter <= 0 || decision.RetryAfter > 60 {
		t.Errorf("RetryAfter = %d, want within (0, 60]", decision.RetryAfter)
	}

	// Rejected requests must not consume budget: the stored count stays at max
	count, _, allowed, err := store.Take(ctx, "10.0.0.1", 3, time.Minute)
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if allowed {
		t.Error("store allowed a request over budget")
	}
	if count != 3 {
		t.Errorf("count = %d after rejections, want it pinned at 3", count)
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	store := NewMemoryWindowStore(0)
	defer store.Stop()
	limiter := NewLimiter(store, 2, 50*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := limiter.Check(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Check() error = %v", err)
		}
	}
	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if decision.Allowed {
		t.Fatal("request over budget allowed")
	}

	time.Sleep(60 * time.Millisecond)

	decision, err = limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("request after window reset rejected")
	}
	if decision.Remaining != 1 {
		t.Errorf("Remaining = %d after reset, want 1", decision.Remaining)
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	store := NewMemoryWindowStore(0)
	defer store.Stop()
	limiter := NewLimiter(store, 1, time.Minute)
	ctx := context.Background()

	if _, err := limiter.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	decision, err := limiter.Check(ctx, "10.0.0.2")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("second client rejected because of the first client's traffic")
	}
}

// failingWindowStore simulates a backend outage
type failingWindowStore struct{}

func (failingWindowStore) Take(ctx context.Context, key string, max int, window time.Duration) (int, time.Time, bool, error) {
	return 0, time.Time{}, false, errors.New("backend down")
}

func TestLimiter_StoreFailurePropagates(t *testing.T) {
	limiter := NewLimiter(failingWindowStore{}, 5, time.Minute)

	decision, err := limiter.Check(context.Background(), "10.0.0.1")
	if err == nil {
		t.Fatal("Check() error = nil on store failure, want error")
	}
	if decision != nil {
		t.Errorf("decision = %+v on store failure, want nil", decision)
	}
}

func TestMemoryWindowStore_JanitorReclaims(t *testing.T) {
	store := NewMemoryWindowStore(10 * time.Millisecond)
	defer store.Stop()
	ctx := context.Background()

	if _, _, _, err := store.Take(ctx, "short-lived", 5, 20*time.Millisecond); err != nil {
		t.Fatalf("Take() error = %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	store.mu.Lock()
	_, exists := store.records["short-lived"]
	store.mu.Unlock()
	if exists {
		t.Error("expired window still present after janitor pass")
	}
}
