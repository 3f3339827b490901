package auth

import (
	"context"
	"testing"
	"time"
)

func newTestGuard() (*LoginGuard, *MemoryAttemptStore) {
	store := NewMemoryAttemptStore(0)
	guard := NewLoginGuard(store, GuardConfig{
		MaxAttempts:     5,
		LockoutDuration: 15 * time.Minute,
	})
	return guard, store
}

func TestLoginGuard_LocksAfterMaxFailures(t *testing.T) {
	guard, _ := newTestGuard()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		status, err := guard.RecordAttempt(ctx, "prof@university.edu", false)
		if err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
		if status.Locked {
			t.Fatalf("locked after %d failures, want lock only at 5", i)
		}
		if want := 5 - i; status.AttemptsRemaining != want {
			t.Errorf("AttemptsRemaining = %d after %d failures, want %d", status.AttemptsRemaining, i, want)
		}
	}

	status, err := guard.RecordAttempt(ctx, "prof@university.edu", false)
	if err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if !status.Locked {
		t.Fatal("not locked after 5 failures")
	}
	if status.RetryAfter != 15*60 {
		t.Errorf("RetryAfter = %d, want %d", status.RetryAfter, 15*60)
	}

	locked, err := guard.IsLocked(ctx, "prof@university.edu")
	if err != nil {
		t.Fatalf("IsLocked() error = %v", err)
	}
	if !locked.Locked {
		t.Error("IsLocked() = false after lock tripped")
	}
	if locked.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %d, want > 0", locked.RetryAfter)
	}
}

func TestLoginGuard_SuccessResetsCounter(t *testing.T) {
	guard, _ := newTestGuard()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := guard.RecordAttempt(ctx, "prof@university.edu", false); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
	}
	if _, err := guard.RecordAttempt(ctx, "prof@university.edu", true); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	// A fresh run of failures should get the full budget again
	status, err := guard.RecordAttempt(ctx, "prof@university.edu", false)
	if err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if status.Locked {
		t.Error("locked after a single failure following a success")
	}
	if status.AttemptsRemaining != 4 {
		t.Errorf("AttemptsRemaining = %d, want 4", status.AttemptsRemaining)
	}
}

func TestLoginGuard_LockExpires(t *testing.T) {
	guard, _ := newTestGuard()
	ctx := context.Background()

	base := time.Now()
	guard.now = func() time.Time { return base }

	for i := 0; i < 5; i++ {
		if _, err := guard.RecordAttempt(ctx, "prof@university.edu", false); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
	}

	guard.now = func() time.Time { return base.Add(16 * time.Minute) }

	status, err := guard.IsLocked(ctx, "prof@university.edu")
	if err != nil {
		t.Fatalf("IsLocked() error = %v", err)
	}
	if status.Locked {
		t.Error("still locked after lockout duration passed")
	}
	if status.AttemptsRemaining != 5 {
		t.Errorf("AttemptsRemaining = %d after expiry, want full budget 5", status.AttemptsRemaining)
	}
}

func TestLoginGuard_IdentitiesAreIndependent(t *testing.T) {
	guard, _ := newTestGuard()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := guard.RecordAttempt(ctx, "a@university.edu", false); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
	}

	status, err := guard.IsLocked(ctx, "b@university.edu")
	if err != nil {
		t.Fatalf("IsLocked() error = %v", err)
	}
	if status.Locked {
		t.Error("locking one identity must not lock another")
	}
}

func TestLoginGuard_CaseSensitiveIdentity(t *testing.T) {
	guard, _ := newTestGuard()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := guard.RecordAttempt(ctx, "Prof@University.edu", false); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
	}

	// The guard keys on the submitted string as-is
	status, err := guard.IsLocked(ctx, "prof@university.edu")
	if err != nil {
		t.Fatalf("IsLocked() error = %v", err)
	}
	if status.Locked {
		t.Error("differently-cased identity shares a lock, want independent tracking")
	}
}

func TestLockStatus_Message(t *testing.T) {
	s := &LockStatus{Locked: true, RetryAfter: 900}
	want := "Account temporarily locked. Try again in 900 seconds"
	if got := s.Message(); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	unlocked := &LockStatus{}
	if got := unlocked.Message(); got != "" {
		t.Errorf("Message() on unlocked status = %q, want empty", got)
	}
}
