package auth

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// AttemptRecord tracks failed logins for one identity. Attempts resets to
// zero the moment the lock trips, so a fresh lockout cycle can begin once
// LockUntil passes.
type AttemptRecord struct {
	Attempts  int
	LockUntil time.Time
}

// AttemptStore holds login attempt records keyed by identity. Implementations
// must be safe for concurrent use. Get returns nil when no record exists.
type AttemptStore interface {
	Get(ctx context.Context, identity string) (*AttemptRecord, error)
	Put(ctx context.Context, identity string, rec *AttemptRecord, ttl time.Duration) error
	Delete(ctx context.Context, identity string) error
}

// LockStatus is the outcome of a guard check
type LockStatus struct {
	Locked            bool
	AttemptsRemaining int
	RetryAfter        int // seconds until the lock clears; zero when unlocked
}

// Message returns the client-facing lockout message
func (s *LockStatus) Message() string {
	if !s.Locked {
		return ""
	}
	return fmt.Sprintf("Account temporarily locked. Try again in %d seconds", s.RetryAfter)
}

// GuardConfig holds lockout policy settings
type GuardConfig struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// LoginGuard tracks failed login attempts per submitted identity and locks
// the identity out after too many consecutive failures. The identity key is
// the email exactly as submitted, not resolved to a user ID, so attempts
// against unknown accounts are throttled the same way.
type LoginGuard struct {
	store  AttemptStore
	config GuardConfig
	now    func() time.Time
}

// NewLoginGuard creates a new LoginGuard
func NewLoginGuard(store AttemptStore, cfg GuardConfig) *LoginGuard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	return &LoginGuard{
		store:  store,
		config: cfg,
		now:    time.Now,
	}
}

// IsLocked reports whether the identity is currently locked out. An expired
// lock is cleared as a side effect of the read.
func (g *LoginGuard) IsLocked(ctx context.Context, identity string) (*LockStatus, error) {
	rec, err := g.store.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("login guard lookup failed: %w", err)
	}
	if rec == nil {
		return &LockStatus{AttemptsRemaining: g.config.MaxAttempts}, nil
	}

	now := g.now()
	if !rec.LockUntil.IsZero() {
		if rec.LockUntil.After(now) {
			return &LockStatus{
				Locked:     true,
				RetryAfter: ceilSeconds(rec.LockUntil.Sub(now)),
			}, nil
		}
		// Lock expired: drop the record so the next cycle starts clean
		if err := g.store.Delete(ctx, identity); err != nil {
			return nil, fmt.Errorf("login guard cleanup failed: %w", err)
		}
		return &LockStatus{AttemptsRemaining: g.config.MaxAttempts}, nil
	}

	return &LockStatus{AttemptsRemaining: g.config.MaxAttempts - rec.Attempts}, nil
}

// RecordAttempt registers the outcome of a login attempt. A success wipes
// the record entirely. A failure increments the counter and trips the lock
// once the threshold is reached. Callers are expected to have checked
// IsLocked before verifying credentials; RecordAttempt does not re-check.
func (g *LoginGuard) RecordAttempt(ctx context.Context, identity string, success bool) (*LockStatus, error) {
	if success {
		if err := g.store.Delete(ctx, identity); err != nil {
			return nil, fmt.Errorf("login guard reset failed: %w", err)
		}
		return &LockStatus{AttemptsRemaining: g.config.MaxAttempts}, nil
	}

	rec, err := g.store.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("login guard lookup failed: %w", err)
	}
	if rec == nil {
		rec = &AttemptRecord{}
	}

	rec.Attempts++
	if rec.Attempts >= g.config.MaxAttempts {
		rec.LockUntil = g.now().Add(g.config.LockoutDuration)
		rec.Attempts = 0
		if err := g.store.Put(ctx, identity, rec, g.config.LockoutDuration); err != nil {
			return nil, fmt.Errorf("login guard update failed: %w", err)
		}
		return &LockStatus{
			Locked:     true,
			RetryAfter: int(g.config.LockoutDuration.Seconds()),
		}, nil
	}

	if err := g.store.Put(ctx, identity, rec, g.config.LockoutDuration); err != nil {
		return nil, fmt.Errorf("login guard update failed: %w", err)
	}
	return &LockStatus{AttemptsRemaining: g.config.MaxAttempts - rec.Attempts}, nil
}

func ceilSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// memoryAttemptEntry wraps a record with its reclamation deadline
type memoryAttemptEntry struct {
	rec       AttemptRecord
	expiresAt time.Time
}

// MemoryAttemptStore is the default in-process AttemptStore. A janitor
// goroutine reclaims stale records so idle identities don't accumulate.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]*memoryAttemptEntry
	stop    chan struct{}
}

// NewMemoryAttemptStore creates a memory store and starts its janitor.
// cleanupInterval <= 0 disables background reclamation.
func NewMemoryAttemptStore(cleanupInterval time.Duration) *MemoryAttemptStore {
	s := &MemoryAttemptStore{
		entries: make(map[string]*memoryAttemptEntry),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryAttemptStore) Get(ctx context.Context, identity string) (*AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identity]
	if !ok {
		return nil, nil
	}
	rec := entry.rec
	return &rec, nil
}

func (s *MemoryAttemptStore) Put(ctx context.Context, identity string, rec *AttemptRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[identity] = &memoryAttemptEntry{
		rec:       *rec,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryAttemptStore) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, identity)
	return nil
}

// Stop terminates the janitor goroutine
func (s *MemoryAttemptStore) Stop() {
	close(s.stop)
}

func (s *MemoryAttemptStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for identity, entry := range s.entries {
				if entry.expiresAt.Before(now) {
					delete(s.entries, identity)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
