package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WindowStore backs a fixed-window counter keyed by client identity.
// Take consumes one slot for the current window and reports the counter
// state afterwards. Once the window's budget is exhausted the count stays
// put and allowed is false; a call after resetTime starts a fresh window.
// Implementations must make the read-modify-write atomic per key.
type WindowStore interface {
	Take(ctx context.Context, key string, max int, window time.Duration) (count int, resetTime time.Time, allowed bool, err error)
}

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter int // seconds until the window resets; zero when allowed
}

// Limiter enforces a fixed-window request budget per client identity.
// Each configured policy (global API, stricter auth endpoints) gets its own
// Limiter with an independent store, so the same client is counted
// separately per policy.
type Limiter struct {
	store  WindowStore
	max    int
	window time.Duration
	now    func() time.Time
}

// NewLimiter creates a Limiter enforcing max requests per window
func NewLimiter(store WindowStore, max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Check consumes one request slot for the client. A store failure is
// returned to the caller; the limiter never fails open on internal error.
func (l *Limiter) Check(ctx context.Context, clientID string) (*Decision, error) {
	count, resetTime, allowed, err := l.store.Take(ctx, clientID, l.max, l.window)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	if !allowed {
		return &Decision{
			Allowed:    false,
			RetryAfter: ceilSeconds(resetTime.Sub(l.now())),
		}, nil
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return &Decision{Allowed: true, Remaining: remaining}, nil
}

// windowRecord is one client's counter for the current window
type windowRecord struct {
	count     int
	resetTime time.Time
}

// MemoryWindowStore is the default in-process WindowStore. A janitor
// goroutine drops windows whose reset time has passed, bounding memory
// growth without touching the request path.
type MemoryWindowStore struct {
	mu      sync.Mutex
	records map[string]*windowRecord
	stop    chan struct{}
}

// NewMemoryWindowStore creates a memory store and starts its janitor.
// cleanupInterval <= 0 disables background reclamation.
func NewMemoryWindowStore(cleanupInterval time.Duration) *MemoryWindowStore {
	s := &MemoryWindowStore{
		records: make(map[string]*windowRecord),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryWindowStore) Take(ctx context.Context, key string, max int, window time.Duration) (int, time.Time, bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.After(rec.resetTime) {
		rec = &windowRecord{count: 1, resetTime: now.Add(window)}
		s.records[key] = rec
		return rec.count, rec.resetTime, true, nil
	}

	if rec.count >= max {
		return rec.count, rec.resetTime, false, nil
	}

	rec.count++
	return rec.count, rec.resetTime, true, nil
}

// Stop terminates the janitor goroutine
func (s *MemoryWindowStore) Stop() {
	close(s.stop)
}

func (s *MemoryWindowStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, rec := range s.records {
				if rec.resetTime.Before(now) {
					delete(s.records, key)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
