package notify

import (
	"sync"

	"github.com/u1krsh/EduPay/internal/domain"
)

// Hub fans notifications out to connected SSE subscribers, keyed by user.
// It is a plain injected dependency; construct one per process and pass it
// where needed.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *domain.Notification]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan *domain.Notification]struct{}),
	}
}

// Subscribe registers a new subscriber channel for the user. The returned
// cancel function removes the subscription and closes the channel; it is
// safe to call once the client disconnects.
func (h *Hub) Subscribe(userID string) (<-chan *domain.Notification, func()) {
	ch := make(chan *domain.Notification, 16)

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan *domain.Notification]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subscribers[userID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers a notification to every subscriber the user has. A slow
// subscriber whose buffer is full is skipped rather than blocking delivery
// to the rest.
func (h *Hub) Publish(n *domain.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[n.UserID] {
		select {
		case ch <- n:
		default:
		}
	}
}

// SubscriberCount reports how many channels the user currently holds
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
