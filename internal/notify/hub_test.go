package notify

import (
	"testing"
	"time"

	"github.com/u1krsh/EduPay/internal/domain"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("user-1")
	defer cancel()

	hub.Publish(&domain.Notification{UserID: "user-1", Title: "hello"})

	select {
	case n := <-ch:
		if n.Title != "hello" {
			t.Errorf("Title = %q, want %q", n.Title, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("notification never delivered")
	}
}

func TestHub_PublishIsScopedToUser(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("user-1")
	defer cancel()

	hub.Publish(&domain.Notification{UserID: "user-2", Title: "not yours"})

	select {
	case n := <-ch:
		t.Fatalf("received another user's notification: %+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_CancelRemovesSubscription(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("user-1")

	if got := hub.SubscriberCount("user-1"); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}

	cancel()
	if got := hub.SubscriberCount("user-1"); got != 0 {
		t.Errorf("SubscriberCount after cancel = %d, want 0", got)
	}

	// A second cancel must not panic on the already-closed channel
	cancel()
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	slow, cancelSlow := hub.Subscribe("user-1")
	defer cancelSlow()
	_ = slow

	// Fill the slow subscriber's buffer and keep publishing
	for i := 0; i < 100; i++ {
		hub.Publish(&domain.Notification{UserID: "user-1"})
	}

	fresh, cancelFresh := hub.Subscribe("user-1")
	defer cancelFresh()
	hub.Publish(&domain.Notification{UserID: "user-1", Title: "still flowing"})

	select {
	case n := <-fresh:
		if n.Title != "still flowing" {
			t.Errorf("Title = %q, want %q", n.Title, "still flowing")
		}
	case <-time.After(time.Second):
		t.Fatal("publish blocked by a slow subscriber")
	}
}
