package event

import (
	"sync"
	"testing"

	"github.com/viora/viora/internal/model"
)

func TestBus_PublishDeliversToSubscribersInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		order = append(order, "first")
	})
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		order = append(order, "second")
	})
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		order = append(order, "third")
	})

	bus.Publish(model.PublishedImageEvent{ID: "img-1"})

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("delivered count = %d, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("order[%d] = %q, want %q", i, order[i], name)
		}
	}
}

func TestBus_PublishDeliversEventPayload(t *testing.T) {
	bus := NewBus()

	var received model.PublishedImageEvent
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		received = ev
	})

	bus.Publish(model.PublishedImageEvent{
		ID:       "img-1",
		Prompt:   "a mountain at sunset",
		ImageURL: "https://example.com/img.png",
		Hearts:   0,
	})

	if received.ID != "img-1" {
		t.Errorf("ID = %q, want %q", received.ID, "img-1")
	}
	if received.Prompt != "a mountain at sunset" {
		t.Errorf("Prompt = %q, want %q", received.Prompt, "a mountain at sunset")
	}
	if received.ImageURL != "https://example.com/img.png" {
		t.Errorf("ImageURL = %q, want %q", received.ImageURL, "https://example.com/img.png")
	}
}

func TestBus_PublishWithoutSubscribersDoesNotPanic(t *testing.T) {
	bus := NewBus()
	bus.Publish(model.PublishedImageEvent{ID: "img-1"})
}

func TestBus_UnsubscribedHandlerDoesNotReceiveLaterEvents(t *testing.T) {
	bus := NewBus()

	count := 0
	sub := bus.Subscribe(func(ev model.PublishedImageEvent) {
		count++
	})

	bus.Publish(model.PublishedImageEvent{ID: "img-1"})
	sub.Unsubscribe()
	bus.Publish(model.PublishedImageEvent{ID: "img-2"})

	if count != 1 {
		t.Errorf("delivered count = %d, want 1", count)
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()

	sub1 := bus.Subscribe(func(ev model.PublishedImageEvent) {})
	sub2 := bus.Subscribe(func(ev model.PublishedImageEvent) {})

	sub1.Unsubscribe()
	sub1.Unsubscribe()
	sub1.Unsubscribe()

	if got := bus.SubscriberCount(); got != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", got)
	}

	// 2回目以降のUnsubscribeが他の購読に影響しないこと
	count := 0
	sub3 := bus.Subscribe(func(ev model.PublishedImageEvent) {
		count++
	})
	bus.Publish(model.PublishedImageEvent{ID: "img-1"})
	if count != 1 {
		t.Errorf("delivered count = %d, want 1", count)
	}

	sub2.Unsubscribe()
	sub3.Unsubscribe()
	if got := bus.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}
}

func TestBus_PanicInHandlerDoesNotStopOtherHandlers(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		panic("handler failure")
	})
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		delivered = true
	})

	bus.Publish(model.PublishedImageEvent{ID: "img-1"})

	if !delivered {
		t.Error("expected delivery to continue after handler panic")
	}
}

func TestBus_PanicInHandlerDoesNotPropagateToPublisher(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		panic("handler failure")
	})

	defer func() {
		if rec := recover(); rec != nil {
			t.Errorf("panic propagated to publisher: %v", rec)
		}
	}()
	bus.Publish(model.PublishedImageEvent{ID: "img-1"})
}

func TestBus_LateSubscriberDoesNotReceivePastEvents(t *testing.T) {
	bus := NewBus()

	bus.Publish(model.PublishedImageEvent{ID: "img-1"})

	count := 0
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		count++
	})

	if count != 0 {
		t.Errorf("late subscriber received %d past events, want 0", count)
	}

	bus.Publish(model.PublishedImageEvent{ID: "img-2"})
	if count != 1 {
		t.Errorf("delivered count = %d, want 1", count)
	}
}

func TestBus_ConcurrentPublishPreservesPerListenerOrder(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []string
	bus.Subscribe(func(ev model.PublishedImageEvent) {
		mu.Lock()
		received = append(received, ev.ID)
		mu.Unlock()
	})

	const publishers = 8
	const perPublisher = 50

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				bus.Publish(model.PublishedImageEvent{ID: "img"})
			}
		}()
	}
	wg.Wait()

	if len(received) != publishers*perPublisher {
		t.Errorf("delivered count = %d, want %d", len(received), publishers*perPublisher)
	}
}

func TestBus_ConcurrentSubscribeUnsubscribeIsSafe(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(func(ev model.PublishedImageEvent) {})
			bus.Publish(model.PublishedImageEvent{ID: "img"})
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	if got := bus.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0 (subscription leak)", got)
	}
}
