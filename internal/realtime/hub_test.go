package realtime

import (
	"testing"
	"time"

	"catalog-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func testEvent(action Action) Event {
	return Event{
		Action: action,
		Product: &domain.Product{
			ID:          primitive.NewObjectID(),
			Name:        "margherita",
			About:       "plain",
			Price:       9.5,
			CategoryIDs: []primitive.ObjectID{},
		},
	}
}

func TestHub_DeliversToAllSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	first := hub.Subscribe()
	second := hub.Subscribe()
	require.Equal(t, 2, hub.SubscriberCount())

	event := testEvent(ActionCreated)
	hub.Publish(event)

	for _, sub := range []*Subscription{first, second} {
		select {
		case got := <-sub.C:
			assert.Equal(t, ActionCreated, got.Action)
			assert.Equal(t, event.Product.ID, got.Product.ID)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s received nothing", sub.ID)
		}
	}
}

func TestHub_NoReplayForLateSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	hub.Publish(testEvent(ActionCreated))

	late := hub.Subscribe()
	select {
	case got := <-late.C:
		t.Fatalf("late subscriber received replayed event %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe()
	hub.Unsubscribe(sub.ID)

	_, open := <-sub.C
	assert.False(t, open, "channel should be closed after unsubscribe")
	assert.Equal(t, 0, hub.SubscriberCount())

	// Unsubscribing twice is harmless.
	hub.Unsubscribe(sub.ID)
}

func TestHub_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	// Never read from this subscription.
	slow := hub.Subscribe()
	_ = slow

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*4; i++ {
			hub.Publish(testEvent(ActionPatched))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestHub_OrderingPreservedPerSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe()

	actions := []Action{ActionCreated, ActionUpdated, ActionPatched, ActionDeleted}
	for _, a := range actions {
		hub.Publish(Event{Action: a, ProductID: "000000000000000000000000"})
	}

	for _, want := range actions {
		select {
		case got := <-sub.C:
			assert.Equal(t, want, got.Action)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}
}

func TestHub_CloseDetachesEveryone(t *testing.T) {
	hub := NewHub(zap.NewNop())

	first := hub.Subscribe()
	second := hub.Subscribe()

	hub.Close()

	_, open := <-first.C
	assert.False(t, open)
	_, open = <-second.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount())

	// A closed hub rejects publishes and new subscriptions quietly.
	hub.Publish(testEvent(ActionCreated))
	sub := hub.Subscribe()
	_, open = <-sub.C
	assert.False(t, open)
}
