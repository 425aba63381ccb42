package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe()
	defer sub.Cancel()

	hub.Publish(Event{Collection: CollectionStockItems, Action: ActionCreated, Payload: "bulbs"})

	event := <-sub.C
	assert.Equal(t, CollectionStockItems, event.Collection)
	assert.Equal(t, ActionCreated, event.Action)
	assert.Equal(t, "bulbs", event.Payload)
}

func TestCollectionFiltering(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe(CollectionFeedback)
	defer sub.Cancel()

	hub.Publish(Event{Collection: CollectionStockItems, Action: ActionUpdated})
	hub.Publish(Event{Collection: CollectionFeedback, Action: ActionCreated})

	// Only the feedback event is delivered
	event := <-sub.C
	assert.Equal(t, CollectionFeedback, event.Collection)
	assert.Empty(t, sub.C)
}

func TestCancelDetachesAndClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	// Cancel is idempotent
	sub.Cancel()

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing after cancel must not panic on the closed channel
	hub.Publish(Event{Collection: CollectionTenants, Action: ActionDeleted})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe(CollectionTransactions)
	defer sub.Cancel()

	// Fill the buffer and then some; the extra publishes must not block.
	for i := 0; i < cap(sub.C)+10; i++ {
		hub.Publish(Event{Collection: CollectionTransactions, Action: ActionCreated, Payload: i})
	}

	assert.Len(t, sub.C, cap(sub.C))
}

func TestNilHubPublishIsSafe(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() {
		hub.Publish(Event{Collection: CollectionRequests, Action: ActionCreated})
	})
}
