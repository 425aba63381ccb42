package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Collection names events are published under. These mirror the persisted
// collections so dashboard clients can subscribe to exactly what they render.
const (
	CollectionRequests     = "maintenanceRequests"
	CollectionFeedback     = "feedback"
	CollectionStockItems   = "stockItems"
	CollectionTransactions = "stockTransactions"
	CollectionTenants      = "tenants"
)

// Actions carried on events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is one change notification. Payload is the entity after the change
// (or its id for deletions). Events carry no ordering guarantee beyond
// eventually reflecting the latest persisted state.
type Event struct {
	Collection string      `json:"collection"`
	Action     string      `json:"action"`
	Payload    interface{} `json:"payload"`
}

// Subscription is one client's view of the change feed. Events arrive on C
// until Cancel is called; a slow subscriber whose buffer is full misses
// events rather than blocking publishers.
type Subscription struct {
	C chan Event

	hub         *Hub
	collections map[string]bool
	once        sync.Once
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

func (s *Subscription) wants(collection string) bool {
	if len(s.collections) == 0 {
		return true
	}
	return s.collections[collection]
}

// Hub fans change events out to subscribers. Engines publish after each
// successful persistence write; dashboards subscribe on mount and cancel on
// unmount.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]bool
	log  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subs: make(map[*Subscription]bool),
		log:  log,
	}
}

// Subscribe registers interest in the given collections. No collections means
// all collections. The returned subscription buffers a small backlog so a
// briefly slow reader does not stall the hub.
func (h *Hub) Subscribe(collections ...string) *Subscription {
	sub := &Subscription{
		C:           make(chan Event, 16),
		hub:         h,
		collections: make(map[string]bool, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = true
	}

	h.mu.Lock()
	h.subs[sub] = true
	h.mu.Unlock()

	return sub
}

// Publish delivers the event to every interested subscriber. Delivery is
// best-effort: a subscriber with a full buffer is skipped.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.wants(event.Collection) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			h.log.Warn("Dropping event for slow subscriber",
				zap.String("collection", event.Collection),
				zap.String("action", event.Action))
		}
	}
}

// SubscriberCount returns the number of attached subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
