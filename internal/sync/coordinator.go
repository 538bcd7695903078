// Package sync propagates collection changes to every view that depends on
// them. All mutation paths publish through one coordinator: local operations
// publish directly, and the storage watcher publishes on behalf of other
// processes sharing the same store. The two redundant signaling paths of the
// legacy frontend (custom events plus raw storage events) collapse into this
// single bus.
package sync

import (
	stdsync "sync"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
)

// Op classifies a change event.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	// OpReload marks an out-of-process change observed via the storage
	// watcher; subscribers must re-query the store rather than patch state.
	OpReload Op = "reload"
)

// Event is the one well-defined change notification per mutation.
type Event struct {
	Collection entities.Collection
	Op         Op
	ID         string
}

// Handler consumes change events. Handlers run synchronously on the
// publishing goroutine, mirroring the single-threaded event loop the engine
// models; they must not block.
type Handler func(Event)

type subscription struct {
	id          int
	name        string
	collections map[entities.Collection]bool // empty means all
	handler     Handler
}

// Coordinator fans a change in one collection out to all dependent views.
type Coordinator struct {
	mu     stdsync.RWMutex
	nextID int
	subs   []subscription
	logger *logger.Logger
}

// New creates a coordinator.
func New(log *logger.Logger) *Coordinator {
	return &Coordinator{logger: log}
}

// Subscribe registers a handler for the given collections (all collections
// when none are named) and returns an unsubscribe function.
func (c *Coordinator) Subscribe(name string, handler Handler, collections ...entities.Collection) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	set := make(map[entities.Collection]bool, len(collections))
	for _, col := range collections {
		set[col] = true
	}
	c.subs = append(c.subs, subscription{id: id, name: name, collections: set, handler: handler})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every matching subscriber.
func (c *Coordinator) Publish(e Event) {
	c.mu.RLock()
	matched := make([]subscription, 0, len(c.subs))
	for _, s := range c.subs {
		if len(s.collections) == 0 || s.collections[e.Collection] {
			matched = append(matched, s)
		}
	}
	c.mu.RUnlock()

	if c.logger != nil {
		c.logger.LogCollectionChange(string(e.Collection), string(e.Op), e.ID)
	}

	for _, s := range matched {
		s.handler(e)
	}
}

// SubscriberCount reports the number of active subscriptions.
func (c *Coordinator) SubscriberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
