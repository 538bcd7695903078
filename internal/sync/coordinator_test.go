package sync

import (
	"testing"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
)

func TestPublishFansOutToMatchingSubscribers(t *testing.T) {
	c := New(logger.NewNop())

	var taskEvents, allEvents int
	c.Subscribe("tasks-only", func(Event) { taskEvents++ }, entities.CollectionTasks)
	c.Subscribe("everything", func(Event) { allEvents++ })

	c.Publish(Event{Collection: entities.CollectionTasks, Op: OpAdd, ID: "1"})
	c.Publish(Event{Collection: entities.CollectionReminders, Op: OpAdd, ID: "2"})

	if taskEvents != 1 {
		t.Errorf("task subscriber saw %d events, want 1", taskEvents)
	}
	if allEvents != 2 {
		t.Errorf("wildcard subscriber saw %d events, want 2", allEvents)
	}
}

func TestPublishDeliversSynchronously(t *testing.T) {
	c := New(logger.NewNop())

	delivered := false
	c.Subscribe("sync", func(e Event) {
		if e.Op != OpClear {
			t.Errorf("op = %s, want %s", e.Op, OpClear)
		}
		delivered = true
	}, entities.CollectionNotes)

	c.Publish(Event{Collection: entities.CollectionNotes, Op: OpClear})
	if !delivered {
		t.Error("handler did not run before Publish returned")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	c := New(logger.NewNop())

	count := 0
	unsub := c.Subscribe("temp", func(Event) { count++ }, entities.CollectionTasks)
	c.Publish(Event{Collection: entities.CollectionTasks, Op: OpAdd})
	unsub()
	c.Publish(Event{Collection: entities.CollectionTasks, Op: OpAdd})

	if count != 1 {
		t.Errorf("subscriber saw %d events after unsubscribe, want 1", count)
	}
	if c.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", c.SubscriberCount())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	c := New(logger.NewNop())
	unsub := c.Subscribe("once", func(Event) {}, entities.CollectionTasks)
	unsub()
	unsub()
	if c.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", c.SubscriberCount())
	}
}
