// Package notify arms one-shot timers for reminders and lesson schedules and
// delivers desktop-style notifications when they fire. Timer state lives in
// the collection stores (the notified flag), so pending timers survive a
// restart: Rearm rebuilds them from whatever is persisted and not yet
// activated.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// PermissionState mirrors the three-valued delivery permission.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionDefault PermissionState = "default"
)

// Permissioner answers whether notifications may be delivered, and can ask
// the user when the answer is still open.
type Permissioner interface {
	Permission() PermissionState
	Request(ctx context.Context) (PermissionState, error)
}

// Sender delivers an armed notification to the user.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// StaticPermission is a Permissioner with a fixed answer, used when the
// deployment has no interactive permission flow.
type StaticPermission PermissionState

func (p StaticPermission) Permission() PermissionState { return PermissionState(p) }
func (p StaticPermission) Request(ctx context.Context) (PermissionState, error) {
	return PermissionState(p), nil
}

// target is the common shape of an armable item. collection names the item's
// own collection so delivery can publish its notified-flag update.
type target struct {
	id         uuid.UUID
	collection entities.Collection
	title      string
	body       string
	source     entities.NotificationSource
	firesAt    time.Time
	markDone   func(ctx context.Context) error
}

// Scheduler owns the pending timers. All public methods are safe for
// concurrent use.
type Scheduler struct {
	perm   Permissioner
	sender Sender
	feed   ports.NotificationStore
	bus    *storesync.Coordinator
	logger *logger.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

func NewScheduler(perm Permissioner, sender Sender, feed ports.NotificationStore, bus *storesync.Coordinator, log *logger.Logger) *Scheduler {
	return &Scheduler{
		perm:   perm,
		sender: sender,
		feed:   feed,
		bus:    bus,
		logger: log.WithComponent("notify"),
		timers: make(map[uuid.UUID]*time.Timer),
	}
}

// ArmReminder schedules a one-shot timer for a reminder. It fails fast when
// the due time has already passed or delivery permission is denied; when
// permission is still undecided it asks once and proceeds on grant.
func (s *Scheduler) ArmReminder(ctx context.Context, r entities.Reminder, store ports.ReminderStore) error {
	if r.Notified {
		return entities.ErrAlreadyNotified
	}
	due, err := r.DueAt()
	if err != nil {
		return err
	}
	id := r.ID
	return s.arm(ctx, target{
		id:         id,
		collection: entities.CollectionReminders,
		title:      "Reminder",
		body:       r.Title,
		source:     entities.SourceReminder,
		firesAt:    due,
		markDone: func(ctx context.Context) error {
			yes := true
			return store.Update(ctx, id, ports.ReminderPatch{Notified: &yes})
		},
	})
}

// ArmSchedule schedules a one-shot timer for a lesson.
func (s *Scheduler) ArmSchedule(ctx context.Context, sc entities.Schedule, store ports.ScheduleStore) error {
	if sc.Notified {
		return entities.ErrAlreadyNotified
	}
	due, err := sc.DueAt()
	if err != nil {
		return err
	}
	id := sc.ID
	return s.arm(ctx, target{
		id:         id,
		collection: entities.CollectionSchedules,
		title:      "Lesson Time",
		body:       sc.Lesson,
		source:     entities.SourceLearningHub,
		firesAt:    due,
		markDone: func(ctx context.Context) error {
			yes := true
			return store.Update(ctx, id, ports.SchedulePatch{Notified: &yes})
		},
	})
}

func (s *Scheduler) arm(ctx context.Context, t target) error {
	delay := time.Until(t.firesAt)
	if delay <= 0 {
		return entities.ErrNotifyTimeInPast
	}

	switch s.perm.Permission() {
	case PermissionDenied:
		return entities.ErrPermissionDenied
	case PermissionDefault:
		state, err := s.perm.Request(ctx)
		if err != nil {
			return err
		}
		if state != PermissionGranted {
			return entities.ErrPermissionDenied
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[t.id]; ok {
		old.Stop()
	}
	s.timers[t.id] = time.AfterFunc(delay, func() { s.fire(t) })
	s.logger.Debugw("timer armed", "id", t.id, "fires_at", t.firesAt)
	return nil
}

func (s *Scheduler) fire(t target) {
	s.mu.Lock()
	delete(s.timers, t.id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.sender.Send(ctx, t.title, t.body); err != nil {
		s.logger.Warnw("notification delivery failed", "id", t.id, "error", err)
	}
	recorded, err := s.feed.Add(ctx, entities.NewNotification(t.title, t.body, t.source))
	if err != nil {
		s.logger.Errorw("failed to record notification", "id", t.id, "error", err)
	}
	if err := t.markDone(ctx); err != nil {
		s.logger.Errorw("failed to mark item notified", "id", t.id, "error", err)
	}
	// Delivery mutates two collections: the feed gains an entry and the item's
	// notified flag flips. Publish one event for each.
	if s.bus != nil {
		if recorded != nil {
			s.bus.Publish(storesync.Event{Collection: entities.CollectionNotifications, Op: storesync.OpAdd, ID: recorded.ID.String()})
		}
		s.bus.Publish(storesync.Event{Collection: t.collection, Op: storesync.OpUpdate, ID: t.id.String()})
	}
}

// Rearm rebuilds timers from persisted state after a restart. Items whose due
// time passed while the process was down are skipped and logged, never fired
// late.
func (s *Scheduler) Rearm(ctx context.Context, reminders ports.ReminderStore, schedules ports.ScheduleStore) error {
	rs, err := reminders.Load(ctx)
	if err != nil {
		return err
	}
	for _, r := range rs {
		if r.Notified {
			continue
		}
		if err := s.ArmReminder(ctx, r, reminders); err != nil {
			s.logger.Debugw("skipping reminder on rearm", "id", r.ID, "reason", err)
		}
	}

	ss, err := schedules.Load(ctx)
	if err != nil {
		return err
	}
	for _, sc := range ss {
		if sc.Notified {
			continue
		}
		if err := s.ArmSchedule(ctx, sc, schedules); err != nil {
			s.logger.Debugw("skipping schedule on rearm", "id", sc.ID, "reason", err)
		}
	}
	return nil
}

// Cancel drops the pending timer for an item, if any. Removing an item from
// its collection should always cancel its timer.
func (s *Scheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many timers are currently armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer. Persisted state is untouched, so a later
// Rearm picks the items back up.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
