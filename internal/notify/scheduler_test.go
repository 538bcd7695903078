package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/adapters/localstore"
	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	errTo error
}

func (s *recordingSender) Send(ctx context.Context, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, title+": "+body)
	return s.errTo
}

type askOncePermission struct {
	state    PermissionState
	grantTo  PermissionState
	requests int
}

func (p *askOncePermission) Permission() PermissionState { return p.state }
func (p *askOncePermission) Request(ctx context.Context) (PermissionState, error) {
	p.requests++
	p.state = p.grantTo
	return p.grantTo, nil
}

func newTestScheduler(t *testing.T, perm Permissioner) (*Scheduler, *recordingSender, *localstore.NotificationStore, *localstore.ReminderStore, *localstore.ScheduleStore) {
	t.Helper()
	fs, err := localstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	keys := localstore.Keys{Namespace: "prodsmart"}
	sender := &recordingSender{}
	feed := localstore.NewNotificationStore(fs, keys)
	sched := NewScheduler(perm, sender, feed, storesync.New(logger.NewNop()), logger.NewNop())
	t.Cleanup(sched.Stop)
	return sched, sender, feed, localstore.NewReminderStore(fs, keys), localstore.NewScheduleStore(fs, keys)
}

func futureDayClock(d time.Duration) (string, string) {
	at := time.Now().Add(d)
	return at.Format("2006-01-02"), at.Format("15:04")
}

func TestArmReminderPastDue(t *testing.T) {
	sched, _, _, reminders, _ := newTestScheduler(t, StaticPermission(PermissionGranted))

	day, clock := futureDayClock(-2 * time.Hour)
	r := entities.Reminder{ID: uuid.New(), Title: "too late", Date: day, Time: clock}
	if err := sched.ArmReminder(context.Background(), r, reminders); err != entities.ErrNotifyTimeInPast {
		t.Errorf("expected ErrNotifyTimeInPast, got %v", err)
	}
	if sched.Pending() != 0 {
		t.Errorf("no timer should be armed, got %d", sched.Pending())
	}
}

func TestArmReminderPermissionDenied(t *testing.T) {
	sched, _, _, reminders, _ := newTestScheduler(t, StaticPermission(PermissionDenied))

	day, clock := futureDayClock(2 * time.Hour)
	r := entities.Reminder{ID: uuid.New(), Title: "blocked", Date: day, Time: clock}
	if err := sched.ArmReminder(context.Background(), r, reminders); err != entities.ErrPermissionDenied {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestArmReminderRequestsUndecidedPermission(t *testing.T) {
	perm := &askOncePermission{state: PermissionDefault, grantTo: PermissionGranted}
	sched, _, _, reminders, _ := newTestScheduler(t, perm)

	day, clock := futureDayClock(2 * time.Hour)
	r := entities.Reminder{ID: uuid.New(), Title: "ask first", Date: day, Time: clock}
	if err := sched.ArmReminder(context.Background(), r, reminders); err != nil {
		t.Fatalf("ArmReminder: %v", err)
	}
	if perm.requests != 1 {
		t.Errorf("expected exactly one permission request, got %d", perm.requests)
	}
	if sched.Pending() != 1 {
		t.Errorf("expected 1 pending timer, got %d", sched.Pending())
	}
}

func TestArmReminderAlreadyNotified(t *testing.T) {
	sched, _, _, reminders, _ := newTestScheduler(t, StaticPermission(PermissionGranted))

	day, clock := futureDayClock(2 * time.Hour)
	r := entities.Reminder{ID: uuid.New(), Title: "done", Date: day, Time: clock, Notified: true}
	if err := sched.ArmReminder(context.Background(), r, reminders); err != entities.ErrAlreadyNotified {
		t.Errorf("expected ErrAlreadyNotified, got %v", err)
	}
}

func TestCancelDropsTimer(t *testing.T) {
	sched, _, _, reminders, _ := newTestScheduler(t, StaticPermission(PermissionGranted))

	day, clock := futureDayClock(2 * time.Hour)
	r := entities.Reminder{ID: uuid.New(), Title: "cancel me", Date: day, Time: clock}
	if err := sched.ArmReminder(context.Background(), r, reminders); err != nil {
		t.Fatalf("ArmReminder: %v", err)
	}
	sched.Cancel(r.ID)
	if sched.Pending() != 0 {
		t.Errorf("expected 0 pending after cancel, got %d", sched.Pending())
	}
}

func TestFireDeliversRecordsAndMarks(t *testing.T) {
	sched, sender, feed, reminders, _ := newTestScheduler(t, StaticPermission(PermissionGranted))
	ctx := context.Background()

	day, clock := futureDayClock(2 * time.Hour)
	created, err := reminders.Add(ctx, entities.Reminder{Title: "water plants", Date: day, Time: clock})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	id := created.ID
	sched.fire(target{
		id:         id,
		collection: entities.CollectionReminders,
		title:      "Reminder",
		body:       created.Title,
		source:     entities.SourceReminder,
		markDone: func(ctx context.Context) error {
			yes := true
			return reminders.Update(ctx, id, ports.ReminderPatch{Notified: &yes})
		},
	})

	sender.mu.Lock()
	if len(sender.sent) != 1 || sender.sent[0] != "Reminder: water plants" {
		t.Errorf("unexpected deliveries: %v", sender.sent)
	}
	sender.mu.Unlock()

	entries, err := feed.Load(ctx)
	if err != nil {
		t.Fatalf("feed Load: %v", err)
	}
	if len(entries) != 1 || entries[0].Source != entities.SourceReminder {
		t.Errorf("unexpected feed: %+v", entries)
	}

	rs, _ := reminders.Load(ctx)
	if !rs[0].Notified {
		t.Error("reminder should be marked notified after firing")
	}
}

func TestFirePublishesUpdateForItemCollection(t *testing.T) {
	fs, err := localstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	keys := localstore.Keys{Namespace: "prodsmart"}
	feed := localstore.NewNotificationStore(fs, keys)
	reminders := localstore.NewReminderStore(fs, keys)
	bus := storesync.New(logger.NewNop())
	sched := NewScheduler(StaticPermission(PermissionGranted), &recordingSender{}, feed, bus, logger.NewNop())
	t.Cleanup(sched.Stop)
	ctx := context.Background()

	// A view watching only the reminders collection must learn that the
	// notified flag flipped, not just that the feed grew.
	var events []storesync.Event
	unsubscribe := bus.Subscribe("reminders-view", func(e storesync.Event) {
		events = append(events, e)
	}, entities.CollectionReminders)
	defer unsubscribe()

	var feedEvents []storesync.Event
	unsubFeed := bus.Subscribe("feed-view", func(e storesync.Event) {
		feedEvents = append(feedEvents, e)
	}, entities.CollectionNotifications)
	defer unsubFeed()

	day, clock := futureDayClock(time.Hour)
	created, err := reminders.Add(ctx, entities.Reminder{Title: "stretch", Date: day, Time: clock})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	id := created.ID
	sched.fire(target{
		id:         id,
		collection: entities.CollectionReminders,
		title:      "Reminder",
		body:       created.Title,
		source:     entities.SourceReminder,
		markDone: func(ctx context.Context) error {
			yes := true
			return reminders.Update(ctx, id, ports.ReminderPatch{Notified: &yes})
		},
	})

	if len(events) != 1 {
		t.Fatalf("expected 1 reminders event, got %d: %+v", len(events), events)
	}
	if events[0].Op != storesync.OpUpdate || events[0].ID != id.String() {
		t.Errorf("expected update for %s, got %+v", id, events[0])
	}
	if len(feedEvents) != 1 || feedEvents[0].Op != storesync.OpAdd {
		t.Errorf("expected one feed add event, got %+v", feedEvents)
	}
}

func TestRearmSkipsNotifiedAndPastDue(t *testing.T) {
	sched, _, _, reminders, schedules := newTestScheduler(t, StaticPermission(PermissionGranted))
	ctx := context.Background()

	futureDay, futureClock := futureDayClock(3 * time.Hour)
	pastDay, pastClock := futureDayClock(-3 * time.Hour)

	if _, err := reminders.Add(ctx, entities.Reminder{Title: "live", Date: futureDay, Time: futureClock}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := reminders.Add(ctx, entities.Reminder{Title: "already fired", Date: futureDay, Time: futureClock, Notified: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := reminders.Add(ctx, entities.Reminder{Title: "missed", Date: pastDay, Time: pastClock}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := schedules.Add(ctx, entities.Schedule{Lesson: "algebra", Date: futureDay, Time: futureClock}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := sched.Rearm(ctx, reminders, schedules); err != nil {
		t.Fatalf("Rearm: %v", err)
	}
	if sched.Pending() != 2 {
		t.Errorf("expected 2 rearmed timers, got %d", sched.Pending())
	}
}
