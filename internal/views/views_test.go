package views

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/adapters/localstore"
	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	storesync "github.com/prodsmart/core/internal/sync"
)

func TestRenderTasksCountsOpenOnly(t *testing.T) {
	tasks := []entities.Task{
		{ID: uuid.New(), Text: "open", Date: time.Now()},
		{ID: uuid.New(), Text: "done", Completed: true, Date: time.Now()},
	}
	list := RenderTasks(tasks)
	if list.Count != 1 {
		t.Errorf("open count = %d, want 1", list.Count)
	}
	if len(list.Items) != 2 {
		t.Errorf("items = %d, want 2", len(list.Items))
	}
	if list.Empty != "" {
		t.Errorf("unexpected empty message %q", list.Empty)
	}
}

func TestRenderTasksEmptyState(t *testing.T) {
	list := RenderTasks(nil)
	if list.Empty == "" {
		t.Error("expected an empty-state message")
	}
	if list.Items == nil {
		t.Error("items must render as an empty list, not null")
	}
}

func TestRenderRemindersFormatsDueTime(t *testing.T) {
	items := RenderReminders([]entities.Reminder{
		{ID: uuid.New(), Title: "dentist", Date: "2026-09-02", Time: "09:30"},
		{ID: uuid.New(), Title: "broken", Date: "not-a-date", Time: "xx"},
	})
	if items[0].When != "Sep 2, 2026 at 09:30" {
		t.Errorf("formatted when = %q", items[0].When)
	}
	if items[1].When != "not-a-date xx" {
		t.Errorf("fallback when = %q", items[1].When)
	}
}

func TestRenderFeedAges(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	feed := []entities.Notification{
		{ID: uuid.New(), Title: "a", Timestamp: now.Add(-30 * time.Second)},
		{ID: uuid.New(), Title: "b", Timestamp: now.Add(-5 * time.Minute)},
		{ID: uuid.New(), Title: "c", Timestamp: now.Add(-3 * time.Hour)},
		{ID: uuid.New(), Title: "d", Timestamp: now.Add(-48 * time.Hour)},
	}
	items := RenderFeed(feed, now)
	for i, want := range []string{"just now", "5m ago", "3h ago", "2d ago"} {
		if items[i].Age != want {
			t.Errorf("item %d age = %q, want %q", i, items[i].Age, want)
		}
	}
}

func TestRenderProgress(t *testing.T) {
	p := RenderTaskProgress([]entities.Task{{Completed: true}, {}, {}})
	if p.Completed != 1 || p.Total != 3 || p.Empty != "" {
		t.Errorf("unexpected progress: %+v", p)
	}

	empty := RenderLearningProgress(nil)
	if empty.Empty != "No Learning Hub data yet." {
		t.Errorf("empty message = %q", empty.Empty)
	}
}

func TestRenderCategory(t *testing.T) {
	tasks := []entities.Task{{Text: "t1", Completed: true}}
	reminders := []entities.Reminder{{Title: ""}}
	schedules := []entities.Schedule{{Lesson: "go"}}

	p := RenderCategory("tasks", tasks, reminders, schedules)
	if len(p.Entries) != 1 || p.Entries[0].Status != "Completed" {
		t.Errorf("unexpected tasks panel: %+v", p)
	}

	p = RenderCategory("reminders", tasks, reminders, schedules)
	if p.Entries[0].Label != "(No title)" || p.Entries[0].Status != "Scheduled" {
		t.Errorf("unexpected reminders panel: %+v", p)
	}

	p = RenderCategory("schedules", tasks, reminders, schedules)
	if p.Entries[0].Status != "Incomplete" {
		t.Errorf("unexpected schedules panel: %+v", p)
	}

	p = RenderCategory("schedules", nil, nil, nil)
	if p.Empty != "No learning schedules found." {
		t.Errorf("empty message = %q", p.Empty)
	}
}

func newDashboardFixture(t *testing.T) (*Dashboard, *storesync.Coordinator, *localstore.TaskStore) {
	t.Helper()
	fs, err := localstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	keys := localstore.Keys{Namespace: "prodsmart"}
	log := logger.NewNop()
	tasks := localstore.NewTaskStore(fs, keys)
	d := NewDashboard(
		tasks,
		localstore.NewReminderStore(fs, keys),
		localstore.NewScheduleStore(fs, keys),
		localstore.NewNotificationStore(fs, keys),
		log,
	)
	return d, storesync.New(log), tasks
}

func TestDashboardRefreshesOnBusEvents(t *testing.T) {
	d, bus, tasks := newDashboardFixture(t)
	ctx := context.Background()

	if err := d.Attach(ctx, bus); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer d.Detach()

	if got := d.Snapshot().Tasks.Count; got != 0 {
		t.Fatalf("initial count = %d, want 0", got)
	}

	created, err := tasks.Add(ctx, entities.Task{Text: "new work"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpAdd, ID: created.ID.String()})

	snap := d.Snapshot()
	if snap.Tasks.Count != 1 {
		t.Errorf("count after add = %d, want 1", snap.Tasks.Count)
	}
	if snap.TaskProgress.Total != 1 {
		t.Errorf("progress total = %d, want 1", snap.TaskProgress.Total)
	}
	if len(snap.Calendar.Cells) == 0 {
		t.Error("calendar should be rendered")
	}
}

func TestDashboardDetachStopsRefreshes(t *testing.T) {
	d, bus, tasks := newDashboardFixture(t)
	ctx := context.Background()

	if err := d.Attach(ctx, bus); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	d.Detach()

	if _, err := tasks.Add(ctx, entities.Task{Text: "unseen"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpAdd})

	if got := d.Snapshot().Tasks.Count; got != 0 {
		t.Errorf("detached dashboard refreshed anyway: count = %d", got)
	}
}

func TestDashboardDayDetail(t *testing.T) {
	d, bus, tasks := newDashboardFixture(t)
	ctx := context.Background()
	if err := d.Attach(ctx, bus); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer d.Detach()

	created, err := tasks.Add(ctx, entities.Task{Text: "today's work"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	day := created.Date.Format("2006-01-02")
	detail, err := d.Day(ctx, day)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].Kind != "task" {
		t.Errorf("unexpected detail: %+v", detail)
	}
}
