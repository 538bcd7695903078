package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/ports"
)

func newTestStore(t *testing.T) (*FileStore, Keys) {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return fs, Keys{Namespace: "prodsmart"}
}

func TestTaskStoreAddAssignsIdentity(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewTaskStore(fs, keys)
	ctx := context.Background()

	created, err := store.Add(ctx, entities.Task{Text: "buy milk"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if created.Date.IsZero() {
		t.Error("expected a default date")
	}

	tasks, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != created.ID {
		t.Errorf("persisted id %s, want %s", tasks[0].ID, created.ID)
	}
}

func TestTaskStoreNewestFirst(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewTaskStore(fs, keys)
	ctx := context.Background()

	if _, err := store.Add(ctx, entities.Task{Text: "first"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, entities.Task{Text: "second"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tasks, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tasks[0].Text != "second" || tasks[1].Text != "first" {
		t.Errorf("expected newest first, got %q then %q", tasks[0].Text, tasks[1].Text)
	}
}

func TestTaskStoreToggleTwiceRestores(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewTaskStore(fs, keys)
	ctx := context.Background()

	created, err := store.Add(ctx, entities.Task{Text: "toggle me"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, want := range []bool{true, false} {
		patch := ports.TaskPatch{Completed: &want}
		if err := store.Update(ctx, created.ID, patch); err != nil {
			t.Fatalf("Update: %v", err)
		}
		tasks, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if tasks[0].Completed != want {
			t.Errorf("completed = %v, want %v", tasks[0].Completed, want)
		}
	}
}

func TestTaskStoreUpdateUnknownID(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewTaskStore(fs, keys)

	err := store.Update(context.Background(), uuid.New(), ports.TaskPatch{})
	if err != entities.ErrTaskNotFound {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskStoreRemoveAndClear(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewTaskStore(fs, keys)
	ctx := context.Background()

	a, _ := store.Add(ctx, entities.Task{Text: "a"})
	if _, err := store.Add(ctx, entities.Task{Text: "b"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	tasks, _ := store.Load(ctx)
	if len(tasks) != 1 || tasks[0].Text != "b" {
		t.Fatalf("unexpected tasks after remove: %+v", tasks)
	}

	if err := store.Remove(ctx, a.ID); err != entities.ErrTaskNotFound {
		t.Errorf("expected ErrTaskNotFound on second remove, got %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	tasks, _ = store.Load(ctx)
	if len(tasks) != 0 {
		t.Errorf("expected empty collection after clear, got %d", len(tasks))
	}
}

func TestReminderStoreInsertionOrderAndMonotonicNotified(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewReminderStore(fs, keys)
	ctx := context.Background()

	first, err := store.Add(ctx, entities.Reminder{Title: "dentist", Date: "2026-09-02", Time: "09:30"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, entities.Reminder{Title: "call bank", Date: "2026-09-03", Time: "14:00"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reminders, _ := store.Load(ctx)
	if reminders[0].Title != "dentist" {
		t.Errorf("expected insertion order, got %q first", reminders[0].Title)
	}

	yes, no := true, false
	if err := store.Update(ctx, first.ID, ports.ReminderPatch{Notified: &yes}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// A false patch must not clear an activated reminder.
	if err := store.Update(ctx, first.ID, ports.ReminderPatch{Notified: &no}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reminders, _ = store.Load(ctx)
	if !reminders[0].Notified {
		t.Error("notified flag was cleared by a false patch")
	}
}

func TestScheduleStoreLifecycle(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewScheduleStore(fs, keys)
	ctx := context.Background()

	created, err := store.Add(ctx, entities.Schedule{Lesson: "Go basics", Date: "2026-09-05", Time: "10:00"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	done := true
	if err := store.Update(ctx, created.ID, ports.SchedulePatch{Completed: &done}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	schedules, _ := store.Load(ctx)
	if !schedules[0].Completed {
		t.Error("expected schedule marked completed")
	}

	if err := store.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, created.ID); err != entities.ErrScheduleNotFound {
		t.Errorf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestNotificationStoreNewestFirst(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewNotificationStore(fs, keys)
	ctx := context.Background()

	older := entities.Notification{Title: "older", Timestamp: time.Now().Add(-time.Hour)}
	if _, err := store.Add(ctx, older); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, entities.Notification{Title: "newer"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	feed, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed[0].Title != "newer" {
		t.Errorf("expected newest first, got %q", feed[0].Title)
	}
	if feed[0].Timestamp.IsZero() {
		t.Error("expected a default timestamp")
	}
}

func TestNoteStorePatch(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewNoteStore(fs, keys)
	ctx := context.Background()

	created, err := store.Add(ctx, entities.Note{Title: "draft", Content: "<p>hello</p>"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	title := "final"
	attachments := []entities.Attachment{{Name: "pic.png", Type: "image/png", DataURL: "data:image/png;base64,AAAA"}}
	patch := ports.NotePatch{Title: &title, Attachments: &attachments}
	if err := store.Update(ctx, created.ID, patch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	notes, _ := store.Load(ctx)
	if notes[0].Title != "final" {
		t.Errorf("title = %q, want final", notes[0].Title)
	}
	if notes[0].Content != "<p>hello</p>" {
		t.Errorf("content changed unexpectedly: %q", notes[0].Content)
	}
	if len(notes[0].Attachments) != 1 {
		t.Errorf("expected 1 attachment, got %d", len(notes[0].Attachments))
	}
	if !notes[0].UpdatedAt.After(notes[0].CreatedAt) && !notes[0].UpdatedAt.Equal(notes[0].CreatedAt) {
		t.Error("UpdatedAt should not precede CreatedAt")
	}
}

func TestLoadEmptyCollection(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewNoteStore(fs, keys)

	notes, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", notes)
	}
}

func TestThemeStoreDefault(t *testing.T) {
	fs, keys := newTestStore(t)
	store := NewThemeStore(fs, keys)

	theme, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if theme != "light" {
		t.Errorf("default theme = %q, want light", theme)
	}

	if err := store.Set("dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	theme, _ = store.Get()
	if theme != "dark" {
		t.Errorf("theme = %q, want dark", theme)
	}
}
