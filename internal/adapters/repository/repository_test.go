package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/config"
	"github.com/prodsmart/core/internal/infrastructure/database"
	"github.com/prodsmart/core/internal/ports"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init.up.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.DB.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *database.DB, email string) uuid.UUID {
	t.Helper()
	user := &entities.User{Email: email, Name: "Test", PasswordHash: "x"}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entities.User{Email: "repo@example.com", Name: "Repo", PasswordHash: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("Create left ID unset")
	}

	byEmail, err := repo.GetByEmail(ctx, "repo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail id = %s, want %s", byEmail.ID, user.ID)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "repo@example.com" {
		t.Errorf("GetByID email = %q", byID.Email)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, entities.ErrUserNotFound) {
		t.Errorf("GetByEmail unknown = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, entities.ErrUserNotFound) {
		t.Errorf("GetByID unknown = %v, want ErrUserNotFound", err)
	}
}

func TestTaskStoreRoundTripAndScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	repo := NewTaskRepository(db)

	aliceStore := repo.ForUser(alice)
	created, err := aliceStore.Add(ctx, entities.Task{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == uuid.Nil || created.UserID != alice {
		t.Fatalf("unexpected created task: %+v", created)
	}
	if created.Date.IsZero() {
		t.Error("Add left Date unset")
	}

	tasks, err := aliceStore.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Fatalf("Load = %+v", tasks)
	}

	bobTasks, err := repo.ForUser(bob).Load(ctx)
	if err != nil {
		t.Fatalf("Load bob: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Errorf("bob sees alice's tasks: %+v", bobTasks)
	}

	done := true
	if err := aliceStore.Update(ctx, created.ID, ports.TaskPatch{Completed: &done}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	tasks, _ = aliceStore.Load(ctx)
	if !tasks[0].Completed {
		t.Error("Update did not persist completed flag")
	}

	if err := repo.ForUser(bob).Remove(ctx, created.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("cross-user Remove = %v, want ErrTaskNotFound", err)
	}
	if err := aliceStore.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := aliceStore.Remove(ctx, created.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("second Remove = %v, want ErrTaskNotFound", err)
	}
}

func TestReminderStoreMonotonicNotified(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "mono@example.com")
	store := NewReminderRepository(db).ForUser(userID)

	created, err := store.Add(ctx, entities.Reminder{Title: "Standup", Date: "2026-09-10", Time: "09:00"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	on := true
	if err := store.Update(ctx, created.ID, ports.ReminderPatch{Notified: &on}); err != nil {
		t.Fatalf("Update notified: %v", err)
	}
	off := false
	if err := store.Update(ctx, created.ID, ports.ReminderPatch{Notified: &off}); err != nil {
		t.Fatalf("Update notified false: %v", err)
	}

	reminders, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reminders) != 1 || !reminders[0].Notified {
		t.Errorf("notified flag regressed: %+v", reminders)
	}
}

func TestScheduleStoreToggleIndependentOfNotified(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "sched@example.com")
	store := NewScheduleRepository(db).ForUser(userID)

	created, err := store.Add(ctx, entities.Schedule{Lesson: "Go basics", Date: "2026-09-12", Time: "18:00"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	on := true
	if err := store.Update(ctx, created.ID, ports.SchedulePatch{Notified: &on}); err != nil {
		t.Fatalf("Update notified: %v", err)
	}
	if err := store.Update(ctx, created.ID, ports.SchedulePatch{Completed: &on}); err != nil {
		t.Fatalf("Update completed: %v", err)
	}

	schedules, _ := store.Load(ctx)
	if len(schedules) != 1 || !schedules[0].Notified || !schedules[0].Completed {
		t.Errorf("unexpected schedule state: %+v", schedules)
	}
}

func TestNotificationStoreNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "feed@example.com")
	store := NewNotificationRepository(db).ForUser(userID)

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := store.Add(ctx, entities.Notification{
			Title:     title,
			Source:    entities.SourceReminder,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add %s: %v", title, err)
		}
	}

	feed, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("len(feed) = %d", len(feed))
	}
	if feed[0].Title != "third" || feed[2].Title != "first" {
		t.Errorf("feed not newest first: %s, %s, %s", feed[0].Title, feed[1].Title, feed[2].Title)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	feed, _ = store.Load(ctx)
	if len(feed) != 0 {
		t.Errorf("Clear left %d rows", len(feed))
	}
}

func TestNoteStoreAttachmentsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "notes@example.com")
	store := NewNoteRepository(db).ForUser(userID)

	created, err := store.Add(ctx, entities.Note{
		Title:   "Reading list",
		Content: "<p>Chapter one</p>",
		Attachments: []entities.Attachment{
			{Name: "cover.png", Type: "image/png", DataURL: "data:image/png;base64,AAAA"},
		},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	notes, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d", len(notes))
	}
	if len(notes[0].Attachments) != 1 || notes[0].Attachments[0].Name != "cover.png" {
		t.Errorf("attachments did not round trip: %+v", notes[0].Attachments)
	}

	title := "Updated list"
	if err := store.Update(ctx, created.ID, ports.NotePatch{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	notes, _ = store.Load(ctx)
	if notes[0].Title != "Updated list" {
		t.Errorf("Title = %q", notes[0].Title)
	}
	if len(notes[0].Attachments) != 1 {
		t.Errorf("patch without attachments dropped them: %+v", notes[0].Attachments)
	}
}
