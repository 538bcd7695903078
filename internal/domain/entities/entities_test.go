package entities

import (
	"testing"
	"time"
)

func TestTaskToggleTwiceRestores(t *testing.T) {
	task := Task{Text: "x"}
	task.Toggle()
	if !task.Completed {
		t.Error("expected completed after first toggle")
	}
	task.Toggle()
	if task.Completed {
		t.Error("expected incomplete after second toggle")
	}
}

func TestMarkNotifiedIsMonotonic(t *testing.T) {
	r := Reminder{Title: "x", Date: "2026-09-02", Time: "10:00"}
	if err := r.MarkNotified(); err != nil {
		t.Fatalf("first MarkNotified: %v", err)
	}
	if err := r.MarkNotified(); err != ErrAlreadyNotified {
		t.Errorf("expected ErrAlreadyNotified, got %v", err)
	}
	if !r.Notified {
		t.Error("notified must remain true")
	}

	s := Schedule{Lesson: "y", Date: "2026-09-02", Time: "10:00"}
	if err := s.MarkNotified(); err != nil {
		t.Fatalf("first MarkNotified: %v", err)
	}
	if err := s.MarkNotified(); err != ErrAlreadyNotified {
		t.Errorf("expected ErrAlreadyNotified, got %v", err)
	}
}

func TestScheduleToggleKeepsNotified(t *testing.T) {
	s := Schedule{Lesson: "y", Notified: true}
	s.Toggle()
	if !s.Completed || !s.Notified {
		t.Errorf("toggle changed notification state: %+v", s)
	}
}

func TestParseDayClock(t *testing.T) {
	got, err := ParseDayClock("2024-03-15", "09:00")
	if err != nil {
		t.Fatalf("ParseDayClock: %v", err)
	}
	want := time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseDayClock("15/03/2024", "09:00"); err == nil {
		t.Error("expected error for malformed day")
	}
	if ValidDayClock("2024-03-15", "25:99") {
		t.Error("expected invalid clock to be rejected")
	}
}

func TestDueAtMatchesBucketedDay(t *testing.T) {
	r := Reminder{Date: "2024-03-15", Time: "09:00"}
	due, err := r.DueAt()
	if err != nil {
		t.Fatalf("DueAt: %v", err)
	}
	if due.Format("2006-01-02") != r.Date {
		t.Errorf("combined instant bucketed to %s, want %s", due.Format("2006-01-02"), r.Date)
	}
}

func TestNewNotificationAssignsIdentity(t *testing.T) {
	n := NewNotification("t", "d", SourceSystem)
	if n.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected assigned id")
	}
	if n.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestSourceAndCollectionValidity(t *testing.T) {
	for _, s := range []NotificationSource{SourceTask, SourceReminder, SourceLearningHub, SourceSystem} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if NotificationSource("bogus").IsValid() {
		t.Error("bogus source should be invalid")
	}
	if Collection("bogus").IsValid() {
		t.Error("bogus collection should be invalid")
	}
}

func TestOrderingFor(t *testing.T) {
	if OrderingFor(CollectionTasks) != OrderNewestFirst {
		t.Error("tasks should order newest first")
	}
	if OrderingFor(CollectionNotifications) != OrderNewestFirst {
		t.Error("notifications should order newest first")
	}
	if OrderingFor(CollectionReminders) != OrderInsertion {
		t.Error("reminders should keep insertion order")
	}
}

func TestNoteMatchesQuery(t *testing.T) {
	n := Note{Title: "Groceries", Content: "<p>Milk and eggs</p>"}
	for _, q := range []string{"", "groc", "MILK"} {
		if !n.MatchesQuery(q) {
			t.Errorf("query %q should match", q)
		}
	}
	if n.MatchesQuery("plumbing") {
		t.Error("unrelated query should not match")
	}
}
