package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrReminderNotFound     = errors.New("reminder not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAlreadyNotified      = errors.New("notification already activated")
	ErrNotifyTimeInPast     = errors.New("cannot schedule a notification for a time that has already passed")
	ErrPermissionDenied     = errors.New("notification permission denied")
	ErrMissingFields        = errors.New("missing required fields")
)

// NotificationSource identifies which feature produced a dashboard notification.
type NotificationSource string

const (
	SourceTask        NotificationSource = "task"
	SourceReminder    NotificationSource = "reminder"
	SourceLearningHub NotificationSource = "learning_hub"
	SourceSystem      NotificationSource = "system"
)

// Collection names the persisted collections. They double as storage keys in
// local-first mode and as API resource names in remote mode.
type Collection string

const (
	CollectionTasks         Collection = "tasks"
	CollectionReminders     Collection = "reminders"
	CollectionSchedules     Collection = "schedules"
	CollectionNotifications Collection = "notifications"
	CollectionNotes         Collection = "notes"
)

// Ordering is the documented insertion policy for a collection.
type Ordering int

const (
	// OrderNewestFirst prepends new records (tasks, notification feed).
	OrderNewestFirst Ordering = iota
	// OrderInsertion appends new records (reminders, schedules, notes).
	OrderInsertion
)

// OrderingFor returns the insertion policy for a collection. Each collection
// has exactly one policy; the inconsistent prepend/append mix of the legacy
// frontend is pinned down here.
func OrderingFor(c Collection) Ordering {
	switch c {
	case CollectionTasks, CollectionNotifications:
		return OrderNewestFirst
	default:
		return OrderInsertion
	}
}

// Task is a dashboard to-do item.
type Task struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Reminder is a user-created reminder with a separate date and time-of-day.
type Reminder struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Title    string    `json:"title" db:"title"`
	Date     string    `json:"date" db:"date"` // YYYY-MM-DD, local
	Time     string    `json:"time" db:"time"` // HH:MM
	Notified bool      `json:"notified" db:"notified"`
}

// Schedule is a planned lesson in the learning hub.
type Schedule struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Lesson    string    `json:"lesson" db:"lesson"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD, local
	Time      string    `json:"time" db:"time"` // HH:MM
	Notified  bool      `json:"notified" db:"notified"`
	Completed bool      `json:"completed" db:"completed"`
}

// Notification is a system-generated feed entry. Immutable once created,
// except for deletion.
type Notification struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	UserID      uuid.UUID          `json:"user_id,omitempty" db:"user_id"`
	Title       string             `json:"title" db:"title"`
	Description string             `json:"description" db:"description"`
	Source      NotificationSource `json:"source" db:"source"`
	Timestamp   time.Time          `json:"timestamp" db:"timestamp"`
}

// Attachment is a file embedded in a note as an inline data URL. There is no
// external file storage.
type Attachment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	DataURL string `json:"dataUrl"`
}

// Note holds rich-text HTML content plus inline attachments.
type Note struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id,omitempty" db:"user_id"`
	Title       string       `json:"title" db:"title"`
	Content     string       `json:"content" db:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// User is an account in the user directory. The password is stored only as a
// bcrypt hash, in both the local simulation and the server directory.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Business logic methods for Task

// Toggle flips the completed flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
}

// Business logic methods for Reminder

// DueAt combines the date and time fields into a local-time instant.
func (r *Reminder) DueAt() (time.Time, error) {
	return ParseDayClock(r.Date, r.Time)
}

// MarkNotified flips notified to true. The transition is monotonic: marking
// an already-notified reminder is an error.
func (r *Reminder) MarkNotified() error {
	if r.Notified {
		return ErrAlreadyNotified
	}
	r.Notified = true
	return nil
}

// Business logic methods for Schedule

func (s *Schedule) DueAt() (time.Time, error) {
	return ParseDayClock(s.Date, s.Time)
}

func (s *Schedule) MarkNotified() error {
	if s.Notified {
		return ErrAlreadyNotified
	}
	s.Notified = true
	return nil
}

// Toggle flips the completion flag, independent of notification state.
func (s *Schedule) Toggle() {
	s.Completed = !s.Completed
}

// ParseDayClock parses a YYYY-MM-DD date and HH:MM clock into a local-time
// instant.
func ParseDayClock(day, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", day+"T"+clock, time.Local)
}

// ValidDayClock reports whether day and clock are well formed.
func ValidDayClock(day, clock string) bool {
	_, err := ParseDayClock(day, clock)
	return err == nil
}

// NewNotification builds a feed entry with an assigned identity and the
// current timestamp.
func NewNotification(title, description string, source NotificationSource) Notification {
	return Notification{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Source:      source,
		Timestamp:   time.Now(),
	}
}

func (s NotificationSource) IsValid() bool {
	switch s {
	case SourceTask, SourceReminder, SourceLearningHub, SourceSystem:
		return true
	default:
		return false
	}
}

func (c Collection) IsValid() bool {
	switch c {
	case CollectionTasks, CollectionReminders, CollectionSchedules, CollectionNotifications, CollectionNotes:
		return true
	default:
		return false
	}
}

// MatchesQuery reports whether the note matches a case-insensitive search
// over title and content.
func (n *Note) MatchesQuery(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
