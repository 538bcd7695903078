package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodsmart/core/internal/domain/entities"
)

// The collection store contract: every mutating operation must, on success,
// leave the backing store and the in-memory view in agreement. Load never
// returns partial results: on failure the caller gets an error and treats the
// collection as empty.

// TaskStore defines the interface for task collection operations
type TaskStore interface {
	Load(ctx context.Context) ([]entities.Task, error)
	Add(ctx context.Context, task entities.Task) (*entities.Task, error)
	Update(ctx context.Context, id uuid.UUID, patch TaskPatch) error
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
}

// ReminderStore defines the interface for reminder collection operations
type ReminderStore interface {
	Load(ctx context.Context) ([]entities.Reminder, error)
	Add(ctx context.Context, reminder entities.Reminder) (*entities.Reminder, error)
	Update(ctx context.Context, id uuid.UUID, patch ReminderPatch) error
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
}

// ScheduleStore defines the interface for lesson schedule collection operations
type ScheduleStore interface {
	Load(ctx context.Context) ([]entities.Schedule, error)
	Add(ctx context.Context, schedule entities.Schedule) (*entities.Schedule, error)
	Update(ctx context.Context, id uuid.UUID, patch SchedulePatch) error
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
}

// NotificationStore defines the interface for the notification feed.
// Notifications are immutable once created, so there is no update.
type NotificationStore interface {
	Load(ctx context.Context) ([]entities.Notification, error)
	Add(ctx context.Context, n entities.Notification) (*entities.Notification, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
}

// NoteStore defines the interface for note collection operations
type NoteStore interface {
	Load(ctx context.Context) ([]entities.Note, error)
	Add(ctx context.Context, note entities.Note) (*entities.Note, error)
	Update(ctx context.Context, id uuid.UUID, patch NotePatch) error
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
}

// UserRepository defines the interface for the user directory
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// Patch types carry partial updates. Nil fields are left untouched.

type TaskPatch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type ReminderPatch struct {
	Title    *string `json:"title,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Notified *bool   `json:"notified,omitempty"`
}

type SchedulePatch struct {
	Lesson    *string `json:"lesson,omitempty"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	Notified  *bool   `json:"notified,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type NotePatch struct {
	Title       *string                `json:"title,omitempty"`
	Content     *string                `json:"content,omitempty"`
	Attachments *[]entities.Attachment `json:"attachments,omitempty"`
}

// Apply merges the patch into a task.
func (p TaskPatch) Apply(t *entities.Task) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Apply merges the patch into a reminder. Notified is monotonic: a patch can
// set it true but a false value never clears an activated reminder.
func (p ReminderPatch) Apply(r *entities.Reminder) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Notified != nil && *p.Notified {
		r.Notified = true
	}
}

// Apply merges the patch into a schedule, with the same monotonic notified
// rule as reminders.
func (p SchedulePatch) Apply(s *entities.Schedule) {
	if p.Lesson != nil {
		s.Lesson = *p.Lesson
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Time != nil {
		s.Time = *p.Time
	}
	if p.Notified != nil && *p.Notified {
		s.Notified = true
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
}

// Apply merges the patch into a note.
func (p NotePatch) Apply(n *entities.Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Attachments != nil {
		n.Attachments = *p.Attachments
	}
}

// KeyValueStore is the storage adapter: uniform get/set/remove over a
// persistent key-value store, one JSON-encoded document per namespaced key.
type KeyValueStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
