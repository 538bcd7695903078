package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/ports"
)

// Local-first collection stores. Each collection is one JSON array under its
// namespaced key; every mutation is a read-modify-write of the whole array,
// matching origin-storage semantics (no locking, last write wins across
// processes).

type collection[T any] struct {
	store *FileStore
	key   string
	order entities.Ordering
}

func (c *collection[T]) load() ([]T, error) {
	data, found, err := c.store.Get(c.key)
	if err != nil {
		return nil, err
	}
	if !found || len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, nil
}

func (c *collection[T]) save(items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.store.Set(c.key, data)
}

func (c *collection[T]) insert(items []T, item T) []T {
	if c.order == entities.OrderNewestFirst {
		return append([]T{item}, items...)
	}
	return append(items, item)
}

// TaskStore persists tasks newest-first under the "tasks" key.
type TaskStore struct {
	col collection[entities.Task]
}

func NewTaskStore(store *FileStore, keys Keys) *TaskStore {
	return &TaskStore{col: collection[entities.Task]{
		store: store,
		key:   keys.Tasks(),
		order: entities.OrderingFor(entities.CollectionTasks),
	}}
}

func (s *TaskStore) Load(ctx context.Context) ([]entities.Task, error) {
	return s.col.load()
}

func (s *TaskStore) Add(ctx context.Context, task entities.Task) (*entities.Task, error) {
	items, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	if task.Date.IsZero() {
		task.Date = now
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.col.save(s.col.insert(items, task)); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, patch ports.TaskPatch) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			patch.Apply(&items[i])
			items[i].UpdatedAt = time.Now()
			return s.col.save(items)
		}
	}
	return entities.ErrTaskNotFound
}

func (s *TaskStore) Remove(ctx context.Context, id uuid.UUID) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.col.save(append(items[:i], items[i+1:]...))
		}
	}
	return entities.ErrTaskNotFound
}

func (s *TaskStore) Clear(ctx context.Context) error {
	return s.col.save([]entities.Task{})
}

// ReminderStore persists reminders in insertion order under "reminders".
type ReminderStore struct {
	col collection[entities.Reminder]
}

func NewReminderStore(store *FileStore, keys Keys) *ReminderStore {
	return &ReminderStore{col: collection[entities.Reminder]{
		store: store,
		key:   keys.Reminders(),
		order: entities.OrderingFor(entities.CollectionReminders),
	}}
}

func (s *ReminderStore) Load(ctx context.Context) ([]entities.Reminder, error) {
	return s.col.load()
}

func (s *ReminderStore) Add(ctx context.Context, reminder entities.Reminder) (*entities.Reminder, error) {
	items, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	if err := s.col.save(s.col.insert(items, reminder)); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (s *ReminderStore) Update(ctx context.Context, id uuid.UUID, patch ports.ReminderPatch) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			patch.Apply(&items[i])
			return s.col.save(items)
		}
	}
	return entities.ErrReminderNotFound
}

func (s *ReminderStore) Remove(ctx context.Context, id uuid.UUID) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.col.save(append(items[:i], items[i+1:]...))
		}
	}
	return entities.ErrReminderNotFound
}

func (s *ReminderStore) Clear(ctx context.Context) error {
	return s.col.save([]entities.Reminder{})
}

// ScheduleStore persists lesson schedules in insertion order under "schedules".
type ScheduleStore struct {
	col collection[entities.Schedule]
}

func NewScheduleStore(store *FileStore, keys Keys) *ScheduleStore {
	return &ScheduleStore{col: collection[entities.Schedule]{
		store: store,
		key:   keys.Schedules(),
		order: entities.OrderingFor(entities.CollectionSchedules),
	}}
}

func (s *ScheduleStore) Load(ctx context.Context) ([]entities.Schedule, error) {
	return s.col.load()
}

func (s *ScheduleStore) Add(ctx context.Context, schedule entities.Schedule) (*entities.Schedule, error) {
	items, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	if err := s.col.save(s.col.insert(items, schedule)); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *ScheduleStore) Update(ctx context.Context, id uuid.UUID, patch ports.SchedulePatch) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			patch.Apply(&items[i])
			return s.col.save(items)
		}
	}
	return entities.ErrScheduleNotFound
}

func (s *ScheduleStore) Remove(ctx context.Context, id uuid.UUID) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.col.save(append(items[:i], items[i+1:]...))
		}
	}
	return entities.ErrScheduleNotFound
}

func (s *ScheduleStore) Clear(ctx context.Context) error {
	return s.col.save([]entities.Schedule{})
}

// NotificationStore persists the feed newest-first under the namespaced
// notifications key.
type NotificationStore struct {
	col collection[entities.Notification]
}

func NewNotificationStore(store *FileStore, keys Keys) *NotificationStore {
	return &NotificationStore{col: collection[entities.Notification]{
		store: store,
		key:   keys.Notifications(),
		order: entities.OrderingFor(entities.CollectionNotifications),
	}}
}

func (s *NotificationStore) Load(ctx context.Context) ([]entities.Notification, error) {
	return s.col.load()
}

func (s *NotificationStore) Add(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	items, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if err := s.col.save(s.col.insert(items, n)); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationStore) Remove(ctx context.Context, id uuid.UUID) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.col.save(append(items[:i], items[i+1:]...))
		}
	}
	return entities.ErrNotificationNotFound
}

func (s *NotificationStore) Clear(ctx context.Context) error {
	return s.col.save([]entities.Notification{})
}

// NoteStore persists notes in insertion order under the namespaced notes key.
type NoteStore struct {
	col collection[entities.Note]
}

func NewNoteStore(store *FileStore, keys Keys) *NoteStore {
	return &NoteStore{col: collection[entities.Note]{
		store: store,
		key:   keys.Notes(),
		order: entities.OrderingFor(entities.CollectionNotes),
	}}
}

func (s *NoteStore) Load(ctx context.Context) ([]entities.Note, error) {
	return s.col.load()
}

func (s *NoteStore) Add(ctx context.Context, note entities.Note) (*entities.Note, error) {
	items, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if err := s.col.save(s.col.insert(items, note)); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteStore) Update(ctx context.Context, id uuid.UUID, patch ports.NotePatch) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			patch.Apply(&items[i])
			items[i].UpdatedAt = time.Now()
			return s.col.save(items)
		}
	}
	return entities.ErrNoteNotFound
}

func (s *NoteStore) Remove(ctx context.Context, id uuid.UUID) error {
	items, err := s.col.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.col.save(append(items[:i], items[i+1:]...))
		}
	}
	return entities.ErrNoteNotFound
}

func (s *NoteStore) Clear(ctx context.Context) error {
	return s.col.save([]entities.Note{})
}

// ThemeStore persists the theme preference ("light" or "dark").
type ThemeStore struct {
	store *FileStore
	key   string
}

func NewThemeStore(store *FileStore, keys Keys) *ThemeStore {
	return &ThemeStore{store: store, key: keys.Theme()}
}

func (s *ThemeStore) Get() (string, error) {
	data, found, err := s.store.Get(s.key)
	if err != nil || !found {
		return "light", err
	}
	var theme string
	if err := json.Unmarshal(data, &theme); err != nil {
		return "light", nil
	}
	return theme, nil
}

func (s *ThemeStore) Set(theme string) error {
	data, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return s.store.Set(s.key, data)
}
