package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/ports"
)

// Remote-backed collection stores. Each mirrors its local counterpart's
// contract; Add returns the server's record so the caller sees the assigned
// identity, and Update/Remove rely on mutate-then-reload by the caller's
// next Load.

func notFound(err error, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return sentinel
	}
	return err
}

// TaskStore is the remote ports.TaskStore.
type TaskStore struct {
	client *Client
}

func NewTaskStore(client *Client) *TaskStore {
	return &TaskStore{client: client}
}

func (s *TaskStore) Load(ctx context.Context) ([]entities.Task, error) {
	var tasks []entities.Task
	if err := s.client.Do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return tasks, nil
}

func (s *TaskStore) Add(ctx context.Context, task entities.Task) (*entities.Task, error) {
	var created entities.Task
	if err := s.client.Do(ctx, http.MethodPost, "/api/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, patch ports.TaskPatch) error {
	err := s.client.Do(ctx, http.MethodPut, "/api/tasks/"+id.String(), patch, nil)
	return notFound(err, entities.ErrTaskNotFound)
}

func (s *TaskStore) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.client.Do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
	return notFound(err, entities.ErrTaskNotFound)
}

func (s *TaskStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/tasks", nil, nil)
}

// ReminderStore is the remote ports.ReminderStore.
type ReminderStore struct {
	client *Client
}

func NewReminderStore(client *Client) *ReminderStore {
	return &ReminderStore{client: client}
}

func (s *ReminderStore) Load(ctx context.Context) ([]entities.Reminder, error) {
	var reminders []entities.Reminder
	if err := s.client.Do(ctx, http.MethodGet, "/api/reminders", nil, &reminders); err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []entities.Reminder{}
	}
	return reminders, nil
}

func (s *ReminderStore) Add(ctx context.Context, reminder entities.Reminder) (*entities.Reminder, error) {
	var created entities.Reminder
	if err := s.client.Do(ctx, http.MethodPost, "/api/reminders", reminder, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ReminderStore) Update(ctx context.Context, id uuid.UUID, patch ports.ReminderPatch) error {
	err := s.client.Do(ctx, http.MethodPut, "/api/reminders/"+id.String(), patch, nil)
	return notFound(err, entities.ErrReminderNotFound)
}

func (s *ReminderStore) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.client.Do(ctx, http.MethodDelete, "/api/reminders/"+id.String(), nil, nil)
	return notFound(err, entities.ErrReminderNotFound)
}

func (s *ReminderStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/reminders", nil, nil)
}

// ScheduleStore is the remote ports.ScheduleStore.
type ScheduleStore struct {
	client *Client
}

func NewScheduleStore(client *Client) *ScheduleStore {
	return &ScheduleStore{client: client}
}

func (s *ScheduleStore) Load(ctx context.Context) ([]entities.Schedule, error) {
	var schedules []entities.Schedule
	if err := s.client.Do(ctx, http.MethodGet, "/api/schedules", nil, &schedules); err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []entities.Schedule{}
	}
	return schedules, nil
}

func (s *ScheduleStore) Add(ctx context.Context, schedule entities.Schedule) (*entities.Schedule, error) {
	var created entities.Schedule
	if err := s.client.Do(ctx, http.MethodPost, "/api/schedules", schedule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ScheduleStore) Update(ctx context.Context, id uuid.UUID, patch ports.SchedulePatch) error {
	err := s.client.Do(ctx, http.MethodPut, "/api/schedules/"+id.String(), patch, nil)
	return notFound(err, entities.ErrScheduleNotFound)
}

func (s *ScheduleStore) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.client.Do(ctx, http.MethodDelete, "/api/schedules/"+id.String(), nil, nil)
	return notFound(err, entities.ErrScheduleNotFound)
}

func (s *ScheduleStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/schedules", nil, nil)
}

// NotificationStore is the remote ports.NotificationStore.
type NotificationStore struct {
	client *Client
}

func NewNotificationStore(client *Client) *NotificationStore {
	return &NotificationStore{client: client}
}

func (s *NotificationStore) Load(ctx context.Context) ([]entities.Notification, error) {
	var feed []entities.Notification
	if err := s.client.Do(ctx, http.MethodGet, "/api/notifications", nil, &feed); err != nil {
		return nil, err
	}
	if feed == nil {
		feed = []entities.Notification{}
	}
	return feed, nil
}

func (s *NotificationStore) Add(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	var created entities.Notification
	if err := s.client.Do(ctx, http.MethodPost, "/api/notifications", n, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *NotificationStore) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.client.Do(ctx, http.MethodDelete, "/api/notifications/"+id.String(), nil, nil)
	return notFound(err, entities.ErrNotificationNotFound)
}

func (s *NotificationStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/notifications", nil, nil)
}

// NoteStore is the remote ports.NoteStore.
type NoteStore struct {
	client *Client
}

func NewNoteStore(client *Client) *NoteStore {
	return &NoteStore{client: client}
}

func (s *NoteStore) Load(ctx context.Context) ([]entities.Note, error) {
	var notes []entities.Note
	if err := s.client.Do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []entities.Note{}
	}
	return notes, nil
}

func (s *NoteStore) Add(ctx context.Context, note entities.Note) (*entities.Note, error) {
	var created entities.Note
	if err := s.client.Do(ctx, http.MethodPost, "/api/notes", note, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *NoteStore) Update(ctx context.Context, id uuid.UUID, patch ports.NotePatch) error {
	err := s.client.Do(ctx, http.MethodPut, "/api/notes/"+id.String(), patch, nil)
	return notFound(err, entities.ErrNoteNotFound)
}

func (s *NoteStore) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.client.Do(ctx, http.MethodDelete, "/api/notes/"+id.String(), nil, nil)
	return notFound(err, entities.ErrNoteNotFound)
}

func (s *NoteStore) Clear(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, "/api/notes", nil, nil)
}
