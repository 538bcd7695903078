package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/database"
	"github.com/prodsmart/core/internal/ports"
)

// Collection repositories back the API server. Every row carries the owning
// user's id; a repository is scoped to one user with ForUser, which yields a
// store satisfying the same contract as the local file-backed stores. Load
// order matches each collection's insertion policy: tasks and notifications
// newest first, the rest oldest first.

// TaskRepository scopes task rows by user.
type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ForUser returns a store over this user's tasks.
func (r *TaskRepository) ForUser(userID uuid.UUID) ports.TaskStore {
	return &userTaskStore{db: r.db, userID: userID}
}

type userTaskStore struct {
	db     *database.DB
	userID uuid.UUID
}

type taskRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Text      string `db:"text"`
	Completed bool   `db:"completed"`
	Date      string `db:"date"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row taskRow) toEntity() (entities.Task, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entities.Task{}, fmt.Errorf("parse task id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entities.Task{}, fmt.Errorf("parse task user_id: %w", err)
	}
	date, err := time.Parse(time.RFC3339, row.Date)
	if err != nil {
		return entities.Task{}, fmt.Errorf("parse task date: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, row.UpdatedAt)
	return entities.Task{
		ID:        id,
		UserID:    userID,
		Text:      row.Text,
		Completed: row.Completed,
		Date:      date,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *userTaskStore) Load(ctx context.Context) ([]entities.Task, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, text, completed, date, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC`)

	var rows []taskRow
	if err := s.db.DB.SelectContext(ctx, &rows, query, s.userID.String()); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *userTaskStore) Add(ctx context.Context, task entities.Task) (*entities.Task, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	if task.Date.IsZero() {
		task.Date = now
	}
	task.UserID = s.userID
	task.CreatedAt = now
	task.UpdatedAt = now

	query := s.db.Rebind(`
		INSERT INTO tasks (id, user_id, text, completed, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.DB.ExecContext(ctx, query,
		task.ID.String(), task.UserID.String(), task.Text, task.Completed,
		task.Date.Format(time.RFC3339), task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

func (s *userTaskStore) Update(ctx context.Context, id uuid.UUID, patch ports.TaskPatch) error {
	query := s.db.Rebind(`
		SELECT id, user_id, text, completed, date, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`)

	var row taskRow
	if err := s.db.DB.GetContext(ctx, &row, query, id.String(), s.userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("get task: %w", err)
	}
	task, err := row.toEntity()
	if err != nil {
		return err
	}
	patch.Apply(&task)

	update := s.db.Rebind(`
		UPDATE tasks SET text = ?, completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`)
	_, err = s.db.DB.ExecContext(ctx, update,
		task.Text, task.Completed, time.Now().Format(time.RFC3339),
		id.String(), s.userID.String(),
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *userTaskStore) Remove(ctx context.Context, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`)
	result, err := s.db.DB.ExecContext(ctx, query, id.String(), s.userID.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entities.ErrTaskNotFound
	}
	return nil
}

func (s *userTaskStore) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM tasks WHERE user_id = ?`)
	if _, err := s.db.DB.ExecContext(ctx, query, s.userID.String()); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}

// ReminderRepository scopes reminder rows by user.
type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) ForUser(userID uuid.UUID) ports.ReminderStore {
	return &userReminderStore{db: r.db, userID: userID}
}

type userReminderStore struct {
	db     *database.DB
	userID uuid.UUID
}

type reminderRow struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Title    string `db:"title"`
	Date     string `db:"date"`
	Time     string `db:"time"`
	Notified bool   `db:"notified"`
}

func (row reminderRow) toEntity() (entities.Reminder, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entities.Reminder{}, fmt.Errorf("parse reminder id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entities.Reminder{}, fmt.Errorf("parse reminder user_id: %w", err)
	}
	return entities.Reminder{
		ID:       id,
		UserID:   userID,
		Title:    row.Title,
		Date:     row.Date,
		Time:     row.Time,
		Notified: row.Notified,
	}, nil
}

func (s *userReminderStore) Load(ctx context.Context) ([]entities.Reminder, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, title, date, time, notified
		FROM reminders WHERE user_id = ? ORDER BY created_at ASC`)

	var rows []reminderRow
	if err := s.db.DB.SelectContext(ctx, &rows, query, s.userID.String()); err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	reminders := make([]entities.Reminder, 0, len(rows))
	for _, row := range rows {
		reminder, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

func (s *userReminderStore) Add(ctx context.Context, reminder entities.Reminder) (*entities.Reminder, error) {
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.UserID = s.userID

	query := s.db.Rebind(`
		INSERT INTO reminders (id, user_id, title, date, time, notified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.DB.ExecContext(ctx, query,
		reminder.ID.String(), reminder.UserID.String(), reminder.Title,
		reminder.Date, reminder.Time, reminder.Notified,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return &reminder, nil
}

func (s *userReminderStore) Update(ctx context.Context, id uuid.UUID, patch ports.ReminderPatch) error {
	query := s.db.Rebind(`
		SELECT id, user_id, title, date, time, notified
		FROM reminders WHERE id = ? AND user_id = ?`)

	var row reminderRow
	if err := s.db.DB.GetContext(ctx, &row, query, id.String(), s.userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrReminderNotFound
		}
		return fmt.Errorf("get reminder: %w", err)
	}
	reminder, err := row.toEntity()
	if err != nil {
		return err
	}
	patch.Apply(&reminder)

	update := s.db.Rebind(`
		UPDATE reminders SET title = ?, date = ?, time = ?, notified = ?
		WHERE id = ? AND user_id = ?`)
	_, err = s.db.DB.ExecContext(ctx, update,
		reminder.Title, reminder.Date, reminder.Time, reminder.Notified,
		id.String(), s.userID.String(),
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}

func (s *userReminderStore) Remove(ctx context.Context, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM reminders WHERE id = ? AND user_id = ?`)
	result, err := s.db.DB.ExecContext(ctx, query, id.String(), s.userID.String())
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entities.ErrReminderNotFound
	}
	return nil
}

func (s *userReminderStore) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM reminders WHERE user_id = ?`)
	if _, err := s.db.DB.ExecContext(ctx, query, s.userID.String()); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	return nil
}

// ScheduleRepository scopes lesson rows by user.
type ScheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) ForUser(userID uuid.UUID) ports.ScheduleStore {
	return &userScheduleStore{db: r.db, userID: userID}
}

type userScheduleStore struct {
	db     *database.DB
	userID uuid.UUID
}

type scheduleRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Lesson    string `db:"lesson"`
	Date      string `db:"date"`
	Time      string `db:"time"`
	Notified  bool   `db:"notified"`
	Completed bool   `db:"completed"`
}

func (row scheduleRow) toEntity() (entities.Schedule, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entities.Schedule{}, fmt.Errorf("parse schedule id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entities.Schedule{}, fmt.Errorf("parse schedule user_id: %w", err)
	}
	return entities.Schedule{
		ID:        id,
		UserID:    userID,
		Lesson:    row.Lesson,
		Date:      row.Date,
		Time:      row.Time,
		Notified:  row.Notified,
		Completed: row.Completed,
	}, nil
}

func (s *userScheduleStore) Load(ctx context.Context) ([]entities.Schedule, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, lesson, date, time, notified, completed
		FROM schedules WHERE user_id = ? ORDER BY created_at ASC`)

	var rows []scheduleRow
	if err := s.db.DB.SelectContext(ctx, &rows, query, s.userID.String()); err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	schedules := make([]entities.Schedule, 0, len(rows))
	for _, row := range rows {
		schedule, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

func (s *userScheduleStore) Add(ctx context.Context, schedule entities.Schedule) (*entities.Schedule, error) {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	schedule.UserID = s.userID

	query := s.db.Rebind(`
		INSERT INTO schedules (id, user_id, lesson, date, time, notified, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.DB.ExecContext(ctx, query,
		schedule.ID.String(), schedule.UserID.String(), schedule.Lesson,
		schedule.Date, schedule.Time, schedule.Notified, schedule.Completed,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return &schedule, nil
}

func (s *userScheduleStore) Update(ctx context.Context, id uuid.UUID, patch ports.SchedulePatch) error {
	query := s.db.Rebind(`
		SELECT id, user_id, lesson, date, time, notified, completed
		FROM schedules WHERE id = ? AND user_id = ?`)

	var row scheduleRow
	if err := s.db.DB.GetContext(ctx, &row, query, id.String(), s.userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrScheduleNotFound
		}
		return fmt.Errorf("get schedule: %w", err)
	}
	schedule, err := row.toEntity()
	if err != nil {
		return err
	}
	patch.Apply(&schedule)

	update := s.db.Rebind(`
		UPDATE schedules SET lesson = ?, date = ?, time = ?, notified = ?, completed = ?
		WHERE id = ? AND user_id = ?`)
	_, err = s.db.DB.ExecContext(ctx, update,
		schedule.Lesson, schedule.Date, schedule.Time, schedule.Notified, schedule.Completed,
		id.String(), s.userID.String(),
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

func (s *userScheduleStore) Remove(ctx context.Context, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM schedules WHERE id = ? AND user_id = ?`)
	result, err := s.db.DB.ExecContext(ctx, query, id.String(), s.userID.String())
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entities.ErrScheduleNotFound
	}
	return nil
}

func (s *userScheduleStore) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM schedules WHERE user_id = ?`)
	if _, err := s.db.DB.ExecContext(ctx, query, s.userID.String()); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}
	return nil
}

// NotificationRepository scopes feed rows by user.
type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ForUser(userID uuid.UUID) ports.NotificationStore {
	return &userNotificationStore{db: r.db, userID: userID}
}

type userNotificationStore struct {
	db     *database.DB
	userID uuid.UUID
}

type notificationRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Source      string `db:"source"`
	Timestamp   string `db:"timestamp"`
}

func (row notificationRow) toEntity() (entities.Notification, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entities.Notification{}, fmt.Errorf("parse notification id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entities.Notification{}, fmt.Errorf("parse notification user_id: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, row.Timestamp)
	if err != nil {
		return entities.Notification{}, fmt.Errorf("parse notification timestamp: %w", err)
	}
	return entities.Notification{
		ID:          id,
		UserID:      userID,
		Title:       row.Title,
		Description: row.Description,
		Source:      entities.NotificationSource(row.Source),
		Timestamp:   ts,
	}, nil
}

func (s *userNotificationStore) Load(ctx context.Context) ([]entities.Notification, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, title, description, source, timestamp
		FROM notifications WHERE user_id = ? ORDER BY timestamp DESC`)

	var rows []notificationRow
	if err := s.db.DB.SelectContext(ctx, &rows, query, s.userID.String()); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	feed := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		feed = append(feed, n)
	}
	return feed, nil
}

func (s *userNotificationStore) Add(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	n.UserID = s.userID

	query := s.db.Rebind(`
		INSERT INTO notifications (id, user_id, title, description, source, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := s.db.DB.ExecContext(ctx, query,
		n.ID.String(), n.UserID.String(), n.Title, n.Description,
		string(n.Source), n.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}

func (s *userNotificationStore) Remove(ctx context.Context, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM notifications WHERE id = ? AND user_id = ?`)
	result, err := s.db.DB.ExecContext(ctx, query, id.String(), s.userID.String())
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}

func (s *userNotificationStore) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM notifications WHERE user_id = ?`)
	if _, err := s.db.DB.ExecContext(ctx, query, s.userID.String()); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// NoteRepository scopes note rows by user. Attachments are stored as a JSON
// column; they are opaque blobs to the database.
type NoteRepository struct {
	db *database.DB
}

func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) ForUser(userID uuid.UUID) ports.NoteStore {
	return &userNoteStore{db: r.db, userID: userID}
}

type userNoteStore struct {
	db     *database.DB
	userID uuid.UUID
}

type noteRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Title       string `db:"title"`
	Content     string `db:"content"`
	Attachments string `db:"attachments"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (row noteRow) toEntity() (entities.Note, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entities.Note{}, fmt.Errorf("parse note id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entities.Note{}, fmt.Errorf("parse note user_id: %w", err)
	}
	var attachments []entities.Attachment
	if row.Attachments != "" {
		if err := json.Unmarshal([]byte(row.Attachments), &attachments); err != nil {
			return entities.Note{}, fmt.Errorf("parse note attachments: %w", err)
		}
	}
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, row.UpdatedAt)
	return entities.Note{
		ID:          id,
		UserID:      userID,
		Title:       row.Title,
		Content:     row.Content,
		Attachments: attachments,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (s *userNoteStore) Load(ctx context.Context) ([]entities.Note, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, title, content, attachments, created_at, updated_at
		FROM notes WHERE user_id = ? ORDER BY created_at ASC`)

	var rows []noteRow
	if err := s.db.DB.SelectContext(ctx, &rows, query, s.userID.String()); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	notes := make([]entities.Note, 0, len(rows))
	for _, row := range rows {
		note, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (s *userNoteStore) Add(ctx context.Context, note entities.Note) (*entities.Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now()
	note.UserID = s.userID
	note.CreatedAt = now
	note.UpdatedAt = now

	attachments, err := json.Marshal(note.Attachments)
	if err != nil {
		return nil, fmt.Errorf("encode note attachments: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO notes (id, user_id, title, content, attachments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.db.DB.ExecContext(ctx, query,
		note.ID.String(), note.UserID.String(), note.Title, note.Content,
		string(attachments), note.CreatedAt.Format(time.RFC3339),
		note.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &note, nil
}

func (s *userNoteStore) Update(ctx context.Context, id uuid.UUID, patch ports.NotePatch) error {
	query := s.db.Rebind(`
		SELECT id, user_id, title, content, attachments, created_at, updated_at
		FROM notes WHERE id = ? AND user_id = ?`)

	var row noteRow
	if err := s.db.DB.GetContext(ctx, &row, query, id.String(), s.userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrNoteNotFound
		}
		return fmt.Errorf("get note: %w", err)
	}
	note, err := row.toEntity()
	if err != nil {
		return err
	}
	patch.Apply(&note)

	attachments, err := json.Marshal(note.Attachments)
	if err != nil {
		return fmt.Errorf("encode note attachments: %w", err)
	}

	update := s.db.Rebind(`
		UPDATE notes SET title = ?, content = ?, attachments = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`)
	_, err = s.db.DB.ExecContext(ctx, update,
		note.Title, note.Content, string(attachments),
		time.Now().Format(time.RFC3339), id.String(), s.userID.String(),
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (s *userNoteStore) Remove(ctx context.Context, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM notes WHERE id = ? AND user_id = ?`)
	result, err := s.db.DB.ExecContext(ctx, query, id.String(), s.userID.String())
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entities.ErrNoteNotFound
	}
	return nil
}

func (s *userNoteStore) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM notes WHERE user_id = ?`)
	if _, err := s.db.DB.ExecContext(ctx, query, s.userID.String()); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	return nil
}
