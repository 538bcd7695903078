package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// TaskService handles task collection operations. Every successful mutation
// publishes one change event on the bus; renderers re-query from there.
type TaskService struct {
	store  ports.TaskStore
	bus    *storesync.Coordinator
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(store ports.TaskStore, bus *storesync.Coordinator, logger *logger.Logger) *TaskService {
	return &TaskService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// ListTasks returns the collection in store order (newest first).
func (s *TaskService) ListTasks(ctx context.Context) ([]entities.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	task := entities.Task{
		Text: req.Text,
		Date: time.Now(),
	}
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid task date: %w", err)
		}
		task.Date = parsed
	}

	created, err := s.store.Add(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", created.ID)
	s.bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpAdd, ID: created.ID.String()})

	return created, nil
}

// UpdateTask applies a partial update to a task.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch ports.TaskPatch) error {
	if err := s.store.Update(ctx, id, patch); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpUpdate, ID: id.String()})
	return nil
}

// ToggleTask flips a task's completion flag.
func (s *TaskService) ToggleTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, t := range tasks {
		if t.ID == id {
			t.Toggle()
			completed := t.Completed
			if err := s.store.Update(ctx, id, ports.TaskPatch{Completed: &completed}); err != nil {
				return nil, err
			}
			s.bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpUpdate, ID: id.String()})
			return &t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpRemove, ID: id.String()})
	return nil
}

// ClearTasks empties the collection.
func (s *TaskService) ClearTasks(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionTasks, Op: storesync.OpClear})
	return nil
}
