package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/notify"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// ScheduleService handles the learning hub's lesson schedule. Scheduling a
// lesson drops a "Lesson Scheduled" entry in the notification feed and arms a
// delivery timer, mirroring ReminderService.
type ScheduleService struct {
	store     ports.ScheduleStore
	publisher ports.NotificationPublisher
	scheduler *notify.Scheduler
	bus       *storesync.Coordinator
	logger    *logger.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store ports.ScheduleStore, publisher ports.NotificationPublisher, scheduler *notify.Scheduler, bus *storesync.Coordinator, logger *logger.Logger) *ScheduleService {
	return &ScheduleService{
		store:     store,
		publisher: publisher,
		scheduler: scheduler,
		bus:       bus,
		logger:    logger,
	}
}

// ListSchedules returns the collection in insertion order.
func (s *ScheduleService) ListSchedules(ctx context.Context) ([]entities.Schedule, error) {
	schedules, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return schedules, nil
}

// CreateSchedule creates a lesson, records the feed entry and arms its timer.
// A past due time is rejected before anything is persisted.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req ports.CreateScheduleRequest) (*entities.Schedule, error) {
	due, err := entities.ParseDayClock(req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time: %w", err)
	}
	if !due.After(time.Now()) {
		return nil, entities.ErrNotifyTimeInPast
	}

	schedule := entities.Schedule{
		Lesson: req.Lesson,
		Date:   req.Date,
		Time:   req.Time,
	}

	created, err := s.store.Add(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.logger.Infow("Schedule created", "schedule_id", created.ID, "due", due)
	s.bus.Publish(storesync.Event{Collection: entities.CollectionSchedules, Op: storesync.OpAdd, ID: created.ID.String()})

	description := fmt.Sprintf("%s scheduled for %s", created.Lesson, due.Format("Jan 2, 2006 at 15:04"))
	if err := s.publisher.Publish(ctx, "Lesson Scheduled", description, entities.SourceLearningHub); err != nil {
		s.logger.Warnw("failed to publish schedule notification", "error", err)
	}

	if s.scheduler != nil {
		if err := s.scheduler.ArmSchedule(ctx, *created, s.store); err != nil {
			s.logger.Warnw("schedule timer not armed", "schedule_id", created.ID, "reason", err)
			return created, err
		}
	}
	return created, nil
}

// UpdateSchedule applies a partial update, rearming the timer when the due
// time moved and the lesson has not fired yet.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, patch ports.SchedulePatch) error {
	if err := s.store.Update(ctx, id, patch); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionSchedules, Op: storesync.OpUpdate, ID: id.String()})

	if s.scheduler != nil && (patch.Date != nil || patch.Time != nil) {
		schedules, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		for _, sc := range schedules {
			if sc.ID == id && !sc.Notified {
				s.scheduler.Cancel(id)
				if err := s.scheduler.ArmSchedule(ctx, sc, s.store); err != nil {
					s.logger.Warnw("schedule timer not rearmed", "schedule_id", id, "reason", err)
				}
			}
		}
	}
	return nil
}

// ToggleSchedule flips a lesson's completion flag without touching its
// notification state.
func (s *ScheduleService) ToggleSchedule(ctx context.Context, id uuid.UUID) (*entities.Schedule, error) {
	schedules, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	for _, sc := range schedules {
		if sc.ID == id {
			sc.Toggle()
			completed := sc.Completed
			if err := s.store.Update(ctx, id, ports.SchedulePatch{Completed: &completed}); err != nil {
				return nil, err
			}
			s.bus.Publish(storesync.Event{Collection: entities.CollectionSchedules, Op: storesync.OpUpdate, ID: id.String()})
			return &sc, nil
		}
	}
	return nil, entities.ErrScheduleNotFound
}

// DeleteSchedule removes a lesson and cancels its pending timer.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	if s.scheduler != nil {
		s.scheduler.Cancel(id)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionSchedules, Op: storesync.OpRemove, ID: id.String()})
	return nil
}

// ClearSchedules empties the collection and cancels every pending timer.
func (s *ScheduleService) ClearSchedules(ctx context.Context) error {
	schedules, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}
	if s.scheduler != nil {
		for _, sc := range schedules {
			s.scheduler.Cancel(sc.ID)
		}
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionSchedules, Op: storesync.OpClear})
	return nil
}
