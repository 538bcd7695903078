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

// ReminderService handles reminder collection operations. Creating a reminder
// also drops a "Reminder Set" entry in the notification feed and arms a
// delivery timer for its due instant.
type ReminderService struct {
	store     ports.ReminderStore
	publisher ports.NotificationPublisher
	scheduler *notify.Scheduler
	bus       *storesync.Coordinator
	logger    *logger.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(store ports.ReminderStore, publisher ports.NotificationPublisher, scheduler *notify.Scheduler, bus *storesync.Coordinator, logger *logger.Logger) *ReminderService {
	return &ReminderService{
		store:     store,
		publisher: publisher,
		scheduler: scheduler,
		bus:       bus,
		logger:    logger,
	}
}

// ListReminders returns the collection in insertion order.
func (s *ReminderService) ListReminders(ctx context.Context) ([]entities.Reminder, error) {
	reminders, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	return reminders, nil
}

// CreateReminder creates a reminder, records the feed entry and arms its
// timer. A past due time is rejected before anything is persisted: no
// reminder, no feed entry, no timer.
func (s *ReminderService) CreateReminder(ctx context.Context, req ports.CreateReminderRequest) (*entities.Reminder, error) {
	due, err := entities.ParseDayClock(req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time: %w", err)
	}
	if !due.After(time.Now()) {
		return nil, entities.ErrNotifyTimeInPast
	}

	reminder := entities.Reminder{
		Title: req.Title,
		Date:  req.Date,
		Time:  req.Time,
	}

	created, err := s.store.Add(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.logger.Infow("Reminder created", "reminder_id", created.ID, "due", due)
	s.bus.Publish(storesync.Event{Collection: entities.CollectionReminders, Op: storesync.OpAdd, ID: created.ID.String()})

	description := fmt.Sprintf("%s scheduled for %s", created.Title, due.Format("Jan 2, 2006 at 15:04"))
	if err := s.publisher.Publish(ctx, "Reminder Set", description, entities.SourceReminder); err != nil {
		s.logger.Warnw("failed to publish reminder notification", "error", err)
	}

	if s.scheduler != nil {
		if err := s.scheduler.ArmReminder(ctx, *created, s.store); err != nil {
			// Denied permission is reported to the caller; the reminder
			// itself stays in the collection, unscheduled.
			s.logger.Warnw("reminder timer not armed", "reminder_id", created.ID, "reason", err)
			return created, err
		}
	}
	return created, nil
}

// UpdateReminder applies a partial update. Changing the due time rearms the
// timer when one is still pending.
func (s *ReminderService) UpdateReminder(ctx context.Context, id uuid.UUID, patch ports.ReminderPatch) error {
	if err := s.store.Update(ctx, id, patch); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionReminders, Op: storesync.OpUpdate, ID: id.String()})

	if s.scheduler != nil && (patch.Date != nil || patch.Time != nil) {
		reminders, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		for _, r := range reminders {
			if r.ID == id && !r.Notified {
				s.scheduler.Cancel(id)
				if err := s.scheduler.ArmReminder(ctx, r, s.store); err != nil {
					s.logger.Warnw("reminder timer not rearmed", "reminder_id", id, "reason", err)
				}
			}
		}
	}
	return nil
}

// DeleteReminder removes a reminder and cancels its pending timer.
func (s *ReminderService) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	if s.scheduler != nil {
		s.scheduler.Cancel(id)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionReminders, Op: storesync.OpRemove, ID: id.String()})
	return nil
}

// ClearReminders empties the collection and cancels every pending timer.
func (s *ReminderService) ClearReminders(ctx context.Context) error {
	reminders, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	if s.scheduler != nil {
		for _, r := range reminders {
			s.scheduler.Cancel(r.ID)
		}
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionReminders, Op: storesync.OpClear})
	return nil
}
