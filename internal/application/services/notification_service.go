package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// NotificationService maintains the dashboard feed. It implements
// ports.NotificationPublisher so other services can drop entries without
// depending on this package.
type NotificationService struct {
	store  ports.NotificationStore
	bus    *storesync.Coordinator
	logger *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(store ports.NotificationStore, bus *storesync.Coordinator, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// ListNotifications returns the feed newest first.
func (s *NotificationService) ListNotifications(ctx context.Context) ([]entities.Notification, error) {
	feed, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return feed, nil
}

// CreateNotification records a feed entry from an API request.
func (s *NotificationService) CreateNotification(ctx context.Context, req ports.CreateNotificationRequest) (*entities.Notification, error) {
	if !req.Source.IsValid() {
		return nil, fmt.Errorf("invalid notification source %q", req.Source)
	}
	created, err := s.store.Add(ctx, entities.NewNotification(req.Title, req.Description, req.Source))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotifications, Op: storesync.OpAdd, ID: created.ID.String()})
	return created, nil
}

// Publish implements ports.NotificationPublisher.
func (s *NotificationService) Publish(ctx context.Context, title, description string, source entities.NotificationSource) error {
	created, err := s.store.Add(ctx, entities.NewNotification(title, description, source))
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	s.logger.Debugw("Notification published", "notification_id", created.ID, "source", source)
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotifications, Op: storesync.OpAdd, ID: created.ID.String()})
	return nil
}

// DeleteNotification removes one feed entry.
func (s *NotificationService) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotifications, Op: storesync.OpRemove, ID: id.String()})
	return nil
}

// ClearNotifications empties the feed.
func (s *NotificationService) ClearNotifications(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotifications, Op: storesync.OpClear})
	return nil
}
