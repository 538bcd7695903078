package localstore

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	storesync "github.com/prodsmart/core/internal/sync"
)

// Watcher observes the storage directory for changes made by other
// processes sharing the same store and republishes them on the coordinator,
// keyed by the storage key that changed. It is the cross-tab storage-change
// signal of the engine. Writes made by the owning process are suppressed;
// those already published when the mutation completed.
type Watcher struct {
	store  *FileStore
	keys   Keys
	bus    *storesync.Coordinator
	logger *logger.Logger
	fsw    *fsnotify.Watcher
}

// NewWatcher creates a watcher over the store's directory.
func NewWatcher(store *FileStore, keys Keys, bus *storesync.Coordinator, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", store.Dir(), err)
	}
	return &Watcher{store: store, keys: keys, bus: bus, logger: log, fsw: fsw}, nil
}

// Run blocks, translating filesystem events into reload events on the bus,
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Storage watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	key := KeyFromFilename(ev.Name)
	if key == "" {
		return
	}

	col, ok := w.collectionForKey(key)
	if !ok {
		// Session, theme and other non-collection keys do not redraw views.
		return
	}

	if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		value, found, err := w.store.Get(key)
		if err != nil {
			w.logger.Warnw("Storage watcher read failed", "key", key, "error", err)
			return
		}
		if found && w.store.isOwnWrite(key, value) {
			return
		}
	}

	w.bus.Publish(storesync.Event{Collection: col, Op: storesync.OpReload})
}

func (w *Watcher) collectionForKey(key string) (entities.Collection, bool) {
	switch key {
	case w.keys.Tasks():
		return entities.CollectionTasks, true
	case w.keys.Reminders():
		return entities.CollectionReminders, true
	case w.keys.Schedules():
		return entities.CollectionSchedules, true
	case w.keys.Notifications():
		return entities.CollectionNotifications, true
	case w.keys.Notes():
		return entities.CollectionNotes, true
	default:
		return "", false
	}
}
