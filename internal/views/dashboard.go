package views

import (
	"context"
	"sync"
	"time"

	"github.com/prodsmart/core/internal/calendar"
	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// Snapshot is everything the dashboard shows, rendered from one consistent
// read of the collections.
type Snapshot struct {
	Tasks            TaskList       `json:"tasks"`
	Reminders        []ReminderItem `json:"reminders"`
	Schedules        []ScheduleItem `json:"schedules"`
	Feed             []FeedItem     `json:"feed"`
	TaskProgress     Progress       `json:"taskProgress"`
	LearningProgress Progress       `json:"learningProgress"`
	Calendar         calendar.Grid  `json:"calendar"`
}

// Dashboard is the page controller. It holds explicit store references, keeps
// a rendered snapshot, and refreshes it whenever the change bus reports a
// mutation on a collection it displays.
type Dashboard struct {
	tasks         ports.TaskStore
	reminders     ports.ReminderStore
	schedules     ports.ScheduleStore
	notifications ports.NotificationStore
	logger        *logger.Logger

	mu          sync.RWMutex
	snapshot    Snapshot
	unsubscribe func()
}

func NewDashboard(tasks ports.TaskStore, reminders ports.ReminderStore, schedules ports.ScheduleStore, notifications ports.NotificationStore, log *logger.Logger) *Dashboard {
	return &Dashboard{
		tasks:         tasks,
		reminders:     reminders,
		schedules:     schedules,
		notifications: notifications,
		logger:        log.WithComponent("dashboard"),
	}
}

// Attach renders the initial snapshot and subscribes to every collection the
// dashboard displays. The returned controller re-renders synchronously on
// each published change.
func (d *Dashboard) Attach(ctx context.Context, bus *storesync.Coordinator) error {
	if err := d.Refresh(ctx); err != nil {
		return err
	}
	d.unsubscribe = bus.Subscribe("dashboard", func(e storesync.Event) {
		if err := d.Refresh(context.Background()); err != nil {
			d.logger.Warnw("refresh after change failed", "collection", e.Collection, "op", e.Op, "error", err)
		}
	},
		entities.CollectionTasks,
		entities.CollectionReminders,
		entities.CollectionSchedules,
		entities.CollectionNotifications,
	)
	return nil
}

// Detach removes the bus subscription.
func (d *Dashboard) Detach() {
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// Refresh re-reads every collection and rebuilds the snapshot. A store read
// failure leaves that panel empty rather than failing the whole page.
func (d *Dashboard) Refresh(ctx context.Context) error {
	tasks, err := d.tasks.Load(ctx)
	if err != nil {
		d.logger.Warnw("loading tasks failed", "error", err)
		tasks = []entities.Task{}
	}
	reminders, err := d.reminders.Load(ctx)
	if err != nil {
		d.logger.Warnw("loading reminders failed", "error", err)
		reminders = []entities.Reminder{}
	}
	schedules, err := d.schedules.Load(ctx)
	if err != nil {
		d.logger.Warnw("loading schedules failed", "error", err)
		schedules = []entities.Schedule{}
	}
	feed, err := d.notifications.Load(ctx)
	if err != nil {
		d.logger.Warnw("loading notifications failed", "error", err)
		feed = []entities.Notification{}
	}

	now := time.Now()
	snap := Snapshot{
		Tasks:            RenderTasks(tasks),
		Reminders:        RenderReminders(reminders),
		Schedules:        RenderSchedules(schedules),
		Feed:             RenderFeed(feed, now),
		TaskProgress:     RenderTaskProgress(tasks),
		LearningProgress: RenderLearningProgress(schedules),
		Calendar:         calendar.MonthGrid(now.Year(), now.Month(), now, tasks, reminders, schedules),
	}

	d.mu.Lock()
	d.snapshot = snap
	d.mu.Unlock()
	return nil
}

// Snapshot returns the last rendered state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

// Month renders an arbitrary month from a fresh read of the collections.
func (d *Dashboard) Month(ctx context.Context, year int, month time.Month) (calendar.Grid, error) {
	tasks, err := d.tasks.Load(ctx)
	if err != nil {
		return calendar.Grid{}, err
	}
	reminders, err := d.reminders.Load(ctx)
	if err != nil {
		return calendar.Grid{}, err
	}
	schedules, err := d.schedules.Load(ctx)
	if err != nil {
		return calendar.Grid{}, err
	}
	return calendar.MonthGrid(year, month, time.Now(), tasks, reminders, schedules), nil
}

// Day renders the drill-down detail for one calendar day.
func (d *Dashboard) Day(ctx context.Context, date string) (calendar.DayDetail, error) {
	tasks, err := d.tasks.Load(ctx)
	if err != nil {
		return calendar.DayDetail{}, err
	}
	reminders, err := d.reminders.Load(ctx)
	if err != nil {
		return calendar.DayDetail{}, err
	}
	schedules, err := d.schedules.Load(ctx)
	if err != nil {
		return calendar.DayDetail{}, err
	}
	return calendar.Detail(date, tasks, reminders, schedules), nil
}

// Category renders the category browser for one filter.
func (d *Dashboard) Category(ctx context.Context, name string) (CategoryPanel, error) {
	tasks, err := d.tasks.Load(ctx)
	if err != nil {
		return CategoryPanel{}, err
	}
	reminders, err := d.reminders.Load(ctx)
	if err != nil {
		return CategoryPanel{}, err
	}
	schedules, err := d.schedules.Load(ctx)
	if err != nil {
		return CategoryPanel{}, err
	}
	return RenderCategory(name, tasks, reminders, schedules), nil
}
