package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prodsmart/core/internal/adapters/repository"
	"github.com/prodsmart/core/internal/calendar"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/views"
)

// DashboardHandler serves the aggregated read models: calendar grids, day
// details, progress charts and the category browser.
type DashboardHandler struct {
	tasks     *repository.TaskRepository
	reminders *repository.ReminderRepository
	schedules *repository.ScheduleRepository
	logger    *logger.Logger
}

// NewDashboardHandler creates the dashboard read-model handler.
func NewDashboardHandler(tasks *repository.TaskRepository, reminders *repository.ReminderRepository, schedules *repository.ScheduleRepository, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		tasks:     tasks,
		reminders: reminders,
		schedules: schedules,
		logger:    logger,
	}
}

// Calendar renders a month grid. Defaults to the current month; ?year= and
// ?month= select another.
func (h *DashboardHandler) Calendar(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()
	now := time.Now()

	year := now.Year()
	month := now.Month()
	if v := c.QueryParam("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
		}
		year = parsed
	}
	if v := c.QueryParam("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid month")
		}
		month = time.Month(parsed)
	}

	tasks, err := h.tasks.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	reminders, err := h.reminders.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	schedules, err := h.schedules.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}

	return c.JSON(http.StatusOK, calendar.MonthGrid(year, month, now, tasks, reminders, schedules))
}

// CalendarDay renders the drill-down detail for one day.
func (h *DashboardHandler) CalendarDay(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	day := c.Param("date")
	if _, err := time.Parse(calendar.DayLayout, day); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
	}

	tasks, err := h.tasks.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	reminders, err := h.reminders.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	schedules, err := h.schedules.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}

	return c.JSON(http.StatusOK, calendar.Detail(day, tasks, reminders, schedules))
}

type progressResponse struct {
	Tasks    views.Progress `json:"tasks"`
	Learning views.Progress `json:"learning"`
}

// Progress renders both completion charts.
func (h *DashboardHandler) Progress(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	tasks, err := h.tasks.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	schedules, err := h.schedules.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}

	return c.JSON(http.StatusOK, progressResponse{
		Tasks:    views.RenderTaskProgress(tasks),
		Learning: views.RenderLearningProgress(schedules),
	})
}

// Category renders the category browser for one filter
// (tasks/reminders/schedules).
func (h *DashboardHandler) Category(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	name := c.Param("name")
	switch name {
	case "tasks", "reminders", "schedules":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category")
	}

	tasks, err := h.tasks.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	reminders, err := h.reminders.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}
	schedules, err := h.schedules.ForUser(userID).Load(ctx)
	if err != nil {
		return resourceError(err)
	}

	return c.JSON(http.StatusOK, views.RenderCategory(name, tasks, reminders, schedules))
}
