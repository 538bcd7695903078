package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/prodsmart/core/internal/adapters/repository"
	"github.com/prodsmart/core/internal/application/services"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/notify"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// ResourceHandler serves the uniform collection CRUD. Stores are scoped to
// the authenticated user per request; the services layered on top are cheap
// wiring structs, so building them per request is fine.
type ResourceHandler struct {
	tasks         *repository.TaskRepository
	reminders     *repository.ReminderRepository
	schedules     *repository.ScheduleRepository
	notifications *repository.NotificationRepository
	notes         *repository.NoteRepository
	scheduler     *notify.Scheduler
	bus           *storesync.Coordinator
	logger        *logger.Logger
}

// NewResourceHandler creates the collection CRUD handler.
func NewResourceHandler(
	tasks *repository.TaskRepository,
	reminders *repository.ReminderRepository,
	schedules *repository.ScheduleRepository,
	notifications *repository.NotificationRepository,
	notes *repository.NoteRepository,
	scheduler *notify.Scheduler,
	bus *storesync.Coordinator,
	logger *logger.Logger,
) *ResourceHandler {
	return &ResourceHandler{
		tasks:         tasks,
		reminders:     reminders,
		schedules:     schedules,
		notifications: notifications,
		notes:         notes,
		scheduler:     scheduler,
		bus:           bus,
		logger:        logger,
	}
}

func (h *ResourceHandler) taskService(userID uuid.UUID) *services.TaskService {
	return services.NewTaskService(h.tasks.ForUser(userID), h.bus, h.logger)
}

func (h *ResourceHandler) notificationService(userID uuid.UUID) *services.NotificationService {
	return services.NewNotificationService(h.notifications.ForUser(userID), h.bus, h.logger)
}

func (h *ResourceHandler) reminderService(userID uuid.UUID) *services.ReminderService {
	return services.NewReminderService(h.reminders.ForUser(userID), h.notificationService(userID), h.scheduler, h.bus, h.logger)
}

func (h *ResourceHandler) scheduleService(userID uuid.UUID) *services.ScheduleService {
	return services.NewScheduleService(h.schedules.ForUser(userID), h.notificationService(userID), h.scheduler, h.bus, h.logger)
}

func (h *ResourceHandler) noteService(userID uuid.UUID) *services.NoteService {
	return services.NewNoteService(h.notes.ForUser(userID), h.bus, h.logger)
}

// Tasks

func (h *ResourceHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService(getUserIDFromContext(c)).ListTasks(c.Request().Context())
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *ResourceHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Task text required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Task text required")
	}
	task, err := h.taskService(getUserIDFromContext(c)).CreateTask(c.Request().Context(), req)
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *ResourceHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch ports.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.taskService(getUserIDFromContext(c)).UpdateTask(c.Request().Context(), id, patch); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task updated"})
}

func (h *ResourceHandler) DeleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.taskService(getUserIDFromContext(c)).DeleteTask(c.Request().Context(), id); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

func (h *ResourceHandler) ClearTasks(c echo.Context) error {
	if err := h.taskService(getUserIDFromContext(c)).ClearTasks(c.Request().Context()); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All tasks deleted"})
}

// Reminders

func (h *ResourceHandler) ListReminders(c echo.Context) error {
	reminders, err := h.reminderService(getUserIDFromContext(c)).ListReminders(c.Request().Context())
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, reminders)
}

func (h *ResourceHandler) CreateReminder(c echo.Context) error {
	var req ports.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	reminder, err := h.reminderService(getUserIDFromContext(c)).CreateReminder(c.Request().Context(), req)
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusCreated, reminder)
}

func (h *ResourceHandler) UpdateReminder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch ports.ReminderPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.reminderService(getUserIDFromContext(c)).UpdateReminder(c.Request().Context(), id, patch); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Reminder updated"})
}

func (h *ResourceHandler) DeleteReminder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.reminderService(getUserIDFromContext(c)).DeleteReminder(c.Request().Context(), id); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Reminder deleted"})
}

func (h *ResourceHandler) ClearReminders(c echo.Context) error {
	if err := h.reminderService(getUserIDFromContext(c)).ClearReminders(c.Request().Context()); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All reminders deleted"})
}

// Schedules

func (h *ResourceHandler) ListSchedules(c echo.Context) error {
	schedules, err := h.scheduleService(getUserIDFromContext(c)).ListSchedules(c.Request().Context())
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, schedules)
}

func (h *ResourceHandler) CreateSchedule(c echo.Context) error {
	var req ports.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	schedule, err := h.scheduleService(getUserIDFromContext(c)).CreateSchedule(c.Request().Context(), req)
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusCreated, schedule)
}

func (h *ResourceHandler) UpdateSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch ports.SchedulePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.scheduleService(getUserIDFromContext(c)).UpdateSchedule(c.Request().Context(), id, patch); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Schedule updated"})
}

func (h *ResourceHandler) DeleteSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.scheduleService(getUserIDFromContext(c)).DeleteSchedule(c.Request().Context(), id); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Schedule deleted"})
}

func (h *ResourceHandler) ClearSchedules(c echo.Context) error {
	if err := h.scheduleService(getUserIDFromContext(c)).ClearSchedules(c.Request().Context()); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All schedules deleted"})
}

// Notifications

func (h *ResourceHandler) ListNotifications(c echo.Context) error {
	feed, err := h.notificationService(getUserIDFromContext(c)).ListNotifications(c.Request().Context())
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, feed)
}

func (h *ResourceHandler) CreateNotification(c echo.Context) error {
	var req ports.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	n, err := h.notificationService(getUserIDFromContext(c)).CreateNotification(c.Request().Context(), req)
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *ResourceHandler) DeleteNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.notificationService(getUserIDFromContext(c)).DeleteNotification(c.Request().Context(), id); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted"})
}

func (h *ResourceHandler) ClearNotifications(c echo.Context) error {
	if err := h.notificationService(getUserIDFromContext(c)).ClearNotifications(c.Request().Context()); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All notifications deleted"})
}

// Notes

func (h *ResourceHandler) ListNotes(c echo.Context) error {
	svc := h.noteService(getUserIDFromContext(c))
	if q := c.QueryParam("q"); q != "" {
		notes, err := svc.SearchNotes(c.Request().Context(), q)
		if err != nil {
			return resourceError(err)
		}
		return c.JSON(http.StatusOK, notes)
	}
	notes, err := svc.ListNotes(c.Request().Context())
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *ResourceHandler) CreateNote(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Note must have title, content, or attachment")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Note must have title, content, or attachment")
	}
	note, err := h.noteService(getUserIDFromContext(c)).CreateNote(c.Request().Context(), req)
	if err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *ResourceHandler) UpdateNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch ports.NotePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.noteService(getUserIDFromContext(c)).UpdateNote(c.Request().Context(), id, patch); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Note updated"})
}

func (h *ResourceHandler) DeleteNote(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.noteService(getUserIDFromContext(c)).DeleteNote(c.Request().Context(), id); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Note deleted"})
}

func (h *ResourceHandler) ClearNotes(c echo.Context) error {
	if err := h.noteService(getUserIDFromContext(c)).ClearNotes(c.Request().Context()); err != nil {
		return resourceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All notes deleted"})
}
