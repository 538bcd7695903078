package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/prodsmart/core/docs"
	httpHandlers "github.com/prodsmart/core/internal/adapters/http"
	"github.com/prodsmart/core/internal/adapters/repository"
	"github.com/prodsmart/core/internal/application/services"
	"github.com/prodsmart/core/internal/infrastructure/config"
	"github.com/prodsmart/core/internal/infrastructure/database"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/notify"
	storesync "github.com/prodsmart/core/internal/sync"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	scheduler *notify.Scheduler
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, scheduler *notify.Scheduler, bus *storesync.Coordinator, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorEnvelopeHandler(appLogger)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Services and handlers
	authService := services.NewAuthService(userRepo, cfg.JWT, appLogger)
	authHandler := httpHandlers.NewAuthHandler(authService, userRepo, appLogger)
	resourceHandler := httpHandlers.NewResourceHandler(taskRepo, reminderRepo, scheduleRepo, notificationRepo, noteRepo, scheduler, bus, appLogger)
	dashboardHandler := httpHandlers.NewDashboardHandler(taskRepo, reminderRepo, scheduleRepo, appLogger)

	server := &Server{
		echo:      e,
		config:    cfg,
		logger:    appLogger,
		db:        db,
		scheduler: scheduler,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, resourceHandler, dashboardHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// errorEnvelopeHandler renders every error as the {"error": "..."} envelope
// clients key on.
func errorEnvelopeHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}

		if code >= http.StatusInternalServerError {
			log.Errorw("Request failed", "error", err, "path", c.Request().URL.Path)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": message})
	}
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
			}
			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowCredentials: true,
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.config.Security.RateLimitRequests),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, resources *httpHandlers.ResourceHandler, dashboard *httpHandlers.DashboardHandler, authService *services.AuthService) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")

	// Auth routes. Session is optionally authenticated: without a valid
	// token it answers authenticated=false rather than 401.
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session, s.optionalAuthMiddleware(authService))

	required := s.authMiddleware(authService)

	tasks := api.Group("/tasks", required)
	tasks.GET("", resources.ListTasks)
	tasks.POST("", resources.CreateTask)
	tasks.PUT("/:id", resources.UpdateTask)
	tasks.DELETE("/:id", resources.DeleteTask)
	tasks.DELETE("", resources.ClearTasks)

	reminders := api.Group("/reminders", required)
	reminders.GET("", resources.ListReminders)
	reminders.POST("", resources.CreateReminder)
	reminders.PUT("/:id", resources.UpdateReminder)
	reminders.DELETE("/:id", resources.DeleteReminder)
	reminders.DELETE("", resources.ClearReminders)

	schedules := api.Group("/schedules", required)
	schedules.GET("", resources.ListSchedules)
	schedules.POST("", resources.CreateSchedule)
	schedules.PUT("/:id", resources.UpdateSchedule)
	schedules.DELETE("/:id", resources.DeleteSchedule)
	schedules.DELETE("", resources.ClearSchedules)

	notifications := api.Group("/notifications", required)
	notifications.GET("", resources.ListNotifications)
	notifications.POST("", resources.CreateNotification)
	notifications.DELETE("/:id", resources.DeleteNotification)
	notifications.DELETE("", resources.ClearNotifications)

	notes := api.Group("/notes", required)
	notes.GET("", resources.ListNotes)
	notes.POST("", resources.CreateNote)
	notes.PUT("/:id", resources.UpdateNote)
	notes.DELETE("/:id", resources.DeleteNote)
	notes.DELETE("", resources.ClearNotes)

	views := api.Group("/dashboard", required)
	views.GET("/calendar", dashboard.Calendar)
	views.GET("/calendar/:date", dashboard.CalendarDay)
	views.GET("/progress", dashboard.Progress)
	views.GET("/categories/:name", dashboard.Category)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()
			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	address := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server, cancelling pending notification
// timers; they are rebuilt from persisted state on the next start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
