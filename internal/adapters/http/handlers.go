// Package http exposes the dashboard engine over the REST API. Error
// responses use a single envelope, {"error": "..."}; the auth endpoints keep
// the discriminant strings clients branch on (USER_NOT_FOUND,
// INVALID_PASSWORD, "Email already exists").
package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/prodsmart/core/internal/application/services"
	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
)

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	userRepo    ports.UserRepository
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userRepo ports.UserRepository, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Signup handles account creation
func (h *AuthHandler) Signup(c echo.Context) error {
	var req ports.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	response, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrEmailExists) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		h.logger.Errorw("Signup failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Signup failed")
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "USER_NOT_FOUND")
		case errors.Is(err, entities.ErrInvalidPassword):
			return echo.NewHTTPError(http.StatusUnauthorized, "INVALID_PASSWORD")
		}
		h.logger.Errorw("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout ends the session. Tokens are stateless, so this is an
// acknowledgement for the client to drop its copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *entities.User `json:"user,omitempty"`
}

// Session reports whether the presented token is still valid.
func (h *AuthHandler) Session(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == uuid.Nil {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: user})
}

// getUserIDFromContext extracts the authenticated user's id, uuid.Nil when
// the request carries no valid session.
func getUserIDFromContext(c echo.Context) uuid.UUID {
	userIDStr, ok := c.Get("user").(string)
	if !ok {
		return uuid.Nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}
	return userID
}

// resourceError maps collection sentinel errors onto the API's status codes.
func resourceError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrReminderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Reminder not found")
	case errors.Is(err, entities.ErrScheduleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
	case errors.Is(err, entities.ErrNotificationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	case errors.Is(err, entities.ErrNoteNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Note not found")
	case errors.Is(err, entities.ErrNotifyTimeInPast):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}
