package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodsmart/core/internal/domain/entities"
)

// AuthCapability is the authentication collaborator. Two interchangeable
// implementations exist: one delegates to the backend over HTTP, one keeps a
// local user directory (bcrypt hashes, never plaintext).
type AuthCapability interface {
	CheckAuth(ctx context.Context) bool
	Login(ctx context.Context, email, password string) (*Session, error)
	Signup(ctx context.Context, email, password, name string) (*Session, error)
	Logout(ctx context.Context) error
	// AuthHeader returns headers to attach to outgoing requests, empty when
	// no session exists.
	AuthHeader() map[string]string
}

// Session is the authenticated principal plus its bearer token.
type Session struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token,omitempty"`
}

// AuthService is the server-side authentication surface.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// NotificationPublisher creates a dashboard feed entry as a side effect of
// another component's mutation.
type NotificationPublisher interface {
	Publish(ctx context.Context, title, description string, source entities.NotificationSource) error
}

// Auth related types

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int64          `json:"expires_in"`
	User      *entities.User `json:"user"`
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Collection request types

type CreateTaskRequest struct {
	Text string `json:"text" validate:"required,max=500"`
	Date string `json:"date" validate:"omitempty"`
}

type CreateReminderRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
}

type CreateScheduleRequest struct {
	Lesson string `json:"lesson" validate:"required,max=200"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
}

type CreateNotificationRequest struct {
	Title       string                      `json:"title" validate:"required,max=200"`
	Description string                      `json:"description" validate:"max=1000"`
	Source      entities.NotificationSource `json:"source" validate:"required"`
}

type CreateNoteRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Content     string                `json:"content"`
	Attachments []entities.Attachment `json:"attachments" validate:"omitempty,dive"`
}
