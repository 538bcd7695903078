package remote

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/ports"
)

// Auth is the remote AuthCapability: it delegates signup/login to the backend
// and keeps the bearer token in memory for the client's lifetime. It is its
// own HeaderProvider, so wiring it into a Client attaches the token to every
// collection request.
type Auth struct {
	client *Client

	mu      sync.RWMutex
	session *ports.Session
}

// NewAuth creates the remote auth capability around a bare (unauthenticated)
// client. The capability becomes the client's header provider, so a restored
// session's token reaches the session and logout endpoints.
func NewAuth(client *Client) *Auth {
	a := &Auth{client: client}
	if _, bare := client.headers.(noHeaders); bare {
		client.headers = a
	}
	return a
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *entities.User `json:"user"`
}

// CheckAuth asks the backend whether the current session is valid.
func (a *Auth) CheckAuth(ctx context.Context) bool {
	var resp sessionResponse
	if err := a.client.Do(ctx, http.MethodGet, "/api/auth/session", nil, &resp); err != nil {
		return false
	}
	if resp.Authenticated {
		a.mu.Lock()
		var token string
		if a.session != nil {
			token = a.session.Token
		}
		a.session = &ports.Session{User: resp.User, Token: token}
		a.mu.Unlock()
	}
	return resp.Authenticated
}

type authBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// Login authenticates against the backend. The backend's two failure
// discriminants map onto the matching sentinel errors.
func (a *Auth) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	var resp authResponse
	err := a.client.Do(ctx, http.MethodPost, "/api/auth/login", authBody{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, mapAuthError(err)
	}
	session := &ports.Session{User: resp.User, Token: resp.Token}
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	return session, nil
}

// Signup registers a new account.
func (a *Auth) Signup(ctx context.Context, email, password, name string) (*ports.Session, error) {
	var resp authResponse
	err := a.client.Do(ctx, http.MethodPost, "/api/auth/signup", authBody{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return nil, mapAuthError(err)
	}
	session := &ports.Session{User: resp.User, Token: resp.Token}
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	return session, nil
}

// Logout ends the backend session and drops the local token.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.client.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	return err
}

// Restore adopts a previously persisted session, so a restarted app reuses
// its token instead of prompting for credentials again. The token is not
// validated here; CheckAuth does that against the backend.
func (a *Auth) Restore(session *ports.Session) {
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
}

// Session returns the current in-memory session, nil when logged out.
func (a *Auth) Session() *ports.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// AuthHeader implements HeaderProvider.
func (a *Auth) AuthHeader() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil || a.session.Token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + a.session.Token}
}

func mapAuthError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Message {
	case "USER_NOT_FOUND":
		return entities.ErrUserNotFound
	case "INVALID_PASSWORD":
		return entities.ErrInvalidPassword
	case "Email already exists":
		return entities.ErrEmailExists
	case "Missing fields":
		return entities.ErrMissingFields
	}
	return err
}
