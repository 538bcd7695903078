package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
)

// LocalAuth is the offline AuthCapability: it authenticates against the local
// user directory and persists the session under a storage key, so the session
// survives restarts the same way the collections do. The signed-in user is
// additionally mirrored under its own key, readable without decoding the
// whole session.
type LocalAuth struct {
	auth       ports.AuthService
	kv         ports.KeyValueStore
	sessionKey string
	userKey    string
	logger     *logger.Logger
}

// NewLocalAuth creates the local auth capability.
func NewLocalAuth(auth ports.AuthService, kv ports.KeyValueStore, sessionKey, userKey string, logger *logger.Logger) *LocalAuth {
	return &LocalAuth{
		auth:       auth,
		kv:         kv,
		sessionKey: sessionKey,
		userKey:    userKey,
		logger:     logger,
	}
}

// CheckAuth reports whether a persisted session exists and its token still
// validates.
func (a *LocalAuth) CheckAuth(ctx context.Context) bool {
	session, err := a.current()
	if err != nil || session == nil {
		return false
	}
	if _, err := a.auth.ValidateToken(session.Token); err != nil {
		a.logger.Debugw("persisted session rejected", "error", err)
		return false
	}
	return true
}

// Login authenticates and persists the session.
func (a *LocalAuth) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	resp, err := a.auth.Login(ctx, ports.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	session := &ports.Session{User: resp.User, Token: resp.Token}
	if err := a.persist(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Signup creates an account and persists the session.
func (a *LocalAuth) Signup(ctx context.Context, email, password, name string) (*ports.Session, error) {
	resp, err := a.auth.Signup(ctx, ports.SignupRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	session := &ports.Session{User: resp.User, Token: resp.Token}
	if err := a.persist(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout drops the persisted session and the mirrored user.
func (a *LocalAuth) Logout(ctx context.Context) error {
	if err := a.kv.Remove(a.sessionKey); err != nil {
		return err
	}
	return a.kv.Remove(a.userKey)
}

// AuthHeader returns the bearer header for the persisted session, empty when
// logged out.
func (a *LocalAuth) AuthHeader() map[string]string {
	session, err := a.current()
	if err != nil || session == nil || session.Token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + session.Token}
}

// Session returns the persisted session, nil when logged out.
func (a *LocalAuth) Session() (*ports.Session, error) {
	return a.current()
}

// CurrentUser returns the mirrored signed-in user, nil when logged out.
func (a *LocalAuth) CurrentUser() (*entities.User, error) {
	data, found, err := a.kv.Get(a.userKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var user entities.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (a *LocalAuth) current() (*ports.Session, error) {
	data, found, err := a.kv.Get(a.sessionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var session ports.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (a *LocalAuth) persist(session *ports.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.kv.Set(a.sessionKey, data); err != nil {
		return err
	}
	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return a.kv.Set(a.userKey, user)
}
