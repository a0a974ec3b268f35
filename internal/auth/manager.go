package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rsharan/lernix/internal/api"
)

// SessionEndedMsg announces that the session is gone, either by logout or a failed
// token refresh. The application model resets to the login screen on it.
type SessionEndedMsg struct{}

// LoginResult is the outcome of one login attempt.
type LoginResult struct {
	// OK means a session was established.
	OK bool

	// MFARequired means the first factor was accepted and the caller must
	// re-invoke Login with an OTP. No session state has been written.
	MFARequired bool

	// Message is the server's explanation when OK is false.
	Message string
}

// Manager owns the current session. It implements api.Credentials, so the
// HTTP client reads tokens from it and writes refreshed access tokens back
// through it; every mutation is mirrored to the persistent store.
type Manager struct {
	mu      sync.RWMutex
	session *Session
	store   Store
	client  *api.Client
}

// NewManager creates a Manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Bind attaches the API client. Required before Login/Register; separate
// from the constructor because the client itself needs the Manager as its
// credential source.
func (m *Manager) Bind(client *api.Client) {
	m.client = client
}

// Restore loads a persisted session, if any.
func (m *Manager) Restore() error {
	s, err := m.store.Load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	return nil
}

// Current returns the authenticated user, or nil.
func (m *Manager) Current() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	u := m.session.User
	return &u
}

// Login performs one POST to auth/login/. Three outcomes: a session is
// established, an OTP is required (nothing stored), or the attempt failed
// with a message. The returned error is transport-level only.
func (m *Manager) Login(ctx context.Context, username, password, role, otp string) (LoginResult, error) {
	resp, err := m.client.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
		Role:     role,
		OTP:      otp,
	})
	if err != nil {
		if api.StatusOf(err) == http.StatusUnauthorized || api.StatusOf(err) == http.StatusBadRequest {
			return LoginResult{Message: api.MessageOf(err, "Invalid credentials")}, nil
		}
		return LoginResult{}, err
	}

	if resp.MFARequired {
		return LoginResult{MFARequired: true, Message: resp.Message}, nil
	}
	if resp.User == nil || resp.Access == "" || resp.Refresh == "" {
		return LoginResult{Message: "Invalid credentials"}, nil
	}

	s := &Session{User: *resp.User, Access: resp.Access, Refresh: resp.Refresh}
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	if err := m.store.Save(s); err != nil {
		return LoginResult{}, fmt.Errorf("persist session: %w", err)
	}
	return LoginResult{OK: true}, nil
}

// Register validates the form client-side and creates the account. It does
// not authenticate the new user.
func (m *Manager) Register(ctx context.Context, form RegisterForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	err := m.client.Register(ctx, api.RegisterRequest{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Password2: form.ConfirmPassword,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Role:      api.RoleStudent,
	})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return fmt.Errorf("registration rejected: %s", api.MessageOf(err, "invalid form"))
		}
		return err
	}
	return nil
}

// Logout clears in-memory and persisted session state. Unconditional.
func (m *Manager) Logout() {
	m.Clear()
}

// AccessToken implements api.Credentials.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Access
}

// RefreshToken implements api.Credentials.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Refresh
}

// SetAccessToken implements api.Credentials: a transparent refresh replaced
// the access token, so persist the new pair.
func (m *Manager) SetAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}
	m.session.Access = token
	_ = m.store.Save(m.session)
}

// Clear implements api.Credentials.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	_ = m.store.Clear()
}
