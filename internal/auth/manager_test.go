package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharan/lernix/internal/api"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *FileStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	m := NewManager(store)
	m.Bind(api.New(srv.URL, 0, m))
	return m, store
}

func TestLoginEstablishesAndPersistsSession(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "amy", req.Username)
		assert.Equal(t, api.RoleStudent, req.Role)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]any{"id": 3, "name": "Amy Lin", "email": "amy@example.com", "role": "student"},
			"access":  "tok-access",
			"refresh": "tok-refresh",
		})
	}))

	res, err := m.Login(context.Background(), "amy", "hunter22", api.RoleStudent, "")
	require.NoError(t, err)
	assert.True(t, res.OK)

	user := m.Current()
	require.NotNil(t, user)
	assert.Equal(t, "Amy Lin", user.Name)
	assert.Equal(t, "tok-access", m.AccessToken())

	// Session survives a restart via the store.
	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "tok-refresh", persisted.Refresh)
}

func TestLoginMFARequiredStoresNothing(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"mfa_required": true,
			"message":      "OTP sent to your device",
		})
	}))

	res, err := m.Login(context.Background(), "amy", "hunter22", api.RoleStudent, "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.True(t, res.MFARequired)
	assert.Equal(t, "OTP sent to your device", res.Message)

	assert.Nil(t, m.Current(), "no in-memory session before the OTP step")
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted, "no session persisted before the OTP step")
}

func TestLoginBadCredentials(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))

	res, err := m.Login(context.Background(), "amy", "wrong", api.RoleStudent, "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.False(t, res.MFARequired)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.Nil(t, m.Current())
}

func TestLogoutClearsEverything(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]any{"id": 3, "name": "Amy Lin", "email": "amy@example.com", "role": "student"},
			"access":  "tok-access",
			"refresh": "tok-refresh",
		})
	}))

	_, err := m.Login(context.Background(), "amy", "hunter22", api.RoleStudent, "")
	require.NoError(t, err)
	require.NotNil(t, m.Current())

	m.Logout()

	assert.Nil(t, m.Current())
	assert.Empty(t, m.AccessToken())
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestRestoreFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(&Session{
		User:    api.User{Name: "Amy Lin", Role: api.RoleStudent},
		Access:  "tok-a",
		Refresh: "tok-r",
	}))

	m := NewManager(store)
	require.NoError(t, m.Restore())
	require.NotNil(t, m.Current())
	assert.Equal(t, "tok-a", m.AccessToken())

	// Owner-only permissions on the session file.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSetAccessTokenPersists(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	m := NewManager(store)
	require.NoError(t, store.Save(&Session{User: api.User{Name: "x"}, Access: "old", Refresh: "r"}))
	require.NoError(t, m.Restore())

	m.SetAccessToken("new")

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "new", persisted.Access)
	assert.Equal(t, "r", persisted.Refresh)
}

func TestRegisterFormValidation(t *testing.T) {
	tests := []struct {
		name    string
		form    RegisterForm
		wantErr string
	}{
		{
			name: "valid",
			form: RegisterForm{
				FirstName: "Amy", LastName: "Lin", Email: "amy@example.com",
				Username: "amy42", Password: "secret-pw-1", ConfirmPassword: "secret-pw-1",
			},
		},
		{
			name: "mismatched passwords",
			form: RegisterForm{
				FirstName: "Amy", LastName: "Lin", Email: "amy@example.com",
				Username: "amy42", Password: "secret-pw-1", ConfirmPassword: "secret-pw-2",
			},
			wantErr: "passwords do not match",
		},
		{
			name: "bad email",
			form: RegisterForm{
				FirstName: "Amy", LastName: "Lin", Email: "not-an-email",
				Username: "amy42", Password: "secret-pw-1", ConfirmPassword: "secret-pw-1",
			},
			wantErr: "email address is not valid",
		},
		{
			name:    "everything missing",
			form:    RegisterForm{},
			wantErr: "first name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
