package login

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/router"
	"github.com/rsharan/lernix/internal/screens"
)

func newTestLogin(t *testing.T) *LoginScreen {
	t.Helper()
	fs, err := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	return New(screens.Deps{Auth: auth.NewManager(fs)})
}

func TestMFAChallengeKeepsCredentialsInMemoryOnly(t *testing.T) {
	s := newTestLogin(t)
	s.username.Model.SetValue("priya")
	s.password.Model.SetValue("hunter2hunter2")
	s.busy = true

	s.Update(loginResultMsg{Result: auth.LoginResult{MFARequired: true}})

	if s.phase != phaseCode {
		t.Fatalf("expected code phase, got %v", s.phase)
	}
	if s.pendingUser != "priya" || s.pendingPass != "hunter2hunter2" {
		t.Error("pending credentials should be held for the code step")
	}
}

func TestEscFromCodeStepDropsPendingCredentials(t *testing.T) {
	s := newTestLogin(t)
	s.phase = phaseCode
	s.pendingUser = "priya"
	s.pendingPass = "hunter2hunter2"

	s.handleKey(tea.KeyPressMsg{Code: tea.KeyEscape})

	if s.phase != phaseCredentials {
		t.Fatalf("expected credentials phase, got %v", s.phase)
	}
	if s.pendingUser != "" || s.pendingPass != "" {
		t.Error("pending credentials should be wiped on abort")
	}
}

func TestSuccessReplacesWithDashboard(t *testing.T) {
	s := newTestLogin(t)
	s.busy = true

	_, cmd := s.Update(loginResultMsg{Result: auth.LoginResult{OK: true}})
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
}

func TestFailureShowsServerMessage(t *testing.T) {
	s := newTestLogin(t)
	s.busy = true

	s.Update(loginResultMsg{Result: auth.LoginResult{Message: "Invalid credentials"}})

	if s.errMsg != "Invalid credentials" {
		t.Errorf("expected server message surfaced, got %q", s.errMsg)
	}
	if s.busy {
		t.Error("busy flag should clear on failure")
	}
}

func TestEmptyFormRejectedLocally(t *testing.T) {
	s := newTestLogin(t)

	if cmd := s.submit(); cmd != nil {
		t.Error("empty credentials should not produce a request")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
}
