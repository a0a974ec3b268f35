package codespace

import (
	"testing"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/store"
	"github.com/rsharan/lernix/internal/workspace"
)

func newReady(t *testing.T) *CodeScreen {
	t.Helper()
	s := New(screens.Deps{Log: &store.Store{}}, 1, 2)
	ex := &api.Exercise{
		ID:          2,
		Course:      1,
		Title:       "FizzBuzz",
		Language:    "python",
		StarterCode: "# your solution here",
	}
	s.Update(loadedMsg{Exercise: ex, Course: &api.Course{ID: 1, Title: "Python 101"}})
	if s.ws.Phase() != workspace.PhaseReady {
		t.Fatalf("expected Ready after load, got %v", s.ws.Phase())
	}
	return s
}

func TestStaleRunResultDropped(t *testing.T) {
	s := newReady(t)

	// No run in flight here: the completion belongs to a screen the user
	// already left.
	_, cmd := s.Update(runDoneMsg{Output: "stale\n"})

	if cmd != nil {
		t.Error("a dropped run result must not reach the activity log")
	}
	if s.ws.Result() != nil {
		t.Error("a dropped run result must not be displayed")
	}
}

func TestCompletedRunIsLogged(t *testing.T) {
	s := newReady(t)
	if !s.ws.BeginRun() {
		t.Fatal("run guard refused")
	}

	_, cmd := s.Update(runDoneMsg{Output: "1\n2\nFizz\n"})

	if cmd == nil {
		t.Error("a consumed run result should be logged")
	}
}
