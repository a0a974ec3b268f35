package lessonview

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screens"
)

func testLesson() api.Lesson {
	return api.Lesson{
		ID:       7,
		Title:    "Interfaces",
		Content:  "# Interfaces\n\nAccept interfaces, return structs.",
		Duration: 5,
	}
}

func TestMarkCompleteRequestsOnce(t *testing.T) {
	s := New(screens.Deps{}, testLesson())

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'c'})
	if cmd == nil {
		t.Fatal("expected a completion command")
	}
	if !s.marking {
		t.Error("expected the request to be marked in flight")
	}

	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'c'}); cmd != nil {
		t.Error("a second press while in flight must not fire again")
	}
}

func TestCompletionConfirmed(t *testing.T) {
	s := New(screens.Deps{}, testLesson())
	s.Update(tea.KeyPressMsg{Code: 'c'})

	s.Update(completedMsg{})

	if !s.completed {
		t.Fatal("expected the lesson to be marked completed")
	}
	if !strings.Contains(s.View(100, 40), "completed") {
		t.Error("view should show the completion mark")
	}

	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'c'}); cmd != nil {
		t.Error("a completed lesson must not be re-submitted")
	}
}

func TestCompletionFailureSurfaces(t *testing.T) {
	s := New(screens.Deps{}, testLesson())
	s.Update(tea.KeyPressMsg{Code: 'c'})

	s.Update(completedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if s.completed {
		t.Error("a failed completion must not flip the state")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if s.marking {
		t.Error("the in-flight flag should clear on failure")
	}
}
