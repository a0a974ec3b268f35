package notifications

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screens"
)

func newLoaded(t *testing.T) *NotificationsScreen {
	t.Helper()
	s := New(screens.Deps{})
	s.Update(loadedMsg{Items: []api.Notification{
		{ID: 1, Title: "New course available", Type: api.NoticeInfo},
		{ID: 2, Title: "Assessment graded", Type: api.NoticeSuccess, Read: true},
		{ID: 3, Title: "Deadline approaching", Type: api.NoticeWarning},
	}})
	return s
}

func TestUnreadCount(t *testing.T) {
	s := newLoaded(t)
	if got := s.unread(); got != 2 {
		t.Errorf("expected 2 unread, got %d", got)
	}
}

func TestEnterMarksSelectedRead(t *testing.T) {
	s := newLoaded(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a mark-read command for an unread notification")
	}

	s.Update(markedMsg{ID: 1})
	if !s.items[0].Read {
		t.Error("notification 1 should be read after the server confirms")
	}
	if s.items[2].Read {
		t.Error("other notifications must stay untouched")
	}
}

func TestEnterOnReadNotificationIsNoop(t *testing.T) {
	s := newLoaded(t)
	s.selected = 1 // already read

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("a read notification needs no server call")
	}
}

func TestMarkAllRead(t *testing.T) {
	s := newLoaded(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'a'})
	if cmd == nil {
		t.Fatal("expected a mark-all command while unread items exist")
	}

	s.Update(allMarkedMsg{})
	if s.unread() != 0 {
		t.Errorf("expected 0 unread after mark-all, got %d", s.unread())
	}

	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'a'}); cmd != nil {
		t.Error("mark-all with nothing unread needs no server call")
	}
}

func TestLoadFailureShowsMessage(t *testing.T) {
	s := New(screens.Deps{})
	s.Update(loadedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if s.errMsg == "" {
		t.Error("expected an error message after a failed load")
	}
}
