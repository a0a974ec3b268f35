package notifications

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// loadedMsg carries the notification list.
type loadedMsg struct {
	Items []api.Notification
	Err   error
}

// markedMsg confirms a single notification was flagged read on the server.
type markedMsg struct {
	ID  int
	Err error
}

// allMarkedMsg confirms the bulk mark-all call finished.
type allMarkedMsg struct {
	Err error
}

// NotificationsScreen lists the user's notifications, newest first.
type NotificationsScreen struct {
	deps screens.Deps

	items    []api.Notification
	selected int
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*NotificationsScreen)(nil)
var _ screen.KeyHintProvider = (*NotificationsScreen)(nil)

// New creates the notifications screen.
func New(deps screens.Deps) *NotificationsScreen {
	return &NotificationsScreen{deps: deps, loading: true}
}

func (s *NotificationsScreen) Init() tea.Cmd {
	client := s.deps.API
	return func() tea.Msg {
		list, err := client.Notifications(context.Background())
		return loadedMsg{Items: list, Err: err}
	}
}

func (s *NotificationsScreen) Title() string {
	return "Notifications"
}

func (s *NotificationsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Mark read"},
	}
	if s.unread() > 0 {
		hints = append(hints, layout.KeyHint{Key: "A", Description: "Mark all read"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *NotificationsScreen) unread() int {
	n := 0
	for _, it := range s.items {
		if !it.Read {
			n++
		}
	}
	return n
}

func (s *NotificationsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load notifications.")
			return s, nil
		}
		s.items = msg.Items
		return s, nil

	case markedMsg:
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not update the notification.")
			return s, nil
		}
		s.errMsg = ""
		for i := range s.items {
			if s.items[i].ID == msg.ID {
				s.items[i].Read = true
			}
		}
		return s, nil

	case allMarkedMsg:
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not update notifications.")
			return s, nil
		}
		s.errMsg = ""
		for i := range s.items {
			s.items[i].Read = true
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "enter":
			return s, s.markSelected()
		case "a":
			return s, s.markAll()
		}
	}

	return s, nil
}

func (s *NotificationsScreen) markSelected() tea.Cmd {
	if s.selected >= len(s.items) || s.items[s.selected].Read {
		return nil
	}
	client := s.deps.API
	id := s.items[s.selected].ID
	return func() tea.Msg {
		return markedMsg{ID: id, Err: client.MarkNotificationRead(context.Background(), id)}
	}
}

func (s *NotificationsScreen) markAll() tea.Cmd {
	if s.unread() == 0 {
		return nil
	}
	client := s.deps.API
	return func() tea.Msg {
		return allMarkedMsg{Err: client.MarkAllNotificationsRead(context.Background())}
	}
}

// noticeColor maps a notification level to its accent color.
func noticeColor(kind string) lipgloss.Style {
	switch kind {
	case api.NoticeSuccess:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case api.NoticeWarning:
		return lipgloss.NewStyle().Foreground(theme.Warning)
	case api.NoticeError:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary)
}

func (s *NotificationsScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading notifications..."))
	}
	if s.errMsg != "" && len(s.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg))
	}
	if len(s.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No notifications. You're all caught up!"))
	}

	cardWidth := min(width-8, 90)
	var b strings.Builder

	if n := s.unread(); n > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(pluralUnread(n)) + "\n\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg) + "\n\n")
	}

	for i, it := range s.items {
		marker := "  "
		if !it.Read {
			marker = noticeColor(it.Type).Bold(true).Render("● ")
		}
		title := lipgloss.NewStyle().Foreground(theme.Text).Bold(!it.Read).Render(it.Title)
		body := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cardWidth - 6).Render(it.Message)

		style := theme.Card
		if i == s.selected {
			style = theme.CardFocused
		}
		b.WriteString(style.Width(cardWidth).Render(marker+title+"\n"+body) + "\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

func pluralUnread(n int) string {
	if n == 1 {
		return "1 unread notification"
	}
	return fmt.Sprintf("%d unread notifications", n)
}
