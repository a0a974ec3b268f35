package courses

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/router"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/screens/coursedetail"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// coursesLoadedMsg carries the course catalog.
type coursesLoadedMsg struct {
	Courses []api.Course
	Err     error
}

// CoursesScreen lists every published course.
type CoursesScreen struct {
	deps screens.Deps

	courses  []api.Course
	selected int
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)

// New creates the course catalog screen.
func New(deps screens.Deps) *CoursesScreen {
	return &CoursesScreen{deps: deps, loading: true}
}

func (s *CoursesScreen) Init() tea.Cmd {
	client := s.deps.API
	return func() tea.Msg {
		list, err := client.Courses(context.Background())
		return coursesLoadedMsg{Courses: list, Err: err}
	}
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open course"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load courses.")
			return s, nil
		}
		s.courses = msg.Courses
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.courses)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.courses) {
				course := s.courses[s.selected]
				deps := s.deps
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: coursedetail.New(deps, course.ID)}
				}
			}
		}
	}

	return s, nil
}

func (s *CoursesScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading courses..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg))
	}
	if len(s.courses) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No courses published yet."))
	}

	cardWidth := min(width-8, 90)
	var b strings.Builder
	for i, c := range s.courses {
		title := c.Title
		desc := truncate(c.Description, cardWidth-8)
		meta := fmt.Sprintf("course #%d", c.ID)

		var card string
		if i == s.selected {
			card = theme.CardFocused.Width(cardWidth).Render(
				lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸ "+title) + "\n" +
					lipgloss.NewStyle().Foreground(theme.Text).Render(desc) + "\n" +
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta))
		} else {
			card = theme.Card.Width(cardWidth).Render(
				lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("  "+title) + "\n" +
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(desc))
		}
		b.WriteString(card + "\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
