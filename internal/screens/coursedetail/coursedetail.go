package coursedetail

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/catalog"
	"github.com/rsharan/lernix/internal/router"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/screens/codespace"
	"github.com/rsharan/lernix/internal/screens/lessonview"
	"github.com/rsharan/lernix/internal/screens/quiz"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// detailLoadedMsg carries the course with its lessons, exercises and
// assessments.
type detailLoadedMsg struct {
	Detail *catalog.Detail
	Err    error
}

// entry is one selectable row in the flattened content list.
type entry struct {
	section string
	label   string
	detail  string
	open    func(screens.Deps) screen.Screen
}

// DetailScreen shows a single course: its lessons, coding exercises and
// assessments, in one navigable list.
type DetailScreen struct {
	deps     screens.Deps
	courseID int

	detail   *catalog.Detail
	entries  []entry
	selected int
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// New creates the detail screen for one course.
func New(deps screens.Deps, courseID int) *DetailScreen {
	return &DetailScreen{deps: deps, courseID: courseID, loading: true}
}

func (s *DetailScreen) Init() tea.Cmd {
	client := s.deps.API
	id := s.courseID
	return func() tea.Msg {
		d, err := catalog.LoadDetail(context.Background(), client, id)
		return detailLoadedMsg{Detail: d, Err: err}
	}
}

func (s *DetailScreen) Title() string {
	if s.detail != nil {
		return s.detail.Course.Title
	}
	return "Course"
}

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load this course.")
			return s, nil
		}
		s.detail = msg.Detail
		s.entries = buildEntries(msg.Detail)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.entries) {
				e := s.entries[s.selected]
				deps := s.deps
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: e.open(deps)}
				}
			}
		}
	}

	return s, nil
}

func buildEntries(d *catalog.Detail) []entry {
	var out []entry

	for _, l := range d.Lessons {
		lesson := l
		out = append(out, entry{
			section: "Lessons",
			label:   lesson.Title,
			detail:  fmt.Sprintf("%d min", lesson.Duration),
			open: func(deps screens.Deps) screen.Screen {
				return lessonview.New(deps, lesson)
			},
		})
	}

	for _, ex := range d.Exercises {
		exercise := ex
		out = append(out, entry{
			section: "Coding exercises",
			label:   exercise.Title,
			detail:  exercise.Language,
			open: func(deps screens.Deps) screen.Screen {
				return codespace.New(deps, d.Course.ID, exercise.ID)
			},
		})
	}

	for _, a := range d.Assessments {
		asm := a
		detail := fmt.Sprintf("%d questions", len(asm.Questions))
		if asm.TimeLimit > 0 {
			detail += fmt.Sprintf(", %d min", asm.TimeLimit)
		}
		out = append(out, entry{
			section: "Assessments",
			label:   asm.Title,
			detail:  detail,
			open: func(deps screens.Deps) screen.Screen {
				return quiz.New(deps, asm.ID)
			},
		})
	}

	return out
}

func (s *DetailScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading course..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg))
	}

	var b strings.Builder

	b.WriteString(theme.Title.Render(s.detail.Course.Title) + "\n")
	if s.detail.Course.Description != "" {
		b.WriteString(theme.Subtitle.Render(s.detail.Course.Description) + "\n")
	}
	b.WriteString("\n")

	if len(s.entries) == 0 {
		b.WriteString(theme.Hint.Render("This course has no content yet."))
	}

	lastSection := ""
	for i, e := range s.entries {
		if e.section != lastSection {
			lastSection = e.section
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true).
				Render(e.section) + "\n")
		}

		detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.detail)
		if i == s.selected {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render("  ▸ "+e.label) + "  " + detail + "\n")
		} else {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("    "+e.label) + "  " + detail + "\n")
		}
	}

	card := theme.Card.Width(min(width-6, 90)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}
