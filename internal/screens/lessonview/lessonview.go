package lessonview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// completedMsg carries the outcome of marking the lesson complete.
type completedMsg struct {
	Err error
}

// LessonScreen renders one lesson's markdown content with scrolling.
type LessonScreen struct {
	deps   screens.Deps
	lesson api.Lesson

	completed bool
	marking   bool
	errMsg    string

	// rendered markdown, cached per terminal width
	rendered      []string
	renderedWidth int
	offset        int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates the lesson reader. The lesson content travels with the
// catalog listing, so there is nothing to fetch.
func New(deps screens.Deps, lesson api.Lesson) *LessonScreen {
	return &LessonScreen{deps: deps, lesson: lesson}
}

func (s *LessonScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonScreen) Title() string {
	return s.lesson.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
	}
	if !s.completed {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Mark complete"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		s.marking = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not record the completion.")
			return s, nil
		}
		s.errMsg = ""
		s.completed = true

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.scroll(-1)
		case "down", "j":
			s.scroll(1)
		case "pgup":
			s.scroll(-10)
		case "pgdown", " ":
			s.scroll(10)
		case "home", "g":
			s.offset = 0
		case "c":
			return s, s.markComplete()
		}
	}
	return s, nil
}

func (s *LessonScreen) markComplete() tea.Cmd {
	if s.completed || s.marking {
		return nil
	}
	s.marking = true

	client := s.deps.API
	id := s.lesson.ID
	return func() tea.Msg {
		_, err := client.CompleteLesson(context.Background(), id)
		return completedMsg{Err: err}
	}
}

func (s *LessonScreen) scroll(delta int) {
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
	if max := len(s.rendered) - 1; s.offset > max && max >= 0 {
		s.offset = max
	}
}

func (s *LessonScreen) View(width, height int) string {
	contentWidth := min(width-6, 100)
	s.ensureRendered(contentWidth)

	var b strings.Builder

	meta := fmt.Sprintf("%d min read", s.lesson.Duration)
	if s.lesson.VideoPath != "" {
		meta += "  ·  video: " + s.lesson.VideoPath
	}
	line := lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta)
	switch {
	case s.completed:
		line += "  " + theme.Correct.Render("✓ completed")
	case s.marking:
		line += "  " + theme.Hint.Render("saving...")
	}
	b.WriteString(line + "\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg) + "\n")
	}
	b.WriteString("\n")

	visible := height - 4
	if visible < 1 {
		visible = 1
	}

	end := s.offset + visible
	if end > len(s.rendered) {
		end = len(s.rendered)
	}
	start := s.offset
	if start > end {
		start = end
	}
	b.WriteString(strings.Join(s.rendered[start:end], "\n"))

	if end < len(s.rendered) {
		b.WriteString("\n" + theme.Hint.Render("↓ more"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(contentWidth).Render(b.String()))
}

// ensureRendered runs the markdown renderer once per width change.
func (s *LessonScreen) ensureRendered(width int) {
	if s.rendered != nil && s.renderedWidth == width {
		return
	}

	source := s.lesson.Content
	if strings.TrimSpace(source) == "" {
		source = s.lesson.Description
	}

	out := source
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, rerr := r.Render(source); rerr == nil {
			out = rendered
		}
	}

	s.rendered = strings.Split(strings.TrimRight(out, "\n"), "\n")
	s.renderedWidth = width
	if s.offset >= len(s.rendered) {
		s.offset = 0
	}
}
