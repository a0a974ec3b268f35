package codespace

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/store"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
	"github.com/rsharan/lernix/internal/workspace"
)

// loadedMsg carries the exercise and its parent course.
type loadedMsg struct {
	Exercise *api.Exercise
	Course   *api.Course
	Err      error
}

// runDoneMsg carries the remote execution outcome.
type runDoneMsg struct {
	Output string
	ErrMsg string
}

// runLoggedMsg confirms the local history write finished.
type runLoggedMsg struct {
	Err error
}

// CodeScreen is the coding exercise workspace: an editor over remote
// execution.
type CodeScreen struct {
	deps       screens.Deps
	courseID   int
	exerciseID int

	ws     *workspace.Workspace
	editor components.Editor
	ready  bool
}

var _ screen.Screen = (*CodeScreen)(nil)
var _ screen.KeyHintProvider = (*CodeScreen)(nil)

// New creates the workspace screen for one exercise.
func New(deps screens.Deps, courseID, exerciseID int) *CodeScreen {
	return &CodeScreen{
		deps:       deps,
		courseID:   courseID,
		exerciseID: exerciseID,
		ws:         workspace.New(),
	}
}

func (s *CodeScreen) Init() tea.Cmd {
	client := s.deps.API
	courseID, exerciseID := s.courseID, s.exerciseID
	return func() tea.Msg {
		ex, course, err := workspace.Load(context.Background(), client, courseID, exerciseID)
		return loadedMsg{Exercise: ex, Course: course, Err: err}
	}
}

func (s *CodeScreen) Title() string {
	if ex := s.ws.Exercise(); ex != nil {
		return ex.Title
	}
	return "Exercise"
}

func (s *CodeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+R", Description: "Run"},
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Ctrl+X", Description: "Reset code"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CodeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.ws.ApplyLoadError()
			return s, nil
		}
		s.ws.ApplyLoaded(msg.Exercise, msg.Course)
		s.editor = components.NewEditor(s.ws.Source(), msg.Exercise.Language)
		s.ready = true
		return s, s.editor.Init()

	case runDoneMsg:
		if !s.ws.ApplyRun(msg.Output, msg.ErrMsg) {
			// Stale result from a run this screen never started.
			return s, nil
		}
		return s, s.logRun(msg)

	case runLoggedMsg:
		// Best effort, same as the quiz log.
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return s, s.run(false)
		case "ctrl+s":
			return s, s.run(true)
		case "ctrl+x":
			s.ws.Reset()
			if s.ready {
				s.editor.SetValue(s.ws.Source())
			}
			return s, nil
		}
	}

	if !s.ready {
		return s, nil
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	s.ws.Edit(s.editor.Value())
	return s, cmd
}

func (s *CodeScreen) run(submit bool) tea.Cmd {
	if s.ws.Phase() != workspace.PhaseReady {
		return nil
	}

	// The editor is the source of truth for current text.
	s.ws.Edit(s.editor.Value())

	var started bool
	if submit {
		started = s.ws.BeginSubmit()
	} else {
		started = s.ws.BeginRun()
	}
	if !started {
		return nil
	}

	client := s.deps.API
	code := s.ws.Source()
	lang := s.ws.Exercise().Language

	return func() tea.Msg {
		output, err := client.Execute(context.Background(), code, lang)
		if err != nil {
			return runDoneMsg{ErrMsg: api.MessageOf(err, "execution failed")}
		}
		return runDoneMsg{Output: output}
	}
}

func (s *CodeScreen) logRun(msg runDoneMsg) tea.Cmd {
	if s.deps.Log == nil || s.ws.Exercise() == nil {
		return nil
	}
	log := s.deps.Log
	ex := s.ws.Exercise()
	rec := store.RunRecord{
		ExerciseID: ex.ID,
		Title:      ex.Title,
		Language:   ex.Language,
		OK:         msg.ErrMsg == "",
	}
	return func() tea.Msg {
		return runLoggedMsg{Err: log.RecordRun(context.Background(), rec)}
	}
}

func (s *CodeScreen) View(width, height int) string {
	switch s.ws.Phase() {
	case workspace.PhaseLoading:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading exercise..."))
	case workspace.PhaseNotFound:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render("This exercise no longer exists.")+"\n\n"+
				theme.Hint.Render("Press Esc to go back"))
	}

	editorWidth := width * 3 / 5
	panelWidth := width - editorWidth - 4
	if panelWidth < 20 {
		panelWidth = 20
	}

	s.editor.SetSize(editorWidth-4, height-4)

	left := theme.Card.Width(editorWidth).Render(s.editor.View())
	right := theme.Card.Width(panelWidth).Render(s.panelView(panelWidth - 6))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (s *CodeScreen) panelView(width int) string {
	ex := s.ws.Exercise()
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(ex.Title) + "\n")
	if course := s.ws.Course(); course != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(course.Title) + "\n")
	}
	b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(ex.Description) + "\n")

	if len(ex.TestCases) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Test cases") + "\n")
		for i, tc := range ex.TestCases {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("%d. in: %s  out: %s", i+1, tc.Input, tc.Expected)) + "\n")
		}
	}

	if s.ws.Running() {
		b.WriteString("\n" + theme.Hint.Render("Running...") + "\n")
	}

	if res := s.ws.Result(); res != nil && !s.ws.Running() {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Output") + "\n")
		if res.Err != "" {
			b.WriteString(theme.ErrorText.Width(width).Render(res.Err) + "\n")
		} else {
			out := res.Output
			if strings.TrimSpace(out) == "" {
				out = "(no output)"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(out) + "\n")
		}
	}

	if sub := s.ws.LastSubmission(); sub != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Submission") + "\n")
		for i, cr := range sub.Results {
			mark := theme.Incorrect.Render("✗")
			if cr.Passed {
				mark = theme.Correct.Render("✓")
			}
			b.WriteString(fmt.Sprintf("%s case %d\n", mark, i+1))
		}
		verdict := theme.Incorrect.Render(fmt.Sprintf("%d/%d cases passed", sub.Passed, len(sub.Results)))
		if sub.Passed == len(sub.Results) {
			verdict = theme.Correct.Render("All cases passed!")
		}
		b.WriteString(verdict + "\n")
	}

	return b.String()
}
