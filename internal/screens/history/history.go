package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/store"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

const recentLimit = 20

// historyLoadedMsg carries both halves of the activity log.
type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Runs     []store.RunRecord
	Err      error
}

// HistoryScreen lists recent assessment attempts and code runs from the
// local activity log.
type HistoryScreen struct {
	deps screens.Deps

	attempts []store.AttemptRecord
	runs     []store.RunRecord
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the activity log screen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps, loading: true}
}

func (s *HistoryScreen) Init() tea.Cmd {
	log := s.deps.Log
	return func() tea.Msg {
		if log == nil {
			return historyLoadedMsg{}
		}
		ctx := context.Background()
		attempts, err := log.RecentAttempts(ctx, recentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		runs, err := log.RecentRuns(ctx, recentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Attempts: attempts, Runs: runs}
	}
}

func (s *HistoryScreen) Title() string {
	return "Activity"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(historyLoadedMsg); ok {
		s.loading = false
		if m.Err != nil {
			s.errMsg = "Could not read the activity log."
			return s, nil
		}
		s.attempts = m.Attempts
		s.runs = m.Runs
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading activity..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg))
	}
	if len(s.attempts) == 0 && len(s.runs) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Nothing here yet. Take a quiz or run some code."))
	}

	colWidth := min((width-10)/2, 50)

	left := theme.Card.Width(colWidth).Render(s.attemptsView())
	right := theme.Card.Width(colWidth).Render(s.runsView())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
}

func (s *HistoryScreen) attemptsView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Assessment attempts") + "\n\n")

	if len(s.attempts) == 0 {
		b.WriteString(theme.Hint.Render("none yet"))
		return b.String()
	}

	for _, a := range s.attempts {
		score := theme.Incorrect.Render(fmt.Sprintf("%d/%d", a.Score, a.Total))
		if a.Percentage >= 70 {
			score = theme.Correct.Render(fmt.Sprintf("%d/%d", a.Score, a.Total))
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(a.Title) + "  " + score + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(a.SubmittedAt.Local().Format("Jan 2 15:04")) + "\n")
	}
	return b.String()
}

func (s *HistoryScreen) runsView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Code runs") + "\n\n")

	if len(s.runs) == 0 {
		b.WriteString(theme.Hint.Render("none yet"))
		return b.String()
	}

	for _, r := range s.runs {
		mark := theme.Incorrect.Render("✗")
		if r.OK {
			mark = theme.Correct.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", mark,
			lipgloss.NewStyle().Foreground(theme.Text).Render(r.Title),
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(r.Language)))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(r.RanAt.Local().Format("Jan 2 15:04")) + "\n")
	}
	return b.String()
}
