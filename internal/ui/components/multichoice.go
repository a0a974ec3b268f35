package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/ui/theme"
)

// MultiChoice renders one multiple-choice question. The correct answer is
// only known after the server grades the attempt, so the component starts in
// answering mode and switches to review mode via Reveal.
type MultiChoice struct {
	Question string
	Options  []string

	Selected int
	Chosen   int // -1 until an option is picked

	revealed bool
	correct  int // valid only after Reveal
}

// NewMultiChoice creates a multiple-choice component in answering mode.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Selected: 0,
		Chosen:   -1,
		correct:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", " ":
		m.Chosen = m.Selected
	}

	return m, nil
}

// Choose records an answer directly, keeping the cursor in sync.
func (m *MultiChoice) Choose(i int) {
	if i < 0 || i >= len(m.Options) || m.revealed {
		return
	}
	m.Chosen = i
	m.Selected = i
}

// Reveal switches to review mode with the graded result. chosen may be -1
// for an unanswered question.
func (m *MultiChoice) Reveal(correct, chosen int) {
	m.revealed = true
	m.correct = correct
	m.Chosen = chosen
}

// View renders the component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		label := string(rune('A' + i))
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}

		marker := " "
		if i == m.Chosen {
			marker = "●"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, label, opt)

		if m.revealed {
			switch {
			case i == m.correct:
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			case i == m.Chosen:
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			switch {
			case i == m.Selected:
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			case i == m.Chosen:
				s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
		}
	}

	return s
}

// IsCorrect reports whether the graded answer matched.
func (m MultiChoice) IsCorrect() bool {
	return m.revealed && m.Chosen == m.correct
}
