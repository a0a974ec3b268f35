package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/ui/theme"
)

// Editor wraps bubbles/textarea for editing exercise source code.
type Editor struct {
	Model    textarea.Model
	Language string
}

// NewEditor creates a code editor seeded with the given source.
func NewEditor(source, language string) Editor {
	ta := textarea.New()
	ta.Placeholder = "write your solution here"
	ta.CharLimit = 0
	ta.SetValue(source)

	return Editor{
		Model:    ta,
		Language: language,
	}
}

// Init returns the initial command.
func (e Editor) Init() tea.Cmd {
	return e.Model.Focus()
}

// Update handles messages.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// SetSize resizes the editing area.
func (e *Editor) SetSize(width, height int) {
	e.Model.SetWidth(width)
	e.Model.SetHeight(height)
}

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	return e.Model.Focus()
}

// Blur removes keyboard focus.
func (e *Editor) Blur() {
	e.Model.Blur()
}

// Focused reports whether the editor has focus.
func (e Editor) Focused() bool {
	return e.Model.Focused()
}

// SetValue replaces the editor contents.
func (e *Editor) SetValue(source string) {
	e.Model.SetValue(source)
}

// Value returns the current source.
func (e Editor) Value() string {
	return e.Model.Value()
}

// View renders the editor with a language badge above it.
func (e Editor) View() string {
	badge := lipgloss.NewStyle().
		Background(theme.BgCard).
		Foreground(theme.Secondary).
		Padding(0, 1).
		Render(e.Language)

	return badge + "\n" + e.Model.View()
}
