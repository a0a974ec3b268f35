package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Lernix styling. Masked inputs are
// used for passwords and verification codes.
type TextInput struct {
	Model    textinput.Model
	Label    string
	errorMsg string
}

// NewTextInput creates a new styled text input.
func NewTextInput(label, placeholder string, masked bool) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return TextInput{
		Model: ti,
		Label: label,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// SetError attaches a validation message rendered under the field.
func (t *TextInput) SetError(msg string) {
	t.errorMsg = msg
}

// View renders the labelled input with any validation message.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label)
	if t.Model.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(t.Label)
	}

	s := label + "\n" + t.Model.View()
	if t.errorMsg != "" {
		s += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(t.errorMsg)
	}
	return s
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the value and any validation message.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
	t.errorMsg = ""
}
