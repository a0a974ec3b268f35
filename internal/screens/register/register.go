package register

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

const (
	focusFirstName = iota
	focusLastName
	focusEmail
	focusUsername
	focusPassword
	focusConfirm
	fieldCount
)

// registerDoneMsg carries the outcome of a registration attempt.
type registerDoneMsg struct {
	Err error
}

// RegisteredMsg is emitted after a successful registration. The app model
// drops back to the login screen with a confirmation banner.
type RegisteredMsg struct{}

// RegisterScreen collects a new student account. Instructor and admin
// accounts are provisioned by an administrator, not self-service.
type RegisterScreen struct {
	deps screens.Deps

	inputs [fieldCount]components.TextInput
	focus  int
	busy   bool
	errMsg string
}

var _ screen.Screen = (*RegisterScreen)(nil)
var _ screen.KeyHintProvider = (*RegisterScreen)(nil)

// New creates the registration screen.
func New(deps screens.Deps) *RegisterScreen {
	s := &RegisterScreen{deps: deps}
	s.inputs[focusFirstName] = components.NewTextInput("First name", "", false)
	s.inputs[focusLastName] = components.NewTextInput("Last name", "", false)
	s.inputs[focusEmail] = components.NewTextInput("Email", "you@example.com", false)
	s.inputs[focusUsername] = components.NewTextInput("Username", "at least 3 characters", false)
	s.inputs[focusPassword] = components.NewTextInput("Password", "at least 8 characters", true)
	s.inputs[focusConfirm] = components.NewTextInput("Confirm password", "", true)
	return s
}

func (s *RegisterScreen) Init() tea.Cmd {
	return s.inputs[focusFirstName].Focus()
}

func (s *RegisterScreen) Title() string {
	return "Create account"
}

func (s *RegisterScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Create account"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RegisterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return RegisteredMsg{} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *RegisterScreen) setFocus(i int) tea.Cmd {
	for j := range s.inputs {
		s.inputs[j].Blur()
	}
	s.focus = i
	return s.inputs[i].Focus()
}

func (s *RegisterScreen) submit() tea.Cmd {
	form := auth.RegisterForm{
		FirstName:       strings.TrimSpace(s.inputs[focusFirstName].Value()),
		LastName:        strings.TrimSpace(s.inputs[focusLastName].Value()),
		Email:           strings.TrimSpace(s.inputs[focusEmail].Value()),
		Username:        strings.TrimSpace(s.inputs[focusUsername].Value()),
		Password:        s.inputs[focusPassword].Value(),
		ConfirmPassword: s.inputs[focusConfirm].Value(),
	}

	if err := form.Validate(); err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.busy = true
	s.errMsg = ""
	mgr := s.deps.Auth

	return func() tea.Msg {
		return registerDoneMsg{Err: mgr.Register(context.Background(), form)}
	}
}

func (s *RegisterScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Join Lernix") + "\n\n")

	for i := range s.inputs {
		b.WriteString(s.inputs[i].View() + "\n\n")
	}

	if s.busy {
		b.WriteString(theme.Hint.Render("Creating account...") + "\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg) + "\n")
	}

	card := theme.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
