package login

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/router"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/screens/home"
	"github.com/rsharan/lernix/internal/screens/register"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

type phase int

const (
	phaseCredentials phase = iota
	phaseCode
)

const (
	focusUsername = iota
	focusPassword
	focusRole
	fieldCount
)

var roles = []string{api.RoleStudent, api.RoleInstructor, api.RoleAdmin}

// loginResultMsg carries the outcome of a sign-in attempt.
type loginResultMsg struct {
	Result auth.LoginResult
	Err    error
}

// LoginScreen is the entry screen: credentials first, then a verification
// code when the account has two-factor enabled. The credentials for the
// pending code step live only in this model; nothing touches disk until the
// server issues tokens.
type LoginScreen struct {
	deps screens.Deps

	phase    phase
	username components.TextInput
	password components.TextInput
	code     components.TextInput
	focus    int
	roleIdx  int

	busy   bool
	errMsg string
	notice string

	// held in memory between the credential and code steps
	pendingUser string
	pendingPass string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen.
func New(deps screens.Deps) *LoginScreen {
	return &LoginScreen{
		deps:     deps,
		username: components.NewTextInput("Username", "your username", false),
		password: components.NewTextInput("Password", "", true),
		code:     components.NewTextInput("Verification code", "6-digit code", false),
	}
}

// NewWithNotice creates the login screen with a one-time banner, shown after
// registration or when a session expires.
func NewWithNotice(deps screens.Deps, notice string) *LoginScreen {
	s := New(deps)
	s.notice = notice
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.username.Focus()
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseCode {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Verify"},
			{Key: "Esc", Description: "Back to credentials"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+N", Description: "Create account"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		return s.handleResult(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg)
	}

	return s.forwardToFocused(msg)
}

func (s *LoginScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.submit()

	case "tab", "down":
		if s.phase == phaseCredentials {
			return s, s.setFocus((s.focus + 1) % fieldCount)
		}
		return s, nil

	case "shift+tab", "up":
		if s.phase == phaseCredentials {
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		}
		return s, nil

	case "left", "right":
		if s.phase == phaseCredentials && s.focus == focusRole {
			if msg.String() == "right" {
				s.roleIdx = (s.roleIdx + 1) % len(roles)
			} else {
				s.roleIdx = (s.roleIdx + len(roles) - 1) % len(roles)
			}
			return s, nil
		}

	case "esc":
		if s.phase == phaseCode {
			s.phase = phaseCredentials
			s.pendingUser = ""
			s.pendingPass = ""
			s.code.Reset()
			s.errMsg = ""
			return s, s.setFocus(focusUsername)
		}
		return s, nil

	case "ctrl+n":
		if s.phase == phaseCredentials {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: register.New(s.deps)}
			}
		}
	}

	return s.forwardToFocused(msg)
}

func (s *LoginScreen) forwardToFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.phase == phaseCode {
		s.code, cmd = s.code.Update(msg)
		return s, cmd
	}
	switch s.focus {
	case focusUsername:
		s.username, cmd = s.username.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.username.Blur()
	s.password.Blur()
	switch i {
	case focusUsername:
		return s.username.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) submit() tea.Cmd {
	var user, pass, otp string
	switch s.phase {
	case phaseCredentials:
		user = strings.TrimSpace(s.username.Value())
		pass = s.password.Value()
		if user == "" || pass == "" {
			s.errMsg = "Enter a username and password."
			return nil
		}
	case phaseCode:
		user = s.pendingUser
		pass = s.pendingPass
		otp = strings.TrimSpace(s.code.Value())
		if otp == "" {
			s.errMsg = "Enter the verification code."
			return nil
		}
	}

	s.busy = true
	s.errMsg = ""
	s.notice = ""
	role := roles[s.roleIdx]
	mgr := s.deps.Auth

	return func() tea.Msg {
		res, err := mgr.Login(context.Background(), user, pass, role, otp)
		return loginResultMsg{Result: res, Err: err}
	}
}

func (s *LoginScreen) handleResult(msg loginResultMsg) (screen.Screen, tea.Cmd) {
	s.busy = false

	if msg.Err != nil {
		s.errMsg = api.MessageOf(msg.Err, "Could not reach the server. Is it running?")
		return s, nil
	}

	res := msg.Result
	switch {
	case res.OK:
		s.pendingUser = ""
		s.pendingPass = ""
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: home.New(s.deps)}
		}

	case res.MFARequired:
		s.phase = phaseCode
		s.pendingUser = strings.TrimSpace(s.username.Value())
		s.pendingPass = s.password.Value()
		s.code.Reset()
		return s, s.code.Focus()

	default:
		s.errMsg = res.Message
		if s.errMsg == "" {
			s.errMsg = "Sign in failed."
		}
		return s, nil
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Lernix") + "\n")
	b.WriteString(theme.Subtitle.Render("learn, practice, ship") + "\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice) + "\n\n")
	}

	if s.phase == phaseCode {
		b.WriteString(theme.Body.Render("Two-factor authentication is enabled for this account.") + "\n\n")
		b.WriteString(s.code.View() + "\n")
	} else {
		b.WriteString(s.username.View() + "\n\n")
		b.WriteString(s.password.View() + "\n\n")
		b.WriteString(s.roleSelector() + "\n")
	}

	if s.busy {
		b.WriteString("\n" + theme.Hint.Render("Signing in...") + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg) + "\n")
	}

	card := theme.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *LoginScreen) roleSelector() string {
	label := "Sign in as"
	if s.focus == focusRole {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label)
	} else {
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
	}

	var opts []string
	for i, r := range roles {
		if i == s.roleIdx {
			opts = append(opts, lipgloss.NewStyle().
				Foreground(theme.RoleColor(r)).
				Bold(true).
				Render(fmt.Sprintf("● %s", r)))
		} else {
			opts = append(opts, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("○ %s", r)))
		}
	}

	return label + "\n" + strings.Join(opts, "   ")
}
