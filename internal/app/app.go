package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/router"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/screens/home"
	"github.com/rsharan/lernix/internal/screens/login"
	"github.com/rsharan/lernix/internal/screens/register"
	"github.com/rsharan/lernix/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screens.Deps
	router *router.Router
	width  int
	height int
}

// New creates the root model. A restored session skips straight to the
// dashboard; otherwise the login screen opens.
func New(deps screens.Deps) AppModel {
	var initial screen.Screen
	if deps.Auth.Current() != nil {
		initial = home.New(deps)
	} else {
		initial = login.New(deps)
	}
	return AppModel{
		deps:   deps,
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case auth.SessionEndedMsg:
		cmd := m.router.Update(router.ResetScreenMsg{
			Screen: login.NewWithNotice(m.deps, "You have been signed out."),
		})
		return m, cmd

	case register.RegisteredMsg:
		cmd := m.router.Update(router.ResetScreenMsg{
			Screen: login.NewWithNotice(m.deps, "Account created. Sign in to get started."),
		})
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userName, role := "", ""
	if u := m.deps.Auth.Current(); u != nil {
		userName = u.Name
		role = u.Role
	}

	header := layout.RenderHeader(title, userName, role, m.width)

	var footerHints []layout.KeyHint
	if hinter, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hinter.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(deps screens.Deps) error {
	p := tea.NewProgram(New(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
