package home

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
	"github.com/rsharan/lernix/internal/screens/analytics"
	"github.com/rsharan/lernix/internal/screens/courses"
	"github.com/rsharan/lernix/internal/screens/history"
	"github.com/rsharan/lernix/internal/screens/notifications"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// statsMsg carries the dashboard summary for a student.
type statsMsg struct {
	Stats *api.StudentAnalytics
	Err   error
}

// HomeScreen is the dashboard shown after sign-in. The menu branches on the
// signed-in role.
type HomeScreen struct {
	deps  screens.Deps
	menu  components.Menu
	stats *api.StudentAnalytics
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the dashboard for the current session.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	role := api.RoleStudent
	if u := deps.Auth.Current(); u != nil {
		role = u.Role
	}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "BROWSE COURSES", Detail: "lessons, quizzes, exercises", Action: push(func() screen.Screen {
			return courses.New(deps)
		})},
	}

	switch role {
	case api.RoleInstructor:
		items = append(items, components.MenuItem{
			Label: "TEACHING ANALYTICS", Detail: "students and completion",
			Action: push(func() screen.Screen { return analytics.New(deps) }),
		})
	case api.RoleAdmin:
		items = append(items, components.MenuItem{
			Label: "PLATFORM ANALYTICS", Detail: "usage across the system",
			Action: push(func() screen.Screen { return analytics.New(deps) }),
		})
	default:
		items = append(items, components.MenuItem{
			Label: "MY PROGRESS", Detail: "scores and streaks",
			Action: push(func() screen.Screen { return analytics.New(deps) }),
		})
	}

	items = append(items,
		components.MenuItem{
			Label: "NOTIFICATIONS", Detail: "announcements and updates",
			Action: push(func() screen.Screen { return notifications.New(deps) }),
		},
		components.MenuItem{
			Label: "ACTIVITY LOG", Detail: "recent attempts and runs",
			Action: push(func() screen.Screen { return history.New(deps) }),
		},
		components.MenuItem{
			Label: "SIGN OUT",
			Action: func() tea.Cmd {
				mgr := deps.Auth
				return func() tea.Msg {
					mgr.Logout()
					return auth.SessionEndedMsg{}
				}
			},
		},
		components.MenuItem{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	u := h.deps.Auth.Current()
	if u == nil || u.Role != api.RoleStudent {
		return nil
	}
	client := h.deps.API
	return func() tea.Msg {
		stats, err := client.StudentAnalytics(context.Background())
		return statsMsg{Stats: stats, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Dashboard"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if cmd := screens.Expired(msg.Err); cmd != nil {
			return h, cmd
		}
		// A failed summary fetch leaves the strip hidden; the menu still works.
		if msg.Err == nil {
			h.stats = msg.Stats
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	name := ""
	if u := h.deps.Auth.Current(); u != nil {
		name = u.Name
	}
	sections = append(sections, theme.Title.Render(fmt.Sprintf("Welcome back, %s", name)))

	if h.stats != nil {
		sections = append(sections, renderStatsStrip(h.stats))
	}

	sections = append(sections, theme.Card.Render(h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderStatsStrip(s *api.StudentAnalytics) string {
	cell := func(label string, value string) string {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "\n" +
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(value)
	}

	cells := []string{
		cell("Courses", fmt.Sprintf("%d/%d", s.CompletedCourses, s.TotalCourses)),
		cell("Avg score", fmt.Sprintf("%.0f%%", s.AvgAssessmentScore)),
		cell("Exercises", fmt.Sprintf("%d", s.TotalCodingExercises)),
		cell("Streak", fmt.Sprintf("%d days", s.LearningStreak)),
	}

	boxed := make([]string, len(cells))
	for i, c := range cells {
		boxed[i] = theme.Card.Padding(0, 2).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxed...)
}
