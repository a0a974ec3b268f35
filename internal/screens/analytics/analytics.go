package analytics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	dash "github.com/rsharan/lernix/internal/analytics"
	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

const progressWindowDays = 30

// studentDataMsg carries the student dashboard aggregates.
type studentDataMsg struct {
	Dashboard *dash.StudentDashboard
	Err       error
}

// instructorDataMsg carries the instructor dashboard aggregates.
type instructorDataMsg struct {
	Stats *api.InstructorAnalytics
	Err   error
}

// systemDataMsg carries the admin dashboard aggregates.
type systemDataMsg struct {
	Stats *api.SystemAnalytics
	Err   error
}

// AnalyticsScreen shows the dashboard matching the signed-in role.
type AnalyticsScreen struct {
	deps screens.Deps
	role string

	student    *dash.StudentDashboard
	instructor *api.InstructorAnalytics
	system     *api.SystemAnalytics

	loading bool
	errMsg  string
}

var _ screen.Screen = (*AnalyticsScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyticsScreen)(nil)

// New creates the analytics screen for the current session's role.
func New(deps screens.Deps) *AnalyticsScreen {
	role := api.RoleStudent
	if u := deps.Auth.Current(); u != nil {
		role = u.Role
	}
	return &AnalyticsScreen{deps: deps, role: role, loading: true}
}

func (s *AnalyticsScreen) Init() tea.Cmd {
	client := s.deps.API
	switch s.role {
	case api.RoleInstructor:
		return func() tea.Msg {
			stats, err := client.InstructorAnalytics(context.Background())
			return instructorDataMsg{Stats: stats, Err: err}
		}
	case api.RoleAdmin:
		return func() tea.Msg {
			stats, err := client.SystemAnalytics(context.Background())
			return systemDataMsg{Stats: stats, Err: err}
		}
	}

	return func() tea.Msg {
		d, err := dash.LoadStudentDashboard(context.Background(), client, progressWindowDays)
		return studentDataMsg{Dashboard: d, Err: err}
	}
}

func (s *AnalyticsScreen) Title() string {
	switch s.role {
	case api.RoleInstructor:
		return "Teaching analytics"
	case api.RoleAdmin:
		return "Platform analytics"
	}
	return "My progress"
}

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentDataMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load analytics.")
			return s, nil
		}
		s.student = msg.Dashboard

	case instructorDataMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load analytics.")
			return s, nil
		}
		s.instructor = msg.Stats

	case systemDataMsg:
		s.loading = false
		if msg.Err != nil {
			if cmd := screens.Expired(msg.Err); cmd != nil {
				return s, cmd
			}
			s.errMsg = api.MessageOf(msg.Err, "Could not load analytics.")
			return s, nil
		}
		s.system = msg.Stats
	}

	return s, nil
}

func (s *AnalyticsScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Crunching numbers..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg))
	}

	chartWidth := min(width-12, 80)

	var content string
	switch {
	case s.student != nil:
		content = s.studentView(chartWidth)
	case s.instructor != nil:
		content = s.instructorView(chartWidth)
	case s.system != nil:
		content = s.systemView(chartWidth)
	}

	card := theme.Card.Width(min(width-6, 90)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func (s *AnalyticsScreen) studentView(chartWidth int) string {
	d := s.student
	var b strings.Builder

	b.WriteString(statLine("Time spent", fmt.Sprintf("%d min", d.Stats.TotalTimeSpent)))
	b.WriteString(statLine("Courses completed", fmt.Sprintf("%d of %d", d.Stats.CompletedCourses, d.Stats.TotalCourses)))
	b.WriteString(statLine("Average score", fmt.Sprintf("%.1f%%", d.Stats.AvgAssessmentScore)))
	b.WriteString(statLine("Coding success rate", fmt.Sprintf("%.0f%%", d.Stats.CodingSuccessRate)))
	b.WriteString(statLine("Learning streak", fmt.Sprintf("%d days", d.Stats.LearningStreak)))

	if len(d.Scores) > 0 {
		b.WriteString("\n" + sectionTitle("Recent assessment scores") + "\n")
		bars := make([]components.Bar, 0, len(d.Scores))
		for _, p := range tail(d.Scores, 8) {
			bars = append(bars, components.Bar{Label: truncate(p.Assessment, 20), Value: p.Score})
		}
		b.WriteString(components.NewBarChart(bars, chartWidth).View())
	}

	if len(d.Progress) > 0 {
		b.WriteString("\n" + sectionTitle(fmt.Sprintf("Activity, last %d days", progressWindowDays)) + "\n")
		bars := make([]components.Bar, 0, len(d.Progress))
		for _, p := range tail(d.Progress, 10) {
			bars = append(bars, components.Bar{Label: p.Date, Value: float64(p.Count)})
		}
		b.WriteString(components.NewBarChart(bars, chartWidth).View())
	}

	return b.String()
}

func (s *AnalyticsScreen) instructorView(chartWidth int) string {
	d := s.instructor
	var b strings.Builder

	b.WriteString(statLine("Courses taught", fmt.Sprintf("%d", d.TotalCourses)))
	b.WriteString(statLine("Students enrolled", fmt.Sprintf("%d", d.TotalStudents)))

	if len(d.Courses) > 0 {
		b.WriteString("\n" + sectionTitle("Completion by course") + "\n")
		bars := make([]components.Bar, 0, len(d.Courses))
		for _, c := range d.Courses {
			bars = append(bars, components.Bar{Label: truncate(c.Title, 20), Value: c.CompletionRate})
		}
		b.WriteString(components.NewBarChart(bars, chartWidth).View())
	}

	return b.String()
}

func (s *AnalyticsScreen) systemView(chartWidth int) string {
	d := s.system
	var b strings.Builder

	b.WriteString(statLine("Users", fmt.Sprintf("%d (%d students, %d instructors)",
		d.TotalUsers, d.TotalStudents, d.TotalInstructors)))
	b.WriteString(statLine("Courses", fmt.Sprintf("%d, %d lessons", d.TotalCourses, d.TotalLessons)))
	b.WriteString(statLine("Assessment submissions", fmt.Sprintf("%d", d.TotalAssessmentSubmissions)))
	b.WriteString(statLine("Coding submissions", fmt.Sprintf("%d", d.TotalCodingSubmissions)))
	b.WriteString(statLine("Average score", fmt.Sprintf("%.1f%%", d.AvgAssessmentScore)))
	b.WriteString(statLine("Active this week", fmt.Sprintf("%d users", d.RecentActiveUsers)))

	bars := []components.Bar{
		{Label: "students", Value: float64(d.TotalStudents)},
		{Label: "instructors", Value: float64(d.TotalInstructors)},
	}
	b.WriteString("\n" + sectionTitle("User base") + "\n")
	b.WriteString(components.NewBarChart(bars, chartWidth).View())

	return b.String()
}

func statLine(label, value string) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Width(24).Render(label) +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value) + "\n"
}

func sectionTitle(title string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title)
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
