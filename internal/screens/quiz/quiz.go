package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/assessment"
	"github.com/rsharan/lernix/internal/screen"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/store"
	"github.com/rsharan/lernix/internal/ui/components"
	"github.com/rsharan/lernix/internal/ui/layout"
	"github.com/rsharan/lernix/internal/ui/theme"
)

// assessmentLoadedMsg carries the fetched assessment.
type assessmentLoadedMsg struct {
	Assessment *api.Assessment
	Err        error
}

// gradedMsg carries the server's grading of a submission.
type gradedMsg struct {
	Result *api.GradingResult
	Err    error
}

// timerTickMsg drives the countdown for timed assessments.
type timerTickMsg time.Time

// attemptLoggedMsg confirms the local history write finished.
type attemptLoggedMsg struct {
	Err error
}

// QuizScreen drives one assessment attempt from load through review.
type QuizScreen struct {
	deps         screens.Deps
	assessmentID int

	flow   *assessment.Flow
	cursor int // highlighted option on the current question

	remaining time.Duration // time left, timed assessments only
	timed     bool
	ticking   bool // a timerTickMsg is outstanding

	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen for one assessment.
func New(deps screens.Deps, assessmentID int) *QuizScreen {
	return &QuizScreen{
		deps:         deps,
		assessmentID: assessmentID,
		flow:         assessment.NewFlow(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load()
}

func (s *QuizScreen) load() tea.Cmd {
	client := s.deps.API
	id := s.assessmentID
	return func() tea.Msg {
		a, err := client.Assessment(context.Background(), id)
		return assessmentLoadedMsg{Assessment: a, Err: err}
	}
}

func (s *QuizScreen) Title() string {
	if a := s.flow.Assessment(); a != nil {
		return a.Title
	}
	return "Assessment"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.flow.Phase() {
	case assessment.PhaseAnswering:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "←→", Description: "Question"},
			{Key: "Ctrl+S", Description: "Submit"},
		}
	case assessment.PhaseReviewing:
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "R", Description: "Retake"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case assessmentLoadedMsg:
		return s.handleLoaded(msg)

	case gradedMsg:
		return s.handleGraded(msg)

	case timerTickMsg:
		return s.handleTick()

	case attemptLoggedMsg:
		// The local log is best effort. A failed write never blocks review.
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleLoaded(msg assessmentLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if cmd := screens.Expired(msg.Err); cmd != nil {
			return s, cmd
		}
		if api.IsNotFound(msg.Err) {
			s.flow.ApplyLoadError()
			return s, nil
		}
		s.errMsg = api.MessageOf(msg.Err, "Could not load the assessment.")
		return s, nil
	}

	if len(msg.Assessment.Questions) == 0 {
		// Drafts pass the wire contract but have nothing to answer.
		s.flow.ApplyLoadError()
		s.errMsg = "This assessment has no questions yet."
		return s, nil
	}

	s.errMsg = ""
	s.flow.ApplyAssessment(msg.Assessment)
	s.cursor = 0

	if msg.Assessment.TimeLimit > 0 {
		s.timed = true
		s.remaining = time.Duration(msg.Assessment.TimeLimit) * time.Minute
		return s, s.arm()
	}
	return s, nil
}

// arm schedules the next countdown tick. At most one tick is ever
// outstanding; handleTick and failed submissions re-arm through here.
func (s *QuizScreen) arm() tea.Cmd {
	s.ticking = true
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	s.ticking = false
	if s.flow.Phase() != assessment.PhaseAnswering {
		return s, nil
	}

	s.remaining -= time.Second
	if s.remaining > 0 {
		return s, s.arm()
	}

	// Time is up: whatever is answered goes in.
	s.remaining = 0
	return s, s.submit()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.flow.Phase() {
	case assessment.PhaseLoading:
		if s.errMsg != "" && msg.String() == "r" {
			s.errMsg = ""
			return s, s.load()
		}

	case assessment.PhaseAnswering:
		return s.handleAnsweringKey(msg)

	case assessment.PhaseReviewing:
		switch msg.String() {
		case "left", "h":
			s.flow.Prev()
		case "right", "l":
			s.flow.Next()
		case "r":
			s.flow.Restart()
			s.cursor = 0
			if s.timed {
				s.remaining = time.Duration(s.flow.Assessment().TimeLimit) * time.Minute
				if !s.ticking {
					return s, s.arm()
				}
			}
		}
	}

	return s, nil
}

func (s *QuizScreen) handleAnsweringKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	a := s.flow.Assessment()
	q := a.Questions[s.flow.Current()]

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(q.Options)-1 {
			s.cursor++
		}
	case "enter", " ":
		s.flow.Select(s.cursor)
	case "1", "2", "3", "4":
		i := int(msg.String()[0] - '1')
		if i < len(q.Options) {
			s.cursor = i
			s.flow.Select(i)
		}
	case "left", "h":
		s.flow.Prev()
		s.syncCursor()
	case "right", "l":
		s.flow.Next()
		s.syncCursor()
	case "ctrl+s":
		return s, s.submit()
	}

	return s, nil
}

// syncCursor moves the option highlight to the recorded answer when the
// question changes.
func (s *QuizScreen) syncCursor() {
	if chosen, ok := s.flow.Answer(s.flow.Current()); ok {
		s.cursor = chosen
	} else {
		s.cursor = 0
	}
}

func (s *QuizScreen) submit() tea.Cmd {
	if !s.flow.BeginSubmit() {
		return nil
	}

	client := s.deps.API
	id := s.assessmentID
	answers := s.flow.Answers()
	key := s.flow.SubmitKey()

	return func() tea.Msg {
		r, err := client.SubmitAssessment(context.Background(), id, answers, key)
		return gradedMsg{Result: r, Err: err}
	}
}

func (s *QuizScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.flow.ApplySubmitError()
		if cmd := screens.Expired(msg.Err); cmd != nil {
			return s, cmd
		}
		s.errMsg = api.MessageOf(msg.Err, "Submission failed. Your answers are still here; try again.")
		// The countdown chain dies while Submitting; revive it so the
		// deadline still auto-submits. Once it hit zero the user resubmits
		// by hand.
		if s.timed && s.remaining > 0 && !s.ticking {
			return s, s.arm()
		}
		return s, nil
	}

	s.errMsg = ""
	s.flow.ApplyResult(msg.Result)

	return s, s.logAttempt(msg.Result)
}

func (s *QuizScreen) logAttempt(r *api.GradingResult) tea.Cmd {
	if s.deps.Log == nil {
		return nil
	}
	log := s.deps.Log
	a := s.flow.Assessment()
	rec := store.AttemptRecord{
		AssessmentID: a.ID,
		Title:        a.Title,
		Score:        r.Score,
		Total:        r.Total,
		Percentage:   r.Percentage,
	}
	return func() tea.Msg {
		return attemptLoggedMsg{Err: log.RecordAttempt(context.Background(), rec)}
	}
}

func (s *QuizScreen) View(width, height int) string {
	switch s.flow.Phase() {
	case assessment.PhaseLoading:
		if s.errMsg != "" {
			return centered(width, height,
				theme.ErrorText.Render(s.errMsg)+"\n\n"+theme.Hint.Render("Press R to retry"))
		}
		return centered(width, height, theme.Hint.Render("Loading assessment..."))

	case assessment.PhaseNotFound:
		reason := "This assessment no longer exists."
		if s.errMsg != "" {
			reason = s.errMsg
		}
		return centered(width, height,
			theme.ErrorText.Render(reason)+"\n\n"+
				theme.Hint.Render("Press Esc to go back"))

	case assessment.PhaseSubmitting:
		return centered(width, height, theme.Hint.Render("Grading your answers..."))

	case assessment.PhaseReviewing:
		return s.reviewView(width, height)
	}

	return s.answeringView(width, height)
}

func (s *QuizScreen) answeringView(width, height int) string {
	a := s.flow.Assessment()
	cur := s.flow.Current()
	q := a.Questions[cur]

	var b strings.Builder

	status := fmt.Sprintf("Question %d of %d   ·   %d answered", cur+1, len(a.Questions), s.flow.Answered())
	if s.timed {
		mins := int(s.remaining.Minutes())
		secs := int(s.remaining.Seconds()) % 60
		clock := fmt.Sprintf("%02d:%02d", mins, secs)
		style := lipgloss.NewStyle().Foreground(theme.Secondary)
		if s.remaining < time.Minute {
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}
		status += "   ·   " + style.Render(clock)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(status) + "\n")

	bar := components.NewProgressBar("", float64(s.flow.Answered())/float64(len(a.Questions)), false, min(width-8, 80))
	b.WriteString(bar.View() + "\n\n")

	mc := components.NewMultiChoice(q.Prompt, q.Options)
	mc.Selected = s.cursor
	if chosen, ok := s.flow.Answer(cur); ok {
		mc.Chosen = chosen
	}
	b.WriteString(mc.View())

	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg) + "\n")
	}

	card := theme.Card.Width(min(width-6, 90)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func (s *QuizScreen) reviewView(width, height int) string {
	a := s.flow.Assessment()
	r := s.flow.Result()
	cur := s.flow.Current()
	q := a.Questions[cur]

	var b strings.Builder

	verdict := theme.Incorrect.Render("NOT PASSED")
	if s.flow.Passed() {
		verdict = theme.Correct.Render("PASSED")
	}
	b.WriteString(fmt.Sprintf("%s   %d/%d correct   %s\n\n",
		verdict, r.Score, r.Total,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(assessment.PercentText(r.Percentage))))

	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", cur+1, len(a.Questions))) + "\n\n")

	mc := components.NewMultiChoice(q.Prompt, q.Options)
	if cur < len(r.Results) {
		res := r.Results[cur]
		chosen := -1
		if res.UserAnswer != nil {
			chosen = *res.UserAnswer
		}
		mc.Reveal(res.CorrectAnswer, chosen)
	}
	b.WriteString(mc.View())

	if q.Explanation != "" {
		b.WriteString("\n" + theme.Hint.Render(q.Explanation) + "\n")
	}

	card := theme.Card.Width(min(width-6, 90)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func centered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
