package quiz

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/assessment"
	"github.com/rsharan/lernix/internal/screens"
)

func testAssessment(timeLimit int) *api.Assessment {
	return &api.Assessment{
		ID:        1,
		Title:     "Go Basics",
		TimeLimit: timeLimit,
		Questions: []api.Question{
			{Prompt: "What does := do?", Options: []string{"declare and assign", "compare", "swap", "pipe"}},
			{Prompt: "Zero value of int?", Options: []string{"nil", "0", "-1", "undefined"}},
		},
	}
}

func newLoaded(t *testing.T, timeLimit int) *QuizScreen {
	t.Helper()
	s := New(screens.Deps{}, 1)
	s.Update(assessmentLoadedMsg{Assessment: testAssessment(timeLimit)})
	if s.flow.Phase() != assessment.PhaseAnswering {
		t.Fatalf("expected Answering after load, got %v", s.flow.Phase())
	}
	return s
}

func key(k string) tea.Msg {
	return tea.KeyPressMsg{Code: rune(k[0])}
}

func TestLoadErrorNotFound(t *testing.T) {
	s := New(screens.Deps{}, 1)
	s.Update(assessmentLoadedMsg{Err: &api.Error{Status: 404, Message: "not found"}})

	if s.flow.Phase() != assessment.PhaseNotFound {
		t.Fatalf("expected NotFound, got %v", s.flow.Phase())
	}
}

func TestUntimedLoadStartsNoTimer(t *testing.T) {
	s := New(screens.Deps{}, 1)
	_, cmd := s.Update(assessmentLoadedMsg{Assessment: testAssessment(0)})

	if s.timed {
		t.Error("untimed assessment should not arm the countdown")
	}
	if cmd != nil {
		t.Error("untimed load should return no tick command")
	}
}

func TestTimedLoadArmsCountdown(t *testing.T) {
	s := New(screens.Deps{}, 1)
	_, cmd := s.Update(assessmentLoadedMsg{Assessment: testAssessment(5)})

	if !s.timed {
		t.Fatal("expected timed flag")
	}
	if s.remaining != 5*time.Minute {
		t.Errorf("expected 5m remaining, got %v", s.remaining)
	}
	if cmd == nil {
		t.Error("timed load should return a tick command")
	}
}

func TestNumberKeyRecordsAnswer(t *testing.T) {
	s := newLoaded(t, 0)

	s.Update(key("2"))

	if got, ok := s.flow.Answer(0); !ok || got != 1 {
		t.Errorf("expected answer 1 recorded, got %d (ok=%v)", got, ok)
	}
}

func TestCursorFollowsRecordedAnswer(t *testing.T) {
	s := newLoaded(t, 0)

	s.Update(key("3")) // answer question 0 with option 2
	s.Update(key("l")) // next question
	if s.cursor != 0 {
		t.Errorf("unanswered question should start cursor at 0, got %d", s.cursor)
	}

	s.Update(key("h")) // back
	if s.cursor != 2 {
		t.Errorf("cursor should snap to recorded answer 2, got %d", s.cursor)
	}
}

func TestTimerExpirySubmits(t *testing.T) {
	s := newLoaded(t, 1)
	s.Update(key("1"))
	s.remaining = time.Second

	_, cmd := s.Update(timerTickMsg(time.Now()))

	if s.flow.Phase() != assessment.PhaseSubmitting {
		t.Fatalf("expected Submitting at zero, got %v", s.flow.Phase())
	}
	if cmd == nil {
		t.Error("expiry should return the submit command")
	}
}

func TestTimerStopsOutsideAnswering(t *testing.T) {
	s := newLoaded(t, 1)
	s.flow.BeginSubmit()

	_, cmd := s.Update(timerTickMsg(time.Now()))
	if cmd != nil {
		t.Error("tick should not re-arm while submitting")
	}
}

func TestEmptyAssessmentUnavailable(t *testing.T) {
	s := New(screens.Deps{}, 1)
	s.Update(assessmentLoadedMsg{Assessment: &api.Assessment{ID: 1, Title: "Draft"}})

	if s.flow.Phase() != assessment.PhaseNotFound {
		t.Fatalf("expected NotFound for a question-less assessment, got %v", s.flow.Phase())
	}
	if view := s.View(100, 40); !strings.Contains(view, "no questions") {
		t.Errorf("view should say the assessment has no questions, got %q", view)
	}
}

func TestTimerSurvivesFailedSubmit(t *testing.T) {
	s := newLoaded(t, 10)
	s.Update(key("1"))
	s.Update(timerTickMsg(time.Now()))
	s.flow.BeginSubmit()
	s.Update(timerTickMsg(time.Now())) // swallowed while submitting

	_, cmd := s.Update(gradedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if s.flow.Phase() != assessment.PhaseAnswering {
		t.Fatalf("expected Answering after failure, got %v", s.flow.Phase())
	}
	if cmd == nil {
		t.Fatal("failed submit should re-arm the countdown")
	}
	if !s.ticking {
		t.Error("expected an outstanding tick after re-arm")
	}
}

func TestFailedSubmitDoesNotDoubleArm(t *testing.T) {
	s := newLoaded(t, 10)
	s.flow.BeginSubmit()

	// The tick armed on load is still in flight.
	_, cmd := s.Update(gradedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if cmd != nil {
		t.Error("a pending tick must not be doubled on failed submit")
	}
}

func TestFailedSubmitAfterExpiryStaysManual(t *testing.T) {
	s := newLoaded(t, 1)
	s.remaining = time.Second
	s.Update(timerTickMsg(time.Now())) // hits zero, auto-submits

	_, cmd := s.Update(gradedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if cmd != nil {
		t.Error("no countdown left; resubmission is up to the user")
	}
}

func TestGradedEntersReview(t *testing.T) {
	s := newLoaded(t, 0)
	s.Update(key("1"))
	if !s.flow.BeginSubmit() {
		t.Fatal("submit guard refused")
	}

	chosen := 0
	s.Update(gradedMsg{Result: &api.GradingResult{
		Score: 1, Total: 2, Percentage: 50,
		Results: []api.QuestionResult{
			{Correct: true, UserAnswer: &chosen, CorrectAnswer: 0},
			{Correct: false, UserAnswer: nil, CorrectAnswer: 1},
		},
	}})

	if s.flow.Phase() != assessment.PhaseReviewing {
		t.Fatalf("expected Reviewing, got %v", s.flow.Phase())
	}
	if s.flow.Current() != 0 {
		t.Errorf("review should start at question 0, got %d", s.flow.Current())
	}
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	s := newLoaded(t, 0)
	s.Update(key("2"))
	s.flow.BeginSubmit()

	s.Update(gradedMsg{Err: &api.Error{Status: 500, Message: "boom"}})

	if s.flow.Phase() != assessment.PhaseAnswering {
		t.Fatalf("expected Answering after failure, got %v", s.flow.Phase())
	}
	if got, ok := s.flow.Answer(0); !ok || got != 1 {
		t.Errorf("answers should survive a failed submit, got %d (ok=%v)", got, ok)
	}
	if s.errMsg == "" {
		t.Error("expected an error message after failed submit")
	}
}

func TestRetakeResetsAttempt(t *testing.T) {
	s := newLoaded(t, 0)
	s.Update(key("1"))
	s.flow.BeginSubmit()
	s.Update(gradedMsg{Result: &api.GradingResult{Score: 1, Total: 2, Percentage: 50}})

	s.Update(key("r"))

	if s.flow.Phase() != assessment.PhaseAnswering {
		t.Fatalf("expected Answering after retake, got %v", s.flow.Phase())
	}
	if s.flow.Answered() != 0 {
		t.Errorf("retake should clear answers, got %d", s.flow.Answered())
	}
}
