// Package assessment implements the client-side assessment flow: question
// navigation, answer tracking, submission, and review of the server's
// graded result. Grading itself is server-authoritative; nothing here ever
// decides correctness.
package assessment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rsharan/lernix/internal/api"
)

// Phase is the flow's state. Loading → Answering → (Submitting) → Reviewing,
// or Loading → NotFound (terminal). Submitting is the transient guard
// against double submission; Reviewing is terminal unless Restart loops back.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAnswering
	PhaseSubmitting
	PhaseReviewing
	PhaseNotFound
)

// PassThreshold is the cosmetic pass percentage. It styles the result view
// and has no functional consequence.
const PassThreshold = 70.0

// Flow is the assessment state machine. All transitions happen on the UI
// goroutine: the screen performs the network calls and feeds outcomes back
// through the Apply methods.
type Flow struct {
	phase      Phase
	assessment *api.Assessment
	answers    map[int]int
	result     *api.GradingResult
	current    int
	submitKey  string
}

// NewFlow creates a Flow in the Loading phase.
func NewFlow() *Flow {
	return &Flow{
		phase:   PhaseLoading,
		answers: make(map[int]int),
	}
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase { return f.phase }

// Assessment returns the loaded definition, nil while loading or not found.
func (f *Flow) Assessment() *api.Assessment { return f.assessment }

// Result returns the grading result once Reviewing, else nil.
func (f *Flow) Result() *api.GradingResult { return f.result }

// Current returns the index of the question in view.
func (f *Flow) Current() int { return f.current }

// SubmitKey identifies the pending logical submission; it changes only on
// load and restart, so a network-level retry reuses the same key.
func (f *Flow) SubmitKey() string { return f.submitKey }

// ApplyAssessment transitions Loading → Answering at question 0.
func (f *Flow) ApplyAssessment(a *api.Assessment) {
	if f.phase != PhaseLoading {
		return
	}
	f.assessment = a
	f.phase = PhaseAnswering
	f.current = 0
	f.submitKey = uuid.New().String()
}

// ApplyLoadError transitions Loading → NotFound. Terminal, no retry.
func (f *Flow) ApplyLoadError() {
	if f.phase != PhaseLoading {
		return
	}
	f.phase = PhaseNotFound
}

// Select records (or overwrites) the choice for the question in view.
// A no-op once a grading result exists: answers are immutable post-submit.
func (f *Flow) Select(option int) {
	f.SelectAt(f.current, option)
}

// SelectAt records the choice for an arbitrary question index.
func (f *Flow) SelectAt(question, option int) {
	if f.phase != PhaseAnswering || f.result != nil {
		return
	}
	if question < 0 || question >= len(f.assessment.Questions) {
		return
	}
	if option < 0 || option >= len(f.assessment.Questions[question].Options) {
		return
	}
	f.answers[question] = option
}

// Answer returns the recorded option for a question, if any.
func (f *Flow) Answer(question int) (int, bool) {
	opt, ok := f.answers[question]
	return opt, ok
}

// Answers returns a copy of the answer set in wire form. Absent entries are
// unanswered questions; the server grades those incorrect.
func (f *Flow) Answers() map[int]int {
	out := make(map[int]int, len(f.answers))
	for q, opt := range f.answers {
		out[q] = opt
	}
	return out
}

// Answered returns how many questions have a selection.
func (f *Flow) Answered() int { return len(f.answers) }

// Next advances the question in view, clamped to the last question.
func (f *Flow) Next() {
	if f.assessment == nil {
		return
	}
	if f.current < len(f.assessment.Questions)-1 {
		f.current++
	}
}

// Prev moves the question in view back, clamped to the first question.
func (f *Flow) Prev() {
	if f.current > 0 {
		f.current--
	}
}

// BeginSubmit transitions Answering → Submitting. It returns false when a
// submission is already outstanding or the flow is not answering, which is
// what keeps the submit control disabled against double submission.
func (f *Flow) BeginSubmit() bool {
	if f.phase != PhaseAnswering || f.result != nil {
		return false
	}
	f.phase = PhaseSubmitting
	return true
}

// ApplyResult stores the grading result and transitions to Reviewing at
// question 0. The result is immutable from here on.
func (f *Flow) ApplyResult(r *api.GradingResult) {
	if f.phase != PhaseSubmitting {
		return
	}
	f.result = r
	f.phase = PhaseReviewing
	f.current = 0
}

// ApplySubmitError returns to Answering with state untouched, so the user
// can try submitting again.
func (f *Flow) ApplySubmitError() {
	if f.phase == PhaseSubmitting {
		f.phase = PhaseAnswering
	}
}

// Restart clears the answer set and grading result and returns to Answering
// at question 0. Only meaningful when the server enforces no attempt limit;
// attempt limits are opaque to the client.
func (f *Flow) Restart() {
	if f.assessment == nil {
		return
	}
	f.answers = make(map[int]int)
	f.result = nil
	f.current = 0
	f.phase = PhaseAnswering
	f.submitKey = uuid.New().String()
}

// Passed reports whether the graded percentage meets the cosmetic pass
// threshold. False while no result exists.
func (f *Flow) Passed() bool {
	return f.result != nil && f.result.Percentage >= PassThreshold
}

// CorrectCount counts the correct per-question results. For a consistent
// server response this equals the score.
func CorrectCount(r *api.GradingResult) int {
	n := 0
	for _, qr := range r.Results {
		if qr.Correct {
			n++
		}
	}
	return n
}

// PercentText renders a percentage the way the platform displays it:
// one decimal place.
func PercentText(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
