// Package workspace implements the code exercise workflow: an editable
// source buffer seeded from starter code, remote execution, and interim
// client-side grading against the exercise's test cases.
package workspace

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rsharan/lernix/internal/api"
)

// Phase is the workspace state. Loading → Ready, or Loading → NotFound
// (terminal). Running is tracked separately: it blocks duplicate runs but
// never blocks editing.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseNotFound
)

// ExecutionResult is the transient outcome of one run. Overwritten on every
// run, never persisted.
type ExecutionResult struct {
	Output string
	Err    string
}

// CaseResult is the outcome of checking one test case after a submit run.
type CaseResult struct {
	Case   api.TestCase
	Passed bool
}

// Submission is the client-side grading of the latest submit run.
type Submission struct {
	Results []CaseResult
	Passed  int
}

// Loader is the slice of the API the workspace loads through.
type Loader interface {
	Exercise(ctx context.Context, id int) (*api.Exercise, error)
	Course(ctx context.Context, id int) (*api.Course, error)
}

// Load fetches the exercise and its parent course concurrently. If either
// fetch fails the workspace is not viable and the caller renders NotFound.
func Load(ctx context.Context, svc Loader, courseID, exerciseID int) (*api.Exercise, *api.Course, error) {
	var (
		ex     *api.Exercise
		course *api.Course
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ex, err = svc.Exercise(ctx, exerciseID)
		return err
	})
	g.Go(func() error {
		var err error
		course, err = svc.Course(ctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ex, course, nil
}

// Workspace is the exercise state machine. Transitions happen on the UI
// goroutine; the screen performs the execution call and feeds the outcome
// back through ApplyRun.
type Workspace struct {
	phase      Phase
	exercise   *api.Exercise
	course     *api.Course
	source     string
	running    bool
	result     *ExecutionResult
	submission *Submission
	submitting bool
}

// New creates a Workspace in the Loading phase.
func New() *Workspace {
	return &Workspace{phase: PhaseLoading}
}

// Phase returns the current phase.
func (w *Workspace) Phase() Phase { return w.phase }

// Exercise returns the loaded exercise, nil before Ready.
func (w *Workspace) Exercise() *api.Exercise { return w.exercise }

// Course returns the parent course, nil before Ready.
func (w *Workspace) Course() *api.Course { return w.course }

// Source returns the current buffer.
func (w *Workspace) Source() string { return w.source }

// Running reports whether a run is in flight; the run control is disabled
// while true.
func (w *Workspace) Running() bool { return w.running }

// Result returns the latest execution result, nil before the first run.
func (w *Workspace) Result() *ExecutionResult { return w.result }

// LastSubmission returns the latest graded submission, nil before one.
func (w *Workspace) LastSubmission() *Submission { return w.submission }

// ApplyLoaded transitions Loading → Ready and seeds the buffer with the
// starter code.
func (w *Workspace) ApplyLoaded(ex *api.Exercise, course *api.Course) {
	if w.phase != PhaseLoading {
		return
	}
	w.exercise = ex
	w.course = course
	w.source = ex.StarterCode
	w.phase = PhaseReady
}

// ApplyLoadError transitions Loading → NotFound. Terminal.
func (w *Workspace) ApplyLoadError() {
	if w.phase == PhaseLoading {
		w.phase = PhaseNotFound
	}
}

// Edit replaces the buffer. Unconstrained: no validation, no autosave.
// Editing is allowed even while a run is in flight.
func (w *Workspace) Edit(text string) {
	if w.phase != PhaseReady {
		return
	}
	w.source = text
}

// Reset restores the buffer to the originally-fetched starter code,
// discarding all edits. The previous execution result stays on screen until
// the next run.
func (w *Workspace) Reset() {
	if w.phase != PhaseReady {
		return
	}
	w.source = w.exercise.StarterCode
}

// BeginRun marks a run in flight. Returns false while one is already
// outstanding, which is the duplicate-run guard.
func (w *Workspace) BeginRun() bool {
	if w.phase != PhaseReady || w.running {
		return false
	}
	w.running = true
	w.submitting = false
	return true
}

// BeginSubmit marks a submit run in flight. It shares the run guard, and
// the completing ApplyRun will additionally grade the output.
func (w *Workspace) BeginSubmit() bool {
	if !w.BeginRun() {
		return false
	}
	w.submitting = true
	return true
}

// ApplyRun stores the outcome of the in-flight run and reports whether the
// result was consumed. The raw output replaces the previous display; on
// failure the server's message (or the fallback the screen chose) is shown
// instead. A submit run also grades the output against the test cases.
func (w *Workspace) ApplyRun(output string, errMsg string) bool {
	if !w.running {
		// The run was abandoned (user navigated away and back); drop it.
		return false
	}
	w.running = false
	w.result = &ExecutionResult{Output: output, Err: errMsg}

	if w.submitting {
		w.submitting = false
		if errMsg == "" {
			w.submission = w.grade(output)
		}
	}
	return true
}

// grade checks the run output against each test case. Interim client-side
// verification: with no way to feed per-case stdin through the execution
// endpoint, a case passes when its expected output appears in the program
// output.
// TODO: replace with the server-side grading endpoint once the platform
// exposes one for exercise submissions.
func (w *Workspace) grade(output string) *Submission {
	sub := &Submission{}
	for _, tc := range w.exercise.TestCases {
		passed := strings.Contains(output, strings.TrimSpace(tc.Expected))
		if passed {
			sub.Passed++
		}
		sub.Results = append(sub.Results, CaseResult{Case: tc, Passed: passed})
	}
	return sub
}
