package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharan/lernix/internal/api"
)

func threeQuestionAssessment() *api.Assessment {
	return &api.Assessment{
		ID:    7,
		Title: "Go Fundamentals",
		Questions: []api.Question{
			{Prompt: "What does := do?", Options: []string{"declare and assign", "compare", "dereference"}},
			{Prompt: "Zero value of a pointer?", Options: []string{"0", "nil", "undefined"}},
			{Prompt: "Keyword for concurrency?", Options: []string{"async", "go", "spawn"}},
		},
	}
}

func answeringFlow(t *testing.T) *Flow {
	t.Helper()
	f := NewFlow()
	f.ApplyAssessment(threeQuestionAssessment())
	require.Equal(t, PhaseAnswering, f.Phase())
	return f
}

func TestLoadNotFoundIsTerminal(t *testing.T) {
	f := NewFlow()
	f.ApplyLoadError()
	assert.Equal(t, PhaseNotFound, f.Phase())

	// Nothing moves the flow out of NotFound.
	f.ApplyAssessment(threeQuestionAssessment())
	f.Restart()
	assert.Equal(t, PhaseNotFound, f.Phase())
}

func TestSelectOverwritesBeforeSubmission(t *testing.T) {
	f := answeringFlow(t)

	f.Select(0)
	f.Select(2)
	opt, ok := f.Answer(0)
	require.True(t, ok)
	assert.Equal(t, 2, opt, "later selection overwrites the earlier one")
	assert.Equal(t, 1, f.Answered())
}

func TestSelectAfterGradingIsNoop(t *testing.T) {
	f := answeringFlow(t)
	f.Select(1)

	require.True(t, f.BeginSubmit())
	f.ApplyResult(&api.GradingResult{Score: 1, Total: 3, Percentage: 33.3,
		Results: []api.QuestionResult{{Correct: true}, {Correct: false}, {Correct: false}}})
	require.Equal(t, PhaseReviewing, f.Phase())

	f.SelectAt(0, 0)
	opt, _ := f.Answer(0)
	assert.Equal(t, 1, opt, "answers are immutable once a grading result exists")
}

func TestSelectRejectsOutOfRange(t *testing.T) {
	f := answeringFlow(t)
	f.SelectAt(-1, 0)
	f.SelectAt(5, 0)
	f.SelectAt(0, 9)
	assert.Equal(t, 0, f.Answered())
}

func TestUnansweredQuestionsAbsentFromWireSet(t *testing.T) {
	f := answeringFlow(t)
	// Answer 0→1, 1→0, leave question 2 unanswered.
	f.SelectAt(0, 1)
	f.SelectAt(1, 0)

	assert.Equal(t, map[int]int{0: 1, 1: 0}, f.Answers())
	_, answered := f.Answer(2)
	assert.False(t, answered, "question 2 goes to the server as absent, graded incorrect")
}

func TestBeginSubmitGuardsDoubleSubmission(t *testing.T) {
	f := answeringFlow(t)

	require.True(t, f.BeginSubmit())
	assert.Equal(t, PhaseSubmitting, f.Phase())
	assert.False(t, f.BeginSubmit(), "submit disabled while a submission is outstanding")

	f.ApplyResult(&api.GradingResult{Total: 3, Results: make([]api.QuestionResult, 3)})
	assert.False(t, f.BeginSubmit(), "submit disabled once graded")
}

func TestSubmitFailureLeavesStateUnchanged(t *testing.T) {
	f := answeringFlow(t)
	f.SelectAt(0, 1)
	f.Next()

	require.True(t, f.BeginSubmit())
	f.ApplySubmitError()

	assert.Equal(t, PhaseAnswering, f.Phase())
	assert.Equal(t, map[int]int{0: 1}, f.Answers())
	assert.Equal(t, 1, f.Current())
	assert.Nil(t, f.Result())
}

func TestSubmitKeyStableAcrossRetries(t *testing.T) {
	f := answeringFlow(t)
	key := f.SubmitKey()
	require.NotEmpty(t, key)

	require.True(t, f.BeginSubmit())
	f.ApplySubmitError()
	assert.Equal(t, key, f.SubmitKey(), "a retried submission reuses the same idempotency key")

	f.Restart()
	assert.NotEqual(t, key, f.SubmitKey(), "a restarted attempt is a new logical submission")
}

func TestRestartResetsToFirstQuestion(t *testing.T) {
	f := answeringFlow(t)
	f.SelectAt(0, 1)
	f.SelectAt(1, 2)
	f.Next()
	require.True(t, f.BeginSubmit())
	f.ApplyResult(&api.GradingResult{Score: 2, Total: 3, Percentage: 66.7,
		Results: make([]api.QuestionResult, 3)})

	f.Restart()

	assert.Equal(t, PhaseAnswering, f.Phase())
	assert.Equal(t, 0, f.Current())
	assert.Equal(t, 0, f.Answered())
	assert.Nil(t, f.Result())
}

func TestNavigationClamps(t *testing.T) {
	f := answeringFlow(t)
	f.Prev()
	assert.Equal(t, 0, f.Current())

	f.Next()
	f.Next()
	f.Next()
	f.Next()
	assert.Equal(t, 2, f.Current())
}

func TestScoreConsistency(t *testing.T) {
	r := &api.GradingResult{
		Score:      2,
		Total:      3,
		Percentage: 66.7,
		Results: []api.QuestionResult{
			{Correct: true},
			{Correct: true},
			{Correct: false},
		},
	}
	assert.Equal(t, r.Score, CorrectCount(r))
	assert.Equal(t, "66.7%", PercentText(r.Percentage))
}

func TestPassThresholdIsCosmetic(t *testing.T) {
	f := answeringFlow(t)
	require.True(t, f.BeginSubmit())
	f.ApplyResult(&api.GradingResult{Score: 2, Total: 3, Percentage: 66.7,
		Results: make([]api.QuestionResult, 3)})
	assert.False(t, f.Passed())

	f.Restart()
	require.True(t, f.BeginSubmit())
	f.ApplyResult(&api.GradingResult{Score: 3, Total: 3, Percentage: 100,
		Results: make([]api.QuestionResult, 3)})
	assert.True(t, f.Passed())
}
