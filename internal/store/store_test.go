package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAttemptRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RecordAttempt(ctx, AttemptRecord{
		AssessmentID: 7,
		Title:        "Pointers and Slices",
		Score:        8,
		Total:        10,
		Percentage:   80.0,
	})
	require.NoError(t, err)

	got, err := s.RecentAttempts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, 7, got[0].AssessmentID)
	assert.Equal(t, "Pointers and Slices", got[0].Title)
	assert.Equal(t, 8, got[0].Score)
	assert.Equal(t, 10, got[0].Total)
	assert.InDelta(t, 80.0, got[0].Percentage, 0.001)
	assert.False(t, got[0].SubmittedAt.IsZero())
}

func TestRecentAttemptsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.RecordAttempt(ctx, AttemptRecord{
			AssessmentID: i,
			Title:        "attempt",
			SubmittedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	got, err := s.RecentAttempts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].AssessmentID)
	assert.Equal(t, 1, got[1].AssessmentID)
}

func TestRunRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RecordRun(ctx, RunRecord{
		ExerciseID: 3,
		Title:      "FizzBuzz",
		Language:   "python",
		OK:         true,
	})
	require.NoError(t, err)

	got, err := s.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ExerciseID)
	assert.Equal(t, "python", got[0].Language)
	assert.True(t, got[0].OK)
}

func TestEmptyStore(t *testing.T) {
	s := newTestStore(t)

	attempts, err := s.RecentAttempts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	runs, err := s.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
