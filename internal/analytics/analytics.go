// Package analytics aggregates the read-only dashboard data. All numbers are
// server-computed; this package only batches the fetches.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rsharan/lernix/internal/api"
)

// Service is the slice of the API the dashboards read through.
type Service interface {
	StudentAnalytics(ctx context.Context) (*api.StudentAnalytics, error)
	ProgressOverTime(ctx context.Context, days int) ([]api.ProgressPoint, error)
	AssessmentScores(ctx context.Context) ([]api.ScorePoint, error)
}

// StudentDashboard bundles everything the student progress screen shows.
type StudentDashboard struct {
	Stats    *api.StudentAnalytics
	Progress []api.ProgressPoint
	Scores   []api.ScorePoint
}

// LoadStudentDashboard fetches the three student aggregates concurrently.
func LoadStudentDashboard(ctx context.Context, svc Service, days int) (*StudentDashboard, error) {
	var d StudentDashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Stats, err = svc.StudentAnalytics(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Progress, err = svc.ProgressOverTime(ctx, days)
		return err
	})
	g.Go(func() error {
		var err error
		d.Scores, err = svc.AssessmentScores(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
