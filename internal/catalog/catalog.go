// Package catalog loads the browsable course structure: the course list and
// the per-course detail (lessons, exercises, assessments).
package catalog

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rsharan/lernix/internal/api"
)

// Detail is everything the course detail screen shows for one course.
type Detail struct {
	Course      api.Course
	Lessons     []api.Lesson
	Exercises   []api.Exercise
	Assessments []api.Assessment
}

// Service is the slice of the API the catalog reads through.
type Service interface {
	Course(ctx context.Context, id int) (*api.Course, error)
	Lessons(ctx context.Context, courseID int) ([]api.Lesson, error)
	Exercises(ctx context.Context) ([]api.Exercise, error)
	Assessments(ctx context.Context) ([]api.Assessment, error)
}

// LoadDetail fetches the course and its content concurrently. Exercise and
// assessment listings are global on the backend, so they are filtered to the
// course here. Lessons come back in server order; they are re-sorted by
// their explicit order field only because the list endpoint does not promise
// one.
func LoadDetail(ctx context.Context, svc Service, courseID int) (*Detail, error) {
	var (
		course      *api.Course
		lessons     []api.Lesson
		exercises   []api.Exercise
		assessments []api.Assessment
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = svc.Course(ctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		lessons, err = svc.Lessons(ctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		exercises, err = svc.Exercises(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		assessments, err = svc.Assessments(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })

	d := &Detail{Course: *course, Lessons: lessons}
	for _, ex := range exercises {
		if ex.Course == courseID {
			d.Exercises = append(d.Exercises, ex)
		}
	}
	for _, a := range assessments {
		if a.Course == courseID {
			d.Assessments = append(d.Assessments, a)
		}
	}
	return d, nil
}
