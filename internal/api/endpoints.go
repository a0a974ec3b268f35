package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Login authenticates against POST auth/login/. A 200 response may still be
// an MFA challenge; callers must check MFARequired before using the tokens.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, c.http, http.MethodPost, "auth/login/", nil, req, &out, loginContract); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account via POST auth/register/. It does not
// authenticate the new user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, c.http, http.MethodPost, "auth/register/", nil, req, nil, nil)
}

// Assessment fetches one assessment definition.
func (c *Client) Assessment(ctx context.Context, id int) (*Assessment, error) {
	var out Assessment
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("assessments/%d/", id), nil, nil, &out, assessmentContract); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assessments lists all assessments visible to the user.
func (c *Client) Assessments(ctx context.Context) ([]Assessment, error) {
	var out []Assessment
	if err := c.do(ctx, c.http, http.MethodGet, "assessments/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitAssessment sends the full answer set in one request. answers maps
// question index to selected option index; unanswered questions are absent.
// key deduplicates network-level retries of the same logical submission.
func (c *Client) SubmitAssessment(ctx context.Context, id int, answers map[int]int, key string) (*GradingResult, error) {
	wire := make(map[string]int, len(answers))
	for q, opt := range answers {
		wire[strconv.Itoa(q)] = opt
	}
	headers := map[string]string{"X-Idempotency-Key": key}

	var out GradingResult
	body := struct {
		Answers map[string]int `json:"answers"`
	}{Answers: wire}
	if err := c.do(ctx, c.http, http.MethodPost, fmt.Sprintf("assessments/%d/submit/", id), headers, body, &out, gradingContract); err != nil {
		return nil, err
	}
	return &out, nil
}

// Course fetches one course.
func (c *Client) Course(ctx context.Context, id int) (*Course, error) {
	var out Course
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("courses/courses/%d/", id), nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Courses lists the catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.do(ctx, c.http, http.MethodGet, "courses/courses/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Exercise fetches one coding exercise.
func (c *Client) Exercise(ctx context.Context, id int) (*Exercise, error) {
	var out Exercise
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("courses/exercises/%d/", id), nil, nil, &out, exerciseContract); err != nil {
		return nil, err
	}
	return &out, nil
}

// Exercises lists all coding exercises.
func (c *Client) Exercises(ctx context.Context) ([]Exercise, error) {
	var out []Exercise
	if err := c.do(ctx, c.http, http.MethodGet, "courses/exercises/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Execute runs code remotely and returns the captured output. This is the
// one call with no client-side timeout; cancel via ctx if needed. A server
// rejection ({error}) comes back as an *Error so the caller can show the
// server's own message.
func (c *Client) Execute(ctx context.Context, code, language string) (string, error) {
	var out executeResponse
	if err := c.do(ctx, c.exec, http.MethodPost, "courses/execute/", nil, executeRequest{Code: code, Language: language}, &out, nil); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &Error{Status: http.StatusBadRequest, Message: out.Error}
	}
	return out.Output, nil
}

// Lesson fetches one lesson.
func (c *Client) Lesson(ctx context.Context, id int) (*Lesson, error) {
	var out Lesson
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("lessons/%d/", id), nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lessons lists the lessons of a course, in server order.
func (c *Client) Lessons(ctx context.Context, courseID int) ([]Lesson, error) {
	var out []Lesson
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("lessons/?course=%d", courseID), nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentAnalytics fetches the current student's aggregates.
func (c *Client) StudentAnalytics(ctx context.Context) (*StudentAnalytics, error) {
	var out StudentAnalytics
	if err := c.do(ctx, c.http, http.MethodGet, "analytics/student/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// InstructorAnalytics fetches aggregates for the instructor's courses.
func (c *Client) InstructorAnalytics(ctx context.Context) (*InstructorAnalytics, error) {
	var out InstructorAnalytics
	if err := c.do(ctx, c.http, http.MethodGet, "analytics/instructor/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemAnalytics fetches the platform-wide aggregates (admin only).
func (c *Client) SystemAnalytics(ctx context.Context) (*SystemAnalytics, error) {
	var out SystemAnalytics
	if err := c.do(ctx, c.http, http.MethodGet, "analytics/system/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProgressOverTime fetches daily activity counts for the last days days.
func (c *Client) ProgressOverTime(ctx context.Context, days int) ([]ProgressPoint, error) {
	var out []ProgressPoint
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("analytics/progress_over_time/?days=%d", days), nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// AssessmentScores fetches the user's graded assessments over time.
func (c *Client) AssessmentScores(ctx context.Context) ([]ScorePoint, error) {
	var out []ScorePoint
	if err := c.do(ctx, c.http, http.MethodGet, "analytics/assessment_scores/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications lists the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.do(ctx, c.http, http.MethodGet, "notifications/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	body := struct {
		Read bool `json:"read"`
	}{Read: true}
	return c.do(ctx, c.http, http.MethodPatch, fmt.Sprintf("notifications/%d/", id), nil, body, nil, nil)
}

// MarkAllNotificationsRead flags every notification as read in one call.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, c.http, http.MethodPost, "notifications/mark_all_read/", nil, nil, nil, nil)
}

// CompleteLesson records that the user finished a lesson. The server
// deduplicates repeat completions of the same lesson.
func (c *Client) CompleteLesson(ctx context.Context, lessonID int) (*LessonCompletion, error) {
	body := struct {
		Lesson int `json:"lesson"`
	}{Lesson: lessonID}
	var out LessonCompletion
	if err := c.do(ctx, c.http, http.MethodPost, "progress/lesson-completions/", nil, body, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// LessonCompletions lists the user's completed lessons.
func (c *Client) LessonCompletions(ctx context.Context) ([]LessonCompletion, error) {
	var out []LessonCompletion
	if err := c.do(ctx, c.http, http.MethodGet, "progress/lesson-completions/", nil, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}
