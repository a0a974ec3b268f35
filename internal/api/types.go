package api

import "encoding/json"

// User is the authenticated account as the backend reports it.
type User struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}

// Roles accepted by the backend.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// LoginRequest is the body of POST auth/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	OTP      string `json:"otp,omitempty"`
}

// LoginResponse covers both login outcomes: a token pair, or an MFA
// challenge with no session material.
type LoginResponse struct {
	User        *User  `json:"user"`
	Access      string `json:"access"`
	Refresh     string `json:"refresh"`
	MFARequired bool   `json:"mfa_required"`
	Message     string `json:"message"`
}

// RegisterRequest is the body of POST auth/register/.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Question is a single multiple-choice question. The backend may embed the
// correct option in its JSON; it is deliberately not decoded here. The only
// source of correctness the client trusts is the graded submission.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
}

// Assessment is a server-defined quiz. Question order is fixed by response
// order and never reordered client-side.
type Assessment struct {
	ID          int        `json:"id"`
	Course      int        `json:"course"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TimeLimit   int        `json:"time_limit"` // minutes, 0 = unlimited
	Questions   []Question `json:"questions"`
}

// QuestionResult is the per-question outcome inside a GradingResult.
type QuestionResult struct {
	Question      string `json:"question"`
	Correct       bool   `json:"correct"`
	UserAnswer    *int   `json:"user_answer"` // nil = unanswered
	CorrectAnswer int    `json:"correct_answer"`
}

// GradingResult is the server-computed outcome of a submitted answer set.
// Immutable once received.
type GradingResult struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Results    []QuestionResult `json:"results"`
}

// Course is the catalog entry for a course.
type Course struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  int    `json:"instructor"`
	CreatedAt   string `json:"created_at"`
}

// Lesson is a unit of course content. Content is markdown.
type Lesson struct {
	ID          int    `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	VideoPath   string `json:"video_path"`
	Duration    int    `json:"duration"` // minutes
	Order       int    `json:"order"`
}

// Notification levels, mirrored from the platform's choices.
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

type Notification struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// LessonCompletion records that the user finished a lesson.
type LessonCompletion struct {
	ID          int    `json:"id"`
	Lesson      int    `json:"lesson"`
	LessonTitle string `json:"lesson_title"`
	CourseTitle string `json:"course_title"`
	CompletedAt string `json:"completed_at"`
}

// TestCase pairs an input with the output a correct solution produces.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"output"`
}

// Exercise is a coding challenge executed remotely.
type Exercise struct {
	ID          int        `json:"id"`
	Course      int        `json:"course"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StarterCode string     `json:"starter_code"`
	Solution    string     `json:"solution,omitempty"`
	Language    string     `json:"language"`
	TestCases   []TestCase `json:"test_cases"`
}

type executeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type executeResponse struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

// StudentAnalytics is the aggregate for the student dashboard.
type StudentAnalytics struct {
	TotalTimeSpent       int     `json:"total_time_spent"`
	TotalCourses         int     `json:"total_courses"`
	CompletedCourses     int     `json:"completed_courses"`
	AvgAssessmentScore   float64 `json:"avg_assessment_score"`
	TotalAssessments     int     `json:"total_assessments"`
	TotalCodingExercises int     `json:"total_coding_exercises"`
	CodingSuccessRate    float64 `json:"coding_success_rate"`
	LearningStreak       int     `json:"learning_streak"`
}

// InstructorCourse summarizes one course inside InstructorAnalytics.
type InstructorCourse struct {
	Title          string  `json:"title"`
	TotalStudents  int     `json:"total_students"`
	CompletionRate float64 `json:"completion_rate"`
}

// InstructorAnalytics is the aggregate for the instructor dashboard.
type InstructorAnalytics struct {
	TotalCourses  int                `json:"total_courses"`
	TotalStudents int                `json:"total_students"`
	Courses       []InstructorCourse `json:"courses"`
}

// SystemAnalytics is the platform-wide aggregate for the admin dashboard.
type SystemAnalytics struct {
	TotalUsers                 int     `json:"total_users"`
	TotalStudents              int     `json:"total_students"`
	TotalInstructors           int     `json:"total_instructors"`
	TotalCourses               int     `json:"total_courses"`
	TotalLessons               int     `json:"total_lessons"`
	TotalAssessmentSubmissions int     `json:"total_assessment_submissions"`
	TotalCodingSubmissions     int     `json:"total_coding_submissions"`
	AvgAssessmentScore         float64 `json:"avg_assessment_score"`
	RecentActiveUsers          int     `json:"recent_active_users"`
}

// ProgressPoint is one day of activity from progress_over_time.
type ProgressPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ScorePoint is one graded assessment from assessment_scores.
type ScorePoint struct {
	Date       string  `json:"date"`
	Score      float64 `json:"score"`
	Assessment string  `json:"assessment"`
}
