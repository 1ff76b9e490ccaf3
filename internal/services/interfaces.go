package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/validator"
)

// ===== QUIZ DTOs =====

// QuizView is the student-facing quiz shape. Questions carry options but
// never the correct index.
type QuizView struct {
	ID               uint           `json:"id"`
	CourseID         uint           `json:"course_id"`
	Title            string         `json:"title"`
	Description      *string        `json:"description"`
	TimeLimitSeconds int            `json:"time_limit_seconds"`
	PassingScore     int            `json:"passing_score"`
	QuestionCount    int            `json:"question_count"`
	Questions        []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID         uint                   `json:"id"`
	Order      int                    `json:"order"`
	Prompt     string                 `json:"prompt"`
	Options    datatypes.JSON         `json:"options"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
}

// ===== ATTEMPT DTOs =====

// AttemptResult is the authoritative outcome returned to the client.
// AlreadySubmitted marks a duplicate resolved against the ledger.
type AttemptResult struct {
	AttemptID        uint                 `json:"attempt_id"`
	QuizID           uint                 `json:"quiz_id"`
	StudentID        string               `json:"student_id"`
	Score            int                  `json:"score"`
	CorrectAnswers   int                  `json:"correct_answers"`
	TotalQuestions   int                  `json:"total_questions"`
	Status           models.AttemptStatus `json:"status"`
	TimeTakenSeconds int                  `json:"time_taken_seconds"`
	AlreadySubmitted bool                 `json:"already_submitted"`
	CompletedAt      time.Time            `json:"completed_at"`
}

// ===== PERFORMANCE DTOs =====

type RiskStatus string

const (
	RiskHigh   RiskStatus = "High"
	RiskMedium RiskStatus = "Medium"
	RiskLow    RiskStatus = "Low"
)

type AssignmentPerformance struct {
	Submitted    int     `json:"submitted"`
	Total        int     `json:"total"`
	AverageScore float64 `json:"average_score"`
}

type QuizPerformance struct {
	Attempted    int     `json:"attempted"`
	AverageScore float64 `json:"average_score"`
}

// StudentPerformance is the per-(student, course) rollup. PerformanceScore
// is the equal-weighted blend of the assignment and quiz averages.
type StudentPerformance struct {
	StudentID        string                `json:"student_id"`
	StudentName      string                `json:"student_name,omitempty"`
	CourseID         uint                  `json:"course_id"`
	Assignments      AssignmentPerformance `json:"assignments"`
	Quizzes          QuizPerformance       `json:"quizzes"`
	PerformanceScore float64               `json:"performance_score"`
	RiskStatus       RiskStatus            `json:"risk_status"`
}

// ===== SERVICE INTERFACES =====

type QuizService interface {
	Create(ctx context.Context, req *validator.QuizCreateRequest, creatorID string) (*models.Quiz, error)

	// GetForStudent strips the answer key from every question.
	GetForStudent(ctx context.Context, quizID uint) (*QuizView, error)

	// GetFull includes the answer key; callers must be teacher or admin.
	GetFull(ctx context.Context, quizID uint, caller *models.User) (*models.Quiz, error)

	ListByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error)

	// Update refuses quizzes with any recorded attempt.
	Update(ctx context.Context, quizID uint, req *validator.QuizUpdateRequest, caller *models.User) (*models.Quiz, error)
}

type AttemptService interface {
	// Submit turns one submit event into at most one ledger row. Duplicate
	// submissions return the recorded result with AlreadySubmitted set.
	Submit(ctx context.Context, quizID uint, studentID string, req *validator.SubmitAttemptRequest) (*AttemptResult, error)

	// ListAttempts returns the caller's attempts for the quiz; teachers and
	// admins see every student's.
	ListAttempts(ctx context.Context, quizID uint, caller *models.User) ([]*models.QuizAttempt, error)
}

type PerformanceService interface {
	GetStudentPerformance(ctx context.Context, courseID uint, studentID string) (*StudentPerformance, error)
	GetCourseRoster(ctx context.Context, courseID uint) ([]*StudentPerformance, error)
}

type ReportService interface {
	// ExportCourseRoster renders the roster rollup as an XLSX workbook.
	ExportCourseRoster(ctx context.Context, courseID uint) ([]byte, error)
}
