package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/models"
)

// All repository methods accept an optional transaction handle; a nil tx
// means the repository's own connection is used.

type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint, filters QuizFilters) ([]*models.Quiz, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type AttemptRepository interface {
	// Create inserts a ledger row. The unique (student_id, quiz_id) index
	// makes this fail with a duplicate-key error when a row already exists;
	// callers detect that with IsDuplicateKeyError and re-read.
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	GetByStudentAndQuiz(ctx context.Context, tx *gorm.DB, studentID string, quizID uint) (*models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint, filters AttemptFilters) ([]*models.QuizAttempt, error)
	ListByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) ([]*models.QuizAttempt, error)
	CountByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) (int64, error)
	GetCourseStudentIDs(ctx context.Context, tx *gorm.DB, courseID uint) ([]string, error)
}

type AssignmentRepository interface {
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Assignment, error)
	ListSubmissionsByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) ([]*models.AssignmentSubmission, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error)
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	IsActive  *bool   `json:"is_active"`
	CreatedBy *string `json:"created_by"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "title"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	Status    *models.AttemptStatus `json:"status"`
	StudentID *string               `json:"student_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type QuizAttemptStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	PassRate      float64 `json:"pass_rate"`
}
