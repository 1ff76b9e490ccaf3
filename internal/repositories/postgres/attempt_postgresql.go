package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/cache"
	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
)

// AttemptPostgreSQL implements the attempt ledger. Rows are append-only;
// there is deliberately no Update or Delete.
type AttemptPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAttemptPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *AttemptPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a ledger row. A duplicate-key error from the unique
// (student_id, quiz_id) index is returned untranslated so the coordinator
// can detect it with repositories.IsDuplicateKeyError.
func (r *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	if err := r.getDB(tx).WithContext(ctx).Create(attempt).Error; err != nil {
		return err
	}
	r.cacheManager.InvalidatePerformance(ctx, attempt.CourseID)
	return nil
}

func (r *AttemptPostgreSQL) GetByStudentAndQuiz(ctx context.Context, tx *gorm.DB, studentID string, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptPostgreSQL) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	query := r.getDB(tx).WithContext(ctx).Where("quiz_id = ?", quizID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts for quiz %d: %w", quizID, err)
	}
	return attempts, nil
}

// ListByStudentAndCourse backs the performance rollup. The result is cached
// briefly; Create invalidates the course's entries when a new row lands.
func (r *AttemptPostgreSQL) ListByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) ([]*models.QuizAttempt, error) {
	if tx == nil {
		var attempts []*models.QuizAttempt
		key := fmt.Sprintf("course:%d:student:%s:attempts", courseID, studentID)
		err := r.cacheManager.Performance.CacheOrExecute(ctx, key, &attempts, cache.PerformanceCacheConfig.TTL, func() (interface{}, error) {
			return r.fetchByStudentAndCourse(ctx, r.db, studentID, courseID)
		})
		if err != nil {
			return nil, err
		}
		return attempts, nil
	}
	return r.fetchByStudentAndCourse(ctx, tx, studentID, courseID)
}

func (r *AttemptPostgreSQL) fetchByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID string, courseID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	err := db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("completed_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for student in course %d: %w", courseID, err)
	}
	return attempts, nil
}

func (r *AttemptPostgreSQL) CountByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error
	return count, err
}

// GetCourseStudentIDs returns the distinct students with any attempt in the
// course, for the roster rollup.
func (r *AttemptPostgreSQL) GetCourseStudentIDs(ctx context.Context, tx *gorm.DB, courseID uint) ([]string, error) {
	var ids []string
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Distinct("student_id").
		Where("course_id = ?", courseID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students for course %d: %w", courseID, err)
	}
	return ids, nil
}
