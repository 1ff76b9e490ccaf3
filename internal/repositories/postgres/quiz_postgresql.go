package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/cache"
	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
)

// QuizPostgreSQL implements QuizRepository with a cache-aside read path for
// quiz definitions.
type QuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	quiz.QuestionCount = len(quiz.Questions)
	if err := r.getDB(tx).WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	r.cacheManager.InvalidateQuiz(ctx, quiz.ID)
	return nil
}

// GetByID loads a quiz with its questions in order. The definition is served
// from cache when present; callers must not mutate the returned value.
func (r *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	// Transactional reads bypass the cache so they see their own writes.
	if tx == nil {
		var quiz models.Quiz
		key := fmt.Sprintf("id:%d", id)
		err := r.cacheManager.Quiz.CacheOrExecute(ctx, key, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
			return r.fetchByID(ctx, r.db, id)
		})
		if err != nil {
			return nil, err
		}
		return &quiz, nil
	}
	return r.fetchByID(ctx, tx, id)
}

func (r *QuizPostgreSQL) fetchByID(ctx context.Context, db *gorm.DB, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.\"order\" ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	query := r.getDB(tx).WithContext(ctx).Where("course_id = ?", courseID)

	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quizzes for course %d: %w", courseID, err)
	}
	return quizzes, nil
}

func (r *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if len(quiz.Questions) > 0 {
		quiz.QuestionCount = len(quiz.Questions)
	}
	if err := r.getDB(tx).WithContext(ctx).Save(quiz).Error; err != nil {
		return fmt.Errorf("failed to update quiz %d: %w", quiz.ID, err)
	}
	r.cacheManager.InvalidateQuiz(ctx, quiz.ID)
	return nil
}

func (r *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Quiz{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}
	r.cacheManager.InvalidateQuiz(ctx, id)
	return nil
}
