package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
	"github.com/prep-ease/quiz-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *quizService) Create(ctx context.Context, req *validator.QuizCreateRequest, creatorID string) (*models.Quiz, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		if q.CorrectOption >= len(q.Options) {
			return nil, validator.ValidationErrors{{
				Field:   "correct_option",
				Message: "must index an existing option",
				Value:   q.CorrectOption,
			}}
		}
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options: %w", err)
		}
		difficulty := models.DifficultyMedium
		if q.Difficulty != "" {
			difficulty = models.DifficultyLevel(q.Difficulty)
		}
		questions[i] = models.Question{
			Order:         i + 1,
			Prompt:        q.Prompt,
			Options:       optionsJSON,
			CorrectOption: q.CorrectOption,
			Difficulty:    difficulty,
		}
	}

	quiz := &models.Quiz{
		CourseID:         req.CourseID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitSeconds: req.TimeLimitSeconds,
		PassingScore:     req.PassingScore,
		IsActive:         true,
		CreatedBy:        creatorID,
		Questions:        questions,
	}

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.InfoContext(ctx, "Quiz created",
		"quiz_id", quiz.ID,
		"course_id", quiz.CourseID,
		"questions", len(quiz.Questions))
	return quiz, nil
}

// GetForStudent returns the quiz without the answer key. The authoritative
// key never leaves the server on this path.
func (s *quizService) GetForStudent(ctx context.Context, quizID uint) (*QuizView, error) {
	quiz, err := s.getActive(ctx, quizID)
	if err != nil {
		return nil, err
	}

	view := &QuizView{
		ID:               quiz.ID,
		CourseID:         quiz.CourseID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		PassingScore:     quiz.PassingScore,
		QuestionCount:    len(quiz.Questions),
		Questions:        make([]QuestionView, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		view.Questions[i] = QuestionView{
			ID:         q.ID,
			Order:      q.Order,
			Prompt:     q.Prompt,
			Options:    q.Options,
			Difficulty: q.Difficulty,
		}
	}
	return view, nil
}

func (s *quizService) GetFull(ctx context.Context, quizID uint, caller *models.User) (*models.Quiz, error) {
	if !caller.Role.CanViewAnswerKeys() {
		return nil, NewPermissionError(caller.ID, quizID, "quiz", "read_full", "answer keys require teacher or admin role")
	}
	return s.getActive(ctx, quizID)
}

func (s *quizService) ListByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error) {
	active := true
	quizzes, err := s.repo.Quiz().GetByCourse(ctx, nil, courseID, repositories.QuizFilters{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// Update refuses edits once the quiz has any recorded attempt: attempts are
// permanently scored against the question set as submitted.
func (s *quizService) Update(ctx context.Context, quizID uint, req *validator.QuizUpdateRequest, caller *models.User) (*models.Quiz, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if !caller.Role.CanViewAnswerKeys() {
		return nil, NewPermissionError(caller.ID, quizID, "quiz", "update", "quiz editing requires teacher or admin role")
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	attemptCount, err := s.repo.Attempt().CountByQuiz(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if attemptCount > 0 {
		return nil, ErrQuizHasAttempts
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = req.Description
	}
	if req.TimeLimitSeconds != nil {
		quiz.TimeLimitSeconds = *req.TimeLimitSeconds
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := s.repo.Quiz().Update(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz %d: %w", quizID, err)
	}

	s.logger.InfoContext(ctx, "Quiz updated", "quiz_id", quizID, "updated_by", caller.ID)
	return quiz, nil
}

func (s *quizService) getActive(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}
