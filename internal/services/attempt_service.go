package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/events"
	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
	"github.com/prep-ease/quiz-service/internal/validator"
)

// attemptService is the submission coordinator: it turns one submit event
// into at most one ledger row. Idempotency comes from the pre-check plus the
// unique (student_id, quiz_id) index; the loser of a concurrent race re-reads
// the winner's row instead of surfacing a constraint error.
type attemptService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	now       func() time.Time
}

func NewAttemptService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AttemptService {
	return &attemptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *attemptService) Submit(ctx context.Context, quizID uint, studentID string, req *validator.SubmitAttemptRequest) (*AttemptResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

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

	if err := s.checkStructure(quiz, req); err != nil {
		return nil, err
	}

	// Pre-check the ledger. An existing row is the recorded truth; the new
	// sheet is discarded without re-scoring.
	existing, err := s.repo.Attempt().GetByStudentAndQuiz(ctx, nil, studentID, quizID)
	if err == nil {
		s.publishDuplicate(ctx, existing)
		return s.toResult(existing, true), nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check attempt ledger: %w", err)
	}

	answers := make([]models.AttemptAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = models.AttemptAnswer{
			QuestionIndex:    i,
			SelectedOption:   a.SelectedOption,
			TimeSpentSeconds: a.TimeSpentSeconds,
		}
	}
	scored := ScoreAttempt(quiz.Questions, answers, quiz.PassingScore)

	answersJSON, err := json.Marshal(scored.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	completedAt := s.now()
	attempt := &models.QuizAttempt{
		QuizID:           quizID,
		StudentID:        studentID,
		CourseID:         quiz.CourseID,
		Answers:          answersJSON,
		Score:            scored.Score,
		CorrectAnswers:   scored.CorrectAnswers,
		TotalQuestions:   scored.TotalQuestions,
		TimeTakenSeconds: req.TimeTakenSeconds,
		Status:           scored.Status,
		StartedAt:        completedAt.Add(-time.Duration(req.TimeTakenSeconds) * time.Second),
		CompletedAt:      completedAt,
	}

	if err := s.repo.Attempt().Create(ctx, nil, attempt); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			// Lost a race with a concurrent submit of the same attempt.
			// The winner's row is the recorded result.
			winner, readErr := s.repo.Attempt().GetByStudentAndQuiz(ctx, nil, studentID, quizID)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read winning attempt after duplicate: %w", readErr)
			}
			s.publishDuplicate(ctx, winner)
			return s.toResult(winner, true), nil
		}
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.logger.InfoContext(ctx, "Attempt recorded",
		"quiz_id", quizID,
		"student_id", studentID,
		"score", attempt.Score,
		"status", attempt.Status,
		"timed_out", req.TimedOut)

	s.publish(ctx, events.NewEvent(events.EventAttemptCompleted, map[string]interface{}{
		"attempt_id": attempt.ID,
		"quiz_id":    attempt.QuizID,
		"student_id": attempt.StudentID,
		"course_id":  attempt.CourseID,
		"score":      attempt.Score,
		"status":     string(attempt.Status),
		"timed_out":  req.TimedOut,
	}))

	return s.toResult(attempt, false), nil
}

// checkStructure verifies the sheet fits the quiz: one answer per question
// and every selection either unanswered or a valid option index.
func (s *attemptService) checkStructure(quiz *models.Quiz, req *validator.SubmitAttemptRequest) error {
	if len(req.Answers) != len(quiz.Questions) {
		return ErrMalformedSubmission
	}
	for i, a := range req.Answers {
		if a.SelectedOption < -1 {
			return ErrMalformedSubmission
		}
		if a.SelectedOption >= 0 {
			count, err := optionCount(&quiz.Questions[i])
			if err != nil {
				return fmt.Errorf("failed to decode options for question %d: %w", quiz.Questions[i].ID, err)
			}
			if a.SelectedOption >= count {
				return ErrMalformedSubmission
			}
		}
	}
	return nil
}

func (s *attemptService) ListAttempts(ctx context.Context, quizID uint, caller *models.User) ([]*models.QuizAttempt, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, nil, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	filters := repositories.AttemptFilters{SortBy: "completed_at", SortOrder: "asc"}
	if !caller.Role.CanViewAnswerKeys() {
		filters.StudentID = &caller.ID
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *attemptService) toResult(attempt *models.QuizAttempt, alreadySubmitted bool) *AttemptResult {
	return &AttemptResult{
		AttemptID:        attempt.ID,
		QuizID:           attempt.QuizID,
		StudentID:        attempt.StudentID,
		Score:            attempt.Score,
		CorrectAnswers:   attempt.CorrectAnswers,
		TotalQuestions:   attempt.TotalQuestions,
		Status:           attempt.Status,
		TimeTakenSeconds: attempt.TimeTakenSeconds,
		AlreadySubmitted: alreadySubmitted,
		CompletedAt:      attempt.CompletedAt,
	}
}

func (s *attemptService) publishDuplicate(ctx context.Context, attempt *models.QuizAttempt) {
	s.publish(ctx, events.NewEvent(events.EventAttemptDuplicate, map[string]interface{}{
		"attempt_id": attempt.ID,
		"quiz_id":    attempt.QuizID,
		"student_id": attempt.StudentID,
	}))
}

// publish is best-effort: an unreachable broker never fails a submission.
func (s *attemptService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_type", event.Type)
	}
}

func optionCount(q *models.Question) (int, error) {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return 0, err
	}
	return len(options), nil
}
