package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prep-ease/quiz-service/internal/events"
	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/validator"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeQuiz(id, courseID uint, passingScore int, key ...int) *models.Quiz {
	questions := make([]models.Question, len(key))
	for i, correct := range key {
		options, _ := json.Marshal([]string{"a", "b", "c", "d"})
		questions[i] = models.Question{
			ID:            uint(i + 1),
			QuizID:        id,
			Order:         i + 1,
			Prompt:        "q",
			Options:       options,
			CorrectOption: correct,
		}
	}
	return &models.Quiz{
		ID:               id,
		CourseID:         courseID,
		Title:            "Quiz",
		TimeLimitSeconds: 300,
		PassingScore:     passingScore,
		QuestionCount:    len(questions),
		IsActive:         true,
		Questions:        questions,
	}
}

func submitRequest(selections ...int) *validator.SubmitAttemptRequest {
	req := &validator.SubmitAttemptRequest{TimeTakenSeconds: 120}
	for _, sel := range selections {
		req.Answers = append(req.Answers, validator.AttemptAnswerRequest{SelectedOption: sel})
	}
	return req
}

func newTestAttemptService(repo *mockRepository, publisher events.EventPublisher) AttemptService {
	return NewAttemptService(repo, nil, discardLogger(), validator.New(), publisher)
}

func TestSubmitRecordsAttempt(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 70, 0, 1, 2)
	publisher := events.NewMockEventPublisher()
	svc := newTestAttemptService(repo, publisher)

	result, err := svc.Submit(ctx, 1, "student-1", submitRequest(0, 1, 0))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.AlreadySubmitted {
		t.Error("first submission flagged as duplicate")
	}
	if result.Score != 67 {
		t.Errorf("Score = %d, want 67", result.Score)
	}
	if result.Status != models.AttemptStatusFailed {
		t.Errorf("Status = %s, want failed", result.Status)
	}
	if result.CorrectAnswers != 2 || result.TotalQuestions != 3 {
		t.Errorf("CorrectAnswers/Total = %d/%d, want 2/3", result.CorrectAnswers, result.TotalQuestions)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventAttemptCompleted {
		t.Fatalf("published events = %+v, want one %s", published, events.EventAttemptCompleted)
	}
	if published[0].Source != "quiz-service" || published[0].Version != "1.0" {
		t.Errorf("event envelope = %+v, want quiz-service/1.0", published[0])
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	if _, err := svc.Submit(ctx, 99, "student-1", submitRequest(0)); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("Submit() error = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitInactiveQuizNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := makeQuiz(1, 10, 70, 0)
	quiz.IsActive = false
	repo.quizzes[1] = quiz
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	if _, err := svc.Submit(ctx, 1, "student-1", submitRequest(0)); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("Submit() error = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitMalformed(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 70, 0, 1)
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	tests := []struct {
		name string
		req  *validator.SubmitAttemptRequest
	}{
		{"too few answers", submitRequest(0)},
		{"too many answers", submitRequest(0, 1, 2)},
		{"option index past end", submitRequest(0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, 1, "student-1", tt.req); !errors.Is(err, ErrMalformedSubmission) {
				t.Errorf("Submit() error = %v, want ErrMalformedSubmission", err)
			}
		})
	}
}

func TestSubmitDuplicateReturnsRecordedResult(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 50, 0, 1, 2)
	publisher := events.NewMockEventPublisher()
	svc := newTestAttemptService(repo, publisher)

	first, err := svc.Submit(ctx, 1, "student-1", submitRequest(0, 1, 2))
	if err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	publisher.ClearEvents()

	// Second sheet is different and worse; the ledger result must win.
	second, err := svc.Submit(ctx, 1, "student-1", submitRequest(3, 3, 3))
	if err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	if !second.AlreadySubmitted {
		t.Error("duplicate submission not flagged")
	}
	if second.Score != first.Score || second.AttemptID != first.AttemptID {
		t.Errorf("duplicate returned %+v, want the recorded result %+v", second, first)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventAttemptDuplicate {
		t.Fatalf("published events = %+v, want one %s", published, events.EventAttemptDuplicate)
	}
}

func TestSubmitRaceLoserReadsWinner(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 50, 0, 1, 2)
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	// A concurrent submission lands between this caller's pre-check and its
	// insert; the insert hits the unique index.
	repo.raceWinner = &models.QuizAttempt{
		ID:             42,
		QuizID:         1,
		StudentID:      "student-1",
		CourseID:       10,
		Score:          100,
		CorrectAnswers: 3,
		TotalQuestions: 3,
		Status:         models.AttemptStatusPassed,
		CompletedAt:    time.Now(),
	}

	result, err := svc.Submit(ctx, 1, "student-1", submitRequest(3, 3, 3))
	if err != nil {
		t.Fatalf("Submit() error = %v, want the winner's result", err)
	}
	if !result.AlreadySubmitted {
		t.Error("race loser not flagged as duplicate")
	}
	if result.AttemptID != 42 || result.Score != 100 {
		t.Errorf("result = %+v, want the winner's row (id 42, score 100)", result)
	}
}

func TestSubmitTimedOutSheetScoresUnanswered(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 50, 0, 1)
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	req := submitRequest(0, -1)
	req.TimedOut = true

	result, err := svc.Submit(ctx, 1, "student-1", req)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Score != 50 || result.CorrectAnswers != 1 {
		t.Errorf("Score/Correct = %d/%d, want 50/1", result.Score, result.CorrectAnswers)
	}
}

func TestSubmitSurvivesPublisherFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 50, 0)
	publisher := events.NewMockEventPublisher()
	publisher.FailNext = errors.New("broker unavailable")
	svc := newTestAttemptService(repo, publisher)

	result, err := svc.Submit(ctx, 1, "student-1", submitRequest(0))
	if err != nil {
		t.Fatalf("Submit() error = %v, want success despite publish failure", err)
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score)
	}
}

func TestListAttemptsScopedByRole(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.quizzes[1] = makeQuiz(1, 10, 50, 0)
	svc := newTestAttemptService(repo, events.NewMockEventPublisher())

	for _, student := range []string{"student-1", "student-2"} {
		if _, err := svc.Submit(ctx, 1, student, submitRequest(0)); err != nil {
			t.Fatalf("Submit(%s) error = %v", student, err)
		}
	}

	student := &models.User{ID: "student-1", Role: models.RoleStudent}
	own, err := svc.ListAttempts(ctx, 1, student)
	if err != nil {
		t.Fatalf("ListAttempts() error = %v", err)
	}
	if len(own) != 1 || own[0].StudentID != "student-1" {
		t.Errorf("student sees %d attempts, want only their own", len(own))
	}

	teacher := &models.User{ID: "teacher-1", Role: models.RoleTeacher}
	all, err := svc.ListAttempts(ctx, 1, teacher)
	if err != nil {
		t.Fatalf("ListAttempts() as teacher error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("teacher sees %d attempts, want 2", len(all))
	}
}
