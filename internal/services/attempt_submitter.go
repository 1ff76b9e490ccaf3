package services

import (
	"context"

	"github.com/prep-ease/quiz-service/internal/engine"
	"github.com/prep-ease/quiz-service/internal/validator"
)

// AttemptSubmitter adapts AttemptService to the engine's Submitter
// interface, so an in-process session (CLI tools, simulations, tests) can
// drive the same coordinator the HTTP surface uses.
type AttemptSubmitter struct {
	attempts  AttemptService
	studentID string
}

func NewAttemptSubmitter(attempts AttemptService, studentID string) *AttemptSubmitter {
	return &AttemptSubmitter{
		attempts:  attempts,
		studentID: studentID,
	}
}

func (a *AttemptSubmitter) Submit(ctx context.Context, sub engine.Submission) (*engine.Result, error) {
	req := &validator.SubmitAttemptRequest{
		Answers:          make([]validator.AttemptAnswerRequest, len(sub.Answers)),
		TimeTakenSeconds: sub.TimeTakenSeconds,
		TimedOut:         sub.TimedOut,
	}
	for i, ans := range sub.Answers {
		req.Answers[i] = validator.AttemptAnswerRequest{
			SelectedOption:   ans.SelectedOption,
			TimeSpentSeconds: ans.TimeSpentSeconds,
		}
	}

	result, err := a.attempts.Submit(ctx, sub.QuizID, a.studentID, req)
	if err != nil {
		return nil, err
	}
	return &engine.Result{
		Score:            result.Score,
		CorrectAnswers:   result.CorrectAnswers,
		TotalQuestions:   result.TotalQuestions,
		Status:           string(result.Status),
		AlreadySubmitted: result.AlreadySubmitted,
	}, nil
}
