package services

import (
	"math"

	"github.com/prep-ease/quiz-service/internal/models"
)

// ScoreResult is the output of grading one answer sheet.
type ScoreResult struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Status         models.AttemptStatus
	Answers        []models.AttemptAnswer
}

// ScoreAttempt grades an answer sheet against the quiz's questions. It is
// pure: same inputs, same result. Questions must be in quiz order and
// answers positional; callers verify lengths match beforehand. An
// unanswered slot (-1) is always incorrect. The percentage is rounded half
// up and pass/fail derives from passingScore.
func ScoreAttempt(questions []models.Question, answers []models.AttemptAnswer, passingScore int) ScoreResult {
	graded := make([]models.AttemptAnswer, len(answers))
	correct := 0
	for i, answer := range answers {
		answer.QuestionIndex = i
		answer.IsCorrect = answer.SelectedOption >= 0 && answer.SelectedOption == questions[i].CorrectOption
		if answer.IsCorrect {
			correct++
		}
		graded[i] = answer
	}

	total := len(questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	status := models.AttemptStatusFailed
	if score >= passingScore {
		status = models.AttemptStatusPassed
	}

	return ScoreResult{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Status:         status,
		Answers:        graded,
	}
}
