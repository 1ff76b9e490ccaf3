package services

import (
	"testing"

	"github.com/prep-ease/quiz-service/internal/models"
)

func questionsWithKey(key ...int) []models.Question {
	questions := make([]models.Question, len(key))
	for i, correct := range key {
		questions[i] = models.Question{
			QuizID:        1,
			Order:         i + 1,
			Prompt:        "q",
			CorrectOption: correct,
		}
	}
	return questions
}

func sheet(selections ...int) []models.AttemptAnswer {
	answers := make([]models.AttemptAnswer, len(selections))
	for i, sel := range selections {
		answers[i] = models.AttemptAnswer{SelectedOption: sel}
	}
	return answers
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name         string
		key          []int
		selections   []int
		passingScore int
		wantScore    int
		wantCorrect  int
		wantStatus   models.AttemptStatus
	}{
		{
			name:         "all correct",
			key:          []int{0, 1, 2},
			selections:   []int{0, 1, 2},
			passingScore: 70,
			wantScore:    100,
			wantCorrect:  3,
			wantStatus:   models.AttemptStatusPassed,
		},
		{
			name:         "all wrong",
			key:          []int{0, 1, 2},
			selections:   []int{1, 0, 0},
			passingScore: 70,
			wantScore:    0,
			wantCorrect:  0,
			wantStatus:   models.AttemptStatusFailed,
		},
		{
			name:         "two of three rounds up",
			key:          []int{0, 1, 2},
			selections:   []int{0, 1, 0},
			passingScore: 70,
			wantScore:    67,
			wantCorrect:  2,
			wantStatus:   models.AttemptStatusFailed,
		},
		{
			name:         "one of three rounds to 33",
			key:          []int{0, 1, 2},
			selections:   []int{0, 0, 0},
			passingScore: 30,
			wantScore:    33,
			wantCorrect:  1,
			wantStatus:   models.AttemptStatusPassed,
		},
		{
			name:         "half rounds up at exact boundary",
			key:          []int{0, 1, 2, 3, 0, 1, 2, 3},
			selections:   []int{0, 1, 2, 0, 0, 0, 0, 0},
			passingScore: 50,
			wantScore:    50,
			wantCorrect:  4,
			wantStatus:   models.AttemptStatusPassed,
		},
		{
			name:         "unanswered slots never count",
			key:          []int{0, 1},
			selections:   []int{-1, 1},
			passingScore: 50,
			wantScore:    50,
			wantCorrect:  1,
			wantStatus:   models.AttemptStatusPassed,
		},
		{
			name:         "score exactly at passing score passes",
			key:          []int{0, 1, 2, 3},
			selections:   []int{0, 1, 2, 0},
			passingScore: 75,
			wantScore:    75,
			wantCorrect:  3,
			wantStatus:   models.AttemptStatusPassed,
		},
		{
			name:         "zero passing score passes empty sheet",
			key:          []int{0, 1},
			selections:   []int{-1, -1},
			passingScore: 0,
			wantScore:    0,
			wantCorrect:  0,
			wantStatus:   models.AttemptStatusPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreAttempt(questionsWithKey(tt.key...), sheet(tt.selections...), tt.passingScore)
			if result.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", result.Score, tt.wantScore)
			}
			if result.CorrectAnswers != tt.wantCorrect {
				t.Errorf("CorrectAnswers = %d, want %d", result.CorrectAnswers, tt.wantCorrect)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", result.Status, tt.wantStatus)
			}
			if result.TotalQuestions != len(tt.key) {
				t.Errorf("TotalQuestions = %d, want %d", result.TotalQuestions, len(tt.key))
			}
		})
	}
}

func TestScoreAttemptIsDeterministic(t *testing.T) {
	questions := questionsWithKey(0, 1, 2, 3)
	answers := sheet(0, 1, 0, -1)

	first := ScoreAttempt(questions, answers, 60)
	second := ScoreAttempt(questions, answers, 60)

	if first.Score != second.Score || first.CorrectAnswers != second.CorrectAnswers || first.Status != second.Status {
		t.Errorf("repeated scoring diverged: %+v vs %+v", first, second)
	}
}

func TestScoreAttemptFillsCorrectness(t *testing.T) {
	result := ScoreAttempt(questionsWithKey(2, 0), sheet(2, 1), 50)

	if !result.Answers[0].IsCorrect {
		t.Error("matching answer not marked correct")
	}
	if result.Answers[1].IsCorrect {
		t.Error("mismatched answer marked correct")
	}
	if result.Answers[0].QuestionIndex != 0 || result.Answers[1].QuestionIndex != 1 {
		t.Error("question indexes not assigned positionally")
	}
}
