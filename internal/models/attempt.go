package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptStatusPassed AttemptStatus = "passed"
	AttemptStatusFailed AttemptStatus = "failed"
)

// QuizAttempt is the completed-attempt ledger. Rows are written exactly once
// per (student, quiz) and never updated or deleted; the unique index is what
// turns concurrent submits into a single winner.
type QuizAttempt struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	QuizID    uint   `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_student_quiz"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_attempt_student_quiz"`
	CourseID  uint   `json:"course_id" gorm:"not null;index"`

	// Answers holds the submitted []AttemptAnswer as JSONB, one entry per
	// question in quiz order.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb;not null"`

	Score            int           `json:"score" gorm:"not null"`
	CorrectAnswers   int           `json:"correct_answers" gorm:"not null"`
	TotalQuestions   int           `json:"total_questions" gorm:"not null"`
	TimeTakenSeconds int           `json:"time_taken_seconds" gorm:"not null"`
	Status           AttemptStatus `json:"status" gorm:"not null;size:20"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`

	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

// AttemptAnswer is one slot of the answer sheet. SelectedOption -1 means the
// question was never answered; unanswered slots are always scored incorrect.
type AttemptAnswer struct {
	QuestionIndex    int  `json:"question_index"`
	SelectedOption   int  `json:"selected_option"`
	TimeSpentSeconds int  `json:"time_spent_seconds"`
	IsCorrect        bool `json:"is_correct"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
