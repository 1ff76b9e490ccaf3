package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Quiz struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CourseID    uint    `json:"course_id" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Timing and grading. TimeLimitSeconds is the full attempt budget; there
	// are no per-question limits.
	TimeLimitSeconds int `json:"time_limit_seconds" gorm:"not null" validate:"required,min=1"`
	PassingScore     int `json:"passing_score" gorm:"not null" validate:"required,min=0,max=100"`

	QuestionCount int  `json:"question_count" gorm:"not null"`
	IsActive      bool `json:"is_active" gorm:"default:true;index"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`

	// Computed fields (not stored)
	AttemptCount int     `json:"attempt_count" gorm:"-"`
	AvgScore     float64 `json:"avg_score" gorm:"-"`
}

type Question struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	QuizID uint   `json:"quiz_id" gorm:"not null;index"`
	Order  int    `json:"order" gorm:"not null"`
	Prompt string `json:"prompt" gorm:"type:text;not null" validate:"required"`

	// Options stored as JSONB []string; at least two per question.
	Options datatypes.JSON `json:"options" gorm:"type:jsonb;not null"`

	// CorrectOption is the 0-based index into Options. Exactly one correct
	// option per question; never exposed on student-facing reads.
	CorrectOption int `json:"correct_option" gorm:"not null"`

	Difficulty DifficultyLevel `json:"difficulty" gorm:"default:medium"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "quiz_questions"
}
