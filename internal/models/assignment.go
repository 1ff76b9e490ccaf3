package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment carries just what the performance aggregator needs: the grading
// scale and course linkage. Authoring lives in the portal's content service.
type Assignment struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CourseID   uint           `json:"course_id" gorm:"not null;index"`
	Title      string         `json:"title" gorm:"not null;size:200"`
	TotalMarks int            `json:"total_marks" gorm:"not null" validate:"required,min=1"`
	DueDate    *time.Time     `json:"due_date"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

type AssignmentSubmission struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AssignmentID uint             `json:"assignment_id" gorm:"not null;index"`
	StudentID    string           `json:"student_id" gorm:"not null;size:255;index"`
	Score        *int             `json:"score"`
	Status       SubmissionStatus `json:"status" gorm:"not null;size:20;default:submitted"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	GradedAt     *time.Time       `json:"graded_at"`

	Assignment *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
