package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/repositories"
)

// AssignmentPostgreSQL is the read side the performance aggregator uses.
// Assignment authoring belongs to the portal's content service.
type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (r *AssignmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *AssignmentPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := r.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for course %d: %w", courseID, err)
	}
	return assignments, nil
}

func (r *AssignmentPostgreSQL) ListSubmissionsByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) ([]*models.AssignmentSubmission, error) {
	var submissions []*models.AssignmentSubmission
	err := r.getDB(tx).WithContext(ctx).
		Preload("Assignment").
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.student_id = ? AND assignments.course_id = ?", studentID, courseID).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for student in course %d: %w", courseID, err)
	}
	return submissions, nil
}
