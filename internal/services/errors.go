package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes at the handler layer.
var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizHasAttempts = errors.New("quiz has recorded attempts and cannot be modified")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrCourseNotFound  = errors.New("course not found")

	// ErrMalformedSubmission covers structural failures: answer count not
	// matching the question count, or an option index outside the question.
	ErrMalformedSubmission = errors.New("submission does not match quiz structure")
)

// PermissionError carries enough context to audit a denied action.
type PermissionError struct {
	UserID   string
	Resource string
	ID       uint
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userID string, id uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		ID:       id,
		Action:   action,
		Reason:   reason,
	}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
