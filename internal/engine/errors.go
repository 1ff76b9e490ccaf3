package engine

import "errors"

var (
	// ErrInvalidQuizState rejects sessions over quizzes that cannot be sat:
	// zero questions or a non-positive time limit.
	ErrInvalidQuizState = errors.New("quiz is not in a runnable state")

	// ErrInvalidTransition rejects an operation in a state that does not
	// accept it, e.g. selecting an answer after submission started.
	ErrInvalidTransition = errors.New("operation not allowed in current session state")

	// ErrIndexOutOfRange rejects question or option indexes outside the quiz.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIncompleteAttempt rejects a manual submit while any answer slot is
	// still unanswered. Timeout submission bypasses this check.
	ErrIncompleteAttempt = errors.New("attempt has unanswered questions")
)
