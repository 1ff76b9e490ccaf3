package validator

// SubmitAttemptRequest is the submission payload. Answer order follows the
// quiz's question order; length must equal the question count, which the
// coordinator checks against the stored quiz.
type SubmitAttemptRequest struct {
	Answers          []AttemptAnswerRequest `json:"answers" validate:"required,min=1,dive"`
	TimeTakenSeconds int                    `json:"time_taken_seconds" validate:"min=0"`
	TimedOut         bool                   `json:"timed_out"`
}

type AttemptAnswerRequest struct {
	SelectedOption   int `json:"selected_option" validate:"selected_option"`
	TimeSpentSeconds int `json:"time_spent_seconds" validate:"min=0"`
}

// QuizCreateRequest creates a quiz with its full question set in one call.
type QuizCreateRequest struct {
	CourseID         uint              `json:"course_id" validate:"required"`
	Title            string            `json:"title" validate:"required,min=1,max=200"`
	Description      *string           `json:"description" validate:"omitempty,max=1000"`
	TimeLimitSeconds int               `json:"time_limit_seconds" validate:"required,min=1"`
	PassingScore     int               `json:"passing_score" validate:"min=0,max=100"`
	Questions        []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type QuestionRequest struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption int      `json:"correct_option" validate:"min=0"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// QuizUpdateRequest carries partial edits; refused once the quiz has any
// recorded attempt.
type QuizUpdateRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	TimeLimitSeconds *int    `json:"time_limit_seconds" validate:"omitempty,min=1"`
	PassingScore     *int    `json:"passing_score" validate:"omitempty,min=0,max=100"`
	IsActive         *bool   `json:"is_active"`
}
