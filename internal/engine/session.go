// Package engine implements the client-side attempt session: a countdown
// state machine that collects answers, enforces the submission gates and
// hands the finished sheet to an idempotent Submitter.
package engine

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

// Unanswered marks an answer slot the student never touched.
const Unanswered = -1

// Quiz is the session's read-only view of a quiz definition. It deliberately
// omits the answer key; grading happens on the server.
type Quiz struct {
	ID               uint
	Title            string
	TimeLimitSeconds int
	Questions        []Question
}

type Question struct {
	Prompt  string
	Options []string
}

// Answer is one slot of the sheet being filled in.
type Answer struct {
	SelectedOption   int
	TimeSpentSeconds int
}

// Submission is the payload handed to the Submitter. It is built once at the
// first submit trigger and re-sent verbatim on Retry.
type Submission struct {
	QuizID           uint
	Answers          []Answer
	TimeTakenSeconds int
	TimedOut         bool
}

// Result is the authoritative outcome as reported by the server.
// AlreadySubmitted is true when the ledger already held an attempt; the
// session treats that exactly like a fresh success.
type Result struct {
	Score            int
	CorrectAnswers   int
	TotalQuestions   int
	Status           string
	AlreadySubmitted bool
}

// Submitter sends one attempt to the server. Implementations must be
// idempotent: re-sending the same submission returns the recorded result.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*Result, error)
}

// Session is one sitting of one quiz by one student. All inputs are
// event-driven; Tick is the only autonomous one. Methods are safe for use
// from the countdown goroutine alongside the UI goroutine.
type Session struct {
	mu sync.Mutex

	quiz      *Quiz
	submitter Submitter
	now       func() time.Time

	state     State
	answers   []Answer
	current   int
	remaining int
	startedAt time.Time
	enteredAt time.Time

	pending *Submission
	result  *Result
}

type Option func(*Session)

// WithClock overrides the session's time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func NewSession(quiz *Quiz, submitter Submitter, opts ...Option) *Session {
	s := &Session{
		quiz:      quiz,
		submitter: submitter,
		now:       time.Now,
		state:     StateNotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start moves the session into InProgress: seeds one unanswered slot per
// question and arms the countdown. If prior already holds a completed ledger
// record, the session short-circuits straight to Completed with that result.
func (s *Session) Start(prior *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return ErrInvalidTransition
	}
	if s.quiz == nil || len(s.quiz.Questions) == 0 || s.quiz.TimeLimitSeconds <= 0 {
		return ErrInvalidQuizState
	}
	if prior != nil {
		s.result = prior
		s.state = StateCompleted
		return nil
	}

	s.answers = make([]Answer, len(s.quiz.Questions))
	for i := range s.answers {
		s.answers[i].SelectedOption = Unanswered
	}
	s.current = 0
	s.remaining = s.quiz.TimeLimitSeconds
	s.startedAt = s.now()
	s.enteredAt = s.startedAt
	s.state = StateInProgress
	return nil
}

// SelectAnswer records the student's choice for a question. Last write wins;
// re-selecting is allowed any number of times while in progress.
func (s *Session) SelectAnswer(question, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrInvalidTransition
	}
	if question < 0 || question >= len(s.answers) {
		return ErrIndexOutOfRange
	}
	if option < 0 || option >= len(s.quiz.Questions[question].Options) {
		return ErrIndexOutOfRange
	}
	s.accrueTimeLocked(question)
	s.answers[question].SelectedOption = option
	return nil
}

// GoToQuestion jumps to an arbitrary question. Out-of-range targets are
// rejected, never clamped.
func (s *Session) GoToQuestion(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(i)
}

func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(s.current + 1)
}

func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(s.current - 1)
}

func (s *Session) navigateLocked(i int) error {
	if s.state != StateInProgress {
		return ErrInvalidTransition
	}
	if i < 0 || i >= len(s.answers) {
		return ErrIndexOutOfRange
	}
	s.accrueTimeLocked(s.current)
	s.current = i
	s.enteredAt = s.now()
	return nil
}

func (s *Session) accrueTimeLocked(question int) {
	now := s.now()
	spent := int(now.Sub(s.enteredAt) / time.Second)
	if spent > 0 && question >= 0 && question < len(s.answers) {
		s.answers[question].TimeSpentSeconds += spent
		s.enteredAt = now
	}
}

// Submit is the manual trigger. It refuses while any slot is unanswered and
// flips to Submitting before any I/O, so a timer tick racing the click can
// never fire a second submission.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	for _, a := range s.answers {
		if a.SelectedOption == Unanswered {
			s.mu.Unlock()
			return ErrIncompleteAttempt
		}
	}
	sub := s.beginSubmitLocked(false)
	s.mu.Unlock()
	return s.send(ctx, sub)
}

// Tick advances the countdown by one second. At zero it forces submission
// with whatever answers exist, bypassing the completeness check. Ticks
// arriving after the session left InProgress are ignored.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return nil
	}
	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return nil
	}
	s.remaining = 0
	sub := s.beginSubmitLocked(true)
	s.mu.Unlock()
	return s.send(ctx, sub)
}

// Retry re-sends the identical payload after a transport failure. The
// coordinator is idempotent, so duplicates are harmless.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateSubmitting || s.pending == nil {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	sub := *s.pending
	s.mu.Unlock()
	return s.send(ctx, sub)
}

// beginSubmitLocked performs the one-shot InProgress -> Submitting
// transition and freezes the payload. Callers hold the lock and have
// verified state == InProgress.
func (s *Session) beginSubmitLocked(timedOut bool) Submission {
	s.accrueTimeLocked(s.current)
	answers := make([]Answer, len(s.answers))
	copy(answers, s.answers)
	sub := Submission{
		QuizID:           s.quiz.ID,
		Answers:          answers,
		TimeTakenSeconds: int(s.now().Sub(s.startedAt) / time.Second),
		TimedOut:         timedOut,
	}
	s.pending = &sub
	s.state = StateSubmitting
	return sub
}

// send performs the submission I/O outside the lock. A transport error
// leaves the session in Submitting; it never reverts to InProgress.
func (s *Session) send(ctx context.Context, sub Submission) error {
	res, err := s.submitter.Submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.state == StateCompleted {
		return nil
	}
	s.result = res
	s.pending = nil
	s.state = StateCompleted
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the server's outcome once the session is Completed.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Remaining reports the countdown in seconds.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// CurrentQuestion returns the index the student is looking at.
func (s *Session) CurrentQuestion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Answers returns a copy of the sheet as filled in so far.
func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// AnsweredCount reports how many slots have a selection.
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.answers {
		if a.SelectedOption != Unanswered {
			n++
		}
	}
	return n
}
