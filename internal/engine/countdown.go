package engine

import (
	"context"
	"log/slog"
	"time"
)

// Countdown drives a session's ticks at 1 Hz so the transition logic in
// Session stays free of timer plumbing.
type Countdown struct {
	session  *Session
	interval time.Duration
	logger   *slog.Logger
}

func NewCountdown(session *Session, logger *slog.Logger) *Countdown {
	return &Countdown{
		session:  session,
		interval: time.Second,
		logger:   logger,
	}
}

// Run ticks the session once per second until it leaves InProgress or the
// context is cancelled. A failed timed-out submission is logged; the session
// stays in Submitting and the owner drives Retry.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.session.Tick(ctx); err != nil {
				c.logger.ErrorContext(ctx, "Timed-out submission failed, session held for retry",
					"error", err,
					"quiz_id", c.session.quiz.ID)
			}
			if st := c.session.State(); st != StateInProgress {
				return
			}
		}
	}
}
