package health

import "time"

// =============================================================================
// Session
// =============================================================================

// Session tracks the budgets of one polling loop: the number of attempts made
// against the retry bound, and the elapsed time against the timeout.
// A Session is created per run and discarded when the run ends.
type Session struct {
	MaxRetries int
	Timeout    time.Duration
	Start      time.Time
	Attempts   int
}

// NewSession starts a session at the given time.
func NewSession(s Settings, start time.Time) *Session {
	retries := s.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &Session{
		MaxRetries: retries,
		Timeout:    s.Timeout,
		Start:      start,
	}
}

// Next records a new attempt and returns its 1-based number.
// Returns 0 when the retry budget is spent.
func (s *Session) Next() int {
	if s.Attempts >= s.MaxRetries {
		return 0
	}
	s.Attempts++
	return s.Attempts
}

// HasRemaining reports whether another attempt is allowed.
func (s *Session) HasRemaining() bool {
	return s.Attempts < s.MaxRetries
}

// Elapsed returns the wall-clock time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Start)
}

// Expired reports whether the elapsed time has reached the timeout.
// Timeout takes precedence over remaining attempts.
func (s *Session) Expired(now time.Time) bool {
	return s.Elapsed(now) >= s.Timeout
}
