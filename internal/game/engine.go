// internal/game/engine.go
//
// Core game engine for a single guessing session.
// Responsibilities:
//   - Start sessions with a secret drawn from an injected Source.
//   - Classify raw guesses (empty, not a number, out of range) without
//     consuming attempts.
//   - Apply counted guesses and track transitions:
//     ready → in_progress → won/lost.
//
// Notes:
//   - The engine performs no I/O; presentation code renders Outcomes.
//   - A Session is not safe for concurrent use. Callers serialize access.
package game

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Session holds the state of one game from start (or reset) until won/lost.
type Session struct {
	id           string
	cfg          Config
	secret       int
	attemptsUsed int
	attemptsLeft int
	status       Status
}

// New starts a session for cfg, drawing the secret from src.
// A nil src falls back to CryptoSource.
func New(cfg Config, src Source) (*Session, error) {
	s := &Session{}
	if err := s.start(cfg, src); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset abandons the current secret and starts over with cfg.
// It is permitted in every state. On error the session is left untouched.
func (s *Session) Reset(cfg Config, src Source) error {
	return s.start(cfg, src)
}

func (s *Session) start(cfg Config, src Source) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if src == nil {
		src = CryptoSource{}
	}
	id := s.id
	if id == "" {
		id = uuid.NewString()
	}
	*s = Session{
		id:           id,
		cfg:          cfg,
		secret:       draw(src, cfg.Low, cfg.High),
		attemptsLeft: cfg.MaxAttempts,
		status:       StatusReady,
	}
	return nil
}

// SubmitGuess evaluates raw player input and returns the outcome.
//
// Validation order:
//   - Session must not be won or lost (SessionTerminated).
//   - Trimmed input must be non-empty (EmptyInput).
//   - Input must parse as a base-10 integer (NotANumber).
//   - Value must lie inside the configured range (OutOfRange).
//
// None of the above consume an attempt. Anything else is a counted attempt.
func (s *Session) SubmitGuess(raw string) Outcome {
	if s.status.Terminal() {
		return s.outcome(KindSessionTerminated)
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return s.outcome(KindEmptyInput)
	}
	guess, err := strconv.Atoi(text)
	if err != nil {
		return s.outcome(KindNotANumber)
	}
	if !s.cfg.Contains(guess) {
		return s.outcome(KindOutOfRange)
	}

	s.attemptsLeft--
	s.attemptsUsed++

	switch {
	case guess == s.secret:
		s.status = StatusWon
		return s.outcome(KindCorrect)
	case s.attemptsLeft == 0:
		s.status = StatusLost
		o := s.outcome(KindOutOfAttempts)
		o.Secret = s.secret
		return o
	}
	s.status = StatusInProgress
	if guess < s.secret {
		return s.outcome(KindTooLow)
	}
	return s.outcome(KindTooHigh)
}

func (s *Session) outcome(k Kind) Outcome {
	return Outcome{Kind: k, AttemptsLeft: s.attemptsLeft, AttemptsUsed: s.attemptsUsed}
}

// ID returns the session identifier. It survives Reset.
func (s *Session) ID() string { return s.id }

// Config returns the parameters the session was started with.
func (s *Session) Config() Config { return s.cfg }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// AttemptsUsed returns the number of counted guesses so far.
func (s *Session) AttemptsUsed() int { return s.attemptsUsed }

// AttemptsLeft returns the number of counted guesses still available.
func (s *Session) AttemptsLeft() int { return s.attemptsLeft }

// State returns a snapshot suitable for rendering or JSON encoding.
func (s *Session) State() State {
	st := State{
		ID:           s.id,
		Low:          s.cfg.Low,
		High:         s.cfg.High,
		MaxAttempts:  s.cfg.MaxAttempts,
		AttemptsUsed: s.attemptsUsed,
		AttemptsLeft: s.attemptsLeft,
		Status:       s.status,
	}
	if s.status.Terminal() {
		st.Secret = s.secret
	}
	return st
}
