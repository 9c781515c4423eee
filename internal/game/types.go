// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Config:  guess range and attempt budget for a session.
//   - Status:  lifecycle of a session (ready/in_progress/won/lost).
//   - Kind:    tag of a guess outcome.
//   - Outcome: tagged result of a single SubmitGuess call.
//   - State:   read-only snapshot handed to presentation code.

package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config cannot describe a playable session.
var ErrInvalidConfig = errors.New("invalid game config")

// Config holds the externally supplied session parameters.
type Config struct {
	Low         int // Smallest guessable value (inclusive).
	High        int // Largest guessable value (inclusive).
	MaxAttempts int // Counted guesses allowed per session.
}

// DefaultConfig is the classic 1..100 range with 10 attempts.
func DefaultConfig() Config {
	return Config{Low: 1, High: 100, MaxAttempts: 10}
}

// Validate reports whether the range is positive and ordered and the
// attempt budget is at least one.
func (c Config) Validate() error {
	switch {
	case c.Low < 1:
		return fmt.Errorf("%w: low bound %d must be positive", ErrInvalidConfig, c.Low)
	case c.High < c.Low:
		return fmt.Errorf("%w: high bound %d below low bound %d", ErrInvalidConfig, c.High, c.Low)
	case c.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts %d must be positive", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// Contains reports whether v lies inside [Low, High].
func (c Config) Contains(v int) bool {
	return v >= c.Low && v <= c.High
}

// Status is the lifecycle state of a Session.
type Status string

const (
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Kind tags an Outcome.
type Kind string

const (
	KindEmptyInput        Kind = "empty_input"
	KindNotANumber        Kind = "not_a_number"
	KindOutOfRange        Kind = "out_of_range"
	KindTooLow            Kind = "too_low"
	KindTooHigh           Kind = "too_high"
	KindCorrect           Kind = "correct"
	KindOutOfAttempts     Kind = "out_of_attempts"
	KindSessionTerminated Kind = "session_terminated"
)

// Outcome is the result of one SubmitGuess call.
//
// Field use per kind:
//   - TooLow/TooHigh: AttemptsLeft.
//   - Correct:        AttemptsUsed.
//   - OutOfAttempts:  Secret.
//
// AttemptsLeft and AttemptsUsed always mirror the session counters after the
// call so callers can render them without a second lookup.
type Outcome struct {
	Kind         Kind `json:"kind"`
	AttemptsLeft int  `json:"attemptsLeft"`
	AttemptsUsed int  `json:"attemptsUsed"`
	Secret       int  `json:"secret,omitempty"`
}

// Counted reports whether the outcome consumed an attempt.
func (o Outcome) Counted() bool {
	switch o.Kind {
	case KindTooLow, KindTooHigh, KindCorrect, KindOutOfAttempts:
		return true
	}
	return false
}

// Terminal reports whether the outcome ended the session.
func (o Outcome) Terminal() bool {
	return o.Kind == KindCorrect || o.Kind == KindOutOfAttempts
}

// State is a snapshot of a Session.
// Secret is only populated once the session has ended.
type State struct {
	ID           string `json:"id"`
	Low          int    `json:"low"`
	High         int    `json:"high"`
	MaxAttempts  int    `json:"maxAttempts"`
	AttemptsUsed int    `json:"attemptsUsed"`
	AttemptsLeft int    `json:"attemptsLeft"`
	Status       Status `json:"status"`
	Secret       int    `json:"secret,omitempty"`
}
