// internal/highscore/store.go
//
// Durable best-score bookkeeping.
// Responsibilities:
//   - Load the recorded best once at startup, degrading every failure to
//     "no record" (logged, never returned).
//   - Replace the best when a strictly lower attempt count arrives, persisting
//     it through a Backend before reporting it.
//   - Keep the in-memory best authoritative for the process lifetime even
//     when the Backend write fails.

package highscore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoRecord is returned by a Backend that holds no best score yet.
	ErrNoRecord = errors.New("no high score recorded")
	// ErrMalformed is returned by a Backend whose stored value is unusable.
	ErrMalformed = errors.New("malformed high score record")
	// ErrNotPersisted wraps a Backend write failure in SaveIfBetter. The
	// accompanying Result is still valid.
	ErrNotPersisted = errors.New("high score not persisted")
	// ErrInvalidCandidate is returned for candidates below one attempt.
	ErrInvalidCandidate = errors.New("invalid high score candidate")
)

// Backend is the durable side of the store.
type Backend interface {
	// Read returns the stored best, ErrNoRecord or ErrMalformed.
	Read(ctx context.Context) (int, error)
	// Write replaces the stored best.
	Write(ctx context.Context, attempts int) error
	Close() error
}

// Best is a best score that may be absent.
type Best struct {
	Attempts int  `json:"attempts,omitempty"`
	Set      bool `json:"set"`
}

// BestOf wraps a recorded attempt count.
func BestOf(attempts int) Best { return Best{Attempts: attempts, Set: true} }

// Beats reports whether candidate improves on b.
func (b Best) Beats(candidate int) bool {
	return !b.Set || candidate < b.Attempts
}

// String renders "--" for an absent best, never a number.
func (b Best) String() string {
	if !b.Set {
		return "--"
	}
	if b.Attempts == 1 {
		return "1 attempt"
	}
	return strconv.Itoa(b.Attempts) + " attempts"
}

// Result reports what SaveIfBetter did.
type Result struct {
	Updated bool `json:"updated"`
	Best    Best `json:"best"`
}

// Store guards the in-memory best and its Backend. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	best    Best
}

// New wraps backend. Call Load before serving players.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load reads the durable record. Missing or malformed records load as absent.
func (s *Store) Load(ctx context.Context) Best {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoRecord):
		log.Debug().Msg("no high score recorded yet")
		s.best = Best{}
	case err != nil:
		log.Warn().Err(err).Msg("high score unreadable, starting without one")
		s.best = Best{}
	default:
		s.best = BestOf(n)
	}
	return s.best
}

// Best returns the current in-memory best.
func (s *Store) Best() Best {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// SaveIfBetter records candidate when it beats the current best.
//
// A non-nil error wrapping ErrNotPersisted means the new best lives in memory
// only; the returned Result is still accurate and callers should treat the
// error as a warning.
func (s *Store) SaveIfBetter(ctx context.Context, candidate int) (Result, error) {
	if candidate < 1 {
		return Result{Best: s.Best()}, fmt.Errorf("%w: %d", ErrInvalidCandidate, candidate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.best.Beats(candidate) {
		return Result{Updated: false, Best: s.best}, nil
	}

	s.best = BestOf(candidate)
	res := Result{Updated: true, Best: s.best}
	if err := s.backend.Write(ctx, candidate); err != nil {
		return res, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	log.Info().Int("attempts", candidate).Msg("new high score")
	return res, nil
}

// Close releases the Backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
