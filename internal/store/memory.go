// internal/store/memory.go
//
// In-memory session store used by the HTTP front end.
//
// Characteristics:
//   - Stores *game.Session values keyed by Session.ID().
//   - Update runs the caller's mutation under the write lock, which is how
//     concurrent requests for one session are serialized.
//   - Tracks last access (reads and updates) so idle sessions can be pruned.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/numguess/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get returns the session state for id and refreshes its last access.
	Get(ctx context.Context, id string) (game.State, error)

	// Update runs fn against the stored session with exclusive access.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Prune drops sessions not accessed since cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) int
}

type entry struct {
	session    *game.Session
	lastAccess time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = &entry{session: s, lastAccess: m.now()}
	return nil
}

// Get counts as activity, so a client that only polls is not pruned.
func (m *memory) Get(ctx context.Context, id string) (game.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return game.State{}, ErrNotFound
	}
	e.lastAccess = m.now()
	return e.session.State(), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.lastAccess = m.now()
	return fn(e.session)
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
