// Package daily derives a deterministic secret sequence from the calendar
// date, so a server restarted during the day replays the same numbers.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NewSource returns a PRNG seeded from HMAC-SHA256(salt, DateKey(date)).
// The result satisfies game.Source.
func NewSource(date time.Time, salt string) *rand.Rand {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}

// Stream is a game.Source shared by every session started on one server.
// All draws on a given UTC day come from that day's NewSource sequence, so
// a new game or a reset continues the sequence instead of replaying the
// day's first secret. Safe for concurrent use.
type Stream struct {
	mu   sync.Mutex
	salt string
	now  func() time.Time
	key  string
	rng  *rand.Rand
}

// NewStream returns a Stream for salt. A nil now uses time.Now.
func NewStream(salt string, now func() time.Time) *Stream {
	if now == nil {
		now = time.Now
	}
	return &Stream{salt: salt, now: now}
}

// IntN draws the next value of today's sequence, reseeding when the UTC
// date changes.
func (s *Stream) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now()
	if k := DateKey(t); k != s.key || s.rng == nil {
		s.key = k
		s.rng = NewSource(t, s.salt)
	}
	return s.rng.IntN(n)
}
