package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/game"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	assert.Equal(t, "2026-03-01", DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc)))
}

func secretFor(t *testing.T, date time.Time, salt string) int {
	t.Helper()
	s, err := game.New(game.Config{Low: 1, High: 1000, MaxAttempts: 1}, NewSource(date, salt))
	require.NoError(t, err)
	s.SubmitGuess("1")
	return s.State().Secret
}

func TestNewSource_SameDaySameSecret(t *testing.T) {
	morning := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, secretFor(t, morning, "salt"), secretFor(t, evening, "salt"))
}

func TestNewSource_VariesByDayAndSalt(t *testing.T) {
	day := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	secrets := map[int]bool{}
	for i := 0; i < 10; i++ {
		secrets[secretFor(t, day.AddDate(0, 0, i), "salt")] = true
	}
	assert.Greater(t, len(secrets), 1, "ten consecutive days should not share one secret")

	a := NewSource(day, "one").Uint64()
	b := NewSource(day, "two").Uint64()
	assert.NotEqual(t, a, b)
}

func TestStream_FollowsDailySequence(t *testing.T) {
	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	clock := day
	st := NewStream("salt", func() time.Time { return clock })

	ref := NewSource(day, "salt")
	for i := 0; i < 5; i++ {
		assert.Equal(t, ref.IntN(100), st.IntN(100), "draw %d", i)
	}

	clock = day.AddDate(0, 0, 1)
	next := NewSource(clock, "salt")
	assert.Equal(t, next.IntN(100), st.IntN(100), "first draw after midnight reseeds")
}

func TestStream_ConcurrentDraws(t *testing.T) {
	st := NewStream("salt", nil)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				v := st.IntN(10)
				assert.True(t, v >= 0 && v < 10)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
