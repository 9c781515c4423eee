package highscore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory Backend with switchable failures.
type memBackend struct {
	value    int
	set      bool
	readErr  error
	writeErr error
	writes   []int
}

func (m *memBackend) Read(context.Context) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if !m.set {
		return 0, ErrNoRecord
	}
	return m.value, nil
}

func (m *memBackend) Write(_ context.Context, attempts int) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.value, m.set = attempts, true
	m.writes = append(m.writes, attempts)
	return nil
}

func (m *memBackend) Close() error { return nil }

func TestSaveIfBetter_Sequence(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{}
	s := New(b)
	require.False(t, s.Load(ctx).Set)

	res, err := s.SaveIfBetter(ctx, 7)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, BestOf(7), res.Best)

	res, err = s.SaveIfBetter(ctx, 9)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, BestOf(7), res.Best)

	res, err = s.SaveIfBetter(ctx, 5)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, BestOf(5), res.Best)

	assert.Equal(t, []int{7, 5}, b.writes)
}

func TestSaveIfBetter_EqualIsNotBetter(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{value: 4, set: true}
	s := New(b)
	s.Load(ctx)

	res, err := s.SaveIfBetter(ctx, 4)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Empty(t, b.writes)
}

func TestSaveIfBetter_InvalidCandidate(t *testing.T) {
	ctx := context.Background()
	s := New(&memBackend{})
	s.Load(ctx)

	for _, c := range []int{0, -1} {
		res, err := s.SaveIfBetter(ctx, c)
		assert.ErrorIs(t, err, ErrInvalidCandidate)
		assert.False(t, res.Updated)
		assert.False(t, s.Best().Set)
	}
}

func TestSaveIfBetter_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := New(&memBackend{writeErr: boom})
	s.Load(ctx)

	res, err := s.SaveIfBetter(ctx, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, boom)
	assert.True(t, res.Updated)
	assert.Equal(t, BestOf(6), res.Best)
	assert.Equal(t, BestOf(6), s.Best())

	res, err = s.SaveIfBetter(ctx, 8)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, BestOf(6), res.Best)
}

func TestLoad_FailuresAreAbsent(t *testing.T) {
	tests := []struct {
		name string
		b    *memBackend
	}{
		{name: "no record", b: &memBackend{}},
		{name: "malformed", b: &memBackend{readErr: ErrMalformed}},
		{name: "io error", b: &memBackend{readErr: errors.New("permission denied")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.b)
			assert.Equal(t, Best{}, s.Load(context.Background()))
			assert.Equal(t, "--", s.Best().String())
		})
	}
}

func TestBestString(t *testing.T) {
	assert.Equal(t, "--", Best{}.String())
	assert.Equal(t, "1 attempt", BestOf(1).String())
	assert.Equal(t, "12 attempts", BestOf(12).String())
}

func TestFileBackend_LoadCases(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    Best
	}{
		{name: "missing file", content: nil, want: Best{}},
		{name: "empty file", content: ptr(""), want: Best{}},
		{name: "plain", content: ptr("7"), want: BestOf(7)},
		{name: "surrounding whitespace", content: ptr("  4 \n"), want: BestOf(4)},
		{name: "not numeric", content: ptr("seven"), want: Best{}},
		{name: "two numbers", content: ptr("3\n4\n"), want: Best{}},
		{name: "zero", content: ptr("0"), want: Best{}},
		{name: "negative", content: ptr("-2"), want: Best{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "highscore.txt")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			s := New(NewFileBackend(path))
			assert.Equal(t, tt.want, s.Load(context.Background()))
		})
	}
}

func TestFileBackend_PersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "highscore.txt")

	first := New(NewFileBackend(path))
	first.Load(ctx)
	_, err := first.SaveIfBetter(ctx, 9)
	require.NoError(t, err)
	_, err = first.SaveIfBetter(ctx, 3)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))

	second := New(NewFileBackend(path))
	assert.Equal(t, BestOf(3), second.Load(ctx))
}

func TestFileBackend_UnwritableIsWarning(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	// A directory where the file should be makes every write fail.
	path := filepath.Join(dir, "highscore.txt")
	require.NoError(t, os.Mkdir(path, 0o755))

	s := New(NewFileBackend(path))
	assert.False(t, s.Load(ctx).Set)

	res, err := s.SaveIfBetter(ctx, 5)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.True(t, res.Updated)
	assert.Equal(t, BestOf(5), s.Best())
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "data", "numguess.db")

	b, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	s := New(b)
	assert.False(t, s.Load(ctx).Set)

	res, err := s.SaveIfBetter(ctx, 8)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	res, err = s.SaveIfBetter(ctx, 6)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	require.NoError(t, s.Close())

	// Reopening re-runs migrations idempotently and sees the stored value.
	b, err = OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, BestOf(6), New(b).Load(ctx))
}

func ptr(s string) *string { return &s }
