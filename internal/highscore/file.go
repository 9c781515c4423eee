package highscore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileBackend keeps the best score as a single decimal integer in a text
// file, e.g. "7" or "7\n". The file is rewritten in full on every Write.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for path. The file need not exist yet.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file location.
func (f *FileBackend) Path() string { return f.path }

// Read parses the stored value.
func (f *FileBackend) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNoRecord
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", f.path, err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return 0, ErrNoRecord
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q in %s", ErrMalformed, text, f.path)
	}
	return n, nil
}

// Write replaces the file contents with attempts.
func (f *FileBackend) Write(ctx context.Context, attempts int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, []byte(strconv.Itoa(attempts)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op; every operation opens and releases the file itself.
func (f *FileBackend) Close() error { return nil }
