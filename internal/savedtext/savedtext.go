// Package savedtext appends accepted transcripts to the user's saved-texts log.
package savedtext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Header is written at the top of a newly created saved-texts file.
const Header = "# SAVED TEXTS (entries appear below this line):\n\n"

const timestampLayout = "2006-01-02 15:04:05"

// EnsureFile creates the saved-texts file with its header when it does not exist.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat saved texts %q: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create saved texts dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Header), 0o600); err != nil {
		return false, fmt.Errorf("write saved texts %q: %w", path, err)
	}
	return true, nil
}

// Log is a session committer that appends one timestamped line per transcript.
type Log struct {
	Path string
	Now  func() time.Time

	mu sync.Mutex
}

// New returns a Log writing to path with the wall clock.
func New(path string) *Log {
	return &Log{Path: path, Now: time.Now}
}

// Format renders one saved-texts entry, newline included.
func Format(at time.Time, text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	return fmt.Sprintf("[%s] speech_recognition: %s\n", at.Format(timestampLayout), text)
}

// Commit appends text to the log, creating the file with its header if needed.
func (l *Log) Commit(_ context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := EnsureFile(l.Path); err != nil {
		return err
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	file, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open saved texts %q: %w", l.Path, err)
	}
	if _, err := file.WriteString(Format(now(), text)); err != nil {
		_ = file.Close()
		return fmt.Errorf("append saved text: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close saved texts %q: %w", l.Path, err)
	}
	return nil
}
