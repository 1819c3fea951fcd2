// Package logging configures runtime JSONL logging output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tanzir71/voice-tray/internal/config"
)

const (
	logFileName = "log.jsonl"
	levelEnv    = "VOICETRAY_LOG_LEVEL"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	closer io.Closer
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New builds a JSONL logger under the voicetray state directory.
func New() (Runtime, error) {
	path, err := resolveLogPath()
	if err != nil {
		return Runtime{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: levelFromEnv()})
	logger := slog.New(h).With("app", "voicetray", "pid", os.Getpid())
	return Runtime{Logger: logger, Path: path, closer: f}, nil
}

// levelFromEnv reads VOICETRAY_LOG_LEVEL (debug, info, warn, error).
func levelFromEnv() slog.Level {
	level := slog.LevelInfo
	raw := os.Getenv(levelEnv)
	if raw == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Discard returns a runtime whose logger drops every record.
func Discard() Runtime {
	return Runtime{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func resolveLogPath() (string, error) {
	dir, err := config.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}
