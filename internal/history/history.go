// Package history persists the recency-dedup window between invocations.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tanzir71/voice-tray/internal/transcript"
)

type fileFormat struct {
	Entries []string `json:"entries"`
}

// Load reads persisted entries. Missing files yield no entries; unreadable or
// corrupt files yield no entries plus a warning so a bad state file never
// blocks dictation.
func Load(path string) ([]string, string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read history %q: %w", path, err)
	}

	var stored fileFormat
	if err := json.Unmarshal(content, &stored); err != nil {
		return nil, fmt.Sprintf("history %q is corrupt; starting fresh: %v", path, err), nil
	}
	return stored.Entries, "", nil
}

// Save writes entries atomically with 0600 permissions.
func Save(path string, h *transcript.History) error {
	entries := h.Entries()
	if entries == nil {
		entries = []string{}
	}
	payload, err := json.MarshalIndent(fileFormat{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace history %q: %w", path, err)
	}
	return nil
}
