// Package snippets loads the user's trigger = expansion table.
package snippets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

// Header is written at the top of a newly created snippets file.
const Header = "# YOUR SNIPPETS (add below this line):\n\n"

// Parse reads `trigger = expansion` lines. Triggers are lower-cased and the
// last definition of a trigger wins.
func Parse(content string) (transcript.SnippetTable, []config.Warning) {
	table := make(transcript.SnippetTable)
	var warnings []config.Warning
	definedAt := make(map[string]int)

	for idx, rawLine := range strings.Split(content, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		trigger, expansion, ok := strings.Cut(line, "=")
		if !ok {
			warnings = append(warnings, config.Warning{Line: lineNo, Message: "ignoring line without '='"})
			continue
		}
		trigger = strings.ToLower(strings.TrimSpace(trigger))
		if trigger == "" {
			warnings = append(warnings, config.Warning{Line: lineNo, Message: "ignoring snippet with empty trigger"})
			continue
		}

		if prev, seen := definedAt[trigger]; seen {
			warnings = append(warnings, config.Warning{
				Line:    lineNo,
				Message: fmt.Sprintf("snippet %q redefined (previous definition on line %d)", trigger, prev),
			})
		}
		definedAt[trigger] = lineNo
		table[trigger] = strings.TrimSpace(expansion)
	}

	return table, warnings
}

// Load parses the snippets file at path. A missing file yields an empty table.
func Load(path string) (transcript.SnippetTable, []config.Warning, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return transcript.SnippetTable{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read snippets %q: %w", path, err)
	}

	table, warnings := Parse(string(content))
	return table, warnings, nil
}

// EnsureFile creates the snippets file with its header when it does not exist.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat snippets %q: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create snippets dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Header), 0o600); err != nil {
		return false, fmt.Errorf("write snippets %q: %w", path, err)
	}
	return true, nil
}
