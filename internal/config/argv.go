package config

import (
	"fmt"
	"strings"
	"unicode"
)

// argvScanner splits a shell-like command string into words.
type argvScanner struct {
	words   []string
	current strings.Builder
	started bool
}

func (s *argvScanner) flush() {
	if !s.started {
		return
	}
	s.words = append(s.words, s.current.String())
	s.current.Reset()
	s.started = false
}

func (s *argvScanner) write(r rune) {
	s.current.WriteRune(r)
	s.started = true
}

// parseArgv supports single/double quotes and backslash escapes; no expansion.
func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	var (
		s      argvScanner
		quote  rune
		escape bool
	)
	for _, r := range input {
		if escape {
			s.write(r)
			escape = false
			continue
		}
		switch {
		case r == '\\' && quote != '\'':
			escape = true
		case quote != 0 && r == quote:
			quote = 0
			s.started = true
		case quote != 0:
			s.write(r)
		case r == '\'' || r == '"':
			quote = r
			s.started = true
		case unicode.IsSpace(r):
			s.flush()
		default:
			s.write(r)
		}
	}

	if escape {
		return nil, fmt.Errorf("unterminated escape sequence in command: %q", input)
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in command: %q", input)
	}
	s.flush()
	return s.words, nil
}

func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(err)
	}
	return argv
}

func parseCommand(key string, raw string) (CommandConfig, error) {
	argv, err := parseArgv(raw)
	if err != nil {
		return CommandConfig{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return CommandConfig{Raw: raw, Argv: argv}, nil
}
