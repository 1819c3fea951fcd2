package config

import (
	"fmt"
	"strconv"
	"strings"
)

type legacySetter func(cfg *Config, value string) ([]string, error)

// legacyKeys maps settings.txt keys to setters. The first four keys are the
// original settings file names; dotted keys mirror the JSONC layout.
var legacyKeys = map[string]legacySetter{
	"speech_hotkey": stringSetter(func(c *Config) *string { return &c.Hotkeys.Speech }),
	"save_hotkey":   stringSetter(func(c *Config) *string { return &c.Hotkeys.Save }),
	"auto_start_listening": func(_ *Config, value string) ([]string, error) {
		if _, err := strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return []string{"auto_start_listening has no effect; bind hotkeys in your desktop to `voicetray type` and `voicetray save`"}, nil
	},
	"notification_duration": intSetter(func(c *Config) *int { return &c.Indicator.NotificationDuration }),

	"hotkeys.speech":                  stringSetter(func(c *Config) *string { return &c.Hotkeys.Speech }),
	"hotkeys.save":                    stringSetter(func(c *Config) *string { return &c.Hotkeys.Save }),
	"audio.input":                     stringSetter(func(c *Config) *string { return &c.Audio.Input }),
	"audio.fallback":                  stringSetter(func(c *Config) *string { return &c.Audio.Fallback }),
	"audio.max_duration_ms":           intSetter(func(c *Config) *int { return &c.Audio.MaxDurationMS }),
	"recognizer.backend":              stringSetter(func(c *Config) *string { return &c.Recognizer.Backend }),
	"recognizer.model":                stringSetter(func(c *Config) *string { return &c.Recognizer.Model }),
	"recognizer.language":             stringSetter(func(c *Config) *string { return &c.Recognizer.Language }),
	"recognizer.base_url":             stringSetter(func(c *Config) *string { return &c.Recognizer.BaseURL }),
	"recognizer.api_key_env":          stringSetter(func(c *Config) *string { return &c.Recognizer.APIKeyEnv }),
	"recognizer.command":              commandSetter(func(c *Config) *CommandConfig { return &c.Recognizer.Command }),
	"recognizer.timeout_ms":           intSetter(func(c *Config) *int { return &c.Recognizer.TimeoutMS }),
	"recognizer.health_grpc":          stringSetter(func(c *Config) *string { return &c.Recognizer.HealthGRPC }),
	"transcript.history_size":         intSetter(func(c *Config) *int { return &c.Transcript.HistorySize }),
	"transcript.similarity_threshold": floatSetter(func(c *Config) *float64 { return &c.Transcript.SimilarityThreshold }),
	"transcript.trailing_space":       boolSetter(func(c *Config) *bool { return &c.Transcript.TrailingSpace }),
	"files.snippets":                  stringSetter(func(c *Config) *string { return &c.Files.Snippets }),
	"files.saved_texts":               stringSetter(func(c *Config) *string { return &c.Files.SavedTexts }),
	"files.history":                   stringSetter(func(c *Config) *string { return &c.Files.History }),
	"output.type_cmd":                 commandSetter(func(c *Config) *CommandConfig { return &c.Output.TypeCmd }),
	"output.clipboard_cmd":            commandSetter(func(c *Config) *CommandConfig { return &c.Output.ClipboardCmd }),
	"indicator.enable":                boolSetter(func(c *Config) *bool { return &c.Indicator.Enable }),
	"indicator.app_name":              stringSetter(func(c *Config) *string { return &c.Indicator.AppName }),
	"indicator.notification_duration": intSetter(func(c *Config) *int { return &c.Indicator.NotificationDuration }),
	"debug.audio_dump":                boolSetter(func(c *Config) *bool { return &c.Debug.EnableAudioDump }),
}

func parseLegacy(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for idx, rawLine := range strings.Split(content, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, nil, fmt.Errorf("line %d: expected key = value", lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))

		setter, known := legacyKeys[key]
		if !known {
			return Config{}, nil, fmt.Errorf("line %d: unknown key %q", lineNo, key)
		}

		value, err := unquoteLegacyValue(strings.TrimSpace(rawValue))
		if err != nil {
			return Config{}, nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}

		messages, err := setter(&cfg, value)
		if err != nil {
			return Config{}, nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
		for _, message := range messages {
			warnings = append(warnings, Warning{Line: lineNo, Message: message})
		}
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, append(warnings, validatedWarnings...), nil
}

func unquoteLegacyValue(value string) (string, error) {
	if value == "" {
		return value, nil
	}
	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", fmt.Errorf("missing closing double quote")
		}
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return "", fmt.Errorf("invalid quoted string: %w", err)
		}
		return unquoted, nil
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", fmt.Errorf("missing closing single quote")
		}
		return value[1 : len(value)-1], nil
	default:
		return value, nil
	}
}

func stringSetter(field func(*Config) *string) legacySetter {
	return func(cfg *Config, value string) ([]string, error) {
		*field(cfg) = value
		return nil, nil
	}
}

func boolSetter(field func(*Config) *bool) legacySetter {
	return func(cfg *Config, value string) ([]string, error) {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		*field(cfg) = parsed
		return nil, nil
	}
}

func intSetter(field func(*Config) *int) legacySetter {
	return func(cfg *Config, value string) ([]string, error) {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", value)
		}
		*field(cfg) = parsed
		return nil, nil
	}
}

func floatSetter(field func(*Config) *float64) legacySetter {
	return func(cfg *Config, value string) ([]string, error) {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got %q", value)
		}
		*field(cfg) = parsed
		return nil, nil
	}
}

func commandSetter(field func(*Config) *CommandConfig) legacySetter {
	return func(cfg *Config, value string) ([]string, error) {
		argv, err := parseArgv(value)
		if err != nil {
			return nil, err
		}
		*field(cfg) = CommandConfig{Raw: value, Argv: argv}
		return nil, nil
	}
}
