package config

import (
	"fmt"
	"strings"
)

const maxCaptureMS = 60000

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Hotkeys.Speech) == "" {
		return nil, fmt.Errorf("hotkeys.speech must not be empty")
	}
	if strings.TrimSpace(cfg.Hotkeys.Save) == "" {
		return nil, fmt.Errorf("hotkeys.save must not be empty")
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Hotkeys.Speech), strings.TrimSpace(cfg.Hotkeys.Save)) {
		warnings = append(warnings, Warning{Message: "hotkeys.speech and hotkeys.save are the same key"})
	}

	if cfg.Audio.MaxDurationMS <= 0 {
		return nil, fmt.Errorf("audio.max_duration_ms must be > 0")
	}
	if cfg.Audio.MaxDurationMS > maxCaptureMS {
		return nil, fmt.Errorf("audio.max_duration_ms must be <= %d", maxCaptureMS)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Recognizer.Backend)) {
	case BackendOpenAI:
		if strings.TrimSpace(cfg.Recognizer.Model) == "" {
			return nil, fmt.Errorf("recognizer.model must not be empty when recognizer.backend=openai")
		}
		if strings.TrimSpace(cfg.Recognizer.APIKeyEnv) == "" {
			return nil, fmt.Errorf("recognizer.api_key_env must not be empty when recognizer.backend=openai")
		}
	case BackendCommand:
		if len(cfg.Recognizer.Command.Argv) == 0 {
			return nil, fmt.Errorf("recognizer.command must not be empty when recognizer.backend=command")
		}
	case "":
		return nil, fmt.Errorf("recognizer.backend must not be empty")
	default:
		return nil, fmt.Errorf("recognizer.backend must be one of: %s, %s", BackendOpenAI, BackendCommand)
	}
	if cfg.Recognizer.TimeoutMS <= 0 {
		return nil, fmt.Errorf("recognizer.timeout_ms must be > 0")
	}

	if cfg.Transcript.HistorySize <= 0 {
		return nil, fmt.Errorf("transcript.history_size must be > 0")
	}
	if cfg.Transcript.SimilarityThreshold <= 0 || cfg.Transcript.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("transcript.similarity_threshold must be in (0, 1]")
	}

	if len(cfg.Output.TypeCmd.Argv) == 0 && len(cfg.Output.ClipboardCmd.Argv) == 0 {
		return nil, fmt.Errorf("output.type_cmd or output.clipboard_cmd must be set")
	}

	if cfg.Indicator.NotificationDuration < 0 {
		return nil, fmt.Errorf("indicator.notification_duration must be >= 0")
	}
	if cfg.Indicator.Enable && strings.TrimSpace(cfg.Indicator.AppName) == "" {
		return nil, fmt.Errorf("indicator.app_name must not be empty when indicator.enable=true")
	}

	return warnings, nil
}
