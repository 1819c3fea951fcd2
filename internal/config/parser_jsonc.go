package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Hotkeys    *jsoncHotkeys    `json:"hotkeys"`
	Audio      *jsoncAudio      `json:"audio"`
	Recognizer *jsoncRecognizer `json:"recognizer"`
	Transcript *jsoncTranscript `json:"transcript"`
	Files      *jsoncFiles      `json:"files"`
	Output     *jsoncOutput     `json:"output"`
	Indicator  *jsoncIndicator  `json:"indicator"`
	Debug      *jsoncDebug      `json:"debug"`
}

type jsoncHotkeys struct {
	Speech *string `json:"speech"`
	Save   *string `json:"save"`
}

type jsoncAudio struct {
	Input         *string `json:"input"`
	Fallback      *string `json:"fallback"`
	MaxDurationMS *int    `json:"max_duration_ms"`
}

type jsoncRecognizer struct {
	Backend    *string `json:"backend"`
	Model      *string `json:"model"`
	Language   *string `json:"language"`
	BaseURL    *string `json:"base_url"`
	APIKeyEnv  *string `json:"api_key_env"`
	Command    *string `json:"command"`
	TimeoutMS  *int    `json:"timeout_ms"`
	HealthGRPC *string `json:"health_grpc"`
}

type jsoncTranscript struct {
	HistorySize         *int     `json:"history_size"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	TrailingSpace       *bool    `json:"trailing_space"`
}

type jsoncFiles struct {
	Snippets   *string `json:"snippets"`
	SavedTexts *string `json:"saved_texts"`
	History    *string `json:"history"`
}

type jsoncOutput struct {
	TypeCmd      *string `json:"type_cmd"`
	ClipboardCmd *string `json:"clipboard_cmd"`
}

type jsoncIndicator struct {
	Enable               *bool   `json:"enable"`
	AppName              *string `json:"app_name"`
	NotificationDuration *int    `json:"notification_duration"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func assignCommand(key string, dst *CommandConfig, src *string) error {
	if src == nil {
		return nil
	}
	command, err := parseCommand(key, *src)
	if err != nil {
		return err
	}
	*dst = command
	return nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if h := payload.Hotkeys; h != nil {
		assignTrimmed(&cfg.Hotkeys.Speech, h.Speech)
		assignTrimmed(&cfg.Hotkeys.Save, h.Save)
	}

	if a := payload.Audio; a != nil {
		assign(&cfg.Audio.Input, a.Input)
		assign(&cfg.Audio.Fallback, a.Fallback)
		assign(&cfg.Audio.MaxDurationMS, a.MaxDurationMS)
	}

	if r := payload.Recognizer; r != nil {
		assignTrimmed(&cfg.Recognizer.Backend, r.Backend)
		assignTrimmed(&cfg.Recognizer.Model, r.Model)
		assignTrimmed(&cfg.Recognizer.Language, r.Language)
		assignTrimmed(&cfg.Recognizer.BaseURL, r.BaseURL)
		assignTrimmed(&cfg.Recognizer.APIKeyEnv, r.APIKeyEnv)
		assign(&cfg.Recognizer.TimeoutMS, r.TimeoutMS)
		assignTrimmed(&cfg.Recognizer.HealthGRPC, r.HealthGRPC)
		if err := assignCommand("recognizer.command", &cfg.Recognizer.Command, r.Command); err != nil {
			return err
		}
	}

	if t := payload.Transcript; t != nil {
		assign(&cfg.Transcript.HistorySize, t.HistorySize)
		assign(&cfg.Transcript.SimilarityThreshold, t.SimilarityThreshold)
		assign(&cfg.Transcript.TrailingSpace, t.TrailingSpace)
	}

	if f := payload.Files; f != nil {
		assignTrimmed(&cfg.Files.Snippets, f.Snippets)
		assignTrimmed(&cfg.Files.SavedTexts, f.SavedTexts)
		assignTrimmed(&cfg.Files.History, f.History)
	}

	if o := payload.Output; o != nil {
		if err := assignCommand("output.type_cmd", &cfg.Output.TypeCmd, o.TypeCmd); err != nil {
			return err
		}
		if err := assignCommand("output.clipboard_cmd", &cfg.Output.ClipboardCmd, o.ClipboardCmd); err != nil {
			return err
		}
	}

	if i := payload.Indicator; i != nil {
		assign(&cfg.Indicator.Enable, i.Enable)
		assignTrimmed(&cfg.Indicator.AppName, i.AppName)
		assign(&cfg.Indicator.NotificationDuration, i.NotificationDuration)
	}

	if d := payload.Debug; d != nil {
		assign(&cfg.Debug.EnableAudioDump, d.AudioDump)
	}

	return nil
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64 = -1

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset < 0 {
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

// offsetToLineCol maps the decoder's byte offset (one past the failing byte) to 1-based line/column.
func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}
	limit := min(int(offset), len(content))

	prefix := content[:max(limit-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
