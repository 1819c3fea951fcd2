// Package recognize turns captured WAV audio into raw transcript text.
//
// Two backends are supported:
//   - openai: the Whisper transcription API, or any server speaking it.
//   - command: a local engine (whisper.cpp, vosk) run as a subprocess that
//     reads WAV on stdin and prints the transcript on stdout.
package recognize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tanzir71/voice-tray/internal/config"
)

// ErrNoSpeech means the backend returned no usable text.
var ErrNoSpeech = errors.New("no speech recognized")

const blankAudioToken = "[BLANK_AUDIO]"

// Recognizer transcribes one WAV clip.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

// New selects the backend named by cfg.Recognizer.Backend.
func New(cfg config.Config, logger *slog.Logger) (Recognizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Recognizer.Backend)) {
	case config.BackendOpenAI:
		return NewOpenAI(cfg.Recognizer, logger)
	case config.BackendCommand:
		return NewCommand(cfg.Recognizer, logger)
	default:
		return nil, fmt.Errorf("unsupported recognizer backend %q", cfg.Recognizer.Backend)
	}
}

// cleanTranscript trims backend output and maps blank results to ErrNoSpeech.
func cleanTranscript(raw string) (string, error) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" || strings.EqualFold(text, blankAudioToken) {
		return "", ErrNoSpeech
	}
	return text, nil
}
