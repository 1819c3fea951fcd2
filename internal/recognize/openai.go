package recognize

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tanzir71/voice-tray/internal/config"
)

// OpenAI calls the Whisper transcription endpoint.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOpenAI builds a client from the API key in cfg.APIKeyEnv. A base URL
// override points the client at a compatible local server.
func NewOpenAI(cfg config.RecognizerConfig, logger *slog.Logger) (*OpenAI, error) {
	apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if apiKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s is not set", cfg.APIKeyEnv)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAI{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    cfg.Model,
		language: cfg.Language,
		timeout:  time.Duration(cfg.TimeoutMS) * time.Millisecond,
		logger:   logger,
	}, nil
}

// Recognize uploads wav and returns the transcript text.
func (o *OpenAI) Recognize(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrNoSpeech
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wav),
		Language: o.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	if o.logger != nil {
		o.logger.Debug("openai transcription complete",
			"model", o.model,
			"latency_ms", time.Since(started).Milliseconds(),
			"chars", len(resp.Text),
		)
	}
	return cleanTranscript(resp.Text)
}
