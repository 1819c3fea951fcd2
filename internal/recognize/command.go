package recognize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/tanzir71/voice-tray/internal/config"
)

// Command runs a local recognizer with the WAV clip on stdin.
type Command struct {
	argv    []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewCommand validates the configured argv.
func NewCommand(cfg config.RecognizerConfig, logger *slog.Logger) (*Command, error) {
	if len(cfg.Command.Argv) == 0 {
		return nil, errors.New("recognizer.command is empty")
	}
	return &Command{
		argv:    append([]string(nil), cfg.Command.Argv...),
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		logger:  logger,
	}, nil
}

// Recognize runs the command and returns its trimmed stdout.
func (c *Command) Recognize(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrNoSpeech
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = bytes.NewReader(wav)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("run %s: %w: %s", c.argv[0], err, msg)
		}
		return "", fmt.Errorf("run %s: %w", c.argv[0], err)
	}

	if c.logger != nil {
		c.logger.Debug("command transcription complete",
			"command", c.argv[0],
			"latency_ms", time.Since(started).Milliseconds(),
			"stdout_bytes", stdout.Len(),
		)
	}
	return cleanTranscript(stdout.String())
}
