// Package output delivers accepted text to the focused window and clipboard.
package output

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

const commandTimeout = 2 * time.Second

// Typer types text via output.type_cmd and mirrors it to output.clipboard_cmd.
type Typer struct {
	config config.Config
	logger *slog.Logger
}

// NewTyper constructs a typing committer from runtime config.
func NewTyper(cfg config.Config, logger *slog.Logger) *Typer {
	return &Typer{config: cfg, logger: logger}
}

// Commit types text into the focused window and copies it to the clipboard.
//
// When a type command is configured its failure fails the commit and a
// clipboard failure is only logged. Without one the clipboard is the only
// destination and its failure is returned.
func (t *Typer) Commit(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	typeArgv := t.config.Output.TypeCmd.Argv
	clipboardArgv := t.config.Output.ClipboardCmd.Argv
	if len(typeArgv) == 0 && len(clipboardArgv) == 0 {
		return errors.New("no output command configured")
	}

	if len(typeArgv) > 0 {
		typed := text
		if t.config.Transcript.TrailingSpace {
			typed += " "
		}
		typeCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		if err := runCommandWithInput(typeCtx, typeArgv, typed); err != nil {
			return fmt.Errorf("type text: %w", err)
		}
	}

	if len(clipboardArgv) == 0 {
		return nil
	}
	clipboardCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := runCommandWithInput(clipboardCtx, clipboardArgv, text); err != nil {
		if len(typeArgv) == 0 {
			return fmt.Errorf("set clipboard: %w", err)
		}
		t.logClipboardFailure(err)
	}
	return nil
}

// runCommandWithInput executes argv and optionally writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return errors.New("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("wait for %s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

// logClipboardFailure records clipboard errors after text was already typed.
func (t *Typer) logClipboardFailure(err error) {
	if t.logger == nil || err == nil {
		return
	}
	t.logger.Error("clipboard update failed; text was typed", "error", err.Error())
}
