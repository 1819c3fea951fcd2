package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/history"
	"github.com/tanzir71/voice-tray/internal/indicator"
	"github.com/tanzir71/voice-tray/internal/ipc"
	"github.com/tanzir71/voice-tray/internal/output"
	"github.com/tanzir71/voice-tray/internal/pipeline"
	"github.com/tanzir71/voice-tray/internal/recognize"
	"github.com/tanzir71/voice-tray/internal/savedtext"
	"github.com/tanzir71/voice-tray/internal/session"
	"github.com/tanzir71/voice-tray/internal/snippets"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

// commandDictate stops an active session or becomes the owner of a new one.
func (r Runner) commandDictate(ctx context.Context, cfg config.Config, mode session.Mode, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}

	toggle := ipc.Request{Command: ipc.CommandToggle, Mode: string(mode)}
	if code, handled := r.forwardToggle(ctx, socketPath, toggle); handled {
		return code
	}

	listener, err := ipc.Acquire(ctx, socketPath, ipc.AcquireOptions{
		ProbeTimeout: 180 * time.Millisecond,
		Retries:      8,
		OnStale: func(context.Context) {
			logger.Warn("removed stale session socket", "path", socketPath)
		},
	})
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			if code, handled := r.forwardToggle(ctx, socketPath, toggle); handled {
				return code
			}
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	processor, err := r.loadProcessor(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	committer, err := newCommitter(cfg, mode, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	transcriber, err := r.newTranscriber(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("recognizer setup failed", "error", err.Error())
		return exitError
	}

	notifier := indicator.NewNotifier(cfg.Indicator, logger)
	controller := session.NewController(logger, mode, transcriber, processor, committer, notifier)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	result := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return exitError
	}

	logSessionResult(logger, result)

	switch {
	case result.Cancelled:
		fmt.Fprintln(r.Stdout, "cancelled")
		return exitOK
	case result.Err != nil:
		fmt.Fprintf(r.Stderr, "error: %v\n", result.Err)
		return exitError
	case result.Suppressed:
		fmt.Fprintf(r.Stdout, "suppressed (%s)\n", result.Reason)
		return exitOK
	}

	if err := history.Save(cfg.Files.History, processor.History()); err != nil {
		fmt.Fprintf(r.Stderr, "warning: %v\n", err)
		logger.Warn("history save failed", "error", err.Error())
	}
	if text := strings.TrimSpace(result.Transcript); text != "" {
		fmt.Fprintln(r.Stdout, text)
	}
	return exitOK
}

// forwardToggle hands a hotkey press to the running owner, if any.
func (r Runner) forwardToggle(ctx context.Context, socketPath string, req ipc.Request) (int, bool) {
	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		return 0, false
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError, true
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return exitOK, true
}

// loadProcessor builds the normalization pipeline from snippets and persisted history.
func (r Runner) loadProcessor(cfg config.Config, logger *slog.Logger) (*transcript.Processor, error) {
	if created, err := snippets.EnsureFile(cfg.Files.Snippets); err != nil {
		logger.Warn("snippets file not created", "path", cfg.Files.Snippets, "error", err.Error())
	} else if created {
		logger.Info("created snippets file", "path", cfg.Files.Snippets)
	}

	table, warnings, err := snippets.Load(cfg.Files.Snippets)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		r.warn(logger, "snippet warning", w)
	}

	seed, warning, err := history.Load(cfg.Files.History)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		r.warn(logger, "history warning", config.Warning{Message: warning})
	}

	return transcript.NewProcessor(transcript.Options{
		HistorySize:         cfg.Transcript.HistorySize,
		SimilarityThreshold: cfg.Transcript.SimilarityThreshold,
		Snippets:            table,
		Seed:                seed,
	}), nil
}

func newCommitter(cfg config.Config, mode session.Mode, logger *slog.Logger) (session.Committer, error) {
	if mode == session.ModeSave {
		if _, err := savedtext.EnsureFile(cfg.Files.SavedTexts); err != nil {
			return nil, err
		}
		return savedtext.New(cfg.Files.SavedTexts), nil
	}
	return output.NewTyper(cfg, logger), nil
}

func (r Runner) newTranscriber(cfg config.Config, logger *slog.Logger) (session.Transcriber, error) {
	if r.Transcriber != nil {
		return r.Transcriber(cfg, logger)
	}
	recognizer, err := recognize.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewTranscriber(cfg, recognizer, logger), nil
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"session_id", result.SessionID,
		"mode", string(result.Mode),
		"state", result.State,
		"cancelled", result.Cancelled,
		"stopped_by", string(result.StoppedBy),
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"audio_device", result.AudioDevice,
		"bytes_captured", result.BytesCaptured,
		"audio_ms", result.AudioDuration.Milliseconds(),
		"recognize_latency_ms", result.RecognizeLatency.Milliseconds(),
		"raw_length", len(result.Raw),
		"transcript_length", len(result.Transcript),
	}

	switch {
	case result.Err != nil:
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
	case result.Suppressed:
		logger.Info("session suppressed", append(fields, "reason", string(result.Reason))...)
	default:
		logger.Info("session complete", fields...)
	}
}
