// Package pipeline wires audio capture to a recognizer backend behind the
// session.Transcriber contract.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tanzir71/voice-tray/internal/audio"
	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/recognize"
	"github.com/tanzir71/voice-tray/internal/session"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

// recording is the subset of *audio.Capture the transcriber drives.
type recording interface {
	Stop() []byte
	Full() <-chan struct{}
	BytesCaptured() int
}

// Transcriber owns one capture -> WAV -> recognizer pass.
type Transcriber struct {
	cfg        config.Config
	logger     *slog.Logger
	recognizer recognize.Recognizer

	selectDevice func(ctx context.Context, input string, fallback string) (audio.Selection, error)
	startCapture func(ctx context.Context, device audio.Device, maxDuration time.Duration) (recording, error)
	now          func() time.Time

	mu        sync.Mutex
	started   bool
	selection audio.Selection
	capture   recording
}

// NewTranscriber constructs a pipeline transcriber from runtime config.
func NewTranscriber(cfg config.Config, recognizer recognize.Recognizer, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		cfg:          cfg,
		logger:       logger,
		recognizer:   recognizer,
		selectDevice: audio.SelectDevice,
		startCapture: func(ctx context.Context, device audio.Device, maxDuration time.Duration) (recording, error) {
			return audio.StartCapture(ctx, device, maxDuration)
		},
		now: time.Now,
	}
}

// Start resolves device selection and begins capturing into memory.
func (t *Transcriber) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return errors.New("transcriber already started")
	}
	if t.recognizer == nil {
		return session.ErrPipelineUnavailable
	}

	selection, err := t.selectDevice(ctx, t.cfg.Audio.Input, t.cfg.Audio.Fallback)
	if err != nil {
		return err
	}
	t.selection = selection
	if selection.Warning != "" {
		t.logWarn(selection.Warning)
	}

	maxDuration := time.Duration(t.cfg.Audio.MaxDurationMS) * time.Millisecond
	capture, err := t.startCapture(ctx, selection.Device, maxDuration)
	if err != nil {
		return err
	}
	t.capture = capture
	t.started = true
	return nil
}

// Limit fires when capture reaches audio.max_duration_ms.
func (t *Transcriber) Limit() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.capture == nil {
		return nil
	}
	return t.capture.Full()
}

// StopAndTranscribe stops capture, encodes WAV, and runs the recognizer.
func (t *Transcriber) StopAndTranscribe(ctx context.Context) (session.StopResult, error) {
	t.mu.Lock()
	started := t.started
	capture := t.capture
	selection := t.selection
	t.mu.Unlock()

	if !started || capture == nil {
		return session.StopResult{}, session.ErrPipelineUnavailable
	}

	pcm := capture.Stop()
	result := session.StopResult{
		AudioDevice:   selection.Device.Label(),
		BytesCaptured: len(pcm),
		AudioDuration: audio.DurationOf(len(pcm)),
	}
	if len(pcm) == 0 {
		return result, fmt.Errorf("no audio captured: %w", session.ErrEmptyTranscript)
	}

	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return result, fmt.Errorf("encode wav: %w", err)
	}
	t.writeDebugAudio(wav)

	began := t.now()
	text, err := t.recognizer.Recognize(ctx, wav)
	result.RecognizeLatency = t.now().Sub(began)
	if errors.Is(err, recognize.ErrNoSpeech) {
		return result, fmt.Errorf("%w: %w", session.ErrEmptyTranscript, err)
	}
	if err != nil {
		return result, fmt.Errorf("recognize: %w", err)
	}

	result.Transcript = transcript.Assemble([]string{text})
	return result, nil
}

// Cancel stops capture immediately and discards the audio.
func (t *Transcriber) Cancel(_ context.Context) error {
	t.mu.Lock()
	capture := t.capture
	t.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
	}
	return nil
}

func (t *Transcriber) logWarn(message string) {
	if t.logger == nil {
		return
	}
	t.logger.Warn(message)
}

// createDebugFile creates a timestamped artifact under the voicetray state dir.
func (t *Transcriber) createDebugFile(prefix string, extension string) (*os.File, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	debugDir := filepath.Join(stateDir, "debug")
	if err := os.MkdirAll(debugDir, 0o700); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}

	timestamp := t.now().Format("20060102-150405.000")
	path := filepath.Join(debugDir, fmt.Sprintf("%s-%s.%s", prefix, timestamp, extension))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug file %q: %w", path, err)
	}
	return file, nil
}

// writeDebugAudio keeps the recognizer input when debug.audio_dump is enabled.
func (t *Transcriber) writeDebugAudio(wav []byte) {
	if !t.cfg.Debug.EnableAudioDump || len(wav) == 0 {
		return
	}

	file, err := t.createDebugFile("audio", "wav")
	if err != nil {
		t.logWarn(fmt.Sprintf("unable to create debug audio dump: %v", err))
		return
	}
	defer file.Close()

	if _, err := file.Write(wav); err != nil {
		t.logWarn(fmt.Sprintf("unable to write debug audio dump: %v", err))
	}
}
