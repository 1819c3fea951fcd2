package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPipelineUnavailable indicates runtime transcriber wiring is missing.
	ErrPipelineUnavailable = errors.New("audio capture and recognizer pipeline not configured")
	// ErrEmptyTranscript indicates stop completed but no usable speech was recognized.
	ErrEmptyTranscript = errors.New("no speech recognized; check microphone input or mute state")
	// ErrBusy rejects triggers that arrive while a clip is being transcribed.
	ErrBusy = errors.New("already transcribing")
)

// StopResult is the transcriber output consumed by the session controller.
type StopResult struct {
	Transcript       string
	AudioDevice      string
	BytesCaptured    int
	AudioDuration    time.Duration
	RecognizeLatency time.Duration
}

// Transcriber abstracts capture and recognition for one session.
type Transcriber interface {
	Start(context.Context) error
	// Limit is closed when capture reaches its maximum length. A nil channel never fires.
	Limit() <-chan struct{}
	StopAndTranscribe(context.Context) (StopResult, error)
	Cancel(context.Context) error
}

// PlaceholderTranscriber is a no-op placeholder used in tests/fallback wiring.
type PlaceholderTranscriber struct{}

func (PlaceholderTranscriber) Start(context.Context) error {
	return nil
}

func (PlaceholderTranscriber) Limit() <-chan struct{} {
	return nil
}

func (PlaceholderTranscriber) StopAndTranscribe(context.Context) (StopResult, error) {
	return StopResult{}, ErrPipelineUnavailable
}

func (PlaceholderTranscriber) Cancel(context.Context) error {
	return nil
}
