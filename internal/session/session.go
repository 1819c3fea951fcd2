// Package session coordinates one dictation: record, recognize, normalize,
// then type or save the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tanzir71/voice-tray/internal/fsm"
	"github.com/tanzir71/voice-tray/internal/ipc"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

// StopCause records what ended recording.
type StopCause string

const (
	StopRequested StopCause = "request"
	StopLimit     StopCause = "limit"
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	SessionID        string
	Mode             Mode
	State            fsm.State
	Raw              string
	Transcript       string
	Suppressed       bool
	Reason           transcript.Reason
	Cancelled        bool
	StoppedBy        StopCause
	Err              error
	AudioDevice      string
	BytesCaptured    int
	AudioDuration    time.Duration
	RecognizeLatency time.Duration
	StartedAt        time.Time
	FinishedAt       time.Time
}

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	ShowRecording(context.Context, Mode)
	ShowTranscribing(context.Context)
	ShowCommitted(context.Context, Mode, string)
	ShowSuppressed(context.Context, transcript.Reason)
	ShowError(context.Context, string)
	Hide(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowRecording(context.Context, Mode)               {}
func (noopIndicator) ShowTranscribing(context.Context)                  {}
func (noopIndicator) ShowCommitted(context.Context, Mode, string)       {}
func (noopIndicator) ShowSuppressed(context.Context, transcript.Reason) {}
func (noopIndicator) ShowError(context.Context, string)                 {}
func (noopIndicator) Hide(context.Context)                              {}

// Controller orchestrates session state transitions and side effects.
type Controller struct {
	logger     *slog.Logger
	id         string
	mode       Mode
	transcribe Transcriber
	process    Processor
	commit     Committer
	indicator  Indicator

	mu    sync.RWMutex
	state fsm.State

	actions chan action
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	mode Mode,
	transcriber Transcriber,
	processor Processor,
	committer Committer,
	indicator Indicator,
) *Controller {
	if mode == "" {
		mode = ModeType
	}
	if transcriber == nil {
		transcriber = PlaceholderTranscriber{}
	}
	if processor == nil {
		processor = transcript.NewProcessor(transcript.Options{})
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	return &Controller{
		logger:     logger,
		id:         uuid.NewString(),
		mode:       mode,
		transcribe: transcriber,
		process:    processor,
		commit:     committer,
		indicator:  indicator,
		state:      fsm.StateIdle,
		actions:    make(chan action, 1),
	}
}

// ID returns the session identifier used in logs and IPC responses.
func (c *Controller) ID() string {
	return c.id
}

// Mode returns where this session delivers accepted text.
func (c *Controller) Mode() Mode {
	return c.mode
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run executes one owner lifecycle from start to stop/cancel/failure completion.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{SessionID: c.id, Mode: c.mode, StartedAt: time.Now()}
	finish := func(err error) Result {
		result.Err = err
		result.State = c.State()
		result.FinishedAt = time.Now()
		return result
	}

	if err := c.transition(fsm.EventStart); err != nil {
		return finish(err)
	}

	c.indicator.ShowRecording(ctx, c.mode)

	if err := c.transcribe.Start(ctx); err != nil {
		c.indicator.ShowError(context.Background(), "Unable to start recording")
		c.toErrorAndReset()
		return finish(err)
	}

	select {
	case <-ctx.Done():
		_ = c.transcribe.Cancel(context.Background())
		c.indicator.ShowError(context.Background(), "Cancelled")
		c.toErrorAndReset()
		return finish(ctx.Err())
	case <-c.transcribe.Limit():
		result.StoppedBy = StopLimit
	case a := <-c.actions:
		switch a {
		case actionCancel:
			_ = c.transcribe.Cancel(context.Background())
			c.indicator.Hide(context.Background())
			_ = c.transition(fsm.EventCancel)
			result.Cancelled = true
			return finish(nil)
		case actionStop:
			result.StoppedBy = StopRequested
		default:
			c.toErrorAndReset()
			return finish(fmt.Errorf("unknown action %d", a))
		}
	}

	if c.logger != nil {
		c.logger.Debug("recording stopped", "session_id", c.id, "cause", string(result.StoppedBy))
	}
	return finish(c.transcribeAndCommit(ctx, &result))
}

// transcribeAndCommit runs the transcribing leg of a session and fills result.
func (c *Controller) transcribeAndCommit(ctx context.Context, result *Result) error {
	if err := c.transition(fsm.EventStop); err != nil {
		c.toErrorAndReset()
		return err
	}
	c.indicator.ShowTranscribing(ctx)

	stop, err := c.transcribe.StopAndTranscribe(ctx)
	result.Raw = stop.Transcript
	result.AudioDevice = stop.AudioDevice
	result.BytesCaptured = stop.BytesCaptured
	result.AudioDuration = stop.AudioDuration
	result.RecognizeLatency = stop.RecognizeLatency

	if err == nil && strings.TrimSpace(stop.Transcript) == "" {
		err = ErrEmptyTranscript
	}
	if err != nil {
		message := "Speech recognition failed"
		if errors.Is(err, ErrEmptyTranscript) {
			message = "No speech detected"
		}
		c.indicator.ShowError(context.Background(), message)
		c.toErrorAndReset()
		return err
	}

	outcome := c.process.ProcessDetailed(stop.Transcript)
	if outcome.Suppressed {
		result.Suppressed = true
		result.Reason = outcome.Reason
		c.indicator.ShowSuppressed(context.Background(), outcome.Reason)
		return c.transition(fsm.EventSuppressed)
	}

	result.Transcript = outcome.Final
	if err := c.commit.Commit(ctx, outcome.Final); err != nil {
		c.indicator.ShowError(context.Background(), "Output dispatch failed")
		c.toErrorAndReset()
		return err
	}
	if err := c.transition(fsm.EventTranscribed); err != nil {
		return err
	}

	c.indicator.ShowCommitted(context.Background(), c.mode, outcome.Final)
	return nil
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	var resp ipc.Response
	switch req.Command {
	case ipc.CommandStatus:
		resp = ipc.Response{OK: true, Message: "status"}
	case ipc.CommandToggle, ipc.CommandStop:
		resp = c.requestStop(req.Command)
	case ipc.CommandCancel:
		resp = c.requestCancel()
	default:
		resp = ipc.Response{Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}

	if resp.State == "" {
		resp.State = string(c.State())
	}
	resp.Mode = string(c.mode)
	resp.SessionID = c.id
	return resp
}

// requestStop enqueues a stop action when state permits it.
func (c *Controller) requestStop(source string) ipc.Response {
	state := c.State()
	if state == fsm.StateTranscribing {
		return ipc.Response{State: string(state), Error: ErrBusy.Error()}
	}
	if state != fsm.StateRecording {
		return ipc.Response{State: string(state), Error: fmt.Sprintf("cannot %s from state %s", source, state)}
	}

	select {
	case c.actions <- actionStop:
		return ipc.Response{OK: true, State: string(state), Message: "stop requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "stop already requested"}
	}
}

// requestCancel enqueues a cancel action when state permits it.
func (c *Controller) requestCancel() ipc.Response {
	state := c.State()
	if state == fsm.StateTranscribing {
		return ipc.Response{State: string(state), Error: "cannot cancel while transcribing"}
	}
	if state != fsm.StateRecording {
		return ipc.Response{State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
	}

	select {
	case c.actions <- actionCancel:
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "cancel already requested"}
	}
}

// toErrorAndReset transitions to error and back to idle best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

// IsPipelineUnavailable reports whether an error represents missing pipeline wiring.
func IsPipelineUnavailable(err error) bool {
	return errors.Is(err, ErrPipelineUnavailable)
}
