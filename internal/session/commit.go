package session

import (
	"context"

	"github.com/tanzir71/voice-tray/internal/transcript"
)

// Mode selects where an accepted transcript goes.
type Mode string

const (
	// ModeType types the transcript into the focused window (speech hotkey).
	ModeType Mode = "type"
	// ModeSave appends the transcript to the saved-texts log (save hotkey).
	ModeSave Mode = "save"
)

// ParseMode maps a CLI or IPC mode name to a Mode.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeType, ModeSave:
		return Mode(raw), true
	default:
		return "", false
	}
}

// Committer persists/dispatches a transcript when session stop succeeds.
type Committer interface {
	Commit(context.Context, string) error
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(context.Context, string) error

func (f CommitFunc) Commit(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Processor cleans raw recognizer output and decides whether it is emitted.
type Processor interface {
	ProcessDetailed(raw string) transcript.Outcome
}
