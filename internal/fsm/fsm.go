// Package fsm defines the dictation session state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateError        State = "error"
)

const (
	EventStart       Event = "start"
	EventStop        Event = "stop"
	EventCancel      Event = "cancel"
	EventTranscribed Event = "transcribed"
	// EventSuppressed ends transcription without output (blank or duplicate text).
	EventSuppressed Event = "suppressed"
	EventFail       Event = "fail"
	EventReset      Event = "reset"
)

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{StateIdle, EventStart}:               StateRecording,
	{StateRecording, EventStop}:           StateTranscribing,
	{StateRecording, EventCancel}:         StateIdle,
	{StateTranscribing, EventTranscribed}: StateIdle,
	{StateTranscribing, EventSuppressed}:  StateIdle,
	{StateError, EventReset}:              StateIdle,
}

// Transition returns the state reached from current on event. Fail is
// accepted from every known state.
func Transition(current State, event Event) (State, error) {
	if !known(current) {
		return current, fmt.Errorf("unknown state %q", current)
	}
	if event == EventFail {
		return StateError, nil
	}
	if next, ok := transitions[edge{current, event}]; ok {
		return next, nil
	}
	return current, invalidTransition(current, event)
}

func known(state State) bool {
	switch state {
	case StateIdle, StateRecording, StateTranscribing, StateError:
		return true
	default:
		return false
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
