package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionDictationPaths(t *testing.T) {
	for _, last := range []Event{EventTranscribed, EventSuppressed} {
		state := StateIdle
		for _, event := range []Event{EventStart, EventStop, last} {
			next, err := Transition(state, event)
			require.NoError(t, err, "event %s from %s", event, state)
			state = next
		}
		require.Equal(t, StateIdle, state)
	}
}

func TestTransitionCancelReturnsToIdle(t *testing.T) {
	next, err := Transition(StateRecording, EventCancel)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionFailFromAnyStateGoesError(t *testing.T) {
	states := []State{StateIdle, StateRecording, StateTranscribing, StateError}
	for _, state := range states {
		next, err := Transition(state, EventFail)
		require.NoError(t, err)
		require.Equal(t, StateError, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "idle stop", state: StateIdle, event: EventStop},
		{name: "idle cancel", state: StateIdle, event: EventCancel},
		{name: "idle suppressed", state: StateIdle, event: EventSuppressed},
		{name: "recording start", state: StateRecording, event: EventStart},
		{name: "recording transcribed", state: StateRecording, event: EventTranscribed},
		{name: "recording suppressed", state: StateRecording, event: EventSuppressed},
		{name: "transcribing stop", state: StateTranscribing, event: EventStop},
		{name: "transcribing cancel", state: StateTranscribing, event: EventCancel},
		{name: "error start", state: StateError, event: EventStart},
		{name: "error stop", state: StateError, event: EventStop},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.state, next)
			require.ErrorContains(t, err, "invalid transition")
		})
	}
}

func TestTransitionErrorReset(t *testing.T) {
	next, err := Transition(StateError, EventReset)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventStart)
	require.ErrorContains(t, err, "unknown state")
	require.Equal(t, State("mystery"), next)
}
