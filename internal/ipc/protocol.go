// Package ipc carries line-delimited JSON commands between a running
// dictation session and later voicetray invocations.
package ipc

const (
	CommandStatus = "status"
	CommandToggle = "toggle"
	CommandStop   = "stop"
	CommandCancel = "cancel"
)

// Request is one client command. Mode names the hotkey that sent it ("type" or "save").
type Request struct {
	Command string `json:"command"`
	Mode    string `json:"mode,omitempty"`
}

// Response reports the owner session's view after handling a Request.
type Response struct {
	OK        bool   `json:"ok"`
	State     string `json:"state,omitempty"`
	Mode      string `json:"mode,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}
