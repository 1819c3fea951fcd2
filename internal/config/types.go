// Package config resolves, parses, validates, and defaults voicetray configuration.
package config

// Config is the fully materialized runtime configuration used by voicetray.
type Config struct {
	Hotkeys    HotkeyConfig
	Audio      AudioConfig
	Recognizer RecognizerConfig
	Transcript TranscriptConfig
	Files      FilesConfig
	Output     OutputConfig
	Indicator  IndicatorConfig
	Debug      DebugConfig
}

// HotkeyConfig names the keys the desktop binds to `voicetray type` and `voicetray save`.
type HotkeyConfig struct {
	Speech string
	Save   string
}

// AudioConfig controls input-source selection and capture length.
type AudioConfig struct {
	Input         string
	Fallback      string
	MaxDurationMS int
}

// RecognizerConfig selects and parameterizes the speech-recognition backend.
type RecognizerConfig struct {
	Backend    string
	Model      string
	Language   string
	BaseURL    string
	APIKeyEnv  string
	Command    CommandConfig
	TimeoutMS  int
	HealthGRPC string
}

// TranscriptConfig controls the normalization pipeline.
type TranscriptConfig struct {
	HistorySize         int
	SimilarityThreshold float64
	TrailingSpace       bool
}

// FilesConfig locates user-editable and persisted files.
// Empty values are filled relative to the config and state directories by Load.
type FilesConfig struct {
	Snippets   string
	SavedTexts string
	History    string
}

// OutputConfig controls how accepted text reaches the focused window.
type OutputConfig struct {
	TypeCmd      CommandConfig
	ClipboardCmd CommandConfig
}

// IndicatorConfig controls desktop notifications.
type IndicatorConfig struct {
	Enable               bool
	AppName              string
	NotificationDuration int
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

const (
	BackendOpenAI  = "openai"
	BackendCommand = "command"
)
