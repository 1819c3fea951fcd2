package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLegacySettingsFile(t *testing.T) {
	t.Parallel()

	content := `
# Keyboard shortcuts
speech_hotkey = f8
save_hotkey = "ctrl+f10"
notification_duration = 5
recognizer.backend = command
recognizer.command = whisper-cli -m '/models/base en.bin' -f
transcript.history_size = 8
transcript.similarity_threshold = 0.9
transcript.trailing_space = true
`

	cfg, warnings, err := Parse(content, Default())
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	require.Equal(t, legacyFormatWarning, warnings[0].Message)

	require.Equal(t, "f8", cfg.Hotkeys.Speech)
	require.Equal(t, "ctrl+f10", cfg.Hotkeys.Save)
	require.Equal(t, 5, cfg.Indicator.NotificationDuration)
	require.Equal(t, BackendCommand, cfg.Recognizer.Backend)
	require.Equal(t, []string{"whisper-cli", "-m", "/models/base en.bin", "-f"}, cfg.Recognizer.Command.Argv)
	require.Equal(t, 8, cfg.Transcript.HistorySize)
	require.InDelta(t, 0.9, cfg.Transcript.SimilarityThreshold, 1e-9)
	require.True(t, cfg.Transcript.TrailingSpace)
}

func TestParseLegacyAutoStartListeningWarns(t *testing.T) {
	t.Parallel()

	_, warnings, err := Parse("speech_hotkey = f9\nauto_start_listening = true\n", Default())
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	require.Equal(t, 2, warnings[1].Line)
	require.Contains(t, warnings[1].Message, "auto_start_listening has no effect")

	_, _, err = Parse("auto_start_listening = sometimes\n", Default())
	require.ErrorContains(t, err, "line 1: auto_start_listening")
}

func TestParseUnknownKeyFails(t *testing.T) {
	t.Parallel()

	_, _, err := Parse("speech_hotkey = f9\nwake_word = computer\n", Default())
	require.ErrorContains(t, err, `line 2: unknown key "wake_word"`)
}

func TestParseLineNumberOnError(t *testing.T) {
	t.Parallel()

	_, _, err := Parse("# comment\n\nnotification_duration = soon\n", Default())
	require.ErrorContains(t, err, "line 3: notification_duration: expected integer")

	_, _, err = Parse("speech_hotkey f9\n", Default())
	require.ErrorContains(t, err, "line 1: expected key = value")
}

func TestParseSingleQuotedStrings(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse("indicator.app_name = 'Voice Tray'\naudio.input = \"USB \\\"Mic\\\"\"\n", Default())
	require.NoError(t, err)
	require.Equal(t, "Voice Tray", cfg.Indicator.AppName)
	require.Equal(t, `USB "Mic"`, cfg.Audio.Input)
}

func TestParseRejectsUnterminatedQuotedString(t *testing.T) {
	t.Parallel()

	_, _, err := Parse("indicator.app_name = 'Voice\n", Default())
	require.ErrorContains(t, err, "missing closing single quote")

	_, _, err = Parse("indicator.app_name = \"Voice\n", Default())
	require.ErrorContains(t, err, "missing closing double quote")
}

func TestParseLegacyCommandError(t *testing.T) {
	t.Parallel()

	_, _, err := Parse("output.type_cmd = wtype \"-\n", Default())
	require.ErrorContains(t, err, "line 1: output.type_cmd: unterminated quote")
}

func TestParseEmptyContentReturnsBase(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := Parse("  \n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestParseLegacyValidatesResult(t *testing.T) {
	t.Parallel()

	_, _, err := Parse("transcript.history_size = 0\n", Default())
	require.ErrorContains(t, err, "transcript.history_size must be > 0")
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatJSONC, DetectFormat("/x/config.jsonc", "  {\"hotkeys\": {}}"))
	require.Equal(t, FormatLegacy, DetectFormat("/x/config.jsonc", "speech_hotkey = f9"))
	require.Equal(t, FormatLegacy, DetectFormat("/x/settings.TXT", "{ looks like json"))
	require.Equal(t, FormatJSONC, DetectFormat("", "{}"))
}

func TestParseAsEmptyContentReturnsBase(t *testing.T) {
	t.Parallel()

	base := Default()
	base.Hotkeys.Speech = "f2"
	cfg, _, err := ParseAs(FormatLegacy, " \n", base)
	require.NoError(t, err)
	require.Equal(t, "f2", cfg.Hotkeys.Speech)
}
