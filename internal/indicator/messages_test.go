package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResolveLocaleParsesPosixNames(t *testing.T) {
	require.Equal(t, language.MustParse("de-DE"), resolveLocale("de_DE.UTF-8"))
	require.Equal(t, language.MustParse("es-MX"), resolveLocale("es_MX@euro"))
	require.Equal(t, language.English, resolveLocale("C"))
	require.Equal(t, language.English, resolveLocale(""))
	require.Equal(t, language.English, resolveLocale("!!"))
}

func TestIndicatorMessagesByLocale(t *testing.T) {
	en := indicatorMessages(language.English)
	require.Equal(t, "Listening…", en.recording)
	require.Equal(t, "Transcribing…", en.processing)
	require.Equal(t, "✓ Saved: ", en.saved)
	require.Equal(t, "Speech recognition error", en.errorText)

	require.Equal(t, "Höre zu…", indicatorMessages(resolveLocale("de_AT.UTF-8")).recording)
	require.Equal(t, "Escuchando…", indicatorMessages(resolveLocale("es_ES.UTF-8")).recording)
	require.Equal(t, "Listening…", indicatorMessages(resolveLocale("ja_JP.UTF-8")).recording)
}

func TestIndicatorMessagesFromEnvPrecedence(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
	t.Setenv("LANG", "es_ES.UTF-8")
	require.Equal(t, "Höre zu…", indicatorMessagesFromEnv().recording)

	t.Setenv("LC_ALL", "en_US.UTF-8")
	require.Equal(t, "Listening…", indicatorMessagesFromEnv().recording)
}
