package indicator

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

type messages struct {
	recording     string
	recordingSave string
	processing    string
	typed         string
	saved         string
	duplicate     string
	empty         string
	errorText     string
}

// supported is ordered to line up with catalogs; the first entry is the fallback.
var supported = []language.Tag{language.English, language.German, language.Spanish}

var catalogs = []messages{
	{
		recording:     "Listening…",
		recordingSave: "Listening (save)…",
		processing:    "Transcribing…",
		typed:         "✓ Typed: ",
		saved:         "✓ Saved: ",
		duplicate:     "Skipped duplicate",
		empty:         "Nothing to insert",
		errorText:     "Speech recognition error",
	},
	{
		recording:     "Höre zu…",
		recordingSave: "Höre zu (speichern)…",
		processing:    "Transkribiere…",
		typed:         "✓ Getippt: ",
		saved:         "✓ Gespeichert: ",
		duplicate:     "Duplikat übersprungen",
		empty:         "Nichts einzufügen",
		errorText:     "Fehler bei der Spracherkennung",
	},
	{
		recording:     "Escuchando…",
		recordingSave: "Escuchando (guardar)…",
		processing:    "Transcribiendo…",
		typed:         "✓ Escrito: ",
		saved:         "✓ Guardado: ",
		duplicate:     "Duplicado omitido",
		empty:         "Nada que insertar",
		errorText:     "Error de reconocimiento de voz",
	},
}

var matcher = language.NewMatcher(supported)

func indicatorMessagesFromEnv() messages {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return indicatorMessages(resolveLocale(v))
		}
	}
	return indicatorMessages(language.English)
}

// resolveLocale turns a POSIX locale such as de_DE.UTF-8 into a BCP 47 tag.
func resolveLocale(raw string) language.Tag {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" || raw == "C" || raw == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}

func indicatorMessages(tag language.Tag) messages {
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No || idx < 0 || idx >= len(catalogs) {
		return catalogs[0]
	}
	return catalogs[idx]
}
