package config

import (
	"path/filepath"
	"strings"
)

// Format names the syntax a settings file is written in.
type Format string

const (
	FormatJSONC  Format = "jsonc"
	FormatLegacy Format = "legacy"
)

const legacyFormatWarning = "settings.txt key = value format is deprecated; migrate to config.jsonc"

// DetectFormat picks the parser for a file. A .txt path is always legacy;
// otherwise content starting with `{` is JSONC.
func DetectFormat(path string, content string) Format {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return FormatLegacy
	}
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return FormatJSONC
	}
	return FormatLegacy
}

// Parse reads content in whichever format it looks like and layers it over base.
func Parse(content string, base Config) (Config, []Warning, error) {
	return ParseAs(DetectFormat("", content), content, base)
}

// ParseAs reads content in the given format. Empty content yields base.
func ParseAs(format Format, content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}

	if format == FormatJSONC {
		return parseJSONC(content, base)
	}

	cfg, warnings, err := parseLegacy(content, base)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, append([]Warning{{Message: legacyFormatWarning}}, warnings...), nil
}
