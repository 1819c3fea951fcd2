package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration.
//
// Without an explicit path, a missing config.jsonc falls back to a legacy
// settings.txt in the same directory.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	var warnings []Warning
	content, err := os.ReadFile(resolvedPath)
	if errors.Is(err, os.ErrNotExist) && strings.TrimSpace(explicitPath) == "" {
		legacyPath := filepath.Join(filepath.Dir(resolvedPath), legacyFileName)
		legacyContent, legacyErr := os.ReadFile(legacyPath)
		if legacyErr == nil {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("using legacy config path %q; move settings to %q", legacyPath, resolvedPath),
			})
			resolvedPath, content, err = legacyPath, legacyContent, nil
		}
	}

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			if fillErr := fillFilePaths(&cfg, resolvedPath); fillErr != nil {
				return Loaded{}, fillErr
			}
			return Loaded{
				Path:   resolvedPath,
				Config: cfg,
				Warnings: []Warning{{
					Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
				}},
				Exists: false,
			}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, parseWarnings, err := ParseAs(DetectFormat(resolvedPath, string(content)), string(content), Default())
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}
	if err := fillFilePaths(&cfg, resolvedPath); err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: append(warnings, parseWarnings...),
		Exists:   true,
	}, nil
}
