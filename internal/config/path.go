package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName         = "voicetray"
	configFileName     = "config.jsonc"
	legacyFileName     = "settings.txt"
	snippetsFileName   = "snippets.txt"
	savedTextsFileName = "saved_texts.txt"
	historyFileName    = "history.json"
)

// ResolvePath applies CLI/XDG/home fallback rules for config.jsonc location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// StateDir returns the voicetray directory under XDG_STATE_HOME or ~/.local/state.
func StateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for state fallback")
	}
	return filepath.Join(home, ".local", "state", appDirName), nil
}

func configDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// fillFilePaths places unset snippet and saved-text files beside the config
// file and the history file in the state directory.
func fillFilePaths(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if cfg.Files.Snippets == "" {
		cfg.Files.Snippets = filepath.Join(dir, snippetsFileName)
	}
	if cfg.Files.SavedTexts == "" {
		cfg.Files.SavedTexts = filepath.Join(dir, savedTextsFileName)
	}
	if cfg.Files.History == "" {
		stateDir, err := StateDir()
		if err != nil {
			return err
		}
		cfg.Files.History = filepath.Join(stateDir, historyFileName)
	}

	cfg.Files.Snippets = expandHome(cfg.Files.Snippets)
	cfg.Files.SavedTexts = expandHome(cfg.Files.SavedTexts)
	cfg.Files.History = expandHome(cfg.Files.History)
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
