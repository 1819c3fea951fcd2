// Package doctor runs readiness diagnostics for config, files, tools, audio,
// and the recognizer backend.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tanzir71/voice-tray/internal/audio"
	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/snippets"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Name, check.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

var selectDevice = audio.SelectDevice

// Run executes environment, config, and runtime checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{checkConfig(loaded), checkHotkeys(cfg.Hotkeys)}

	checks = append(checks, checkSnippets(cfg.Files.Snippets))
	checks = append(checks, checkWritable("files.saved_texts", cfg.Files.SavedTexts))
	checks = append(checks, checkWritable("files.history", cfg.Files.History))

	if len(cfg.Output.TypeCmd.Argv) > 0 {
		checks = append(checks, checkCommand(cfg.Output.TypeCmd.Argv, "output.type_cmd"))
	}
	if len(cfg.Output.ClipboardCmd.Argv) > 0 {
		checks = append(checks, checkCommand(cfg.Output.ClipboardCmd.Argv, "output.clipboard_cmd"))
	}
	if cfg.Indicator.Enable {
		checks = append(checks, checkBinary("busctl", "desktop notifications use busctl"))
	}

	checks = append(checks, checkAudioSelection(ctx, cfg))
	checks = append(checks, checkRecognizer(cfg.Recognizer))
	if target := strings.TrimSpace(cfg.Recognizer.HealthGRPC); target != "" {
		checks = append(checks, checkGRPCHealth(ctx, target))
	}

	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("no file at %q; using defaults", loaded.Path)
	}
	if n := len(loaded.Warnings); n > 0 {
		message += fmt.Sprintf(" (%d warning(s))", n)
	}
	return Check{Name: "config", Pass: true, Message: message}
}

func checkHotkeys(hotkeys config.HotkeyConfig) Check {
	speech := strings.TrimSpace(hotkeys.Speech)
	save := strings.TrimSpace(hotkeys.Save)
	if speech == "" || save == "" {
		return Check{Name: "hotkeys", Pass: false, Message: "speech and save hotkeys must both be set"}
	}
	if strings.EqualFold(speech, save) {
		return Check{Name: "hotkeys", Pass: false, Message: fmt.Sprintf("speech and save share %q", speech)}
	}
	return Check{
		Name:    "hotkeys",
		Pass:    true,
		Message: fmt.Sprintf("bind %s to `voicetray type` and %s to `voicetray save`", speech, save),
	}
}

func checkSnippets(path string) Check {
	table, warnings, err := snippets.Load(path)
	if err != nil {
		return Check{Name: "files.snippets", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("%d snippet(s) from %q", len(table), path)
	if len(warnings) > 0 {
		first := warnings[0]
		message += fmt.Sprintf("; line %d: %s", first.Line, first.Message)
		if len(warnings) > 1 {
			message += fmt.Sprintf(" (+%d more)", len(warnings)-1)
		}
	}
	return Check{Name: "files.snippets", Pass: true, Message: message}
}

// checkWritable reports whether path can be appended to, or created in the
// nearest existing ancestor directory.
func checkWritable(name string, path string) Check {
	if strings.TrimSpace(path) == "" {
		return Check{Name: name, Pass: false, Message: "path is empty"}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err == nil {
		_ = file.Close()
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("%q is writable", path)}
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}

	dir := filepath.Dir(path)
	for {
		info, statErr := os.Stat(dir)
		if statErr == nil {
			if !info.IsDir() {
				return Check{Name: name, Pass: false, Message: fmt.Sprintf("%q is not a directory", dir)}
			}
			probe, probeErr := os.CreateTemp(dir, ".voicetray-doctor-*")
			if probeErr != nil {
				return Check{Name: name, Pass: false, Message: fmt.Sprintf("cannot create files in %q: %v", dir, probeErr)}
			}
			_ = probe.Close()
			_ = os.Remove(probe.Name())
			return Check{Name: name, Pass: true, Message: fmt.Sprintf("%q will be created", path)}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Check{Name: name, Pass: false, Message: statErr.Error()}
		}
		dir = parent
	}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	check := checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
	check.Name = name
	return check
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.Config) Check {
	selection, err := selectDevice(ctx, cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.Label())
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkRecognizer confirms the configured backend has what it needs to run.
func checkRecognizer(cfg config.RecognizerConfig) Check {
	const name = "recognizer"
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.BackendOpenAI:
		if strings.TrimSpace(os.Getenv(cfg.APIKeyEnv)) != "" {
			return Check{Name: name, Pass: true, Message: fmt.Sprintf("openai model %q; %s is set", cfg.Model, cfg.APIKeyEnv)}
		}
		if strings.TrimSpace(cfg.BaseURL) != "" {
			return Check{Name: name, Pass: true, Message: fmt.Sprintf("openai-compatible server at %s", cfg.BaseURL)}
		}
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s is not set", cfg.APIKeyEnv)}
	case config.BackendCommand:
		return checkCommand(cfg.Command.Argv, "recognizer.command")
	default:
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("unsupported backend %q", cfg.Backend)}
	}
}
