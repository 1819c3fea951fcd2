// Package app dispatches parsed CLI commands to the voicetray subsystems.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tanzir71/voice-tray/internal/cli"
	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/doctor"
	"github.com/tanzir71/voice-tray/internal/ipc"
	"github.com/tanzir71/voice-tray/internal/logging"
	"github.com/tanzir71/voice-tray/internal/session"
	"github.com/tanzir71/voice-tray/internal/version"
)

const binaryName = "voicetray"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Transcriber overrides the capture/recognizer pipeline for owner sessions.
	Transcriber func(config.Config, *slog.Logger) (session.Transcriber, error)
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return exitUsage
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return exitOK
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return exitOK
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return exitError
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return exitError
	}
	for _, w := range cfgLoaded.Warnings {
		r.warn(logger, "config warning", w)
	}
	loadEnvFiles(logger, filepath.Join(filepath.Dir(cfgLoaded.Path), ".env"), ".env")

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return exitOK
		}
		return exitError
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandSnippets:
		return r.commandSnippets(cfgLoaded.Config, logger)
	case cli.CommandProcess:
		return r.commandProcess(cfgLoaded.Config, logger)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, ipc.CommandStop)
	case cli.CommandCancel:
		return r.forwardOrFail(ctx, ipc.CommandCancel)
	case cli.CommandType:
		return r.commandDictate(ctx, cfgLoaded.Config, session.ModeType, logger)
	case cli.CommandSave:
		return r.commandDictate(ctx, cfgLoaded.Config, session.ModeSave, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return exitUsage
	}
}

// loadEnvFiles exports variables from optional dotenv files without
// overriding the process environment.
func loadEnvFiles(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			logger.Debug("loaded env file", "path", path)
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("env file ignored", "path", path, "error", err.Error())
		}
	}
}

// warn prints a non-fatal warning and mirrors it to the log.
func (r Runner) warn(logger *slog.Logger, kind string, w config.Warning) {
	msg := w.Message
	if w.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
	logger.Warn(kind, "line", w.Line, "message", w.Message)
}
