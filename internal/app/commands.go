package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tanzir71/voice-tray/internal/audio"
	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/fsm"
	"github.com/tanzir71/voice-tray/internal/history"
	"github.com/tanzir71/voice-tray/internal/ipc"
	"github.com/tanzir71/voice-tray/internal/snippets"
)

const forwardTimeout = 220 * time.Millisecond

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return exitError
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			yesNo(device.Available),
			yesNo(device.Muted),
		)
	}

	return exitOK
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func (r Runner) commandSnippets(cfg config.Config, logger *slog.Logger) int {
	table, warnings, err := snippets.Load(cfg.Files.Snippets)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	for _, w := range warnings {
		r.warn(logger, "snippet warning", w)
	}

	fmt.Fprintf(r.Stdout, "# %s\n", cfg.Files.Snippets)
	if len(table) == 0 {
		fmt.Fprintln(r.Stdout, "no snippets defined")
		return exitOK
	}
	for _, trigger := range table.Triggers() {
		fmt.Fprintf(r.Stdout, "%s = %s\n", trigger, table[trigger])
	}
	return exitOK
}

// commandProcess runs stdin lines through the normalization pipeline and
// prints each accepted result. Suppressed lines print nothing.
func (r Runner) commandProcess(cfg config.Config, logger *slog.Logger) int {
	if r.Stdin == nil {
		fmt.Fprintln(r.Stderr, "error: process requires stdin")
		return exitError
	}

	processor, err := r.loadProcessor(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}

	// bufio.Reader has no line cap, unlike Scanner.
	reader := bufio.NewReader(r.Stdin)
	accepted, suppressed := 0, 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			fmt.Fprintf(r.Stderr, "error: read stdin: %v\n", readErr)
			return exitError
		}
		if line != "" {
			outcome := processor.ProcessDetailed(strings.TrimRight(line, "\r\n"))
			if outcome.Suppressed {
				suppressed++
				logger.Debug("line suppressed", "reason", string(outcome.Reason))
			} else {
				accepted++
				fmt.Fprintln(r.Stdout, outcome.Final)
			}
		}
		if readErr != nil {
			break
		}
	}

	logger.Info("process complete", "accepted", accepted, "suppressed", suppressed)
	if accepted == 0 {
		return exitOK
	}
	if err := history.Save(cfg.Files.History, processor.History()); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, fsm.StateIdle)
		return exitOK
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: ipc.CommandStatus})
	if !handled {
		fmt.Fprintln(r.Stdout, fsm.StateIdle)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	if resp.State == "" || resp.State == string(fsm.StateIdle) {
		fmt.Fprintln(r.Stdout, fsm.StateIdle)
		return exitOK
	}
	if resp.Mode != "" {
		fmt.Fprintf(r.Stdout, "%s (%s)\n", resp.State, resp.Mode)
		return exitOK
	}
	fmt.Fprintln(r.Stdout, resp.State)
	return exitOK
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: command})
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active voicetray session")
		return exitError
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return exitError
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return exitOK
}

// tryForward sends req to a running owner. handled is false when no owner is
// listening, so the caller may become one.
func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Forward(ctx, socketPath, req, forwardTimeout)
	if err == nil {
		return resp, true, nil
	}

	var remote *ipc.RemoteError
	if errors.As(err, &remote) {
		return resp, true, remote
	}
	if ipc.IsNoOwner(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}
