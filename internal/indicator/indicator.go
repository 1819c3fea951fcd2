// Package indicator shows session state as freedesktop notifications.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tanzir71/voice-tray/internal/config"
	"github.com/tanzir71/voice-tray/internal/session"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

const (
	// activeTimeoutMS keeps in-progress states visible until replaced.
	activeTimeoutMS = 300000
	dispatchTimeout = 400 * time.Millisecond
	defaultAppName  = "voicetray"
)

// Notifier is the desktop notification indicator used by runtime sessions.
// Each call replaces the previous notification so one bubble tracks the session.
type Notifier struct {
	cfg      config.IndicatorConfig
	logger   *slog.Logger
	messages messages

	notify  func(ctx context.Context, appName string, replaceID uint32, summary string, timeoutMS int) (uint32, error)
	dismiss func(ctx context.Context, id uint32) error

	mu             sync.Mutex
	notificationID uint32
}

// NewNotifier creates an indicator from config.
func NewNotifier(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		logger:   logger,
		messages: indicatorMessagesFromEnv(),
		notify:   desktopNotify,
		dismiss:  desktopDismiss,
	}
}

// ShowRecording signals recording start.
func (n *Notifier) ShowRecording(ctx context.Context, mode session.Mode) {
	text := n.messages.recording
	if mode == session.ModeSave {
		text = n.messages.recordingSave
	}
	n.show(ctx, activeTimeoutMS, text)
}

// ShowTranscribing signals the post-capture recognition state.
func (n *Notifier) ShowTranscribing(ctx context.Context) {
	n.show(ctx, activeTimeoutMS, n.messages.processing)
}

// ShowCommitted previews the delivered text for notification_duration seconds.
func (n *Notifier) ShowCommitted(ctx context.Context, mode session.Mode, text string) {
	prefix := n.messages.typed
	if mode == session.ModeSave {
		prefix = n.messages.saved
	}
	n.show(ctx, n.finalTimeoutMS(), prefix+Preview(text))
}

// ShowSuppressed reports why nothing was delivered.
func (n *Notifier) ShowSuppressed(ctx context.Context, reason transcript.Reason) {
	text := n.messages.empty
	if reason == transcript.ReasonDuplicate {
		text = n.messages.duplicate
	}
	n.show(ctx, n.finalTimeoutMS(), text)
}

// ShowError displays an error-state message.
func (n *Notifier) ShowError(ctx context.Context, text string) {
	if text == "" {
		text = n.messages.errorText
	}
	n.show(ctx, n.finalTimeoutMS(), text)
}

// Hide dismisses the active notification.
func (n *Notifier) Hide(ctx context.Context) {
	if !n.cfg.Enable {
		return
	}
	n.mu.Lock()
	id := n.notificationID
	n.notificationID = 0
	n.mu.Unlock()

	if id == 0 {
		return
	}
	n.run(ctx, func(ctx context.Context) error { return n.dismiss(ctx, id) })
}

// Preview shortens text to its first 40 runes, marking the cut with "...".
func Preview(text string) string {
	const limit = 40
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func (n *Notifier) finalTimeoutMS() int {
	if n.cfg.NotificationDuration <= 0 {
		return -1
	}
	return n.cfg.NotificationDuration * 1000
}

// show sends a replaceable notification and stores its ID.
func (n *Notifier) show(ctx context.Context, timeoutMS int, text string) {
	if !n.cfg.Enable {
		return
	}
	appName := strings.TrimSpace(n.cfg.AppName)
	if appName == "" {
		appName = defaultAppName
	}

	n.run(ctx, func(ctx context.Context) error {
		n.mu.Lock()
		replaceID := n.notificationID
		n.mu.Unlock()

		id, err := n.notify(ctx, appName, replaceID, text, timeoutMS)
		if err != nil {
			return err
		}

		n.mu.Lock()
		n.notificationID = id
		n.mu.Unlock()
		return nil
	})
}

// run executes an indicator operation with a bounded timeout.
func (n *Notifier) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	if err := fn(runCtx); err != nil {
		n.log("indicator dispatch failed", err)
	}
}

// log emits debug-only indicator failures to the runtime logger.
func (n *Notifier) log(message string, err error) {
	if n.logger == nil || err == nil {
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
