package indicator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var notificationsObject = []string{
	"--user",
	"call",
	"org.freedesktop.Notifications",
	"/org/freedesktop/Notifications",
	"org.freedesktop.Notifications",
}

// desktopNotify calls org.freedesktop.Notifications.Notify through busctl and
// returns the ID the server assigned.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, summary string, timeoutMS int) (uint32, error) {
	args := append(append([]string(nil), notificationsObject...),
		"Notify",
		"susssasa{sv}i",
		appName,
		strconv.FormatUint(uint64(replaceID), 10),
		"",
		summary,
		"",
		"0", // actions
		"0", // hints
		strconv.Itoa(timeoutMS),
	)

	out, err := busctl(ctx, "desktop notify", args)
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", out)
	}
	value, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", fields[1], err)
	}
	return uint32(value), nil
}

// desktopDismiss requests an explicit close by notification ID.
func desktopDismiss(ctx context.Context, id uint32) error {
	args := append(append([]string(nil), notificationsObject...),
		"CloseNotification",
		"u",
		strconv.FormatUint(uint64(id), 10),
	)
	_, err := busctl(ctx, "desktop dismiss", args)
	return err
}

func busctl(ctx context.Context, op string, args []string) (string, error) {
	out, err := exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed == "" {
			return "", fmt.Errorf("%s failed: %w", op, err)
		}
		return "", fmt.Errorf("%s failed: %w (%s)", op, err, trimmed)
	}
	return trimmed, nil
}
