package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Payload is a single notification request. Tag carries the task id so the
// underlying notification surface can coalesce duplicates for the same task.
type Payload struct {
	Title   string
	Message string
	Tag     string
}

// Notifier displays a payload somewhere the user might see it. Delivery is
// best-effort: implementations must not block and the caller treats any error
// as non-fatal.
type Notifier interface {
	Send(Payload) error
}

type Noop struct{}

func (Noop) Send(Payload) error { return nil }

// Desktop shells out to the platform notification tool.
type Desktop struct{}

func (Desktop) Send(p Payload) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", p.Title, p.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(p.Message), escapeAppleScript(p.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Multi fans a payload out to every notifier. Individual failures are logged
// and swallowed so one broken surface cannot silence the others or leak an
// error back into the engine.
type Multi struct {
	Notifiers []Notifier
	Logger    *slog.Logger
}

func (m Multi) Send(p Payload) error {
	for _, n := range m.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Send(p); err != nil && m.Logger != nil {
			m.Logger.Warn("notification delivery failed", "tag", p.Tag, "err", err)
		}
	}
	return nil
}
