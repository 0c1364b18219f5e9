package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/astrocore-app/astrocore/internal/model"
)

func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders tasks in aligned columns with a live remaining-time column.
func Table(w io.Writer, tasks []model.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tSCHEDULE\tSTATUS\tREMAINING")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Type, truncate(t.Title, 40), schedule(t), status(t), remaining(t, now))
	}
	return tw.Flush()
}

// Compact writes one line per task.
func Compact(w io.Writer, tasks []model.Task, now time.Time) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%s %s [%s] %s %s\n",
			t.ID, t.Type, status(t), truncate(t.Title, 60), remaining(t, now)); err != nil {
			return err
		}
	}
	return nil
}

func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func schedule(t model.Task) string {
	switch t.Type {
	case model.TaskTypeMicro:
		return fmt.Sprintf("in %dm", t.ReminderMinutes)
	case model.TaskTypeFollowUp:
		return "daily " + t.FollowUpTime
	default:
		return "?"
	}
}

func status(t model.Task) string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}

func remaining(t model.Task, now time.Time) string {
	if t.Completed {
		return "-"
	}
	rem, err := model.Remaining(t, now)
	if err != nil {
		return "invalid schedule"
	}
	if rem <= 0 {
		return "due"
	}
	return FormatRemaining(rem)
}

// FormatRemaining renders a countdown the way the dashboard shows it:
// "2h 5m", "4m 59s", "30s".
func FormatRemaining(d time.Duration) string {
	totalSeconds := int(d / time.Second)
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
