package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/astrocore-app/astrocore/internal/model"
)

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{4*time.Minute + 59*time.Second, "4m 59s"},
		{30 * time.Second, "30s"},
		{0, "0s"},
		{-time.Minute, "0s"},
		{25 * time.Hour, "25h 0m"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.in); got != tc.want {
			t.Fatalf("FormatRemaining(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTableColumns(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:              "t1",
			Title:           "Stretch",
			Type:            model.TaskTypeMicro,
			CreatedAt:       now,
			ReminderMinutes: 5,
		},
		{
			ID:           "t2",
			Title:        "Daily review",
			Type:         model.TaskTypeFollowUp,
			CreatedAt:    now,
			FollowUpTime: "10:00",
			Completed:    true,
		},
	}

	var buf bytes.Buffer
	if err := Table(&buf, tasks, now); err != nil {
		t.Fatalf("table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "REMAINING", "in 5m", "daily 10:00", "5m 0s", "completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTableMarksOverdueAndInvalid(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:              "late",
			Title:           "Overdue",
			Type:            model.TaskTypeMicro,
			CreatedAt:       now.Add(-time.Hour),
			ReminderMinutes: 5,
		},
		{
			ID:           "bad",
			Title:        "Broken",
			Type:         model.TaskTypeFollowUp,
			CreatedAt:    now,
			FollowUpTime: "25:99",
		},
	}

	var buf bytes.Buffer
	if err := Table(&buf, tasks, now); err != nil {
		t.Fatalf("table: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "due") {
		t.Fatalf("overdue task not marked due:\n%s", out)
	}
	if !strings.Contains(out, "invalid schedule") {
		t.Fatalf("malformed schedule not marked:\n%s", out)
	}
}

func TestCompactOneLinePerTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "t1", Title: "One", Type: model.TaskTypeMicro, CreatedAt: now, ReminderMinutes: 5},
		{ID: "t2", Title: "Two", Type: model.TaskTypeMicro, CreatedAt: now, ReminderMinutes: 5},
	}

	var buf bytes.Buffer
	if err := Compact(&buf, tasks, now); err != nil {
		t.Fatalf("compact: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "t1 micro [pending]") {
		t.Fatalf("unexpected line: %q", lines[0])
	}
}

func TestDetect(t *testing.T) {
	if got := Detect(true, false); got != FormatJSON {
		t.Fatalf("json flag: got %v", got)
	}
	if got := Detect(false, true); got != FormatCompact {
		t.Fatalf("compact flag: got %v", got)
	}
	t.Setenv("ASTROCORE_OUTPUT", "json")
	if got := Detect(false, false); got != FormatJSON {
		t.Fatalf("env json: got %v", got)
	}
	t.Setenv("ASTROCORE_OUTPUT", "")
	if got := Detect(false, false); got != FormatTable {
		t.Fatalf("default: got %v", got)
	}
}
