package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:              "1765432100000",
		Title:           "Stretch for five minutes",
		Type:            TaskTypeMicro,
		CreatedAt:       now,
		ReminderMinutes: 5,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateFollowUpSuccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:            "1765432100001",
		Title:         "Daily review",
		Type:          TaskTypeFollowUp,
		CreatedAt:     now,
		FollowUpTime:  "10:00",
		RepeatEnabled: true,
		RepeatDays:    7,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsBadInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	base := Task{
		ID:              "task-1",
		Title:           "Base",
		Type:            TaskTypeMicro,
		CreatedAt:       now,
		ReminderMinutes: 5,
	}

	cases := []struct {
		name   string
		mutate func(*Task)
		want   error
	}{
		{
			name:   "unknown type",
			mutate: func(task *Task) { task.Type = "someday" },
			want:   ErrInvalidType,
		},
		{
			name:   "zero reminder minutes",
			mutate: func(task *Task) { task.ReminderMinutes = 0 },
			want:   ErrInvalidReminderTime,
		},
		{
			name:   "negative reminder minutes",
			mutate: func(task *Task) { task.ReminderMinutes = -5 },
			want:   ErrInvalidReminderTime,
		},
		{
			name: "follow-up without a schedule",
			mutate: func(task *Task) {
				task.Type = TaskTypeFollowUp
				task.FollowUpTime = ""
			},
			want: ErrMalformedSchedule,
		},
		{
			name: "repeat days out of range",
			mutate: func(task *Task) {
				task.RepeatEnabled = true
				task.RepeatDays = 31
			},
			want: ErrInvalidRepeatDays,
		},
		{
			name: "repeat days zero while enabled",
			mutate: func(task *Task) {
				task.RepeatEnabled = true
				task.RepeatDays = 0
			},
			want: ErrInvalidRepeatDays,
		},
		{
			name:   "repeat days without repeat enabled",
			mutate: func(task *Task) { task.RepeatDays = 3 },
			want:   ErrRepeatMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := base
			tc.mutate(&task)
			err := task.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTaskValidateRequiresIdentity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := Task{Title: "No id", Type: TaskTypeMicro, CreatedAt: now, ReminderMinutes: 1}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for missing id, got nil")
	}
	task = Task{ID: "1", Title: "  ", Type: TaskTypeMicro, CreatedAt: now, ReminderMinutes: 1}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for blank title, got nil")
	}
}

func TestTaskJSONWireFormat(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:            "1773306000000",
		Title:         "Daily review",
		Description:   "Check the inbox",
		Type:          TaskTypeFollowUp,
		CreatedAt:     created,
		FollowUpTime:  "10:00",
		RepeatEnabled: true,
		RepeatDays:    2,
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	if wire["createdAt"] != float64(created.UnixMilli()) {
		t.Fatalf("createdAt = %v, want %d", wire["createdAt"], created.UnixMilli())
	}
	if wire["followUpTime"] != "10:00" {
		t.Fatalf("followUpTime = %v", wire["followUpTime"])
	}
	if _, present := wire["lastTriggered"]; present {
		t.Fatal("lastTriggered should be omitted when nil")
	}
	if wire["repeatEnabled"] != true {
		t.Fatalf("repeatEnabled = %v", wire["repeatEnabled"])
	}
}

func TestTaskJSONRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	triggered := created.Add(90 * time.Minute)
	task := Task{
		ID:              "1773306000001",
		Title:           "Water the plants",
		Description:     "Back balcony first",
		Type:            TaskTypeMicro,
		CreatedAt:       created,
		ReminderMinutes: 15,
		Completed:       true,
		LastTriggered:   &triggered,
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Millisecond precision is what survives the wire.
	want := task
	want.CreatedAt = time.UnixMilli(created.UnixMilli())
	lt := time.UnixMilli(triggered.UnixMilli())
	want.LastTriggered = &lt

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
