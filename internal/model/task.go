package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidType         = errors.New("model: invalid task type")
	ErrInvalidReminderTime = errors.New("model: reminder time must be positive")
	ErrInvalidRepeatDays   = errors.New("model: repeat days must be between 1 and 30")
	ErrRepeatMismatch      = errors.New("model: repeat days set without repeat enabled")
)

// MaxRepeatDays bounds the repeat delay a user can configure.
const MaxRepeatDays = 30

type TaskType string

const (
	TaskTypeMicro    TaskType = "micro"
	TaskTypeFollowUp TaskType = "follow-up"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeMicro, TaskTypeFollowUp:
		return true
	default:
		return false
	}
}

// Task is the sole persisted entity. Micro tasks fire once, ReminderMinutes
// after CreatedAt; follow-up tasks fire daily at FollowUpTime local time.
type Task struct {
	ID              string
	Title           string
	Description     string
	Type            TaskType
	CreatedAt       time.Time
	ReminderMinutes int
	FollowUpTime    string
	Completed       bool
	LastTriggered   *time.Time
	RepeatEnabled   bool
	RepeatDays      int
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	switch t.Type {
	case TaskTypeMicro:
		if t.ReminderMinutes <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidReminderTime, t.ReminderMinutes)
		}
	case TaskTypeFollowUp:
		if _, err := ParseClock(t.FollowUpTime); err != nil {
			return err
		}
	}
	if t.RepeatEnabled {
		if t.RepeatDays < 1 || t.RepeatDays > MaxRepeatDays {
			return fmt.Errorf("%w: %d", ErrInvalidRepeatDays, t.RepeatDays)
		}
	} else if t.RepeatDays != 0 {
		return ErrRepeatMismatch
	}
	return nil
}

// taskJSON is the wire form of a Task. Timestamps travel as ms-epoch
// integers; this layout is also the sqlite column set, so a task round-trips
// through both storage paths without loss.
type taskJSON struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Type          TaskType `json:"type"`
	CreatedAt     int64    `json:"createdAt"`
	ReminderTime  int      `json:"reminderTime"`
	FollowUpTime  string   `json:"followUpTime,omitempty"`
	Completed     bool     `json:"completed"`
	LastTriggered *int64   `json:"lastTriggered,omitempty"`
	RepeatEnabled bool     `json:"repeatEnabled"`
	RepeatDays    int      `json:"repeatDays,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	wire := taskJSON{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Type:          t.Type,
		CreatedAt:     t.CreatedAt.UnixMilli(),
		ReminderTime:  t.ReminderMinutes,
		FollowUpTime:  t.FollowUpTime,
		Completed:     t.Completed,
		RepeatEnabled: t.RepeatEnabled,
		RepeatDays:    t.RepeatDays,
	}
	if t.LastTriggered != nil {
		ms := t.LastTriggered.UnixMilli()
		wire.LastTriggered = &ms
	}
	return json.Marshal(wire)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var wire taskJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := Task{
		ID:              wire.ID,
		Title:           wire.Title,
		Description:     wire.Description,
		Type:            wire.Type,
		CreatedAt:       time.UnixMilli(wire.CreatedAt),
		ReminderMinutes: wire.ReminderTime,
		FollowUpTime:    wire.FollowUpTime,
		Completed:       wire.Completed,
		RepeatEnabled:   wire.RepeatEnabled,
		RepeatDays:      wire.RepeatDays,
	}
	if wire.LastTriggered != nil {
		lt := time.UnixMilli(*wire.LastTriggered)
		out.LastTriggered = &lt
	}
	*t = out
	return nil
}
