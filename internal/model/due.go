package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedSchedule marks a follow-up time that does not parse as 24-hour
// HH:MM. Tasks carrying one are skipped by the evaluator, never fired.
var ErrMalformedSchedule = errors.New("model: malformed follow-up time")

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedSchedule, s)
	}
	hour, ok1 := twoDigits(s[0], s[1])
	minute, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedSchedule, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At returns the instant at this clock time on day's calendar date, in day's
// location.
func (c Clock) At(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// TriggerTime returns the instant at or after which the task should fire.
// For micro tasks this is CreatedAt plus the reminder offset, constant until
// the task is reset. For follow-up tasks it is today's FollowUpTime: crossing
// it is what makes the task due, so it is never advanced to tomorrow here.
func TriggerTime(t Task, now time.Time) (time.Time, error) {
	switch t.Type {
	case TaskTypeMicro:
		return t.CreatedAt.Add(time.Duration(t.ReminderMinutes) * time.Minute), nil
	case TaskTypeFollowUp:
		c, err := ParseClock(t.FollowUpTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		return c.At(now), nil
	default:
		return time.Time{}, fmt.Errorf("task %s: %w: %q", t.ID, ErrInvalidType, t.Type)
	}
}

// DueTime returns the next due instant relative to now, for display. For
// follow-up tasks the instant is always strictly in the future: today's
// FollowUpTime if still ahead, otherwise the same clock time tomorrow.
// Re-evaluating at a later now can move the result forward by whole days but
// never backward.
func DueTime(t Task, now time.Time) (time.Time, error) {
	due, err := TriggerTime(t, now)
	if err != nil {
		return time.Time{}, err
	}
	if t.Type == TaskTypeFollowUp && !due.After(now) {
		due = due.AddDate(0, 0, 1)
	}
	return due, nil
}

// Remaining is the time left until the next due instant. Negative values mean
// the task is overdue (micro tasks only; follow-up due times are future).
func Remaining(t Task, now time.Time) (time.Duration, error) {
	due, err := DueTime(t, now)
	if err != nil {
		return 0, err
	}
	return due.Sub(now), nil
}
