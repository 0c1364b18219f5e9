package engine

import (
	"sync"
	"time"

	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/notify"
)

// Warning reports a task the evaluator had to skip.
type Warning struct {
	TaskID string
	Err    error
}

// TickResult is the outcome of one evaluation pass. Tasks is the full updated
// collection; Changed holds only the tasks whose state the pass mutated.
type TickResult struct {
	Tasks    []model.Task
	Changed  []model.Task
	Fired    []FireEvent
	Warnings []Warning
}

// FireEvent is one due crossing: the task after its transition plus the
// notification request it produced.
type FireEvent struct {
	Task    model.Task
	Payload notify.Payload
	At      time.Time
}

// Evaluator holds the per-task transition guards. Guard state is
// process-local and never persisted: after a restart a still-due task
// notifies again exactly once.
type Evaluator struct {
	mu     sync.Mutex
	guards map[string]int64
	warned map[string]bool
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		guards: make(map[string]int64),
		warned: make(map[string]bool),
	}
}

// Tick evaluates every non-completed task against now. A task fires when now
// has crossed its trigger instant and the guard has not yet recorded that
// instant; firing transitions the task (micro: completed, follow-up:
// lastTriggered) and emits exactly one notification request. Re-running with
// the same inputs is a no-op. Tasks are evaluated in isolation: a malformed
// schedule yields a one-time warning and never blocks the rest of the pass.
func (e *Evaluator) Tick(tasks []model.Task, now time.Time) TickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := TickResult{Tasks: make([]model.Task, 0, len(tasks))}
	for _, t := range tasks {
		updated, fired, warn := e.evaluate(t, now)
		res.Tasks = append(res.Tasks, updated)
		if warn != nil {
			res.Warnings = append(res.Warnings, *warn)
		}
		if fired != nil {
			res.Fired = append(res.Fired, *fired)
			res.Changed = append(res.Changed, updated)
		}
	}
	return res
}

func (e *Evaluator) evaluate(t model.Task, now time.Time) (model.Task, *FireEvent, *Warning) {
	if t.Completed {
		return t, nil, nil
	}

	trigger, err := model.TriggerTime(t, now)
	if err != nil {
		if e.warned[t.ID] {
			return t, nil, nil
		}
		e.warned[t.ID] = true
		return t, nil, &Warning{TaskID: t.ID, Err: err}
	}

	if now.Before(trigger) {
		return t, nil, nil
	}

	anchor := trigger.UnixMilli()
	if e.guards[t.ID] == anchor {
		return t, nil, nil
	}
	e.guards[t.ID] = anchor

	switch t.Type {
	case model.TaskTypeMicro:
		t.Completed = true
	case model.TaskTypeFollowUp:
		lt := now
		t.LastTriggered = &lt
	}

	ev := FireEvent{
		Task:    t,
		Payload: payloadFor(t),
		At:      now,
	}
	return t, &ev, nil
}

// ClearGuard forgets all transition state for a task. Called whenever the
// task's anchor changes: creation, reset, schedule edits, deletion.
func (e *Evaluator) ClearGuard(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.guards, id)
	delete(e.warned, id)
}

func payloadFor(t model.Task) notify.Payload {
	message := t.Description
	if message == "" {
		message = "Time to complete this task!"
	}
	return notify.Payload{
		Title:   "Reminder: " + t.Title,
		Message: message,
		Tag:     t.ID,
	}
}
