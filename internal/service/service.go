package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/astrocore-app/astrocore/internal/engine"
	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/notify"
	"github.com/astrocore-app/astrocore/internal/store"
)

// Draft is the user input for a new task. The service assigns id and
// createdAt at creation time.
type Draft struct {
	Title           string
	Description     string
	Type            model.TaskType
	ReminderMinutes int
	FollowUpTime    string
	RepeatEnabled   bool
	RepeatDays      int
}

// Patch is a partial task update. Nil fields are left untouched; the task
// type is immutable and therefore absent.
type Patch struct {
	Title           *string
	Description     *string
	ReminderMinutes *int
	FollowUpTime    *string
	RepeatEnabled   *bool
	RepeatDays      *int
}

// Service is the only mutation surface over the task collection. Every
// mutation is written through to the repository; the evaluator's guard state
// is cleared whenever a task's scheduling anchor changes.
type Service struct {
	repo     store.Repository
	eval     *engine.Evaluator
	notifier notify.Notifier
	logger   *slog.Logger
	clock    func() time.Time

	mu     sync.Mutex
	lastID int64
}

func New(repo store.Repository, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		eval:     engine.NewEvaluator(),
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
	}
}

// NewWithClock is New with an injected time source, for tests.
func NewWithClock(repo store.Repository, notifier notify.Notifier, logger *slog.Logger, clock func() time.Time) *Service {
	s := New(repo, notifier, logger)
	if clock != nil {
		s.clock = clock
	}
	return s
}

func (s *Service) AddTask(ctx context.Context, draft Draft) (model.Task, error) {
	now := s.clock()
	task := model.Task{
		ID:              s.nextID(now),
		Title:           draft.Title,
		Description:     draft.Description,
		Type:            draft.Type,
		CreatedAt:       now,
		ReminderMinutes: draft.ReminderMinutes,
		FollowUpTime:    draft.FollowUpTime,
		RepeatEnabled:   draft.RepeatEnabled,
		RepeatDays:      draft.RepeatDays,
	}
	if task.Type == model.TaskTypeFollowUp {
		lt := now
		task.LastTriggered = &lt
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.eval.ClearGuard(task.ID)
	return task, nil
}

func (s *Service) GetTask(ctx context.Context, id string) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, filter store.ListFilter) ([]model.Task, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.eval.ClearGuard(id)
	return nil
}

// CompleteTask marks a task done unconditionally, regardless of its due
// state. The evaluator skips completed tasks, so no notification follows.
func (s *Service) CompleteTask(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task.Completed = true
	if err := s.repo.Update(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("complete task: %w", err)
	}
	return task, nil
}

// ResetTask returns a completed task to pending with a fresh anchor: the
// reminder countdown restarts from the reset instant. Reset is immediate and
// user-triggered; repeatDays does not delay it.
func (s *Service) ResetTask(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task.Completed = false
	task.CreatedAt = s.clock()
	task.LastTriggered = nil
	if err := s.repo.Update(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("reset task: %w", err)
	}
	s.eval.ClearGuard(id)
	return task, nil
}

func (s *Service) UpdateTask(ctx context.Context, id string, patch Patch) (model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	scheduleChanged := false
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.ReminderMinutes != nil {
		task.ReminderMinutes = *patch.ReminderMinutes
		scheduleChanged = true
	}
	if patch.FollowUpTime != nil {
		task.FollowUpTime = *patch.FollowUpTime
		scheduleChanged = true
	}
	if patch.RepeatEnabled != nil {
		task.RepeatEnabled = *patch.RepeatEnabled
		if !task.RepeatEnabled {
			task.RepeatDays = 0
		}
	}
	if patch.RepeatDays != nil {
		task.RepeatDays = *patch.RepeatDays
	}

	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if scheduleChanged {
		s.eval.ClearGuard(id)
	}
	return task, nil
}

// Evaluate runs one engine tick: load, evaluate, persist transitions,
// dispatch notifications. It satisfies engine.Source. A failed save leaves
// the guard in place so the fire is not repeated within this process run; a
// failed notification never blocks the state transition.
func (s *Service) Evaluate(ctx context.Context, now time.Time) ([]engine.FireEvent, error) {
	tasks := store.LoadAll(ctx, s.repo, s.logger)
	res := s.eval.Tick(tasks, now)

	for _, w := range res.Warnings {
		s.logger.Warn("task skipped by evaluator", "task", w.TaskID, "err", w.Err)
	}
	for _, t := range res.Changed {
		if err := s.repo.Update(ctx, t); err != nil {
			s.logger.Warn("failed to persist task transition", "task", t.ID, "err", err)
		}
	}
	for _, ev := range res.Fired {
		if err := s.notifier.Send(ev.Payload); err != nil {
			s.logger.Warn("notification delivery failed", "tag", ev.Payload.Tag, "err", err)
		}
	}
	return res.Fired, nil
}

// nextID mirrors the historical id scheme: the creation instant in ms epoch,
// bumped on collision so two tasks created in the same millisecond stay
// distinct.
func (s *Service) nextID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}
