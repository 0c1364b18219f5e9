package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrocore-app/astrocore/internal/commands"
	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/service"
	"github.com/astrocore-app/astrocore/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeDashboard
		m.paletteInput.Blur()
		return m, nil
	case "enter":
		input := m.paletteInput.Value()
		m.Mode = ModeDashboard
		m.paletteInput.Blur()
		return m, runCommandCmd(m.svc, input, m.cfg.DefaultReminderMinutes)
	}

	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func runCommandCmd(svc *service.Service, input string, reminderMinutes int) tea.Cmd {
	return func() tea.Msg {
		cmd, err := commands.Parse(input)
		if err != nil {
			return ErrMsg{Err: err}
		}
		res, err := commands.Execute(cmd, paletteHandlers(svc, reminderMinutes))
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: res.Message}
	}
}

// paletteHandlers wires the palette grammar to the task service. Palette adds
// are always micro tasks with the configured default reminder; the form is the
// surface for anything richer.
func paletteHandlers(svc *service.Service, reminderMinutes int) commands.Handlers {
	ctx := context.Background()
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			task, err := svc.AddTask(ctx, service.Draft{
				Title:           args.Title,
				Type:            model.TaskTypeMicro,
				ReminderMinutes: reminderMinutes,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s (%s)", task.Title, task.ID)}, nil
		},
		Done: func(args commands.TargetArgs) (commands.Result, error) {
			task, err := svc.CompleteTask(ctx, args.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "completed " + task.Title}, nil
		},
		Reset: func(args commands.TargetArgs) (commands.Result, error) {
			task, err := svc.ResetTask(ctx, args.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "reset " + task.Title}, nil
		},
		Delete: func(args commands.TargetArgs) (commands.Result, error) {
			if err := svc.DeleteTask(ctx, args.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted " + args.ID}, nil
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			filter, err := showFilter(args.Subject)
			if err != nil {
				return commands.Result{}, err
			}
			tasks, err := svc.ListTasks(ctx, filter)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%d %s task(s)", len(tasks), args.Subject)}, nil
		},
		Find: func(args commands.FindArgs) (commands.Result, error) {
			tasks, err := svc.ListTasks(ctx, store.ListFilter{})
			if err != nil {
				return commands.Result{}, err
			}
			query := strings.ToLower(args.Query)
			matches := 0
			for _, t := range tasks {
				if matchesSearch(t, query) {
					matches++
				}
			}
			return commands.Result{Message: fmt.Sprintf("%d task(s) match %q", matches, args.Query)}, nil
		},
	}
}

func showFilter(subject string) (store.ListFilter, error) {
	completed := func(v bool) *bool { return &v }
	switch subject {
	case "all":
		return store.ListFilter{}, nil
	case "pending":
		return store.ListFilter{Completed: completed(false)}, nil
	case "completed":
		return store.ListFilter{Completed: completed(true)}, nil
	case "micro":
		return store.ListFilter{Type: model.TaskTypeMicro}, nil
	case "follow-up":
		return store.ListFilter{Type: model.TaskTypeFollowUp}, nil
	default:
		return store.ListFilter{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: "unknown show subject: " + subject,
		}
	}
}
