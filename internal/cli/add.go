package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/output"
	"github.com/astrocore-app/astrocore/internal/service"
)

var addFlags struct {
	description string
	kind        string
	inMinutes   int
	atTime      string
	repeatDays  int
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Long: `Create a task. Micro tasks remind once, a number of minutes after
creation (--in). Follow-up tasks remind every day at a fixed time (--at).
Passing --at implies --type follow-up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		draft := service.Draft{
			Title:       strings.Join(args, " "),
			Description: addFlags.description,
			Type:        model.TaskType(addFlags.kind),
		}
		if addFlags.atTime != "" {
			draft.Type = model.TaskTypeFollowUp
		}
		switch draft.Type {
		case model.TaskTypeFollowUp:
			draft.FollowUpTime = addFlags.atTime
			if draft.FollowUpTime == "" {
				draft.FollowUpTime = app.cfg.DefaultFollowUpTime
			}
		default:
			draft.ReminderMinutes = addFlags.inMinutes
			if draft.ReminderMinutes == 0 {
				draft.ReminderMinutes = app.cfg.DefaultReminderMinutes
			}
		}
		if addFlags.repeatDays > 0 {
			draft.RepeatEnabled = true
			draft.RepeatDays = addFlags.repeatDays
		}

		task, err := app.svc.AddTask(cmd.Context(), draft)
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, task)
		}
		output.Messagef(os.Stdout, "added %s (%s)", task.Title, task.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addFlags.description, "desc", "", "task description (markdown)")
	addCmd.Flags().StringVar(&addFlags.kind, "type", string(model.TaskTypeMicro),
		fmt.Sprintf("task type: %s or %s", model.TaskTypeMicro, model.TaskTypeFollowUp))
	addCmd.Flags().IntVar(&addFlags.inMinutes, "in", 0, "minutes until a micro task fires")
	addCmd.Flags().StringVar(&addFlags.atTime, "at", "", "daily HH:MM for a follow-up task")
	addCmd.Flags().IntVar(&addFlags.repeatDays, "repeat", 0, "suggest re-activation after N days")
}
