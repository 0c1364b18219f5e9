package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocore-app/astrocore/internal/output"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		for _, id := range args {
			task, err := app.svc.CompleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			output.Messagef(os.Stdout, "completed %s (%s)", task.Title, task.ID)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <id>...",
	Short: "Reset tasks so they become due again",
	Long: `Reset marks a task pending again and restarts its schedule: a micro
task counts its minutes from the moment of the reset, a follow-up task fires
at its next daily time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		for _, id := range args {
			task, err := app.svc.ResetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			output.Messagef(os.Stdout, "reset %s (%s)", task.Title, task.ID)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		for _, id := range args {
			if err := app.svc.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			output.Messagef(os.Stdout, "deleted %s", id)
		}
		return nil
	},
}
