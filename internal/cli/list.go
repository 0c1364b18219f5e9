package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/output"
	"github.com/astrocore-app/astrocore/internal/store"
)

var listFlags struct {
	kind      string
	pending   bool
	completed bool
	limit     int
	offset    int
}

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		filter := store.ListFilter{Limit: listFlags.limit, Offset: listFlags.offset}
		if listFlags.kind != "" {
			kind := model.TaskType(listFlags.kind)
			if !kind.IsValid() {
				return fmt.Errorf("unknown task type %q", listFlags.kind)
			}
			filter.Type = kind
		}
		if listFlags.pending && listFlags.completed {
			return fmt.Errorf("--pending and --completed are mutually exclusive")
		}
		if listFlags.pending {
			v := false
			filter.Completed = &v
		}
		if listFlags.completed {
			v := true
			filter.Completed = &v
		}

		tasks, err := app.svc.ListTasks(cmd.Context(), filter)
		if err != nil {
			return err
		}

		now := time.Now()
		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, tasks)
		case output.FormatCompact:
			return output.Compact(os.Stdout, tasks, now)
		default:
			return output.Table(os.Stdout, tasks, now)
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listFlags.kind, "type", "", "filter by task type")
	listCmd.Flags().BoolVar(&listFlags.pending, "pending", false, "only pending tasks")
	listCmd.Flags().BoolVar(&listFlags.completed, "completed", false, "only completed tasks")
	listCmd.Flags().IntVar(&listFlags.limit, "limit", 0, "maximum number of tasks")
	listCmd.Flags().IntVar(&listFlags.offset, "offset", 0, "number of tasks to skip")
}
