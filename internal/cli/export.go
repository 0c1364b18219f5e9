package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocore-app/astrocore/internal/output"
	"github.com/astrocore-app/astrocore/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write all tasks to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := store.ExportJSON(cmd.Context(), app.repo, args[0]); err != nil {
			return err
		}
		output.Messagef(os.Stdout, "exported tasks to %s", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load tasks from a JSON file",
	Long: `Import reads a JSON task list, validates each entry and writes the
valid ones into the database. Existing tasks with the same id are replaced;
invalid entries are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := store.ImportJSON(cmd.Context(), app.repo, args[0], app.logger)
		if err != nil {
			return err
		}
		output.Messagef(os.Stdout, "imported %d task(s) from %s", n, args[0])
		return nil
	},
}
