package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrocore-app/astrocore/internal/update"
)

func runTUI() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	loop := app.newLoop()
	loop.Start()
	defer loop.Stop()

	program := tea.NewProgram(update.NewModel(app.svc, loop, app.cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("cli: run dashboard: %w", err)
	}
	return nil
}
