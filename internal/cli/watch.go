package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/astrocore-app/astrocore/internal/output"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the reminder loop without the dashboard",
	Long: `Watch evaluates tasks once per tick and delivers notifications until
interrupted. Use it under a process supervisor, or in a spare terminal, when
you want reminders without keeping the dashboard open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		loop := app.newLoop()
		loop.Start()
		defer loop.Stop()

		output.Messagef(os.Stdout, "watching tasks every %s, ctrl-c to stop", app.cfg.TickInterval())

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		for {
			select {
			case ev, ok := <-loop.C():
				if !ok {
					return nil
				}
				output.Messagef(os.Stdout, "[%s] %s", ev.At.Format("15:04:05"), ev.Payload.Title)
			case <-sig:
				return nil
			case <-cmd.Context().Done():
				return nil
			}
		}
	},
}
