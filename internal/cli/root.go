// Package cli implements the astrocore command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/astrocore-app/astrocore/internal/config"
	"github.com/astrocore-app/astrocore/internal/engine"
	"github.com/astrocore-app/astrocore/internal/notify"
	"github.com/astrocore-app/astrocore/internal/output"
	"github.com/astrocore-app/astrocore/internal/service"
	"github.com/astrocore-app/astrocore/internal/store"
)

type rootFlags struct {
	dbPath    string
	jsonOut   bool
	compact   bool
	noDesktop bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "astrocore",
	Short: "Personal task reminders with micro and follow-up schedules",
	Long: `astrocore keeps two kinds of reminders: micro tasks that fire once a
few minutes after you create them, and follow-up tasks that fire every day at
a fixed time. Run it without arguments for the interactive dashboard, or use
the subcommands for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().SetNormalizeFunc(normalizeFlag)
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the task database (default: config dir)")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "emit JSON output")
	rootCmd.PersistentFlags().BoolVar(&flags.compact, "compact", false, "emit one-line-per-task output")
	rootCmd.PersistentFlags().BoolVar(&flags.noDesktop, "no-desktop", false, "disable desktop notifications")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles everything a subcommand needs: resolved config, the open
// repository, and the service on top of it. Close releases the database.
type app struct {
	cfg    config.Config
	repo   *store.SQLiteRepository
	svc    *service.Service
	logger *slog.Logger
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.noDesktop {
		cfg.DesktopNotifications = false
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("cli: create data dir: %w", err)
		}
	}
	repo, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := service.New(repo, buildNotifier(cfg, logger), logger)
	return &app{cfg: cfg, repo: repo, svc: svc, logger: logger}, nil
}

func (a *app) Close() error {
	return a.repo.Close()
}

func (a *app) newLoop() *engine.Loop {
	return engine.NewLoop(a.svc, a.cfg.TickInterval(), a.cfg.EventBuffer, a.logger)
}

func loadConfig() (config.Config, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(filepath.Join(dir, "config.yml"))
}

func buildNotifier(cfg config.Config, logger *slog.Logger) notify.Notifier {
	if !cfg.DesktopNotifications {
		return notify.Noop{}
	}
	return notify.Multi{
		Notifiers: []notify.Notifier{notify.Desktop{}},
		Logger:    logger,
	}
}

// normalizeFlag lets users spell multi-word flags with either dashes or
// underscores.
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func outputFormat() output.Format {
	return output.Detect(flags.jsonOut, flags.compact)
}
