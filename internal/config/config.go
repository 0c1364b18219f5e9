// Package config resolves the astrocore runtime configuration from a YAML
// file with ASTROCORE_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

type Config struct {
	DBPath                 string `yaml:"db_path"`
	TickSeconds            int    `yaml:"tick_seconds"`
	EventBuffer            int    `yaml:"event_buffer"`
	DesktopNotifications   bool   `yaml:"desktop_notifications"`
	DefaultReminderMinutes int    `yaml:"default_reminder_minutes"`
	DefaultFollowUpTime    string `yaml:"default_follow_up_time"`
}

func Default() Config {
	return Config{
		TickSeconds:            1,
		EventBuffer:            64,
		DesktopNotifications:   true,
		DefaultReminderMinutes: 5,
		DefaultFollowUpTime:    "10:00",
	}
}

// TickInterval converts TickSeconds into the evaluation period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// DefaultDir returns ~/.config/astrocore.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "astrocore"), nil
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides. The zero DBPath is
// resolved to <config dir>/astrocore.db.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg = FromEnv(cfg)

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), "astrocore.db")
	}
	if cfg.TickSeconds <= 0 {
		cfg.TickSeconds = 1
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 1
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, fileMode)
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("ASTROCORE_DB")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("ASTROCORE_TICK_SECONDS"); ok && v > 0 {
		cfg.TickSeconds = v
	}
	if v, ok := getEnvInt("ASTROCORE_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	if v, ok := getEnvBool("ASTROCORE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("ASTROCORE_DEFAULT_REMINDER_MINUTES"); ok && v > 0 {
		cfg.DefaultReminderMinutes = v
	}
	if v := strings.TrimSpace(os.Getenv("ASTROCORE_DEFAULT_FOLLOW_UP_TIME")); v != "" {
		cfg.DefaultFollowUpTime = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
