package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.yml"))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.TickSeconds)
	assert.Equal(t, 64, cfg.EventBuffer)
	assert.True(t, cfg.DesktopNotifications)
	assert.Equal(t, 5, cfg.DefaultReminderMinutes)
	assert.Equal(t, "10:00", cfg.DefaultFollowUpTime)
	assert.Equal(t, filepath.Join(dir, "astrocore.db"), cfg.DBPath)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	raw := []byte("db_path: /tmp/other.db\ntick_seconds: 5\ndesktop_notifications: false\ndefault_follow_up_time: \"08:30\"\n")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.TickSeconds)
	assert.False(t, cfg.DesktopNotifications)
	assert.Equal(t, "08:30", cfg.DefaultFollowUpTime)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("tick_seconds: [not an int"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASTROCORE_DB", "/tmp/env.db")
	t.Setenv("ASTROCORE_TICK_SECONDS", "3")
	t.Setenv("ASTROCORE_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("ASTROCORE_DEFAULT_REMINDER_MINUTES", "15")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.TickSeconds)
	assert.False(t, cfg.DesktopNotifications)
	assert.Equal(t, 15, cfg.DefaultReminderMinutes)
}

func TestEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("ASTROCORE_TICK_SECONDS", "soon")
	t.Setenv("ASTROCORE_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := FromEnv(Default())
	assert.Equal(t, 1, cfg.TickSeconds)
	assert.True(t, cfg.DesktopNotifications)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := Default()
	want.DBPath = "/tmp/roundtrip.db"
	want.TickSeconds = 2

	require.NoError(t, Save(want, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTickInterval(t *testing.T) {
	cfg := Config{TickSeconds: 3}
	assert.Equal(t, 3*time.Second, cfg.TickInterval())
}
