package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Mode)
}

func TestLoadConfigFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[practice]
mode = "mouse-single"
auto-advance = false
delay = 1500
auto-submit = true
hold-grace = 600
weak-factor = 0.5

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Mode)
	assert.Equal(t, "mouse-single", *cfg.Practice.Mode)
	assert.False(t, *cfg.Practice.AutoAdvance)
	assert.Equal(t, 1500, *cfg.Practice.DelayMs)
	assert.True(t, *cfg.Practice.AutoSubmit)
	assert.Equal(t, 600, *cfg.Practice.HoldGraceMs)
	assert.InDelta(t, 0.5, *cfg.Practice.WeakFactor, 1e-9)
	assert.Nil(t, cfg.Practice.Sound)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[practice]\nspeed = 3\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "practice.speed")
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, "/cfg/tuimorse/config.toml", DefaultConfigPath())
	assert.Equal(t, "/cfg/tuimorse/words.txt", DefaultWordsPath())
	assert.Equal(t, "/data/tuimorse/tuimorse.db", DefaultDBPath())
	assert.Equal(t, "/data/tuimorse/tuimorse.log", DefaultLogPath())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[practice]\ndelay = 1000\n")

	changes := make(chan FileConfig, 4)
	w, err := NewWatcher(path, func(cfg FileConfig) { changes <- cfg }, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, path, "[practice]\ndelay = 2000\n")

	select {
	case cfg := <-changes:
		require.NotNil(t, cfg.Practice.DelayMs)
		assert.Equal(t, 2000, *cfg.Practice.DelayMs)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), func(FileConfig) {}, nil)
	assert.Error(t, err)
}
