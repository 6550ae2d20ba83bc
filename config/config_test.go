package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpd8ctl/setting"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "lpd8", cfg.PortMatch())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Device.PortMatch = "LPD8 mk2"
	cfg.DefaultProgram = 3
	cfg.Debug = true
	cfg.AddRecent("drums.json")
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(home, ".config", "lpd8ctl", "config.json"))
	require.NoError(t, err)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "lpd8ctl")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"debug": true}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 1, cfg.DefaultProgram)
	assert.Equal(t, "lpd8", cfg.Device.PortMatch)
}

func TestLoadRejectsBadSlot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "lpd8ctl")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"defaultProgram": 5}`), 0644))

	_, err := Load()
	assert.True(t, errors.Is(err, setting.ErrOutOfRange))
}

func TestAddRecent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AddRecent("a.json")
	cfg.AddRecent("b.json")
	cfg.AddRecent("a.json")
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Recent)

	for i := 0; i < 20; i++ {
		cfg.AddRecent(fmt.Sprintf("%d.json", i))
	}
	assert.Len(t, cfg.Recent, maxRecent)
	assert.Equal(t, "19.json", cfg.Recent[0])
}
