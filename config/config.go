package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"lpd8ctl/setting"
)

const maxRecent = 8

// DeviceConfig says how to find the LPD8 output port
type DeviceConfig struct {
	PortMatch   string `json:"portMatch"`
	Wait        bool   `json:"wait,omitempty"`
	WaitSeconds int    `json:"waitSeconds,omitempty"`
}

// UIConfig stores preview preferences
type UIConfig struct {
	LastFile string `json:"lastFile,omitempty"`
	LastSlot int    `json:"lastSlot,omitempty"`
	Palette  string `json:"palette,omitempty"` // GPL file used by -on-palette
}

// Config is the tool's own settings, not a pad program
type Config struct {
	Device         DeviceConfig `json:"device"`
	DefaultProgram int          `json:"defaultProgram"`
	Debug          bool         `json:"debug,omitempty"`
	Recent         []string     `json:"recent,omitempty"`
	UI             UIConfig     `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			PortMatch:   "lpd8",
			WaitSeconds: 30,
		},
		DefaultProgram: 1,
		UI: UIConfig{
			LastSlot: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lpd8ctl"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the default program slot.
func (c *Config) Validate() error {
	_, err := setting.ProgramSlot.EncodeInt(c.DefaultProgram)
	return err
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddRecent moves path to the front of the recent list
func (c *Config) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.Recent {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	c.Recent = recent
}

// PortMatch returns the port substring to look for
func (c *Config) PortMatch() string {
	if c.Device.PortMatch == "" {
		return "lpd8"
	}
	return c.Device.PortMatch
}
