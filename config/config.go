// Package config holds decoder-forge's on-disk settings: decoder width
// defaults, output format, and tree-printer display toggles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents decoder-forge's configuration.
type Config struct {
	// Generation settings
	Generation struct {
		DecoderWidth int    `toml:"decoder_width"`
		OutputFormat string `toml:"output_format"` // go, python (target language for the transpiler)
	} `toml:"generation"`

	// Tree display settings. They are loaded and saved with the rest of the
	// file; the text printer, treeview and treegui do not read them.
	Tree struct {
		IndentWidth     int  `toml:"indent_width"`
		ShowCatchAll    bool `toml:"show_catch_all"`
		ColorOutput     bool `toml:"color_output"`
		CollapseLengths bool `toml:"collapse_lengths"` // size tree: collapse leaves of equal length visually
	} `toml:"tree"`

	// Diagnostics settings
	Diagnostics struct {
		WarnOnAmbiguousSiblings bool `toml:"warn_on_ambiguous_siblings"`
		DumpContext             bool `toml:"dump_context"`
	} `toml:"diagnostics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Generation.DecoderWidth = 32
	cfg.Generation.OutputFormat = "go"

	cfg.Tree.IndentWidth = 20
	cfg.Tree.ShowCatchAll = true
	cfg.Tree.ColorOutput = true
	cfg.Tree.CollapseLengths = true

	cfg.Diagnostics.WarnOnAmbiguousSiblings = true
	cfg.Diagnostics.DumpContext = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "decoder-forge")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "decoder-forge")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error; the defaults are returned instead.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
