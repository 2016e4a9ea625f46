// Package config loads and saves rv32's TOML configuration file,
// following the teacher's platform-aware path and encode/decode
// conventions narrowed to this emulator's actual knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the full rv32 configuration.
type Config struct {
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		MemorySize   uint   `toml:"memory_size"`
		StackSize    uint   `toml:"stack_size"`
		DefaultEntry string `toml:"default_entry"`
	} `toml:"execution"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // text, json
	} `toml:"trace"`

	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`
}

// DefaultConfig returns a Config with this emulator's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.MemorySize = 1 << 20 // 1 MiB
	cfg.Execution.StackSize = 65536
	cfg.Execution.DefaultEntry = "_start"

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.Format = "text"

	cfg.Display.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its parent directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path,
// creating it if necessary.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rv32", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rv32", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file, falling back
// to DefaultConfig if it does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the given file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("config: creating directory %s: %w", dir, err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("config: closing %s: %w", path, closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}

	return nil
}
