package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the file-backed settings shared by every subcommand. Command
// flags override whatever the file provides.
type Config struct {
	RunsDir      string  `mapstructure:"runs_dir" yaml:"runs_dir"`
	CacheDir     string  `mapstructure:"cache_dir" yaml:"cache_dir"`
	LogFile      string  `mapstructure:"log_file" yaml:"log_file"`
	DefaultSpeed float64 `mapstructure:"default_speed" yaml:"default_speed"`
	TimeFormat   string  `mapstructure:"time_format" yaml:"time_format"`
	Timezone     string  `mapstructure:"timezone" yaml:"timezone"`
	ServeAddr    string  `mapstructure:"serve_addr" yaml:"serve_addr"`
}

// DefaultConfigPath returns ~/.logflix/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".logflix", "config.yaml"), nil
}

// DefaultConfig returns the built-in settings used when no config file
// exists. Paths keep their tilde prefix; Load expands them.
func DefaultConfig() Config {
	return Config{
		RunsDir:      "~/.logflix/runs",
		CacheDir:     "~/.logflix/cache",
		LogFile:      "~/.logflix/logs/logflix.log",
		DefaultSpeed: 1.0,
		TimeFormat:   "2006-01-02 15:04",
		Timezone:     "Local",
		ServeAddr:    "127.0.0.1:8799",
	}
}
