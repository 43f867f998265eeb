package appconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("runs_dir", cfg.RunsDir)
	v.SetDefault("cache_dir", cfg.CacheDir)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("default_speed", cfg.DefaultSpeed)
	v.SetDefault("time_format", cfg.TimeFormat)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("serve_addr", cfg.ServeAddr)

	if err := v.ReadInConfig(); err != nil {
		// SetConfigFile surfaces a missing file as a path error rather
		// than viper's not-found type.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigPaths(&cfg)
	return cfg, nil
}

func expandConfigPaths(cfg *Config) {
	cfg.RunsDir = ExpandPath(cfg.RunsDir)
	cfg.CacheDir = ExpandPath(cfg.CacheDir)
	cfg.LogFile = ExpandPath(cfg.LogFile)
}

// ExpandPath resolves a leading tilde against the home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
