package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logflix/logflix/internal/appconfig"
	"github.com/logflix/logflix/internal/inventory"
	"github.com/logflix/logflix/internal/util"
)

var (
	// Logging related
	debug bool

	// Config file
	configFile string

	// Data path
	runsDir string

	// Output related
	outputFormat string
	timezone     string
	timeFormat   string

	// Filtering and grouping
	duration  string
	groupBy   string
	project   string
	sortBy    string
	ascending bool
	limit     int
	reset     bool

	rootCmd = &cobra.Command{
		Use:   "logflix [flags]",
		Short: "Browse and replay terminal session recordings",
		Long: `logflix is a command-line toolkit for browsing and replaying terminal
session casts captured during automated runs.

Without a subcommand it scans the runs directory for *.cast files and prints
the session inventory.

Examples:
  logflix                                  # List sessions with default settings
  logflix --dir /srv/runs                  # List sessions under a directory
  logflix --output json --sort-by events   # JSON output, busiest sessions first
  logflix --duration 7d                    # Sessions recorded in the last week
  logflix --duration 1d12h -p billing      # Recent sessions for one project
  logflix --output summary --group-by day  # Per-day totals
  logflix play 00aec530                    # Replay a session interactively`,
		RunE: runInventory,
	}
)

func init() {
	// Shared configuration
	rootCmd.PersistentFlags().StringVar(&runsDir, "dir", "",
		"Runs directory holding *.cast files (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file path (default ~/.logflix/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	// Time filtering
	rootCmd.Flags().StringVarP(&duration, "duration", "d", "",
		"Look back window for recordings (e.g., 12h, 7d, 2w, 1m, 1d12h)")

	// Data organization
	rootCmd.Flags().StringVar(&groupBy, "group-by", "project",
		"Summary grouping (project, day)")
	rootCmd.Flags().StringVarP(&project, "project", "p", "",
		"Filter sessions by project name substring")
	rootCmd.Flags().StringVar(&sortBy, "sort-by", "recorded",
		"Sort field (recorded, duration, events, project)")
	rootCmd.Flags().BoolVar(&ascending, "ascending", false,
		"Sort ascending instead of descending")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.Flags().StringVar(&timezone, "timezone", "",
		"Timezone for recorded-at columns (e.g., Asia/Shanghai, UTC)")
	rootCmd.Flags().StringVar(&timeFormat, "time-format", "",
		"Go layout for recorded-at columns (default '2006-01-02 15:04')")

	// System and debugging
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear the summary cache before scanning")
}

func runInventory(cmd *cobra.Command, args []string) error {
	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	cfg, err := setupRuntime(timezone)
	if err != nil {
		return err
	}

	if reset {
		if err := clearCache(cfg.CacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	config := &inventory.Config{
		RunsDir:      cfg.RunsDir,
		CacheDir:     cfg.CacheDir,
		OutputFormat: outputFormat,
		Timezone:     resolveTimezone(timezone, cfg),
		TimeFormat:   resolveTimeFormat(timeFormat, cfg),
		Project:      project,
		Duration:     duration,
		GroupBy:      groupBy,
		SortBy:       sortBy,
		Ascending:    ascending,
		Limit:        limit,
	}

	inv := inventory.New(config)
	return inv.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// setupRuntime resolves the shared runtime used by every subcommand: the
// config file, the logger, the time provider and the data directories. Flag
// values override config file values.
func setupRuntime(tz string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(configFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if runsDir != "" {
		cfg.RunsDir = expandPath(runsDir)
	}

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	ensureDir(filepath.Dir(cfg.LogFile))
	util.InitLogger(logLevel, cfg.LogFile, debug)
	util.InitializeTimeProvider(resolveTimezone(tz, cfg))

	if err := ensureDir(cfg.CacheDir); err != nil {
		return cfg, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return cfg, nil
}

func resolveTimezone(flag string, cfg appconfig.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Timezone != "" {
		return cfg.Timezone
	}
	return "Local"
}

func resolveTimeFormat(flag string, cfg appconfig.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.TimeFormat
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
