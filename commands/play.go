package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/constants"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/data/scanner"
	"github.com/logflix/logflix/internal/data/watcher"
	"github.com/logflix/logflix/internal/presentation/display"
	"github.com/logflix/logflix/internal/presentation/interaction"
)

var (
	// Playback flags
	playSpeed  float64
	playPaused bool
	playFollow bool

	// Display flags
	playTimezone   string
	playTimeFormat string
)

var playCmd = &cobra.Command{
	Use:   "play <file|session-id>",
	Short: "Replay a terminal session interactively",
	Long: `Opens a full-screen player for one cast recording.

The argument is either a path to a .cast file or a session id resolved
against the runs directory. Playback starts immediately at 1x; space
pauses, arrow keys seek, n/p jump between annotation markers, s enters
scrub mode. Press h inside the player for the full key map.

With --follow the player watches the file and extends the timeline as the
recording grows, resuming automatically when a viewer is parked at the
end.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	// Playback flags
	playCmd.Flags().Float64Var(&playSpeed, "speed", 0,
		"Initial playback speed (0.5, 1, 2, 4; default from config)")
	playCmd.Flags().BoolVar(&playPaused, "paused", false,
		"Start paused at t=0 instead of playing")
	playCmd.Flags().BoolVarP(&playFollow, "follow", "f", false,
		"Watch the file and extend playback as it grows")

	// Display flags
	playCmd.Flags().StringVar(&playTimezone, "timezone", "",
		"Timezone for the header clock (e.g., Asia/Shanghai, UTC)")
	playCmd.Flags().StringVar(&playTimeFormat, "time-format", "",
		"Go layout for the header clock")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := setupRuntime(playTimezone)
	if err != nil {
		return err
	}

	speed := playSpeed
	if speed == 0 {
		speed = cfg.DefaultSpeed
	}
	if !validSpeed(speed) {
		return fmt.Errorf("invalid speed %v: must be one of %v", speed, constants.Speeds)
	}

	path, err := resolveCastPath(args[0], cfg.RunsDir)
	if err != nil {
		return err
	}

	doc, err := cast.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cast file: %w", err)
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to enter raw keyboard mode: %w", err)
	}
	defer keyboard.Close()

	var files <-chan model.FileEvent
	if playFollow {
		fw, err := watcher.NewFileWatcher([]string{filepath.Dir(path)})
		if err != nil {
			return fmt.Errorf("failed to watch cast file: %w", err)
		}
		defer fw.Close()
		files = fw.Events()
	}

	layout := model.LayoutParam{
		Timezone:   resolveTimezone(playTimezone, cfg),
		TimeFormat: resolveTimeFormat(playTimeFormat, cfg),
	}

	controller := player.NewController(player.Config{
		Path:     path,
		Document: doc,
		Renderer: display.NewTerminalDisplay(layout),
		Keys:     keyboard.Events(),
		Files:    files,
		Loader:   func() (*cast.Document, error) { return cast.ParseFile(path) },
		Follow:   playFollow,
	})

	controller.Playback().SetSpeed(speed)
	if !playPaused {
		controller.Playback().Play()
	}

	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func validSpeed(speed float64) bool {
	for _, s := range constants.Speeds {
		if s == speed {
			return true
		}
	}
	return false
}

// resolveCastPath turns the play/export/inspect argument into a file path:
// an existing file wins, otherwise the runs directory is searched for a
// session whose filename stem matches the argument exactly or as a unique
// prefix.
func resolveCastPath(arg, runsDir string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}

	files, err := scanner.NewFileScanner(runsDir).Scan()
	if err != nil {
		return "", fmt.Errorf("failed to scan runs directory: %w", err)
	}

	var prefixMatches []string
	for _, file := range files {
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if stem == arg {
			return file, nil
		}
		if strings.HasPrefix(stem, arg) {
			prefixMatches = append(prefixMatches, file)
		}
	}

	switch len(prefixMatches) {
	case 1:
		return prefixMatches[0], nil
	case 0:
		return "", fmt.Errorf("no session %q found under %s", arg, runsDir)
	default:
		return "", fmt.Errorf("session id %q is ambiguous: %d matches", arg, len(prefixMatches))
	}
}
