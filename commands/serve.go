package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/logflix/logflix/internal/server"
)

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session inventory and playback over HTTP",
	Long: `Serve exposes a read-only API over the runs directory: the session
inventory, raw cast content, rendered transcripts, and a WebSocket
playback stream that runs the replay clock server-side.`,
	Example: `  # Serve on the configured address (default 127.0.0.1:8799)
  logflix serve

  # Serve on a specific address
  logflix serve --addr 0.0.0.0:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (host:port, overrides config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := setupRuntime("")
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServeAddr
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	srv := server.New(server.Config{
		RunsDir:  cfg.RunsDir,
		CacheDir: cfg.CacheDir,
		Addr:     addr,
	})

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
