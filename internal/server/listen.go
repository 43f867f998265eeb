package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/logflix/logflix/internal/util"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves the API until the context is cancelled, then
// drains in-flight requests before returning. Active WebSocket streams
// inherit the listen context, so cancelling it ends them too.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	util.LogInfo(fmt.Sprintf("Serving session API on http://%s", s.config.Addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
