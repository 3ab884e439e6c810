package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPServerWorker serves an http.Handler until the context is cancelled.
// beforeShutdown runs first so hijacked connections, which Shutdown does not track, can be closed.
type HTTPServerWorker struct {
	log             *slog.Logger
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	beforeShutdown  func()
}

func NewHTTPServerWorker(log *slog.Logger, address string, handler http.Handler,
	shutdownTimeout time.Duration, beforeShutdown func()) *HTTPServerWorker {
	return &HTTPServerWorker{
		log:             log,
		address:         address,
		handler:         handler,
		shutdownTimeout: shutdownTimeout,
		beforeShutdown:  beforeShutdown,
	}
}

func (w *HTTPServerWorker) Name() string { return "HTTPServer " + w.address }

func (w *HTTPServerWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", w.address, err)
	}
	srv := &http.Server{
		Handler:           w.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting HTTP server", "address", listener.Addr().String(), "at", time.Now().UTC())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	w.log.Info("Shutting down HTTP server...")
	if w.beforeShutdown != nil {
		w.beforeShutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		w.log.Warn("HTTP server did not stop cleanly", "error", err)
	}
	return nil
}
