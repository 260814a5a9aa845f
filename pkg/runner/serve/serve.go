// Package serve runs the in-memory development service.
package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"tableflip.dev/yourdiary/pkg/devserver"
	"tableflip.dev/yourdiary/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// Serve listens on Addr until ctx is done.
type Serve struct {
	Addr    string
	Session string
	Metrics *observability.Metrics
	// NoListing leaves out GET /api/tasks.
	NoListing bool

	// Ready, when set, receives the bound address once listening.
	Ready chan<- string
}

func (s *Serve) Do(ctx context.Context) error {
	opts := []devserver.Option{devserver.WithMetrics(s.Metrics)}
	if s.Session != "" {
		opts = append(opts, devserver.WithSession(s.Session))
	}
	if s.NoListing {
		opts = append(opts, devserver.WithoutListing())
	}
	api := devserver.New(opts...)

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log := observability.WithFields("addr", ln.Addr().String())
	errCh := make(chan error, 1)
	go func() {
		log.Info("dev server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if s.Ready != nil {
		s.Ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "err", err)
		_ = srv.Close()
		return err
	}
	log.Info("shutdown complete")
	return nil
}
