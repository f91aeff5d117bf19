package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ErrServerStopped wraps failures from the underlying http.Server.
var ErrServerStopped = errors.New("httpserver: server stopped")

// Run serves handler until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully within the shutdown timeout.
func Run(ctx context.Context, cfg Config, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	if log != nil {
		log.InfoContext(ctx, "http server listening", slog.String("addr", cfg.Addr))
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = shutdown(srv, cfg.ShutdownTimeout, errCh)
	case <-stop:
		if log != nil {
			log.InfoContext(ctx, "shutdown signal received")
		}
		runErr = shutdown(srv, cfg.ShutdownTimeout, errCh)
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrServerStopped, runErr)
	}
	return nil
}

func shutdown(srv *http.Server, timeout time.Duration, errCh chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
