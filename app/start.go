package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight requests may take once shutdown starts.
const ShutdownTimeout = 10 * time.Second

// Start serves HTTP and runs the change router until ctx is cancelled.
func (app *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.Config.HTTP.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	logger := app.Observability.Logger
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           app.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		if err := app.Router.Run(ctx); err != nil {
			return fmt.Errorf("change router: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
