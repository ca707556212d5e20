package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lekan/attendease/internal/bootstrap"
	"github.com/lekan/attendease/internal/pkg/logger"
)

// Run starts the HTTP server and blocks until shutdown. SIGINT and
// SIGTERM trigger a graceful drain with a 10 second deadline.
func Run(app *bootstrap.App) error {
	srv := &http.Server{
		Addr:              ":" + app.Config.Server.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", app.Config.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	app.Close()
	logger.Info().Msg("Server stopped")
	return nil
}
