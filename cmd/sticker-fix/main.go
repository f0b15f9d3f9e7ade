package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tendant/sticker-resize-fix/internal/config"
	"github.com/tendant/sticker-resize-fix/internal/handlers"
	"github.com/tendant/sticker-resize-fix/internal/logging"
	"github.com/tendant/sticker-resize-fix/pkg/runner"
)

// Sticker correction job. Runs one pass and exits, or serves the pass on
// /v1/run when HTTP_ADDR is set.
func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if _, err := logging.Setup(os.Getenv("LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := runner.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer r.Shutdown()

	if cfg.HTTPAddr != "" {
		if err := serve(ctx, cfg.HTTPAddr, r); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	summary, err := r.Run(ctx)
	if summary != nil {
		fmt.Println(summary.String())
	}
	if err != nil {
		slog.Error("correction run failed", "error", err)
		r.Shutdown()
		os.Exit(1)
	}
}

func serve(ctx context.Context, addr string, r *runner.Runner) error {
	mux := http.NewServeMux()
	handlers.NewTriggerHandler(r.Executor()).Routes(mux)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("sticker-fix listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
