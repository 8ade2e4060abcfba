//go:build !wails

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"deskshell/internal/app"
	"deskshell/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(runHeadless).ExecuteContext(ctx); err != nil {
		slog.Error("deskshell failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs without a webview. The signal loop stands in for the
// window event loop.
func runHeadless(ctx context.Context, cfg config.Config) error {
	application := app.New(cfg)
	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("application startup failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.DefaultShutdownTimeout)
	defer cancel()
	if err := application.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("application shutdown failed: %w", err)
	}
	return nil
}
