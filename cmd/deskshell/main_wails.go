//go:build wails

package main

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"

	"deskshell/internal/app"
	"deskshell/internal/config"
	"deskshell/internal/desktop"

	"github.com/wailsapp/wails/v2"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := newRootCommand(runWails).ExecuteContext(context.Background()); err != nil {
		slog.Error("deskshell failed", "error", err)
		os.Exit(1)
	}
}

func runWails(_ context.Context, cfg config.Config) error {
	application := app.New(cfg)
	bridge := desktop.NewWailsBridge(application)

	appOpts, err := appOptions(cfg, bridge, assets)
	if err != nil {
		return err
	}
	if err := wails.Run(appOpts); err != nil {
		return fmt.Errorf("wails runtime failed: %w", err)
	}
	return bridge.ShutdownError()
}
