package main

import (
	"fmt"
	"io/fs"

	"deskshell/internal/config"
	"deskshell/internal/desktop"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

// appOptions describes the window and binds bridge as the only command
// surface exposed to the frontend.
func appOptions(cfg config.Config, bridge *desktop.WailsBridge, assets fs.FS) (*options.App, error) {
	r, g, b, err := cfg.Window.RGB()
	if err != nil {
		return nil, fmt.Errorf("window background: %w", err)
	}

	return &options.App{
		Title:            cfg.Window.Title,
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		MinWidth:         cfg.Window.MinWidth,
		MinHeight:        cfg.Window.MinHeight,
		Frameless:        cfg.Window.Frameless,
		StartHidden:      cfg.Window.StartHidden,
		BackgroundColour: &options.RGBA{R: r, G: g, B: b, A: 255},
		OnStartup:        bridge.Startup,
		OnShutdown:       bridge.Shutdown,
		Bind: []interface{}{
			bridge,
		},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
	}, nil
}
