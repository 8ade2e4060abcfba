package desktop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"deskshell/internal/app"
	"deskshell/internal/logging"
)

// CloseDiagnostic is printed to stdout before the window is asked to close.
const CloseDiagnostic = "Closing application..."

// ErrBridgeNotStarted is returned by bound methods called before Startup.
var ErrBridgeNotStarted = errors.New("wails bridge is not started")

// ApplicationService captures app methods used by Wails bindings.
type ApplicationService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (app.Status, error)
	BeginClose(ctx context.Context) (bool, error)
}

// FatalHandler terminates the process after reporting err.
type FatalHandler func(msg string, err error)

// WailsBridge exposes backend methods to the Wails frontend.
type WailsBridge struct {
	app    ApplicationService
	logger *slog.Logger

	mu          sync.RWMutex
	ctx         context.Context
	started     bool
	startupErr  error
	shutdownErr error

	stdout      io.Writer
	closeWindow func(ctx context.Context) error
	fatal       FatalHandler
}

// NewWailsBridge creates a binding bridge for an application service.
func NewWailsBridge(app ApplicationService) *WailsBridge {
	return &WailsBridge{
		app:         app,
		logger:      logging.WithComponent("desktop"),
		ctx:         context.Background(),
		stdout:      os.Stdout,
		closeWindow: defaultCloseWindow,
		fatal:       defaultFatal,
	}
}

// Startup is called by Wails at app startup. A failed start is fatal so the
// event loop never runs against a half-initialised application.
func (b *WailsBridge) Startup(ctx context.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.started = true
	b.startupErr = b.app.Start(ctx)
	startupErr := b.startupErr
	b.mu.Unlock()

	if startupErr != nil {
		b.fatal("application startup failed", startupErr)
	}
}

// Shutdown is called by Wails at app shutdown.
func (b *WailsBridge) Shutdown(ctx context.Context) {
	if err := b.app.Stop(ctx); err != nil {
		b.mu.Lock()
		b.shutdownErr = fmt.Errorf("shutdown app: %w", err)
		b.mu.Unlock()
		b.logger.Error("application shutdown failed", "error", err)
	}
}

// ShutdownError returns the error recorded by Shutdown, if any.
func (b *WailsBridge) ShutdownError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.shutdownErr
}

// CloseApp prints a diagnostic line and closes the application window.
// Failure to close terminates the process. Only the first call has an
// effect; later calls return once the duplicate is logged.
func (b *WailsBridge) CloseApp() {
	ctx, err := b.requestContext()
	if err != nil {
		b.fatal("failed to close window", err)
		return
	}

	first, err := b.app.BeginClose(ctx)
	if err != nil {
		b.fatal("failed to close window", err)
		return
	}
	if !first {
		b.logger.Debug("close_app ignored, window already closing")
		return
	}

	fmt.Fprintln(b.stdout, CloseDiagnostic)
	b.logger.Info("window close requested")

	if err := b.closeWindow(ctx); err != nil {
		b.fatal("failed to close window", err)
	}
}

// Status returns the lifecycle snapshot for the frontend.
func (b *WailsBridge) Status() (app.Status, error) {
	ctx, err := b.requestContext()
	if err != nil {
		return app.Status{}, err
	}
	status, err := b.app.Status(ctx)
	if err != nil {
		return app.Status{}, fmt.Errorf("status: %w", err)
	}
	return status, nil
}

func (b *WailsBridge) requestContext() (context.Context, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.started {
		return nil, ErrBridgeNotStarted
	}
	if b.startupErr != nil {
		return nil, fmt.Errorf("wails bridge startup failed: %w", b.startupErr)
	}
	return b.ctx, nil
}

func defaultFatal(msg string, err error) {
	slog.Error(msg, "error", err)
	_ = logging.Close()
	os.Exit(1)
}
