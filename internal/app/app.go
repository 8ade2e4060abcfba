package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deskshell/internal/config"
	"deskshell/internal/telemetry"
	"deskshell/internal/version"
)

// DefaultShutdownTimeout controls graceful shutdown time for the app.
const DefaultShutdownTimeout = 5 * time.Second

var (
	// ErrNotStarted is returned by lifecycle calls made before Start.
	ErrNotStarted = errors.New("application not started")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("application already started")
)

// Status is a lifecycle snapshot for the frontend.
type Status struct {
	Name              string       `json:"name"`
	Build             version.Info `json:"build"`
	Title             string       `json:"title"`
	Started           bool         `json:"started"`
	Closing           bool         `json:"closing"`
	UptimeMS          int64        `json:"uptimeMs"`
	StartupDurationMS int64        `json:"startupDurationMs"`
}

// Application owns the shell lifecycle. The window itself belongs to the
// framework; Application only tracks whether it was asked to close.
type Application struct {
	logger    *slog.Logger
	cfg       config.Config
	telemetry *telemetry.Recorder
	now       func() time.Time

	mu             sync.Mutex
	started        bool
	stopped        bool
	closing        bool
	startedAt      time.Time
	startupMetrics telemetry.StartupEvent
}

// New creates an application for the given configuration.
func New(cfg config.Config) *Application {
	return &Application{
		logger:    slog.Default(),
		cfg:       cfg,
		telemetry: telemetry.NewRecorder(),
		now:       time.Now,
	}
}

// Start marks the application running and records startup metrics.
func (a *Application) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}

	startedAt := a.now()
	a.started = true
	a.startedAt = startedAt
	a.startupMetrics = a.telemetry.MarkStartupComplete(startedAt)
	a.logger.Info(
		"application started",
		"version", version.Version,
		"title", a.cfg.Window.Title,
		"startupDurationMs", a.startupMetrics.Duration.Milliseconds(),
	)
	return nil
}

// Stop records close latency, if a close was requested, and marks the
// application stopped. Stopping an application that never started is a no-op.
func (a *Application) Stop(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started || a.stopped {
		return nil
	}
	a.stopped = true

	attrs := []any{"uptimeMs", a.now().Sub(a.startedAt).Milliseconds()}
	if a.closing {
		event, emitted, err := a.telemetry.MarkClosed(a.now())
		if err != nil {
			return fmt.Errorf("record close: %w", err)
		}
		if emitted {
			attrs = append(attrs, "closeLatencyMs", event.Latency.Milliseconds())
		}
	}
	a.logger.Info("application stopped", attrs...)
	return nil
}

// BeginClose marks the application as closing. It reports true only for the
// first request, so callers act on the close exactly once.
func (a *Application) BeginClose(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("begin close: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return false, ErrNotStarted
	}
	if a.closing {
		a.logger.Debug("close already requested")
		return false, nil
	}
	a.closing = true
	a.telemetry.MarkCloseRequested(a.now())
	return true, nil
}

// Status returns the current lifecycle snapshot.
func (a *Application) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	status := Status{
		Name:    version.Name,
		Build:   version.GetInfo(),
		Title:   a.cfg.Window.Title,
		Started: a.started,
		Closing: a.closing,
	}
	if !a.started {
		return status, ErrNotStarted
	}
	status.UptimeMS = a.now().Sub(a.startedAt).Milliseconds()
	status.StartupDurationMS = a.startupMetrics.Duration.Milliseconds()
	return status, nil
}
