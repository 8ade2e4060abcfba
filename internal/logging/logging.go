// Package logging configures the process-wide slog logger from configuration
// and environment variables.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLevel  = "DESKSHELL_LOG"
	EnvFormat = "DESKSHELL_LOG_FORMAT"
	EnvOutput = "DESKSHELL_LOG_OUTPUT"
)

// AppTarget is the filter target that addresses this application.
const AppTarget = "deskshell"

// LevelOff is above every level slog emits, so nothing passes it.
const LevelOff = slog.Level(16)

// Config holds logging configuration.
type Config struct {
	Level  string `yaml:"level" json:"level"`   // trace, debug, info, warn, error, off
	Format string `yaml:"format" json:"format"` // text, json
	Output string `yaml:"output" json:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
}

// ConfigFromEnv overlays environment values onto base. EnvLevel takes a bare
// level or a filter list such as "info,deskshell=debug"; a directive naming
// this application beats the bare level. Values that cannot be used leave
// the base value in place and come back as warnings, never as errors.
func ConfigFromEnv(base Config, lookup func(string) (string, bool)) (Config, []string) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var warnings []string
	if v, ok := lookup(EnvLevel); ok && strings.TrimSpace(v) != "" {
		if level, ok := levelFromFilter(v); ok {
			base.Level = level
		} else {
			warnings = append(warnings, fmt.Sprintf("%s=%q has no usable level, keeping %q", EnvLevel, v, base.Level))
		}
	}
	if v, ok := lookup(EnvFormat); ok && strings.TrimSpace(v) != "" {
		switch format := strings.ToLower(strings.TrimSpace(v)); format {
		case "text", "json":
			base.Format = format
		default:
			warnings = append(warnings, fmt.Sprintf("%s=%q is not text or json, keeping %q", EnvFormat, v, base.Format))
		}
	}
	if v, ok := lookup(EnvOutput); ok && strings.TrimSpace(v) != "" {
		base.Output = strings.TrimSpace(v)
	}
	return base, warnings
}

// levelFromFilter extracts a level from an env_logger style filter.
// Regex suffixes ("/pattern") and directives for other targets are ignored.
func levelFromFilter(filter string) (string, bool) {
	var bare, own string
	for _, directive := range strings.Split(filter, ",") {
		directive, _, _ = strings.Cut(directive, "/")
		target, level, hasTarget := strings.Cut(strings.TrimSpace(directive), "=")
		if !hasTarget {
			level, target = target, ""
		}
		level = strings.TrimSpace(level)
		if level == "" {
			continue
		}
		if _, err := ParseLevel(level); err != nil {
			continue
		}
		switch {
		case !hasTarget:
			bare = level
		case strings.EqualFold(strings.TrimSpace(target), AppTarget):
			own = level
		}
	}
	if own != "" {
		return own, true
	}
	return bare, bare != ""
}

// Validate reports whether the level and format are recognised.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "text", "json", "":
		return nil
	default:
		return fmt.Errorf("unknown log format: %s", c.Format)
	}
}

var (
	loggerMu       sync.RWMutex
	defaultLogger  = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	currentLogFile *os.File
)

// Setup builds a logger from cfg and installs it as the slog default.
func Setup(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	output, logFile, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		if logFile != nil {
			logFile.Close()
		}
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if currentLogFile != nil {
		currentLogFile.Close()
	}
	currentLogFile = logFile
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return nil
}

// Close closes the current log file if one is open. Later log lines go to
// stderr so late fatal errors are not lost.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if currentLogFile == nil {
		return nil
	}
	err := currentLogFile.Close()
	currentLogFile = nil
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(defaultLogger)
	return err
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// openOutput returns the writer for output plus the file handle when one was opened.
func openOutput(output string) (io.Writer, *os.File, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr", "":
		return os.Stderr, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

// Default returns the logger installed by the last successful Setup.
func Default() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithComponent returns a logger tagged with a component attribute.
func WithComponent(component string) *slog.Logger {
	return Default().With("component", component)
}
