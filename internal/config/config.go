// Package config loads shell configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deskshell/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config is the full shell configuration.
type Config struct {
	Log    logging.Config `yaml:"log" json:"log"`
	Window WindowConfig   `yaml:"window" json:"window"`

	// Warnings lists environment values that were ignored while loading.
	Warnings []string `yaml:"-" json:"-"`
}

// WindowConfig describes the main window handed to the framework.
type WindowConfig struct {
	Title       string `yaml:"title" json:"title"`
	Width       int    `yaml:"width" json:"width"`
	Height      int    `yaml:"height" json:"height"`
	MinWidth    int    `yaml:"min_width" json:"minWidth"`
	MinHeight   int    `yaml:"min_height" json:"minHeight"`
	Frameless   bool   `yaml:"frameless" json:"frameless"`
	StartHidden bool   `yaml:"start_hidden" json:"startHidden"`
	Background  string `yaml:"background" json:"background"` // #rrggbb
}

const (
	DefaultTitle      = "deskshell"
	DefaultWidth      = 1024
	DefaultHeight     = 720
	DefaultMinWidth   = 400
	DefaultMinHeight  = 300
	DefaultBackground = "#141414"

	maxWindowDimension = 16384
)

// Defaults returns Config with sensible defaults.
func Defaults() Config {
	return Config{
		Log: logging.DefaultConfig(),
		Window: WindowConfig{
			Title:      DefaultTitle,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			MinWidth:   DefaultMinWidth,
			MinHeight:  DefaultMinHeight,
			Background: DefaultBackground,
		},
	}
}

// WithDefaults fills zero-value fields with defaults.
func WithDefaults(c Config) Config {
	d := Defaults()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = d.Log.Output
	}
	if strings.TrimSpace(c.Window.Title) == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width <= 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Window.MinWidth <= 0 {
		c.Window.MinWidth = d.Window.MinWidth
	}
	if c.Window.MinHeight <= 0 {
		c.Window.MinHeight = d.Window.MinHeight
	}
	if c.Window.Background == "" {
		c.Window.Background = d.Window.Background
	}
	return c
}

// Clamp keeps window dimensions inside a usable range. Minimums never exceed
// the initial size.
func Clamp(c Config) Config {
	w := &c.Window
	w.Width = clampInt(w.Width, 200, maxWindowDimension)
	w.Height = clampInt(w.Height, 150, maxWindowDimension)
	w.MinWidth = clampInt(w.MinWidth, 1, w.Width)
	w.MinHeight = clampInt(w.MinHeight, 1, w.Height)
	return c
}

// Validate reports configuration errors that cannot be clamped.
func (c Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if _, _, _, err := c.Window.RGB(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

// RGB parses the background colour.
func (w WindowConfig) RGB() (r, g, b uint8, err error) {
	hex := strings.TrimPrefix(strings.TrimSpace(w.Background), "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("background %q: want #rrggbb", w.Background)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("background %q: %w", w.Background, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".deskshell", "config.yaml")
	}
	return filepath.Join(configDir, "deskshell", "config.yaml")
}

// Load reads path, applies environment overrides and defaults, and validates
// the result. The file must exist. Unusable environment values are reported
// in Config.Warnings rather than failing the load.
func Load(path string) (Config, error) {
	return load(path, false, os.LookupEnv)
}

// LoadOptional is Load but falls back to defaults when path does not exist.
func LoadOptional(path string) (Config, error) {
	return load(path, true, os.LookupEnv)
}

func load(path string, optional bool, lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		data = []byte(os.Expand(string(data), func(key string) string {
			v, _ := lookup(key)
			return v
		}))
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.Log, cfg.Warnings = logging.ConfigFromEnv(cfg.Log, lookup)
	cfg = Clamp(WithDefaults(cfg))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
