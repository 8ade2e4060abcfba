package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"deskshell/internal/config"
	"deskshell/internal/logging"
	"deskshell/internal/version"

	"github.com/spf13/cobra"
)

// runFunc hands control to the run loop once logging and config are ready.
type runFunc func(ctx context.Context, cfg config.Config) error

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand(run runFunc) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           version.Name,
		Short:         "Desktop shell with a single close command",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// Logging never stops the shell: a log file that cannot be
			// opened falls back to stderr.
			if err := logging.Setup(cfg.Log); err != nil {
				_ = logging.Setup(logging.DefaultConfig())
				slog.Warn("logging setup failed, using stderr", "error", err)
			}
			defer logging.Close()
			for _, warning := range cfg.Warnings {
				slog.Warn("ignoring logging environment", "detail", warning)
			}

			slog.Debug("configuration loaded", "title", cfg.Window.Title, "logLevel", cfg.Log.Level)
			return run(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: trace, debug, info, warn, error, off")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.load(cmd); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	})

	return root
}

// load reads the explicit config file when one was given, otherwise the
// per-user file if it exists. The --log-level flag wins over everything.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return config.Config{}, err
	}

	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}
