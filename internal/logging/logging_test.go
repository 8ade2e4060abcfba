package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: slog.LevelDebug},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "off", want: LevelOff},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("overrides set variables", func(t *testing.T) {
		cfg, warnings := ConfigFromEnv(DefaultConfig(), envLookup(map[string]string{
			EnvLevel:  "debug",
			EnvFormat: "JSON",
			EnvOutput: "stdout",
		}))
		assert.Equal(t, Config{Level: "debug", Format: "json", Output: "stdout"}, cfg)
		assert.Empty(t, warnings)
	})

	t.Run("blank variables keep base", func(t *testing.T) {
		cfg, warnings := ConfigFromEnv(DefaultConfig(), envLookup(map[string]string{
			EnvLevel: "   ",
		}))
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Empty(t, warnings)
	})

	t.Run("unusable values keep base and warn", func(t *testing.T) {
		base := Config{Level: "warn", Format: "text", Output: "stderr"}
		cfg, warnings := ConfigFromEnv(base, envLookup(map[string]string{
			EnvLevel:  "chatty",
			EnvFormat: "xml",
		}))
		assert.Equal(t, base, cfg)
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], EnvLevel)
		assert.Contains(t, warnings[1], EnvFormat)
	})
}

func TestConfigFromEnvFilters(t *testing.T) {
	tests := []struct {
		filter   string
		want     string
		wantWarn bool
	}{
		{filter: "INFO ", want: "INFO"},
		{filter: "info,deskshell=debug", want: "debug"},
		{filter: "deskshell=debug", want: "debug"},
		{filter: "warn,hyper=trace", want: "warn"},
		{filter: "error,deskshell=loud", want: "error"},
		{filter: "debug/close", want: "debug"},
		{filter: "hyper=trace", want: "info", wantWarn: true},
		{filter: "deskshell", want: "info", wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			cfg, warnings := ConfigFromEnv(DefaultConfig(), envLookup(map[string]string{EnvLevel: tt.filter}))
			assert.Equal(t, tt.want, cfg.Level)
			assert.Equal(t, tt.wantWarn, len(warnings) > 0, "warnings = %v", warnings)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	err := Config{Level: "info", Format: "xml"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestSetupFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "deskshell.log")

	require.NoError(t, Setup(Config{Level: "debug", Format: "json", Output: logFile}))
	t.Cleanup(func() {
		_ = Close()
		_ = Setup(DefaultConfig())
	})

	WithComponent("test").Info("hello", "key", "value")
	require.NoError(t, Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"component":"test"`), "log = %s", data)
	assert.True(t, strings.Contains(string(data), `"msg":"hello"`), "log = %s", data)
}

func TestSetupOffSuppressesErrors(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "off.log")

	require.NoError(t, Setup(Config{Level: "off", Output: logFile}))
	t.Cleanup(func() {
		_ = Close()
		_ = Setup(DefaultConfig())
	})

	Default().Error("should not appear")
	require.NoError(t, Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	require.Error(t, Setup(Config{Level: "loud"}))
	require.Error(t, Setup(Config{Level: "info", Format: "xml", Output: "stderr"}))
}

func TestCloseWithoutFile(t *testing.T) {
	require.NoError(t, Setup(DefaultConfig()))
	assert.NoError(t, Close())
}
