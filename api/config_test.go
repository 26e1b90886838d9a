package api

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint64(16*1024*1024), cfg.MaxBlobSize)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "empty environment",
			vars: nil,
			want: DefaultConfig(),
		},
		{
			name: "overrides",
			vars: map[string]string{EnvLogLevel: "DEBUG", EnvMaxBlobSize: "1024"},
			want: Config{MaxBlobSize: 1024, LogLevel: slog.LevelDebug},
		},
		{
			name:    "bad level keeps default",
			vars:    map[string]string{EnvLogLevel: "loud", EnvMaxBlobSize: "10"},
			want:    Config{MaxBlobSize: 10, LogLevel: slog.LevelWarn},
			wantErr: true,
		},
		{
			name:    "bad size keeps default",
			vars:    map[string]string{EnvMaxBlobSize: "-1", EnvLogLevel: "error"},
			want:    Config{MaxBlobSize: DefaultConfig().MaxBlobSize, LogLevel: slog.LevelError},
			wantErr: true,
		},
		{
			name:    "zero size rejected",
			vars:    map[string]string{EnvMaxBlobSize: "0"},
			want:    DefaultConfig(),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := configFrom(env(tt.vars))
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
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvMaxBlobSize, "2048")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, uint64(2048), cfg.MaxBlobSize)
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "info": slog.LevelInfo, "warn": slog.LevelWarn,
		"warning": slog.LevelWarn, " Error ": slog.LevelError,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
}
