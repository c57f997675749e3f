package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wirecall/wirecall/internal/ping"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pingd.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
listen = "0.0.0.0:4040"
payload_format = "msgpack"
max_frame_bytes = 1024
read_timeout = "30s"
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:4040", cfg.Listen)
	require.Equal(t, ping.FormatMsgpack, cfg.PayloadFormat)
	require.Equal(t, uint32(1024), cfg.MaxFrameBytes)
	require.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoadConfig_DefaultsWhenAbsent(t *testing.T) {
	path := writeConfig(t, `listen = "127.0.0.1:5050"`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:5050", cfg.Listen)
	require.Equal(t, ping.FormatJSON, cfg.PayloadFormat)
	require.Positive(t, cfg.MaxFrameBytes)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad format", `payload_format = "xml"`},
		{"negative frame size", `max_frame_bytes = -1`},
		{"frame size beyond uint32", `max_frame_bytes = 5000000000`},
		{"bad timeout", `read_timeout = "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.contents))
			require.Error(t, err)
		})
	}
}
