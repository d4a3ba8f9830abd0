package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
format = "json"
max_nodes = 1000
metrics_file = "/var/lib/node_exporter/breach.prom"

[aws]
profile = "prod"

[discovery]
default_cost = 3
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 1000, cfg.MaxNodes)
	assert.Equal(t, 0, cfg.MaxEdges)
	assert.Equal(t, "prod", cfg.AWS.Profile)
	assert.Equal(t, int64(3), cfg.Discovery.DefaultCost)
	// Untouched keys keep their defaults
	assert.Equal(t, "breach-radius/clearance", cfg.Discovery.ClearanceTag)
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown key", body: "colour = true\n", wantErr: "unknown key colour"},
		{name: "bad format", body: "format = \"png\"\n", wantErr: "invalid format"},
		{name: "negative limit", body: "max_edges = -1\n", wantErr: "must not be negative"},
		{name: "negative cost", body: "[discovery]\ndefault_cost = -2\n", wantErr: "default_cost"},
		{name: "syntax", body: "format = \n", wantErr: "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "breach-radius", "config.toml"), path)

	t.Setenv("XDG_CONFIG_HOME", "")
	path, err = DefaultPath()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "breach-radius", "config.toml"), path)
}

func TestDefaultValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
