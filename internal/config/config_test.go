package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Input.Format)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CARSALES_INPUT_PATH", "/data/sales.csv")
	t.Setenv("CARSALES_SERVER_PORT", "9090")
	t.Setenv("CARSALES_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/sales.csv", cfg.Input.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverridesEnv(t *testing.T) {
	t.Setenv("CARSALES_OUTPUT_DIR", "/env/outputs")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"input:\n  path: /data/sales.xlsx\n  format: xlsx\noutput:\n  dir: /yaml/outputs\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/sales.xlsx", cfg.Input.Path)
	assert.Equal(t, "xlsx", cfg.Input.Format)
	assert.Equal(t, "/yaml/outputs", cfg.Output.Dir)
}

func TestLoadMissingYAMLFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.Input.Path = "sales.csv" },
		},
		{
			name:    "missing input path",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "bad format",
			mutate: func(c *Config) {
				c.Input.Path = "sales.csv"
				c.Input.Format = "parquet"
			},
			wantErr: true,
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Input.Path = "sales.csv"
				c.Server.Port = 0
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Input.Path = "sales.csv"
				c.Logging.Level = "verbose"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
