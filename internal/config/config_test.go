package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "python3", cfg.Script.Runtime)
	assert.Equal(t, "./selection.py", cfg.Script.SelectionScript)
	assert.Equal(t, "./topgun.py", cfg.Script.BatchScript)
	assert.Equal(t, 2*time.Minute, cfg.Script.Timeout)
	assert.Equal(t, "selection", cfg.Paths.SelectionDir)
	assert.Equal(t, "results", cfg.Paths.ResultsDir)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port above range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero script timeout",
			mutate:  func(c *Config) { c.Script.Timeout = 0 },
			wantErr: "script timeout must be positive",
		},
		{
			name:    "empty runtime",
			mutate:  func(c *Config) { c.Script.Runtime = "" },
			wantErr: "script runtime must not be empty",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestDirectoryResolution(t *testing.T) {
	cfg := Default()
	cfg.Script.WorkDir = "/srv/screener"

	assert.Equal(t, filepath.Join("/srv/screener", "selection"), cfg.GetSelectionDir())
	assert.Equal(t, filepath.Join("/srv/screener", "results"), cfg.GetResultsDir())

	cfg.Paths.SelectionDir = "/data/selection"
	assert.Equal(t, "/data/selection", cfg.GetSelectionDir(), "absolute paths pass through")
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Script.Runtime = "python3.11"
	fileCfg.Paths.SelectionDir = "out"

	envCfg := Config{}
	envCfg.Server.Port = 8081 // env already set, wins

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 8081, merged.Server.Port, "env takes precedence")
	assert.Equal(t, "python3.11", merged.Script.Runtime, "file fills unset fields")
	assert.Equal(t, "out", merged.Paths.SelectionDir)
}
