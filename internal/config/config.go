package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Script  ScriptConfig  `yaml:"script" envconfig:"SCRIPT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"3m"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration.
// SelectionDir holds the per-identifier strategy CSVs written by the
// selection script; ResultsDir holds the fixed batch stage files.
type PathsConfig struct {
	SelectionDir string `yaml:"selection_dir" envconfig:"SELECTION_DIR" default:"selection"`
	ResultsDir   string `yaml:"results_dir" envconfig:"RESULTS_DIR" default:"results"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ScriptConfig describes how the external screening scripts are invoked.
// The scripts are opaque collaborators; only the runtime, locations and a
// bounded timeout are configurable here.
type ScriptConfig struct {
	Runtime         string        `yaml:"runtime" envconfig:"RUNTIME" default:"python3"`
	SelectionScript string        `yaml:"selection_script" envconfig:"SELECTION_SCRIPT" default:"./selection.py"`
	BatchScript     string        `yaml:"batch_script" envconfig:"BATCH_SCRIPT" default:"./topgun.py"`
	WorkDir         string        `yaml:"work_dir" envconfig:"WORK_DIR" default:"."`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"2m"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SCREENER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := findConfigFile(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Only fields the environment left at their zero value fall back to the file.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Paths.SelectionDir == "" {
		envConfig.Paths.SelectionDir = fileConfig.Paths.SelectionDir
	}
	if envConfig.Paths.ResultsDir == "" {
		envConfig.Paths.ResultsDir = fileConfig.Paths.ResultsDir
	}
	if envConfig.Script.Runtime == "" {
		envConfig.Script.Runtime = fileConfig.Script.Runtime
	}
	if envConfig.Script.SelectionScript == "" {
		envConfig.Script.SelectionScript = fileConfig.Script.SelectionScript
	}
	if envConfig.Script.BatchScript == "" {
		envConfig.Script.BatchScript = fileConfig.Script.BatchScript
	}
	if envConfig.Script.Timeout == 0 {
		envConfig.Script.Timeout = fileConfig.Script.Timeout
	}

	return envConfig
}

// GetSelectionDir returns the resolved selection output directory.
func (c *Config) GetSelectionDir() string {
	return c.resolve(c.Paths.SelectionDir)
}

// GetResultsDir returns the resolved batch results directory.
func (c *Config) GetResultsDir() string {
	return c.resolve(c.Paths.ResultsDir)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Script.WorkDir, dir)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Script.Timeout <= 0 {
		return fmt.Errorf("script timeout must be positive")
	}

	if c.Script.Runtime == "" {
		return fmt.Errorf("script runtime must not be empty")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    3 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			SelectionDir: "selection",
			ResultsDir:   "results",
			LogsDir:      "logs",
		},
		Script: ScriptConfig{
			Runtime:         "python3",
			SelectionScript: "./selection.py",
			BatchScript:     "./topgun.py",
			WorkDir:         ".",
			Timeout:         2 * time.Minute,
		},
	}
}
