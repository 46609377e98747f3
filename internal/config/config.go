// Package config loads application configuration from environment variables
// (prefix CARSALES) with an optional YAML file layered on top.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes where raw sale rows come from.
type InputConfig struct {
	Path   string `yaml:"path" envconfig:"PATH" validate:"required"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"csv" validate:"oneof=csv xlsx"`
}

// OutputConfig describes where exported views land.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"outputs"`
}

// DatabaseConfig enables the optional PostgreSQL sink when DSN is set.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" envconfig:"DSN"`
}

// PipelineConfig tunes the pipeline itself.
type PipelineConfig struct {
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/carsales.log"`
}

// Load builds the configuration: environment variables and tag defaults
// first, then the YAML file when present (file keys override). Callers
// apply any command-line overrides and then call Validate.
func Load(yamlPath string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CARSALES", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", yamlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", yamlPath, err)
		}
	}

	return &cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
