// Package config provides configuration management for the pushmetrics tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/summary"
)

// Environment variables that override file settings.
const (
	EnvInputDir  = "PUSHMETRICS_INPUT_DIR"
	EnvLogLevel  = "PUSHMETRICS_LOG_LEVEL"
	EnvExportDir = "PUSHMETRICS_EXPORT_DIR"
)

// Configuration validation errors.
var (
	ErrMissingInputDir     = errors.New("input.dir is required")
	ErrUnknownRequiredKind = errors.New("input.required lists an unknown dataset kind")
	ErrInvalidPreset       = errors.New("filter.preset must be one of: 7d, 30d, 90d, all")
	ErrInvalidCTRBand      = errors.New("thresholds.ctr_low cannot exceed thresholds.ctr_high")
	ErrInvalidDeliveryBand = errors.New("thresholds.delivery_rate_low cannot exceed thresholds.delivery_rate_high")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingExportDir    = errors.New("export.dir is required")
	ErrInvalidTopN         = errors.New("campaigns.top must be non-negative")
)

// Config represents the complete tool configuration.
type Config struct {
	Input      InputConfig                       `yaml:"input"`
	Datasets   map[dataset.Kind]dataset.Override `yaml:"datasets"`
	Filter     FilterConfig                      `yaml:"filter"`
	Thresholds summary.Thresholds                `yaml:"thresholds"`
	Campaigns  CampaignsConfig                   `yaml:"campaigns"`
	Logging    LoggingConfig                     `yaml:"logging"`
	Export     ExportConfig                      `yaml:"export"`
}

// InputConfig locates the CSV exports.
type InputConfig struct {
	Dir      string         `yaml:"dir"`
	Required []dataset.Kind `yaml:"required"`
}

// FilterConfig sets the default date window.
type FilterConfig struct {
	Preset string `yaml:"preset"`
}

// CampaignsConfig controls the campaign table.
type CampaignsConfig struct {
	Top          int `yaml:"top"`
	MaxNameWidth int `yaml:"max_name_width"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ExportConfig defines export behavior.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a configuration that loads all seven exports from the
// current directory.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:      ".",
			Required: dataset.Default().Kinds(),
		},
		Filter:     FilterConfig{Preset: string(summary.AllTime)},
		Thresholds: summary.DefaultThresholds(),
		Campaigns:  CampaignsConfig{Top: 10, MaxNameWidth: 40},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		Export:     ExportConfig{Dir: "export"},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default().
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads the given dotenv files, if present, then overrides settings
// from PUSHMETRICS_* variables. Variables already set in the process
// environment win over dotenv files.
func (c *Config) ApplyEnv(dotenvFiles ...string) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	if v := os.Getenv(EnvInputDir); v != "" {
		c.Input.Dir = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvExportDir); v != "" {
		c.Export.Dir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return ErrMissingInputDir
	}

	reg, err := c.Registry()
	if err != nil {
		return fmt.Errorf("datasets: %w", err)
	}

	for i, k := range c.Input.Required {
		if _, err := reg.Lookup(k); err != nil {
			return fmt.Errorf("%w: input.required[%d] %q", ErrUnknownRequiredKind, i, k)
		}
	}

	if _, err := summary.ParsePreset(c.Filter.Preset); err != nil {
		return ErrInvalidPreset
	}

	if c.Thresholds.CTRLow > c.Thresholds.CTRHigh {
		return ErrInvalidCTRBand
	}

	if c.Thresholds.DeliveryRateLow > c.Thresholds.DeliveryRateHigh {
		return ErrInvalidDeliveryBand
	}

	if c.Campaigns.Top < 0 {
		return ErrInvalidTopN
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Export.Dir == "" {
		return ErrMissingExportDir
	}

	return nil
}

// Registry returns the dataset registry with the configured overrides.
func (c *Config) Registry() (*dataset.Registry, error) {
	if len(c.Datasets) == 0 {
		return dataset.Default(), nil
	}

	return dataset.Default().WithOverrides(c.Datasets)
}

// Preset returns the configured default date window.
func (c *Config) Preset() summary.Preset {
	p, err := summary.ParsePreset(c.Filter.Preset)
	if err != nil {
		return summary.AllTime
	}

	return p
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Required: %d, Preset: %s, Export: %s}",
		c.Input.Dir,
		len(c.Input.Required),
		c.Filter.Preset,
		c.Export.Dir,
	)
}
