// Package config loads the application configuration from file, environment,
// and defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default values applied when neither config file nor environment provide
// one.
const (
	DefaultRegion     = "us-east-1"
	DefaultReportPath = "ebs_audit_report.json"
	DefaultLogPath    = "ebsguard.log"
	DefaultWorkers    = 4
)

// RetryConfig tunes the read retry policy.
type RetryConfig struct {
	MaxAttempts  int     `mapstructure:"max_attempts"`
	InitialDelay string  `mapstructure:"initial_delay"`
	Factor       float64 `mapstructure:"factor"`
}

// InitialDelayDuration parses the configured initial delay. Zero when unset
// or unparsable; the retry package substitutes its default.
func (r RetryConfig) InitialDelayDuration() time.Duration {
	if r.InitialDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(r.InitialDelay)
	if err != nil {
		return 0
	}
	return d
}

// Config is the top-level application configuration.
type Config struct {
	// Region is the AWS region audited when --region is not given.
	Region string `mapstructure:"region"`

	// Profile is the default AWS profile.
	Profile string `mapstructure:"profile"`

	// ReportPath is where the fleet audit report file is written.
	ReportPath string `mapstructure:"report_path"`

	// LogPath is the run log file, truncated at process start.
	LogPath string `mapstructure:"log_path"`

	// Workers bounds the parallel fleet audit pool.
	Workers int `mapstructure:"workers"`

	// NoColor disables ANSI colour on console output.
	NoColor bool `mapstructure:"no_color"`

	// DisabledControls lists canonical control IDs excluded from full runs.
	DisabledControls []string `mapstructure:"disabled_controls"`

	Retry RetryConfig `mapstructure:"retry"`
}

// ControlDisabled reports whether the canonical control ID is excluded.
func (c *Config) ControlDisabled(id string) bool {
	for _, d := range c.DisabledControls {
		if d == id {
			return true
		}
	}
	return false
}

// Load reads the configuration. Lookup order per key: explicit config file
// (when path is non-empty), ./ebsguard.yaml or ~/.config/ebsguard/ebsguard.yaml,
// EBSGUARD_* environment variables, then built-in defaults. A missing config
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("report_path", DefaultReportPath)
	v.SetDefault("log_path", DefaultLogPath)
	v.SetDefault("workers", DefaultWorkers)

	v.SetEnvPrefix("EBSGUARD")
	v.AutomaticEnv()
	// AWS_REGION wins over the built-in default but not over EBSGUARD_REGION
	// or an explicit config file.
	_ = v.BindEnv("region", "EBSGUARD_REGION", "AWS_REGION")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ebsguard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ebsguard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &cfg, nil
}
