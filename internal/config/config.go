package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete taskcore configuration
type Config struct {
	Pool    PoolConfig    `mapstructure:"pool"`
	Logging LoggingConfig `mapstructure:"logging"`
	Run     RunConfig     `mapstructure:"run"`
}

// PoolConfig controls the worker pool
type PoolConfig struct {
	// Workers is the number of worker goroutines (default: number of CPUs)
	Workers int `mapstructure:"workers"`
	// QueueCapacity is the task queue bound; 0 means unbounded (default: 64)
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for log files; empty logs to stderr
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// RunConfig controls the run command
type RunConfig struct {
	// TimeoutSeconds bounds the wait for each task result; 0 means no
	// timeout (default: 0)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Only is a glob pattern selecting which named tasks to run;
	// empty runs everything (default: "")
	Only string `mapstructure:"only"`
}

// Timeout returns the per-task wait timeout as a time.Duration (0 means disabled)
func (c *RunConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Workers:       runtime.NumCPU(),
			QueueCapacity: 64,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Run: RunConfig{
			TimeoutSeconds: 0,
			Only:           "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Pool defaults
	viper.SetDefault("pool.workers", defaults.Pool.Workers)
	viper.SetDefault("pool.queue_capacity", defaults.Pool.QueueCapacity)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Run defaults
	viper.SetDefault("run.timeout_seconds", defaults.Run.TimeoutSeconds)
	viper.SetDefault("run.only", defaults.Run.Only)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskcore")
	}
	// Fall back to ~/.config/taskcore
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskcore"
	}
	return filepath.Join(home, ".config", "taskcore")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
