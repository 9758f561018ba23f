package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Pool.Workers = 4
	return cfg
}

func TestValidatePool(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero workers", func(c *Config) { c.Pool.Workers = 0 }, "pool.workers"},
		{"too many workers", func(c *Config) { c.Pool.Workers = 2000 }, "pool.workers"},
		{"negative capacity", func(c *Config) { c.Pool.QueueCapacity = -1 }, "pool.queue_capacity"},
		{"huge capacity", func(c *Config) { c.Pool.QueueCapacity = 2_000_000 }, "pool.queue_capacity"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		errs := cfg.Validate()
		if len(errs) == 0 {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if errs[0].Field != tc.wantErr {
			t.Errorf("%s: error on field %s, want %s", tc.name, errs[0].Field, tc.wantErr)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "logging.level" {
		t.Errorf("invalid level: errs = %v", errs)
	}

	cfg = validConfig()
	cfg.Logging.MaxSizeMB = 0
	if errs := cfg.Validate(); len(errs) != 1 || errs[0].Field != "logging.max_size_mb" {
		t.Errorf("zero max size: errs = %v", errs)
	}

	cfg = validConfig()
	cfg.Logging.MaxBackups = -1
	if errs := cfg.Validate(); len(errs) != 1 || errs[0].Field != "logging.max_backups" {
		t.Errorf("negative backups: errs = %v", errs)
	}
}

func TestValidateRunGlob(t *testing.T) {
	cfg := validConfig()
	cfg.Run.Only = "build-{*"
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "run.only" {
		t.Fatalf("malformed glob: errs = %v", errs)
	}

	cfg.Run.Only = "build-*"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("valid glob rejected: %v", errs)
	}
}

func TestValidateRunTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Run.TimeoutSeconds = -5
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "run.timeout_seconds" {
		t.Errorf("negative timeout: errs = %v", errs)
	}
}

func TestValidationErrorsFormatting(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "" {
		t.Errorf("empty ValidationErrors.Error() = %q", errs.Error())
	}

	one := ValidationErrors{{Field: "pool.workers", Value: 0, Message: "must be at least 1"}}
	if got := one.Error(); got != "pool.workers: must be at least 1 (got: 0)" {
		t.Errorf("single error format = %q", got)
	}

	two := append(one, ValidationError{Field: "logging.level", Value: "loud", Message: "invalid"})
	got := two.Error()
	if !strings.HasPrefix(got, "2 validation errors:") {
		t.Errorf("multi error format = %q", got)
	}
	if !strings.Contains(got, "logging.level") {
		t.Errorf("multi error missing second field: %q", got)
	}
}
