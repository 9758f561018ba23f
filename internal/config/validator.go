package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "pool.workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePool()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateRun()...)

	return errors
}

// validatePool validates the PoolConfig
func (c *Config) validatePool() []ValidationError {
	var errors []ValidationError

	const minWorkers = 1
	const maxWorkers = 1024

	if c.Pool.Workers < minWorkers {
		errors = append(errors, ValidationError{
			Field:   "pool.workers",
			Value:   c.Pool.Workers,
			Message: fmt.Sprintf("must be at least %d", minWorkers),
		})
	}
	if c.Pool.Workers > maxWorkers {
		errors = append(errors, ValidationError{
			Field:   "pool.workers",
			Value:   c.Pool.Workers,
			Message: fmt.Sprintf("exceeds maximum of %d", maxWorkers),
		})
	}

	// Queue capacity of 0 means unbounded, which is valid
	if c.Pool.QueueCapacity < 0 {
		errors = append(errors, ValidationError{
			Field:   "pool.queue_capacity",
			Value:   c.Pool.QueueCapacity,
			Message: "must be non-negative (0 means unbounded)",
		})
	}

	const maxQueueCapacity = 1_000_000
	if c.Pool.QueueCapacity > maxQueueCapacity {
		errors = append(errors, ValidationError{
			Field:   "pool.queue_capacity",
			Value:   c.Pool.QueueCapacity,
			Message: fmt.Sprintf("exceeds maximum of %d", maxQueueCapacity),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	// Log directory must not contain null bytes
	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

// validateRun validates the RunConfig
func (c *Config) validateRun() []ValidationError {
	var errors []ValidationError

	// Timeout of 0 means no timeout, which is valid
	if c.Run.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "run.timeout_seconds",
			Value:   c.Run.TimeoutSeconds,
			Message: "must be non-negative (0 disables timeout)",
		})
	}

	// The task filter must be a valid glob pattern
	if c.Run.Only != "" {
		if _, err := glob.Compile(c.Run.Only); err != nil {
			errors = append(errors, ValidationError{
				Field:   "run.only",
				Value:   c.Run.Only,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}
