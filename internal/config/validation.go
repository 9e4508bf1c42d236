package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/stackburn/internal/types"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateScan()...)
	errors = append(errors, c.validateThresholds()...)
	errors = append(errors, c.validateScoring()...)

	if c.ObjectStore.Enabled {
		errors = append(errors, c.validateObjectStore()...)
	}

	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateScan() ValidationErrors {
	var errors ValidationErrors

	if len(c.Scan.Roots) == 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.roots",
			Message: "at least one root must be defined",
		})
	}
	for i, root := range c.Scan.Roots {
		if strings.TrimSpace(root) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("scan.roots[%d]", i),
				Message: "root path cannot be empty",
			})
		}
	}

	if c.Scan.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.workers",
			Message: "workers cannot be negative",
		})
	}

	validAlgorithms := map[string]bool{"sha256": true, "xxhash": true, "": true}
	if !validAlgorithms[c.Scan.HashAlgorithm] {
		errors = append(errors, ValidationError{
			Field:   "scan.hash_algorithm",
			Message: "hash_algorithm must be 'sha256' or 'xxhash'",
		})
	}

	if c.Scan.ReadBufferBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.read_buffer_bytes",
			Message: "read_buffer_bytes must be positive",
		})
	}

	validStrategies := map[string]bool{"lexical": true, "shortest": true, "oldest": true, "newest": true, "": true}
	if !validStrategies[c.Scan.KeepStrategy] {
		errors = append(errors, ValidationError{
			Field:   "scan.keep_strategy",
			Message: "keep_strategy must be 'lexical', 'shortest', 'oldest', or 'newest'",
		})
	}

	limits := map[string]int{
		"scan.largest_limit":   c.Scan.LargestLimit,
		"scan.unused_limit":    c.Scan.UnusedLimit,
		"scan.temporary_limit": c.Scan.TemporaryLimit,
	}
	for field, value := range limits {
		if value <= 0 {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "limit must be positive",
			})
		}
	}

	return errors
}

func (c *Config) validateThresholds() ValidationErrors {
	var errors ValidationErrors

	if c.Thresholds.StaleDays <= 0 {
		errors = append(errors, ValidationError{
			Field:   "thresholds.stale_days",
			Message: "stale_days must be positive",
		})
	}

	if c.Thresholds.LargeFileBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "thresholds.large_file_bytes",
			Message: "large_file_bytes must be positive",
		})
	}

	if c.Thresholds.HashCeilingBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "thresholds.hash_ceiling_bytes",
			Message: "hash_ceiling_bytes must be positive",
		})
	} else if c.Thresholds.HashCeilingBytes >= c.Thresholds.LargeFileBytes {
		errors = append(errors, ValidationError{
			Field:   "thresholds.hash_ceiling_bytes",
			Message: "hash_ceiling_bytes must be smaller than large_file_bytes",
		})
	}

	return errors
}

func (c *Config) validateScoring() ValidationErrors {
	var errors ValidationErrors

	for source, weight := range c.Scoring.Weights {
		if weight < 0 {
			errors = append(errors, ValidationError{
				Field:   "scoring.weights." + source,
				Message: "weight cannot be negative",
			})
		}
	}

	if c.Scoring.SampleLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scoring.sample_limit",
			Message: "sample_limit must be positive",
		})
	}

	s := c.Scoring.Savings
	r := c.Scoring.Recommendations
	coefficients := []struct {
		field string
		value float64
	}{
		{"scoring.savings.duplicates", s.Duplicates},
		{"scoring.savings.stale", s.Stale},
		{"scoring.savings.archived", s.Archived},
		{"scoring.savings.versioned", s.Versioned},
		{"scoring.savings.temporary", s.Temporary},
		{"scoring.recommendations.duplicates_coefficient", r.DuplicatesCoefficient},
		{"scoring.recommendations.stale_coefficient", r.StaleCoefficient},
		{"scoring.recommendations.large_unused_coefficient", r.LargeUnusedCoefficient},
		{"scoring.recommendations.temporary_coefficient", r.TemporaryCoefficient},
		{"scoring.recommendations.archived_coefficient", r.ArchivedCoefficient},
		{"scoring.recommendations.versioned_coefficient", r.VersionedCoefficient},
	}
	for _, coef := range coefficients {
		if coef.value < 0 || coef.value > 1 {
			errors = append(errors, ValidationError{
				Field:   coef.field,
				Message: "coefficient must be between 0 and 1",
			})
		}
	}

	for i, name := range r.Enabled {
		if !types.Category(name).Valid() {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("scoring.recommendations.enabled[%d]", i),
				Message: fmt.Sprintf("unknown recommendation category %q", name),
			})
		}
	}

	return errors
}

func (c *Config) validateObjectStore() ValidationErrors {
	var errors ValidationErrors

	if c.ObjectStore.Endpoint == "" {
		errors = append(errors, ValidationError{
			Field:   "object_store.endpoint",
			Message: "endpoint is required when object_store is enabled",
		})
	}

	if c.ObjectStore.Bucket == "" {
		errors = append(errors, ValidationError{
			Field:   "object_store.bucket",
			Message: "bucket is required when object_store is enabled",
		})
	}

	if c.ObjectStore.OldestLimit <= 0 || c.ObjectStore.LargestLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "object_store.oldest_limit",
			Message: "oldest_limit and largest_limit must be positive",
		})
	}

	return errors
}

func (c *Config) validateSession() ValidationErrors {
	var errors ValidationErrors

	if c.Session.TTL <= 0 {
		errors = append(errors, ValidationError{
			Field:   "session.ttl",
			Message: "ttl must be positive",
		})
	}

	if c.Session.MaxSessions <= 0 {
		errors = append(errors, ValidationError{
			Field:   "session.max_sessions",
			Message: "max_sessions must be positive",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
