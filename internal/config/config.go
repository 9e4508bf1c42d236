// Package config provides configuration structures and loading for StackBurn.
package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Scan        ScanConfig        `yaml:"scan" mapstructure:"scan"`
	Thresholds  ThresholdsConfig  `yaml:"thresholds" mapstructure:"thresholds"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	ObjectStore ObjectStoreConfig `yaml:"object_store" mapstructure:"object_store"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ScanConfig controls the local directory traversal.
type ScanConfig struct {
	Roots             []string `yaml:"roots" mapstructure:"roots"`
	Workers           int      `yaml:"workers" mapstructure:"workers"`               // 0 = one per CPU
	HashAlgorithm     string   `yaml:"hash_algorithm" mapstructure:"hash_algorithm"` // sha256 or xxhash
	ReadBufferBytes   int      `yaml:"read_buffer_bytes" mapstructure:"read_buffer_bytes"`
	KeepStrategy      string   `yaml:"keep_strategy" mapstructure:"keep_strategy"` // lexical, shortest, oldest, newest
	SkipNames         []string `yaml:"skip_names" mapstructure:"skip_names"`
	TemporaryPatterns []string `yaml:"temporary_patterns" mapstructure:"temporary_patterns"`
	LargestLimit      int      `yaml:"largest_limit" mapstructure:"largest_limit"`
	UnusedLimit       int      `yaml:"unused_limit" mapstructure:"unused_limit"`
	TemporaryLimit    int      `yaml:"temporary_limit" mapstructure:"temporary_limit"`
}

// ThresholdsConfig holds the size and age policy shared by the scanner and the analyzers.
type ThresholdsConfig struct {
	StaleDays        int   `yaml:"stale_days" mapstructure:"stale_days"`
	LargeFileBytes   int64 `yaml:"large_file_bytes" mapstructure:"large_file_bytes"`
	HashCeilingBytes int64 `yaml:"hash_ceiling_bytes" mapstructure:"hash_ceiling_bytes"`
}

// StaleCutoff returns the instant before which an item counts as stale.
func (t ThresholdsConfig) StaleCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -t.StaleDays)
}

// ScoringConfig holds the weights and coefficients of the burn score engine.
type ScoringConfig struct {
	Weights         map[string]float64    `yaml:"weights" mapstructure:"weights"`
	SampleLimit     int                   `yaml:"sample_limit" mapstructure:"sample_limit"`
	Savings         SavingsConfig         `yaml:"savings" mapstructure:"savings"`
	Recommendations RecommendationsConfig `yaml:"recommendations" mapstructure:"recommendations"`
}

// SavingsConfig holds the removability coefficient applied per category when
// estimating potential savings. large_unused has no coefficient.
type SavingsConfig struct {
	Duplicates float64 `yaml:"duplicates" mapstructure:"duplicates"`
	Stale      float64 `yaml:"stale" mapstructure:"stale"`
	Archived   float64 `yaml:"archived" mapstructure:"archived"`
	Versioned  float64 `yaml:"versioned" mapstructure:"versioned"`
	Temporary  float64 `yaml:"temporary" mapstructure:"temporary"`
}

// RecommendationsConfig controls which recommendations are produced and how
// their impact is computed.
type RecommendationsConfig struct {
	Enabled                []string `yaml:"enabled" mapstructure:"enabled"`
	DuplicatesCoefficient  float64  `yaml:"duplicates_coefficient" mapstructure:"duplicates_coefficient"`
	DuplicatesCriticalGB   float64  `yaml:"duplicates_critical_gb" mapstructure:"duplicates_critical_gb"`
	StaleCoefficient       float64  `yaml:"stale_coefficient" mapstructure:"stale_coefficient"`
	StaleHighCount         int      `yaml:"stale_high_count" mapstructure:"stale_high_count"`
	LargeUnusedCoefficient float64  `yaml:"large_unused_coefficient" mapstructure:"large_unused_coefficient"`
	TemporaryCoefficient   float64  `yaml:"temporary_coefficient" mapstructure:"temporary_coefficient"`
	ArchivedCoefficient    float64  `yaml:"archived_coefficient" mapstructure:"archived_coefficient"`
	VersionedCoefficient   float64  `yaml:"versioned_coefficient" mapstructure:"versioned_coefficient"`
}

// ObjectStoreConfig points the cloud producer at an S3-compatible bucket.
type ObjectStoreConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	Region       string `yaml:"region" mapstructure:"region"`
	Bucket       string `yaml:"bucket" mapstructure:"bucket"`
	Prefix       string `yaml:"prefix" mapstructure:"prefix"`
	AccessKey    string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey    string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL       bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	OldestLimit  int    `yaml:"oldest_limit" mapstructure:"oldest_limit"`
	LargestLimit int    `yaml:"largest_limit" mapstructure:"largest_limit"`
}

// SessionConfig controls the lifetime of remote-source credential sessions.
type SessionConfig struct {
	TTL         time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxSessions int           `yaml:"max_sessions" mapstructure:"max_sessions"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultSkipNames is the deny-list of directory and file names never descended into.
var DefaultSkipNames = []string{
	"node_modules",
	".git",
	".vscode",
	"target",
	"build",
	"dist",
	"$RECYCLE.BIN",
	"System Volume Information",
	"Windows",
	"Program Files",
	"Program Files (x86)",
	"ProgramData",
}

// DefaultTemporaryPatterns match file names that are treated as temporary files.
var DefaultTemporaryPatterns = []string{
	"*.tmp",
	"*.temp",
	"*~",
	"*.swp",
	"*.bak",
	"~$*",
	"Thumbs.db",
	"*.crdownload",
	"*.part",
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Roots:             []string{"."},
			Workers:           0,
			HashAlgorithm:     "sha256",
			ReadBufferBytes:   32 * 1024,
			KeepStrategy:      "lexical",
			SkipNames:         append([]string(nil), DefaultSkipNames...),
			TemporaryPatterns: append([]string(nil), DefaultTemporaryPatterns...),
			LargestLimit:      20,
			UnusedLimit:       50,
			TemporaryLimit:    50,
		},
		Thresholds: ThresholdsConfig{
			StaleDays:        180,
			LargeFileBytes:   100 * 1024 * 1024,
			HashCeilingBytes: 50 * 1024 * 1024,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				"local":        0.40,
				"cloud":        0.35,
				"code_hosting": 0.25,
			},
			SampleLimit: 50,
			Savings: SavingsConfig{
				Duplicates: 0.9,
				Stale:      0.7,
				Archived:   0.8,
				Versioned:  0.5,
				Temporary:  1.0,
			},
			Recommendations: RecommendationsConfig{
				Enabled:                []string{"duplicates", "stale", "large_unused"},
				DuplicatesCoefficient:  0.9,
				DuplicatesCriticalGB:   5,
				StaleCoefficient:       0.7,
				StaleHighCount:         100,
				LargeUnusedCoefficient: 0.5,
				TemporaryCoefficient:   1.0,
				ArchivedCoefficient:    0.8,
				VersionedCoefficient:   0.5,
			},
		},
		ObjectStore: ObjectStoreConfig{
			Enabled:      false,
			Region:       "us-east-1",
			UseSSL:       true,
			OldestLimit:  10,
			LargestLimit: 10,
		},
		Session: SessionConfig{
			TTL:         time.Hour,
			MaxSessions: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
