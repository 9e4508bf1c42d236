package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile       string
	envFile       string
	logLevel      string
	logFormat     string
	workers       int
	staleDays     int
	hashAlgorithm string
)

var rootCmd = &cobra.Command{
	Use:   "stackburn",
	Short: "Digital clutter burn score",
	Long: `StackBurn measures reclaimable digital clutter across local disks, cloud
file stores and code hosting accounts, and turns it into a single 0-100 burn
score with prioritized cleanup recommendations.

Features:
  - Parallel local scan with content-hash duplicate detection
  - Stale, large and temporary file classification
  - S3-compatible bucket summaries
  - Weighted burn score across sources with potential savings`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "stackburn.yaml",
		"Path to configuration file (defaults are used if it does not exist)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Environment file loaded before the configuration")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Scan overrides
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override number of parallel scan workers")
	rootCmd.PersistentFlags().IntVar(&staleDays, "stale-days", 0,
		"Override the number of days after which a file counts as stale")
	rootCmd.PersistentFlags().StringVar(&hashAlgorithm, "hash", "",
		"Override duplicate hash algorithm (sha256, xxhash)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel      string
	LogFormat     string
	Workers       int
	StaleDays     int
	HashAlgorithm string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		Workers:       workers,
		StaleDays:     staleDays,
		HashAlgorithm: hashAlgorithm,
	}
}

// loadEnv reads the environment file if one exists. Variables already set in
// the environment win.
func loadEnv(cmd *cobra.Command, args []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// loadConfig loads and validates the configuration with CLI overrides
// applied, and builds the logger it describes.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Workers, overrides.StaleDays, overrides.HashAlgorithm)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
