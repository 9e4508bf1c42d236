package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and scan roots",
	Long: `Validate checks the configuration file and runs preflight checks
against the scan roots.

Checks performed:
  - Configuration syntax and value ranges
  - Hash algorithm and keep strategy names
  - Hashing ceiling below the large file threshold
  - Scoring weights and removability coefficients
  - Scan roots exist and are directories

Example:
  stackburn validate --config stackburn.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Workers, overrides.StaleDays, overrides.HashAlgorithm)

	fmt.Fprintf(out, "\n=== Configuration Validation ===\n")
	fmt.Fprintf(out, "Config file: %s\n", configFile)
	fmt.Fprintf(out, "Scan roots: %d\n", len(cfg.Scan.Roots))
	fmt.Fprintf(out, "Stale after: %d days\n", cfg.Thresholds.StaleDays)
	fmt.Fprintf(out, "Hash: %s (files below %d bytes)\n\n", cfg.Scan.HashAlgorithm, cfg.Thresholds.HashCeilingBytes)

	hasErrors := false

	if err := cfg.Validate(); err != nil {
		hasErrors = true
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				fmt.Fprintln(out, color.Red.Sprintf("❌ %s", e.Error()))
			}
		} else {
			fmt.Fprintln(out, color.Red.Sprintf("❌ %v", err))
		}
	} else {
		fmt.Fprintln(out, color.Green.Sprint("✅ Configuration values are valid"))
	}

	for _, root := range cfg.Scan.Roots {
		info, err := os.Stat(root)
		switch {
		case err != nil:
			fmt.Fprintln(out, color.Red.Sprintf("❌ Root %s: %v", root, err))
			hasErrors = true
		case !info.IsDir():
			fmt.Fprintln(out, color.Red.Sprintf("❌ Root %s: not a directory", root))
			hasErrors = true
		default:
			fmt.Fprintln(out, color.Green.Sprintf("✅ Root %s", root))
		}
	}

	sources := make([]string, 0, len(cfg.Scoring.Weights))
	for source := range cfg.Scoring.Weights {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	fmt.Fprintf(out, "\nWeights:\n")
	for _, source := range sources {
		fmt.Fprintf(out, "  %s: %.2f\n", source, cfg.Scoring.Weights[source])
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(out, "\n=== Validation Complete ===")
	return nil
}
