package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/burnscore"
	"github.com/dbsmedya/stackburn/internal/report"
	"github.com/dbsmedya/stackburn/internal/scanner"
	"github.com/dbsmedya/stackburn/internal/shutdown"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Output formats of the score command
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

var (
	scoreLocalFile       string
	scoreCloudFile       string
	scoreCodeHostingFile string
	scoreScan            bool
	scoreFormat          string
	scoreOutput          string
	scoreStrict          bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [root...]",
	Short: "Calculate the burn score from source payloads",
	Long: `Score reads up to three source payloads (local, cloud, code hosting) and
calculates the overall burn score, category totals, potential savings and
recommendations.

With --scan the local payload is produced by scanning the given roots (or
scan.roots from the configuration) instead of being read from a file.

A payload that cannot be decoded is left out and reported as a warning.
Use --strict to fail instead.

Example:
  stackburn score --local local.json --cloud cloud.json --format table
  stackburn score --scan ~/Documents --format markdown -o report.md`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreLocalFile, "local", "",
		"Local payload JSON file")
	scoreCmd.Flags().StringVar(&scoreCloudFile, "cloud", "",
		"Cloud payload JSON file")
	scoreCmd.Flags().StringVar(&scoreCodeHostingFile, "code-hosting", "",
		"Code hosting payload JSON file")
	scoreCmd.Flags().BoolVar(&scoreScan, "scan", false,
		"Scan local roots instead of reading --local")
	scoreCmd.Flags().StringVarP(&scoreFormat, "format", "f", FormatTable,
		"Output format (json, markdown, table)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "",
		"Write the result to this file instead of stdout")
	scoreCmd.Flags().BoolVar(&scoreStrict, "strict", false,
		"Fail when any payload cannot be decoded")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	switch scoreFormat {
	case FormatJSON, FormatMarkdown, FormatTable:
	default:
		return fmt.Errorf("unknown format %q (json, markdown, table)", scoreFormat)
	}
	if scoreScan && scoreLocalFile != "" {
		return fmt.Errorf("--scan and --local are mutually exclusive")
	}
	if !scoreScan && scoreLocalFile == "" && scoreCloudFile == "" && scoreCodeHostingFile == "" {
		return fmt.Errorf("no sources given: use --local, --cloud, --code-hosting or --scan")
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	var raw burnscore.RawInput
	if raw.Local, err = readPayload(scoreLocalFile); err != nil {
		return err
	}
	if raw.Cloud, err = readPayload(scoreCloudFile); err != nil {
		return err
	}
	if raw.CodeHosting, err = readPayload(scoreCodeHostingFile); err != nil {
		return err
	}

	if scoreScan {
		roots := cfg.Scan.Roots
		if len(args) > 0 {
			roots = args
		}

		ctx, cancel := shutdown.SetupSignalHandlerWithCallback(commandContext(cmd), func(sig os.Signal) {
			log.Warnf("Received %s - scoring the partial scan...", sig)
		})
		defer cancel()

		p, err := scanLocal(ctx, scanner.OptionsFromConfig(cfg), roots, log)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if raw.Local, err = json.Marshal(p); err != nil {
			return fmt.Errorf("failed to encode scan payload: %w", err)
		}
	}

	engine := burnscore.New(cfg, log)
	result, err := engine.CalculateRaw(raw)
	if err != nil && scoreStrict {
		return fmt.Errorf("strict mode: %w", err)
	}

	log.Infof("Overall burn score %.1f across %d source(s)", result.OverallScore, len(result.CategoryScores))

	out, err := openOutput(cmd, scoreOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	return render(out, result, scoreFormat)
}

// readPayload reads a payload file. An empty path means the source is absent.
func readPayload(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return data, nil
}

func render(w io.Writer, result *types.BurnScoreResult, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatMarkdown:
		_, err := io.WriteString(w, report.Markdown(result))
		return err
	default:
		if err := report.Table(w, result); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\nPotential savings: %s\n", color.Cyan.Sprintf("%.2f GB", result.PotentialSavings))
		return err
	}
}
