package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/logger"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/scanner"
	"github.com/dbsmedya/stackburn/internal/shutdown"
)

var scanOutput string

var scanCmd = &cobra.Command{
	Use:   "scan [root...]",
	Short: "Scan local directories and write the local payload",
	Long: `Scan walks the given roots (or scan.roots from the configuration), hashes
files below the hashing ceiling to find duplicates, and classifies large,
unused and temporary files. The result is written as a local payload JSON
document that the score command accepts.

Interrupting the scan (Ctrl-C) stops it between files; the partial payload
is still written.

Example:
  stackburn scan ~/Documents ~/Downloads --output local.json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"Write the payload to this file instead of stdout")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	roots := cfg.Scan.Roots
	if len(args) > 0 {
		roots = args
	}

	ctx, cancel := shutdown.SetupSignalHandlerWithCallback(commandContext(cmd), func(sig os.Signal) {
		log.Warnf("Received %s - stopping scan after the current file...", sig)
	})
	defer cancel()

	p, err := scanLocal(ctx, scanner.OptionsFromConfig(cfg), roots, log)
	if err != nil && p == nil {
		return err
	}

	if werr := writeJSONTo(cmd, scanOutput, p); werr != nil {
		return werr
	}
	if err != nil {
		log.Warnf("Scan incomplete: %v", err)
	}
	return nil
}

// scanLocal runs a local scan over roots. A canceled scan returns the
// partial payload along with the cancellation error.
func scanLocal(ctx context.Context, opts scanner.Options, roots []string, log *logger.Logger) (*payload.Local, error) {
	s, err := scanner.NewOS(opts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	log.Infof("Scanning %d root(s)", len(roots))
	p, err := s.ScanPayload(ctx, roots)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return p, err
		}
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	log.Infof("Scanned %d files in %d directories, %d duplicate groups",
		p.TotalFiles, p.TotalDirectories, len(p.Duplicates))
	return p, nil
}
