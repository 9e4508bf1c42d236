package cmd

import (
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/scanner"
	"github.com/dbsmedya/stackburn/internal/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version and build details, the scored sources, the digest
algorithms the scanner supports, and the configuration file in effect.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	cmd.Printf("stackburn version %s\n", Version)
	cmd.Printf("  Commit: %s\n", Commit)
	cmd.Printf("  Go version: %s\n", runtime.Version())
	cmd.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	cmd.Printf("  Sources: %s\n", strings.Join(
		[]string{types.SourceLocal, types.SourceCloud, types.SourceCodeHosting}, ", "))
	cmd.Printf("  Hash algorithms: %s (default %s)\n",
		strings.Join([]string{scanner.HashSHA256, scanner.HashXXHash}, ", "),
		config.DefaultConfig().Scan.HashAlgorithm)

	configFile := GetConfigFile()
	if _, err := os.Stat(configFile); err != nil {
		cmd.Printf("  Config: %s (not found, using defaults)\n", configFile)
		return
	}
	cmd.Printf("  Config: %s\n", configFile)
}
