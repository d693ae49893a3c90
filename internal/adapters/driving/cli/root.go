// Package cli provides the yuque-export command-line interface.
// It is a driving adapter: commands translate flags into calls on the
// core driving ports.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	configDir    string
	verbose      bool
	outputFormat string
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var rootCmd = &cobra.Command{
	Use:   "yuque-export",
	Short: "Export Yuque notes by tag and date",
	Long: `yuque-export collects your Yuque notes, filters them by tag and
date range, converts each note to plain text and writes one export file.

It talks to the same internal API the Yuque web app uses, authenticated
with the session cookie of a logged-in browser. Run 'yuque-export login'
first.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.yuque-export)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "output format: text, json or yaml")
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	switch outputFormat {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}
}

// Execute runs the root command and releases wired resources.
func Execute(ctx context.Context) error {
	defer closeServices()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
