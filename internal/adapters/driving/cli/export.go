package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

var (
	exportFilters filterFlags
	exportStdout  bool
	exportDir     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the selected notes to a file",
	Long: `Writes one text file containing every selected note, newest first.

When the previous search used the same filters its converted notes are
reused, otherwise the search runs first. The file is named after the
run time and filters, e.g.
yuque-notes_<time>_tags(Project)_dates(2024-01-01~2024-01-31).txt.

Examples:
  yuque-export export --tag Project --since 2024-01-01
  yuque-export export --no-tag --no-time --dir ~/Documents
  yuque-export export --tag Reading --stdout > reading.txt`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "write the document to stdout instead of a file")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "directory to write to (default export.output_dir)")
	exportCmd.MarkFlagsMutuallyExclusive("stdout", "dir")
	exportCmd.MarkFlagsMutuallyExclusive("stdout", "tui")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := exportFilters.criteriaWithoutNetwork(settings); err != nil {
		return err
	}

	opts := pipelineOptions{outputDir: exportDir}
	if exportStdout {
		opts.stdout = cmd.OutOrStdout()
	}
	pipeline, err := getPipeline(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	criteria, err := exportFilters.criteria(ctx, settings, pipeline)
	if err != nil {
		return err
	}
	format := exportFilters.format(settings.Export.Format)

	var summary *domain.ExportSummary
	if exportFilters.tui {
		result, err := runTUI(cmd, pipeline, tui.Request{Kind: tui.RunExport, Criteria: criteria, Format: format})
		if err != nil {
			return err
		}
		summary, err = result.Export, result.Err
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	} else {
		summary, err = pipeline.RunExport(ctx, criteria, format)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	if exportStdout {
		return nil
	}
	return printExportSummary(cmd, summary)
}
