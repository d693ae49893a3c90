package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

var (
	searchFilters filterFlags
	searchPrint   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Select notes by tag and date",
	Long: `Lists your notes, keeps those matching the tag and date filters,
fetches and converts their bodies and prepares the export document.

A note matches when it carries any selected tag (or has no tags and
--no-tag is set) and its date falls within --since and --until.
Without filters every note is selected.

Examples:
  yuque-export search --tag Project --since 2024-01-01 --until 2024-01-31
  yuque-export search --tag-glob 'work/*' --no-tag
  yuque-export search --tag Reading --print`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchFilters.register(searchCmd)
	searchCmd.Flags().BoolVarP(&searchPrint, "print", "p", false, "print the assembled document after the summary")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := searchFilters.criteriaWithoutNetwork(settings); err != nil {
		return err
	}

	pipeline, err := getPipeline(pipelineOptions{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	criteria, err := searchFilters.criteria(ctx, settings, pipeline)
	if err != nil {
		return err
	}
	format := searchFilters.format(settings.Export.Format)

	var summary *domain.SearchSummary
	if searchFilters.tui {
		result, err := runTUI(cmd, pipeline, tui.Request{Kind: tui.RunSearch, Criteria: criteria, Format: format})
		if err != nil {
			return err
		}
		summary, err = result.Search, result.Err
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	} else {
		summary, err = pipeline.RunSearch(ctx, criteria, format)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	doc, err := pipeline.LatestExport(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to read document: %w", err)
	}

	filename := ""
	if !doc.IsEmpty() {
		filename = doc.Filename
	}
	if err := printSearchSummary(cmd, summary, filename); err != nil {
		return err
	}
	if searchPrint && !doc.IsEmpty() && outputFormat == outputText {
		cmd.Println()
		cmd.Println(doc.Content)
	}
	return nil
}
