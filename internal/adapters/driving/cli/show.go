package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the document of the last run",
	Long: `Prints the export document persisted by the last search or export,
without contacting Yuque.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	pipeline, err := getPipeline(pipelineOptions{})
	if err != nil {
		return err
	}

	doc, err := pipeline.LatestExport(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("Nothing exported yet. Run 'yuque-export search' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	if done, err := printStructured(cmd, doc); done {
		return err
	}

	if doc.IsEmpty() {
		cmd.Println("The last run matched no notes.")
		return nil
	}
	cmd.Println(doc.Content)
	return nil
}
