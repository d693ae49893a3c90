package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List your note tags",
	Long: `Lists the tag names defined on your account, sorted.

When the tags endpoint is unavailable the names are collected from
a bounded listing of recent notes instead.`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	pipeline, err := getPipeline(pipelineOptions{})
	if err != nil {
		return err
	}

	tags, err := pipeline.ListTags(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}

	if done, err := printStructured(cmd, tags); done {
		return err
	}

	if len(tags) == 0 {
		cmd.Println("No tags found.")
		return nil
	}
	for _, t := range tags {
		cmd.Println(t)
	}
	return nil
}
