package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// printStructured writes v as JSON or YAML according to --output.
// It reports false for text output so the caller renders its own view.
func printStructured(cmd *cobra.Command, v any) (bool, error) {
	switch outputFormat {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
		return true, nil
	case outputYAML:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func printSearchSummary(cmd *cobra.Command, s *domain.SearchSummary, filename string) error {
	if done, err := printStructured(cmd, s); done {
		return err
	}

	if s.Matched == 0 {
		cmd.Printf("No notes matched the selection (%d notes scanned).\n", s.TotalNotes)
		printStopReason(cmd.OutOrStdout(), s.StopReason)
		return nil
	}

	cmd.Printf("Matched %d of %d notes\n", s.Matched, s.TotalNotes)
	cmd.Printf("  Saved: %d\n", s.Saved)
	if s.DetailFailures > 0 {
		cmd.Printf("  Detail failures: %d (abstract used instead)\n", s.DetailFailures)
	}
	printStopReason(cmd.OutOrStdout(), s.StopReason)

	if len(s.TagStats) > 0 {
		cmd.Println()
		cmd.Println("Tags:")
		names := make([]string, 0, len(s.TagStats))
		for name := range s.TagStats {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			cmd.Printf("  %s: %d\n", name, s.TagStats[name])
		}
	}

	if filename != "" {
		cmd.Println()
		cmd.Printf("Prepared %s. Run 'yuque-export export' with the same filters to save it.\n", filename)
	}
	return nil
}

func printExportSummary(cmd *cobra.Command, s *domain.ExportSummary) error {
	if done, err := printStructured(cmd, s); done {
		return err
	}

	cmd.Printf("Exported %d notes to %s\n", s.NoteCount, s.Location)
	if s.Reused {
		cmd.Println("  (reused the previous search)")
	}
	return nil
}

func printStopReason(w io.Writer, reason domain.StopReason) {
	switch reason {
	case domain.StopTimeout:
		fmt.Fprintln(w, "  Listing timed out; results are partial.")
	case domain.StopError:
		fmt.Fprintln(w, "  Listing stopped on an error; results are partial.")
	case domain.StopCancelled:
		fmt.Fprintln(w, "  Listing was cancelled; results are partial.")
	case domain.StopCap:
		fmt.Fprintln(w, "  Result cap reached; older notes were not scanned.")
	}
}
