package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/yuque-export/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/services"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	search    *domain.SearchSummary
	export    *domain.ExportSummary
	latest    *domain.ExportDocument
	tags      []string
	err       error
	calls     int
	tagsCalls int
	criteria  domain.FilterCriteria
	format    domain.FormatOptions
}

func (m *mockPipeline) RunSearch(_ context.Context, c domain.FilterCriteria, f domain.FormatOptions) (*domain.SearchSummary, error) {
	m.calls++
	m.criteria, m.format = c, f
	if m.err != nil {
		return nil, m.err
	}
	if m.search == nil {
		return &domain.SearchSummary{}, nil
	}
	return m.search, nil
}

func (m *mockPipeline) RunExport(_ context.Context, c domain.FilterCriteria, f domain.FormatOptions) (*domain.ExportSummary, error) {
	m.calls++
	m.criteria, m.format = c, f
	if m.err != nil {
		return nil, m.err
	}
	return m.export, nil
}

func (m *mockPipeline) ListTags(context.Context) ([]string, error) {
	m.tagsCalls++
	return m.tags, nil
}

func (m *mockPipeline) LatestExport(context.Context) (*domain.ExportDocument, error) {
	if m.latest == nil {
		return nil, domain.ErrNotFound
	}
	return m.latest, nil
}

// setupTestServices injects an in-memory settings service and p.
func setupTestServices(t *testing.T, p *mockPipeline, config map[string]any) *memory.ConfigStore {
	t.Helper()
	if config == nil {
		config = map[string]any{}
	}
	if _, ok := config[services.KeyTimezone]; !ok {
		config[services.KeyTimezone] = "UTC"
	}
	store := memory.NewConfigStoreWith(config)
	SetServices(services.NewSettingsService(store), p)
	t.Cleanup(func() {
		SetServices(nil, nil)
		resetFlags()
	})
	return store
}

// resetFlags clears flag values left behind by a previous Execute.
func resetFlags() {
	searchFilters = filterFlags{}
	exportFilters = filterFlags{}
	searchPrint, exportStdout, exportDir = false, false, ""
	loginCookie, loginCookieFile, loginVerify = "", "", false
	outputFormat, verbose, configDir = outputText, false, ""

	var visit func(cmd *cobra.Command)
	visit = func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, c := range cmd.Commands() {
			visit(c)
		}
	}
	visit(rootCmd)
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
