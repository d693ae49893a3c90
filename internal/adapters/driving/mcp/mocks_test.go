package mcp

import (
	"context"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	search   *domain.SearchSummary
	export   *domain.ExportSummary
	latest   *domain.ExportDocument
	tags     []string
	err      error
	tagsErr  error
	criteria domain.FilterCriteria
	format   domain.FormatOptions
}

func (m *mockPipeline) RunSearch(_ context.Context, c domain.FilterCriteria, f domain.FormatOptions) (*domain.SearchSummary, error) {
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
	m.criteria, m.format = c, f
	if m.err != nil {
		return nil, m.err
	}
	return m.export, nil
}

func (m *mockPipeline) ListTags(context.Context) ([]string, error) {
	return m.tags, m.tagsErr
}

func (m *mockPipeline) LatestExport(context.Context) (*domain.ExportDocument, error) {
	if m.latest == nil {
		return nil, domain.ErrNotFound
	}
	return m.latest, nil
}
