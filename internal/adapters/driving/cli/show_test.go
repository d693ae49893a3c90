package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

func TestShowCmd(t *testing.T) {
	tests := []struct {
		name   string
		latest *domain.ExportDocument
		want   string
	}{
		{"nothing persisted", nil, "Nothing exported yet."},
		{"empty document", &domain.ExportDocument{Filename: "a.txt"}, "The last run matched no notes."},
		{"document", &domain.ExportDocument{Content: "## Title\n\nbody"}, "## Title\n\nbody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, &mockPipeline{latest: tt.latest}, nil)

			out, err := execute(t, nil, "show")

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}
