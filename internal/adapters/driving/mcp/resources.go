package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for yuque-export resources.
	uriScheme = "yuque-export://"

	// latestExportURI names the document persisted by the last run.
	latestExportURI = uriScheme + "export/latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         latestExportURI,
		Name:        "latest-export",
		Description: "Text of the document assembled by the last search or export",
		MIMEType:    "text/plain",
	}, s.handleLatestExport)
}

// handleLatestExport returns the persisted export document.
func (s *Server) handleLatestExport(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	doc, err := s.ports.Pipeline.LatestExport(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest export: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}
