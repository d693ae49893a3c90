package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/services"
)

// FilterInput is the tag and date selection shared by search and export.
type FilterInput struct {
	Tags     []string `json:"tags,omitempty" jsonschema:"exact tag names; a note matches if it has any of them"`
	TagGlobs []string `json:"tag_globs,omitempty" jsonschema:"glob patterns expanded against the user's tags, e.g. work/*"`
	NoTag    bool     `json:"no_tag,omitempty" jsonschema:"also select notes that have no tags"`
	Since    string   `json:"since,omitempty" jsonschema:"first day to include, YYYY-MM-DD"`
	Until    string   `json:"until,omitempty" jsonschema:"last day to include, YYYY-MM-DD"`

	IncludeTitle *bool `json:"include_title,omitempty" jsonschema:"write the title line for each note"`
	IncludeTime  *bool `json:"include_time,omitempty" jsonschema:"write the updated date line for each note"`
	IncludeTags  *bool `json:"include_tags,omitempty" jsonschema:"write the tags line for each note"`
}

// SearchOutput is the output schema for the search_notes tool.
type SearchOutput struct {
	RunID          string         `json:"run_id"`
	TotalNotes     int            `json:"total_notes"`
	Matched        int            `json:"matched"`
	DetailFailures int            `json:"detail_failures"`
	StopReason     string         `json:"stop_reason"`
	TagStats       map[string]int `json:"tag_stats,omitempty"`
	Filename       string         `json:"filename,omitempty"`
	Content        string         `json:"content,omitempty"`
}

// ExportOutput is the output schema for the export_notes tool.
type ExportOutput struct {
	Filename  string `json:"filename"`
	Location  string `json:"location"`
	NoteCount int    `json:"note_count"`
	Reused    bool   `json:"reused_cache"`
}

// TagsInput is the input schema for the list_tags tool.
type TagsInput struct{}

// TagsOutput is the output schema for the list_tags tool.
type TagsOutput struct {
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Select Yuque notes by tag and date range and return the assembled text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_notes",
		Description: "Write the selected Yuque notes to the export directory",
	}, s.handleExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List the user's Yuque note tags",
	}, s.handleListTags)
}

// handleSearch handles the search_notes tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	criteria, format, err := s.selection(ctx, input)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	summary, err := s.ports.Pipeline.RunSearch(ctx, criteria, format)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		RunID:          summary.RunID,
		TotalNotes:     summary.TotalNotes,
		Matched:        summary.Matched,
		DetailFailures: summary.DetailFailures,
		StopReason:     string(summary.StopReason),
		TagStats:       summary.TagStats,
	}

	if doc, err := s.ports.Pipeline.LatestExport(ctx); err == nil {
		output.Filename = doc.Filename
		output.Content = doc.Content
	}

	return nil, output, nil
}

// handleExport handles the export_notes tool invocation.
func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	criteria, format, err := s.selection(ctx, input)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	summary, err := s.ports.Pipeline.RunExport(ctx, criteria, format)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	return nil, ExportOutput{
		Filename:  summary.Filename,
		Location:  summary.Location,
		NoteCount: summary.NoteCount,
		Reused:    summary.Reused,
	}, nil
}

// handleListTags handles the list_tags tool invocation.
func (s *Server) handleListTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ TagsInput,
) (*mcp.CallToolResult, TagsOutput, error) {
	tags, err := s.ports.Pipeline.ListTags(ctx)
	if err != nil {
		return nil, TagsOutput{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	return nil, TagsOutput{Tags: tags, Count: len(tags)}, nil
}

func (s *Server) selection(ctx context.Context, input FilterInput) (domain.FilterCriteria, domain.FormatOptions, error) {
	criteria, err := services.BuildCriteria(ctx, services.CriteriaInput{
		Tags:     input.Tags,
		TagGlobs: input.TagGlobs,
		NoTag:    input.NoTag,
		Since:    input.Since,
		Until:    input.Until,
	}, s.ports.Location, s.ports.Pipeline)
	if err != nil {
		return criteria, domain.FormatOptions{}, err
	}

	format := s.ports.Format
	if input.IncludeTitle != nil {
		format.IncludeTitle = *input.IncludeTitle
	}
	if input.IncludeTime != nil {
		format.IncludeTime = *input.IncludeTime
	}
	if input.IncludeTags != nil {
		format.IncludeTags = *input.IncludeTags
	}
	return criteria, format, nil
}
