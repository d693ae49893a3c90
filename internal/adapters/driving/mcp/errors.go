// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search, export and list tags of Yuque notes.
package mcp

import "errors"

// ErrMissingPipeline is returned when the pipeline is not provided.
var ErrMissingPipeline = errors.New("mcp: pipeline is required")
