package mcp

import (
	"time"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Pipeline runs searches and exports.
	Pipeline driving.Pipeline

	// Location resolves filter dates. Nil means time.Local.
	Location *time.Location

	// Format is used when a tool call does not override header lines.
	Format domain.FormatOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
