// Package tui renders the progress of a search or export run in the
// terminal. It is a driving adapter fed by pipeline events.
package tui

import (
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	Pipeline driving.Pipeline
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
