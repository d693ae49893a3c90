// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// EventReceived carries one pipeline notification.
type EventReceived struct {
	Event domain.Event
}

// EventsClosed is sent when the notification channel is closed.
type EventsClosed struct{}

// RunFinished carries the outcome of the pipeline call.
type RunFinished struct {
	Search *domain.SearchSummary
	Export *domain.ExportSummary
	Err    error
}
