package driven

import "github.com/custodia-labs/yuque-export/internal/core/domain"

// NotificationChannel receives one-way progress and result events.
// Send must not block the pipeline.
type NotificationChannel interface {
	Send(event domain.Event)
}
