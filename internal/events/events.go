// Package events publishes import lifecycle notifications. Publishing is
// fire-and-forget: a failed publish is logged by the caller, never surfaced
// as an import failure.
package events

import (
	"context"
	"time"
)

// Event topics.
const (
	// TopicJobImported fires when an import writes a new version.
	TopicJobImported = "mlcli.job.imported"

	// TopicJobUnchanged fires when an import was an idempotent no-op.
	TopicJobUnchanged = "mlcli.job.unchanged"
)

// ImportEvent is the payload published on import topics.
type ImportEvent struct {
	JobID     string    `json:"job_id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher delivers events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
