// Package eventstore records build history as an append-only event log.
//
// Each build appends a build_started event and, when it ends, either a
// build_completed or a build_failed event, all keyed by the build ID. The
// History projection folds the log back into one summary per build.
package eventstore

import (
	"context"
	"time"
)

// Store persists the build log. The build service appends to it through
// Record; the history command reads it back through History.
type Store interface {
	// Append stores one build event. payload is the JSON-encoded event body.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID returns the events of one build in insertion order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange returns the events recorded between start and end inclusive,
	// oldest first. History folds these into build summaries.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}
