package eventstore

import (
	"context"
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted   = "build_started"
	TypeBuildCompleted = "build_completed"
	TypeBuildFailed    = "build_failed"
)

// BuildStarted is recorded when a build begins.
type BuildStarted struct {
	Root      string `json:"root"`
	OutputDir string `json:"output_dir"`
	Version   string `json:"version,omitempty"`
}

// BuildCompleted is recorded when every stage finished without a fatal error.
type BuildCompleted struct {
	Status          string `json:"status"` // success or warning
	Pages           int    `json:"pages"`
	FilesWritten    int    `json:"files_written"`
	ResourcesCopied int    `json:"resources_copied"`
	Warnings        int    `json:"warnings"`
	Findings        int    `json:"findings"`
	DurationMS      int64  `json:"duration_ms"`
}

// BuildFailed is recorded when a stage stopped the build.
type BuildFailed struct {
	Stage      string `json:"stage"`
	Category   string `json:"category"`
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

// typeOf maps a payload to its event type.
func typeOf(payload any) string {
	switch payload.(type) {
	case BuildStarted, *BuildStarted:
		return TypeBuildStarted
	case BuildCompleted, *BuildCompleted:
		return TypeBuildCompleted
	case BuildFailed, *BuildFailed:
		return TypeBuildFailed
	default:
		return ""
	}
}

// Record marshals payload and appends it to store as an event of buildID.
func Record(ctx context.Context, store Store, buildID string, payload any) error {
	eventType := typeOf(payload)
	if eventType == "" {
		return errors.InternalError("unknown build event payload").
			WithContext("build_id", buildID).
			Build()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.HistoryError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("event", eventType).
			Build()
	}
	return store.Append(ctx, buildID, eventType, data, map[string]string{
		"recorded_at": time.Now().UTC().Format(time.RFC3339),
	})
}
