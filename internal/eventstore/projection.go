package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// Build statuses reported by summaries.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// BuildSummary is the folded view of one build's events.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Root         string        `json:"root"`
	OutputDir    string        `json:"output_dir"`
	Status       string        `json:"status"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Pages        int           `json:"pages"`
	Warnings     int           `json:"warnings"`
	Findings     int           `json:"findings"`
	ErrorStage   string        `json:"error_stage,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`

	seq int64 // id of the first event, orders builds started in the same millisecond
}

// History reads every event from store and returns one summary per build,
// newest first. A positive limit caps the number of summaries.
func History(ctx context.Context, store Store, limit int) ([]*BuildSummary, error) {
	events, err := store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}
	return Fold(events, limit), nil
}

// Fold applies events in order and returns the summaries newest first.
func Fold(events []Event, limit int) []*BuildSummary {
	builds := make(map[string]*BuildSummary)
	for _, event := range events {
		apply(builds, event)
	}

	history := make([]*BuildSummary, 0, len(builds))
	for _, s := range builds {
		history = append(history, s)
	}
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].StartedAt.Equal(history[j].StartedAt) {
			return history[i].seq > history[j].seq
		}
		return history[i].StartedAt.After(history[j].StartedAt)
	})
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history
}

func apply(builds map[string]*BuildSummary, event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}
	summary, exists := builds[buildID]
	if !exists {
		summary = &BuildSummary{BuildID: buildID, Status: StatusRunning, StartedAt: event.Timestamp(), seq: event.ID()}
		builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var payload BuildStarted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Root = payload.Root
			summary.OutputDir = payload.OutputDir
		}

	case TypeBuildCompleted:
		finish(summary, event.Timestamp())
		summary.Status = StatusSuccess
		var payload BuildCompleted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			if payload.Status != "" {
				summary.Status = payload.Status
			}
			summary.Pages = payload.Pages
			summary.Warnings = payload.Warnings
			summary.Findings = payload.Findings
		}

	case TypeBuildFailed:
		finish(summary, event.Timestamp())
		summary.Status = StatusFailed
		var payload BuildFailed
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorStage = payload.Stage
			summary.ErrorMessage = payload.Error
		}
	}
}

func finish(summary *BuildSummary, at time.Time) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
}
