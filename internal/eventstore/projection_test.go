package eventstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func event(t *testing.T, buildID string, at time.Time, payload any) Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &BaseEvent{EventBuildID: buildID, EventType: typeOf(payload), EventTimestamp: at, EventPayload: data}
}

func TestFold(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		event(t, "a", t0, BuildStarted{Root: "/site", OutputDir: "/site/output"}),
		event(t, "a", t0.Add(2*time.Second), BuildCompleted{Status: StatusWarning, Pages: 4, Warnings: 1}),
		event(t, "b", t0.Add(time.Minute), BuildStarted{Root: "/site"}),
		event(t, "b", t0.Add(time.Minute+time.Second), BuildFailed{Stage: "resolve_templates", Error: "cycle"}),
		event(t, "c", t0.Add(2*time.Minute), BuildStarted{Root: "/other"}),
	}

	history := Fold(events, 0)
	require.Len(t, history, 3)

	require.Equal(t, "c", history[0].BuildID)
	require.Equal(t, StatusRunning, history[0].Status)
	require.Nil(t, history[0].CompletedAt)

	require.Equal(t, "b", history[1].BuildID)
	require.Equal(t, StatusFailed, history[1].Status)
	require.Equal(t, "resolve_templates", history[1].ErrorStage)
	require.Equal(t, time.Second, history[1].Duration)

	require.Equal(t, "a", history[2].BuildID)
	require.Equal(t, StatusWarning, history[2].Status)
	require.Equal(t, 4, history[2].Pages)
	require.Equal(t, "/site/output", history[2].OutputDir)

	require.Len(t, Fold(events, 2), 2)
}

func TestHistory(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	require.NoError(t, Record(ctx, store, testBuildID, BuildStarted{Root: "/site"}))
	require.NoError(t, Record(ctx, store, testBuildID, &BuildCompleted{Pages: 2}))

	history, err := History(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, StatusSuccess, history[0].Status)
	require.Equal(t, 2, history[0].Pages)
	require.Equal(t, "/site", history[0].Root)
}

func TestRecord_UnknownPayload(t *testing.T) {
	store := newStore(t)
	require.Error(t, Record(t.Context(), store, testBuildID, struct{}{}))
}
