package eventstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const testBuildID = "5f0c9a4e-1111-4c3b-9f55-0d9d5f3c0001"

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, testBuildID, "TestEvent", []byte(`{"test":"data"}`), map[string]string{"key": "value"}))
	require.NoError(t, store.Append(ctx, "other", "TestEvent", nil, nil))

	events, err := store.GetByBuildID(ctx, testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, testBuildID, events[0].BuildID())
	require.Equal(t, "TestEvent", events[0].Type())
	require.JSONEq(t, `{"test":"data"}`, string(events[0].Payload()))
	require.Equal(t, "value", events[0].Metadata()["key"])
	require.WithinDuration(t, time.Now(), events[0].Timestamp(), time.Minute)

	other, err := store.GetByBuildID(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, "{}", string(other[0].Payload()))
	require.Nil(t, other[0].Metadata())
}

func TestEventStoreGetRange(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	require.NoError(t, store.Append(ctx, testBuildID, TypeBuildStarted, nil, nil))

	events, err := store.GetRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = store.GetRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEventStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, Record(t.Context(), store, testBuildID, BuildStarted{Root: "/site"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, TypeBuildStarted, events[0].Type())
}

func TestNewSQLiteStore_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := NewSQLiteStore(dir) // a directory is not a database file
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStoreOpen)
	require.True(t, errors.HasCategory(err, errors.CategoryHistory))
}
