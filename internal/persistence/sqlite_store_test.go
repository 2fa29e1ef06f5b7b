package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "subsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndLastSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	last, err := store.LastSuccess(ctx, "가시")
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, store.RecordRun(ctx, RunRecord{
		PairKey:       "가시",
		ReferencePath: "in/가시_en.vtt",
		TargetPath:    "in/가시_kr.vtt",
		Status:        StatusFailed,
		Error:         "cue count mismatch",
	}))
	require.NoError(t, store.RecordRun(ctx, RunRecord{
		PairKey:          "가시",
		ReferencePath:    "in/가시_en.vtt",
		TargetPath:       "in/가시_kr.vtt",
		CueCount:         120,
		SkippedReference: 1,
		Status:           StatusSuccess,
	}))

	last, err = store.LastSuccess(ctx, "가시")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, StatusSuccess, last.Status)
	assert.Equal(t, 120, last.CueCount)
	assert.Equal(t, 1, last.SkippedReference)
	assert.False(t, last.CreatedAt.IsZero())
}

func TestLastSuccessIgnoresOtherPairs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, RunRecord{
		PairKey: "가시", Status: StatusSuccess,
	}))

	last, err := store.LastSuccess(ctx, "7번방의선물")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestHistoryNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, RunRecord{PairKey: "a", Status: StatusSuccess}))
	require.NoError(t, store.RecordRun(ctx, RunRecord{PairKey: "b", Status: StatusFailed, Error: "boom"}))

	history, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].PairKey)
	assert.Equal(t, "a", history[1].PairKey)
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}
