package service

import (
	"testing"

	"gscormer_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryTo(next model.Status, ids ...uint) TransitionEntry {
	prev := make(map[uint]model.Status, len(ids))
	for _, id := range ids {
		prev[id] = model.StatusNone
	}
	return TransitionEntry{AffectedIDs: ids, PrevStatuses: prev, NextStatus: next}
}

func TestHistoryLedgerUndoRedo(t *testing.T) {
	var l HistoryLedger

	_, ok := l.PeekUndo()
	assert.False(t, ok)

	l.Record(entryTo(model.StatusInProgress, 1))
	l.Record(entryTo(model.StatusPendingPublish, 1))
	assert.Equal(t, 2, l.UndoDepth())
	assert.Equal(t, 0, l.RedoDepth())

	entry, ok := l.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, model.StatusPendingPublish, entry.NextStatus)

	l.CommitUndo()
	assert.Equal(t, 1, l.UndoDepth())
	assert.Equal(t, 1, l.RedoDepth())

	redo, ok := l.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, model.StatusPendingPublish, redo.NextStatus)

	l.CommitRedo()
	assert.Equal(t, 2, l.UndoDepth())
	assert.Equal(t, 0, l.RedoDepth())
}

func TestHistoryLedgerRecordDiscardsRedo(t *testing.T) {
	var l HistoryLedger

	l.Record(entryTo(model.StatusInProgress, 1))
	l.Record(entryTo(model.StatusPendingPublish, 1))
	l.CommitUndo()
	require.Equal(t, 1, l.RedoDepth())

	// a new action forks the history: the undone branch is gone for good
	l.Record(entryTo(model.StatusInProgress, 2))
	assert.Equal(t, 0, l.RedoDepth())
	assert.Equal(t, 2, l.UndoDepth())

	_, ok := l.PeekRedo()
	assert.False(t, ok)
}

func TestSessionRegistryLifecycle(t *testing.T) {
	reg := NewSessionRegistry()

	s1 := reg.Start(42)
	s1.Ledger.Record(entryTo(model.StatusInProgress, 1))
	s1.FilterView("scorms").AddFilter("scorm_idioma", "ES")

	// starting again while logged in returns the same workspace
	again := reg.Start(42)
	assert.Same(t, s1, again)
	assert.Equal(t, 1, again.Ledger.UndoDepth())

	snaps := reg.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, uint(42), snaps[0].UserID)
	assert.Equal(t, 1, snaps[0].UndoDepth)
	assert.Equal(t, 1, snaps[0].ActiveFilters)

	// logout discards history and filters
	reg.Discard(42)
	fresh := reg.Start(42)
	assert.NotSame(t, s1, fresh)
	assert.Equal(t, 0, fresh.Ledger.UndoDepth())
	assert.Empty(t, fresh.FilterView("scorms").Active())
}
