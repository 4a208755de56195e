package service

import (
	"errors"
	"testing"
	"time"

	"gscormer_backend/internal/model"
	"gscormer_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScormStore struct {
	rows   map[uint]*model.ScormMaster
	failOn map[uint]bool
	writes []uint
}

func newFakeScormStore(rows ...*model.ScormMaster) *fakeScormStore {
	s := &fakeScormStore{rows: make(map[uint]*model.ScormMaster), failOn: make(map[uint]bool)}
	for _, row := range rows {
		s.rows[row.ID] = row
	}
	return s
}

func (s *fakeScormStore) FindByIDs(ids []uint) ([]*model.ScormMaster, error) {
	var out []*model.ScormMaster
	for _, id := range ids {
		if row, ok := s.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeScormStore) UpdateStatus(id uint, status model.Status) error {
	if s.failOn[id] {
		return errors.New("write failed")
	}
	s.writes = append(s.writes, id)
	s.rows[id].Status = status
	return nil
}

type fakeUpdateLog struct {
	entries []*model.ScormUpdate
}

func (l *fakeUpdateLog) Create(entry *model.ScormUpdate) error {
	l.entries = append(l.entries, entry)
	return nil
}

func (l *fakeUpdateLog) LatestByCode(code string) (*model.ScormUpdate, error) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].ScormCode == code {
			return l.entries[i], nil
		}
	}
	return nil, nil
}

func scormRow(id uint, code string, status model.Status) *model.ScormMaster {
	return &model.ScormMaster{BaseModel: model.BaseModel{ID: id}, Code: code, Language: "ES", Status: status}
}

func editorClaims() *util.Claims {
	return &util.Claims{UserID: 1, Name: "editor", Role: model.Editor}
}

func adminClaims() *util.Claims {
	return &util.Claims{UserID: 2, Name: "admin", Agent: "Admin GScormer", Role: model.Admin}
}

func newTestWorkflow(rows ...*model.ScormMaster) (*StatusWorkflow, *fakeScormStore, *fakeUpdateLog, *Session) {
	store := newFakeScormStore(rows...)
	log := &fakeUpdateLog{}
	wf := NewStatusWorkflow(store, log, nil)
	sess := NewSessionRegistry().Start(1)
	return wf, store, log, sess
}

func TestTransitionHappyPath(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusNone),
		scormRow(2, "SCR0002", model.StatusNone),
	)

	result, err := wf.Transition(sess, editorClaims(), []uint{1, 2}, model.StatusInProgress)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, result.Changed)
	assert.Equal(t, model.StatusInProgress, store.rows[1].Status)
	assert.Equal(t, model.StatusInProgress, store.rows[2].Status)
	assert.Equal(t, 1, sess.Ledger.UndoDepth())
}

func TestTransitionRejectsIllegalStep(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusNone))

	_, err := wf.Transition(sess, editorClaims(), []uint{1}, model.StatusPendingPublish)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	assert.Equal(t, model.StatusNone, store.rows[1].Status)
	assert.Equal(t, 0, sess.Ledger.UndoDepth())
}

func TestTransitionRejectsDirectUpdatedPendingPublish(t *testing.T) {
	wf, _, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusPublished))

	_, err := wf.Transition(sess, adminClaims(), []uint{1}, model.StatusUpdatedPendingPublish)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestTransitionEmptySelection(t *testing.T) {
	wf, _, _, sess := newTestWorkflow()

	_, err := wf.Transition(sess, editorClaims(), nil, model.StatusInProgress)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestTransitionUnknownRow(t *testing.T) {
	wf, _, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusNone))

	_, err := wf.Transition(sess, editorClaims(), []uint{1, 99}, model.StatusInProgress)
	assert.ErrorIs(t, err, util.ErrRecordNotFound)
}

func TestPublishRequiresAdmin(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusInProgress))

	_, err := wf.Transition(sess, editorClaims(), []uint{1}, model.StatusPublished)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrPublishForbidden)
	assert.ErrorIs(t, err, util.ErrAuthorization)

	// nothing was written and nothing was recorded
	assert.Empty(t, store.writes)
	assert.Equal(t, model.StatusInProgress, store.rows[1].Status)
	assert.Equal(t, 0, sess.Ledger.UndoDepth())
}

func TestAdminPublishesFromAnyState(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusInProgress),
		scormRow(2, "SCR0002", model.StatusUpdatedPendingPublish),
	)

	result, err := wf.Transition(sess, adminClaims(), []uint{1, 2}, model.StatusPublished)
	require.NoError(t, err)
	assert.Len(t, result.Changed, 2)
	assert.Equal(t, model.StatusPublished, store.rows[1].Status)
	assert.Equal(t, model.StatusPublished, store.rows[2].Status)
}

func TestPublishAlreadyPublishedIsInformational(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusPublished))

	result, err := wf.Transition(sess, adminClaims(), []uint{1}, model.StatusPublished)
	require.NoError(t, err)
	assert.Empty(t, result.Changed)
	assert.Equal(t, []uint{1}, result.AlreadyPublished)

	// a no-op is not undoable
	assert.Empty(t, store.writes)
	assert.Equal(t, 0, sess.Ledger.UndoDepth())
}

func TestBulkTransitionFailsClosed(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusNone),
		scormRow(2, "SCR0002", model.StatusNone),
	)
	store.failOn[2] = true

	_, err := wf.Transition(sess, editorClaims(), []uint{1, 2}, model.StatusInProgress)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrPersistence)

	// the failed batch never reaches the ledger
	assert.Equal(t, 0, sess.Ledger.UndoDepth())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(scormRow(1, "SCR0001", model.StatusNone))

	_, err := wf.Transition(sess, editorClaims(), []uint{1}, model.StatusInProgress)
	require.NoError(t, err)
	_, err = wf.Transition(sess, editorClaims(), []uint{1}, model.StatusPendingPublish)
	require.NoError(t, err)

	entry, err := wf.Undo(sess)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusInProgress, store.rows[1].Status)

	entry, err = wf.Undo(sess)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusNone, store.rows[1].Status)

	// stack exhausted: quiet no-op
	entry, err = wf.Undo(sess)
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = wf.Redo(sess)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusInProgress, store.rows[1].Status)
}

func TestNewActionDiscardsRedo(t *testing.T) {
	wf, store, _, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusNone),
		scormRow(2, "SCR0002", model.StatusNone),
	)

	_, err := wf.Transition(sess, editorClaims(), []uint{1}, model.StatusInProgress)
	require.NoError(t, err)
	_, err = wf.Undo(sess)
	require.NoError(t, err)

	_, err = wf.Transition(sess, editorClaims(), []uint{2}, model.StatusInProgress)
	require.NoError(t, err)

	entry, err := wf.Redo(sess)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, model.StatusNone, store.rows[1].Status)
}

func TestRegisterUpdate(t *testing.T) {
	wf, store, log, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusPublished),
		scormRow(2, "SCR0002", model.StatusPublished),
	)

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	result, err := wf.RegisterUpdate(sess, adminClaims(), []uint{1, 2}, model.ChangeContent, date, "revisión anual")
	require.NoError(t, err)
	assert.Len(t, result.Changed, 2)

	require.Len(t, log.entries, 2)
	assert.Equal(t, "SCR0001", log.entries[0].ScormCode)
	assert.Equal(t, model.ChangeContent, log.entries[0].ChangeType)
	assert.Equal(t, date, log.entries[0].ModifiedDate)
	assert.Equal(t, "Admin GScormer", log.entries[0].User)

	assert.Equal(t, model.StatusUpdatedPendingPublish, store.rows[1].Status)
	assert.Equal(t, model.StatusUpdatedPendingPublish, store.rows[2].Status)

	// undo restores the published state
	entry, err := wf.Undo(sess)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusPublished, store.rows[1].Status)
}

func TestRegisterUpdateValidation(t *testing.T) {
	wf, _, log, sess := newTestWorkflow(
		scormRow(1, "SCR0001", model.StatusPublished),
		scormRow(2, "", model.StatusPublished),
	)

	_, err := wf.RegisterUpdate(sess, editorClaims(), []uint{1}, model.ChangeType("Inventado"), time.Time{}, "")
	assert.ErrorIs(t, err, util.ErrInvalidChangeType)

	// a row without code rejects the whole batch before writing
	_, err = wf.RegisterUpdate(sess, editorClaims(), []uint{1, 2}, model.ChangeContent, time.Time{}, "")
	assert.ErrorIs(t, err, util.ErrMissingCode)
	assert.Empty(t, log.entries)
}

func TestPublicationInfo(t *testing.T) {
	wf, _, log, _ := newTestWorkflow()

	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("pending first publish uses creation date", func(t *testing.T) {
		row := scormRow(1, "SCR0001", model.StatusPendingPublish)
		row.CreatedAt = created
		info, err := wf.PublicationInfo(row)
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, created, info.Date)
		assert.Equal(t, model.NewPublicationLabel, info.UpdateType)
	})

	t.Run("updated rows use the latest log entry", func(t *testing.T) {
		modified := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
		log.entries = append(log.entries, &model.ScormUpdate{
			ScormCode:    "SCR0001",
			ChangeType:   model.ChangeTranslation,
			ModifiedDate: modified,
		})
		row := scormRow(1, "SCR0001", model.StatusUpdatedPendingPublish)
		info, err := wf.PublicationInfo(row)
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, modified, info.Date)
		assert.Equal(t, string(model.ChangeTranslation), info.UpdateType)
	})

	t.Run("other states have no projection", func(t *testing.T) {
		info, err := wf.PublicationInfo(scormRow(1, "SCR0001", model.StatusInProgress))
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}
