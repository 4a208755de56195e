package service

import (
	"fmt"
	"time"

	"gscormer_backend/internal/model"
	"gscormer_backend/internal/util"
	"gscormer_backend/pkg/logger"
	"gscormer_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// statusStore is the slice of the catalog repository the workflow needs:
// load by id and write one row's status. Bulk transitions issue one write
// per affected id.
type statusStore interface {
	FindByIDs(ids []uint) ([]*model.ScormMaster, error)
	UpdateStatus(id uint, status model.Status) error
}

// updateLog is the append-only update log.
type updateLog interface {
	Create(entry *model.ScormUpdate) error
	LatestByCode(code string) (*model.ScormUpdate, error)
}

// Directly requestable transitions. UpdatedPendingPublish is reachable
// only as the side effect of registering an update, and Published is
// handled apart because it is allowed from any state behind the admin
// gate.
var legalTransitions = map[model.Status]map[model.Status]struct{}{
	model.StatusNone:       {model.StatusInProgress: {}},
	model.StatusInProgress: {model.StatusPendingPublish: {}},
}

// TransitionResult reports what a (bulk) transition actually did.
type TransitionResult struct {
	Changed          []uint       `json:"changed"`
	AlreadyPublished []uint       `json:"alreadyPublished,omitempty"`
	NextStatus       model.Status `json:"nextStatus"`
}

// StatusWorkflow drives the publication lifecycle of catalog rows:
// validated transitions, the admin gate on publishing, bulk fail-closed
// application, the update log, and the per-session undo/redo ledger.
type StatusWorkflow struct {
	Scorms   statusStore
	Updates  updateLog
	onChange func()
}

// NewStatusWorkflow wires the workflow. onChange runs after every
// successful persisted change (cache invalidation); nil is allowed.
func NewStatusWorkflow(scorms statusStore, updates updateLog, onChange func()) *StatusWorkflow {
	return &StatusWorkflow{Scorms: scorms, Updates: updates, onChange: onChange}
}

func (w *StatusWorkflow) notifyChange() {
	if w.onChange != nil {
		w.onChange()
	}
}

// Transition applies next to every id as one logical unit. Validation and
// authorization run before any write; if any per-id write fails the whole
// batch is reported failed and nothing is recorded in the ledger. Rows
// already in the target state are reported, not rewritten.
func (w *StatusWorkflow) Transition(sess *Session, actor *util.Claims, ids []uint, next model.Status) (*TransitionResult, error) {
	sess.Lock()
	defer sess.Unlock()

	if len(ids) == 0 {
		return nil, util.ValidationError(fmt.Errorf("ninguna fila seleccionada"))
	}
	if !next.Known() || next == model.StatusUpdatedPendingPublish {
		return nil, util.ValidationError(util.ErrInvalidTransition)
	}

	rows, err := w.Scorms.FindByIDs(ids)
	if err != nil {
		return nil, util.PersistenceError("cargar filas", err)
	}
	if len(rows) != len(ids) {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}

	result := &TransitionResult{NextStatus: next}
	prev := make(map[uint]model.Status, len(rows))
	var pending []*model.ScormMaster

	for _, row := range rows {
		current := model.ParseStatus(string(row.Status))
		if next == model.StatusPublished {
			if actor == nil || actor.Role != model.Admin {
				return nil, util.AuthorizationError(util.ErrPublishForbidden)
			}
			if current == model.StatusPublished {
				result.AlreadyPublished = append(result.AlreadyPublished, row.ID)
				continue
			}
		} else if _, ok := legalTransitions[current][next]; !ok {
			return nil, util.ValidationError(fmt.Errorf("%w: %s → %s",
				util.ErrInvalidTransition, current.Display(), next.Display()))
		}
		prev[row.ID] = current
		pending = append(pending, row)
	}

	if len(pending) == 0 {
		// every row was already published, informational no-op
		return result, nil
	}

	if err := w.persistStatuses(pending, next); err != nil {
		monitoring.StatusTransitions.WithLabelValues(string(next), "error").Inc()
		return nil, err
	}

	for _, row := range pending {
		result.Changed = append(result.Changed, row.ID)
	}
	sess.Ledger.Record(TransitionEntry{
		AffectedIDs:  result.Changed,
		PrevStatuses: prev,
		NextStatus:   next,
	})
	monitoring.StatusTransitions.WithLabelValues(string(next), "ok").Inc()
	w.notifyChange()

	logger.Log.Info("status transition applied",
		zap.Uints("ids", result.Changed),
		zap.String("to", string(next)))

	return result, nil
}

// persistStatuses writes next to every row, one call per id. Any failure
// fails the batch: ids persisted before the failure stay changed in the
// store, but the batch is not recorded and the caller sees the error, so
// local session state never drifts from a half-applied batch.
func (w *StatusWorkflow) persistStatuses(rows []*model.ScormMaster, next model.Status) error {
	for _, row := range rows {
		if err := w.Scorms.UpdateStatus(row.ID, next); err != nil {
			return util.PersistenceError(fmt.Sprintf("actualizar fila %d", row.ID), err)
		}
	}
	for _, row := range rows {
		row.Status = next
	}
	return nil
}

// Undo reverts the session's most recent recorded transition by persisting
// every affected row's previous status, then moves the entry onto the redo
// stack. Returns (nil, nil) when there is nothing to undo.
func (w *StatusWorkflow) Undo(sess *Session) (*TransitionEntry, error) {
	sess.Lock()
	defer sess.Unlock()

	entry, ok := sess.Ledger.PeekUndo()
	if !ok {
		return nil, nil
	}

	for _, id := range entry.AffectedIDs {
		if err := w.Scorms.UpdateStatus(id, entry.PrevStatuses[id]); err != nil {
			return nil, util.PersistenceError(fmt.Sprintf("deshacer fila %d", id), err)
		}
	}

	sess.Ledger.CommitUndo()
	w.notifyChange()
	return &entry, nil
}

// Redo re-applies the most recently undone transition. The replay is not
// recorded as a new action, it only moves the entry back onto the undo
// stack. Returns (nil, nil) when there is nothing to redo.
func (w *StatusWorkflow) Redo(sess *Session) (*TransitionEntry, error) {
	sess.Lock()
	defer sess.Unlock()

	entry, ok := sess.Ledger.PeekRedo()
	if !ok {
		return nil, nil
	}

	for _, id := range entry.AffectedIDs {
		if err := w.Scorms.UpdateStatus(id, entry.NextStatus); err != nil {
			return nil, util.PersistenceError(fmt.Sprintf("rehacer fila %d", id), err)
		}
	}

	sess.Ledger.CommitRedo()
	w.notifyChange()
	return &entry, nil
}

// RegisterUpdate appends one log entry per target row and then forces
// every target to UpdatedPendingPublish regardless of its prior state.
// This is the only path that creates log entries. Targets without a
// business code are rejected before anything is written.
func (w *StatusWorkflow) RegisterUpdate(sess *Session, actor *util.Claims, ids []uint, changeType model.ChangeType, date time.Time, notes string) (*TransitionResult, error) {
	sess.Lock()
	defer sess.Unlock()

	if len(ids) == 0 {
		return nil, util.ValidationError(fmt.Errorf("ninguna fila seleccionada"))
	}
	if !changeType.Valid() {
		return nil, util.ValidationError(util.ErrInvalidChangeType)
	}

	rows, err := w.Scorms.FindByIDs(ids)
	if err != nil {
		return nil, util.PersistenceError("cargar filas", err)
	}
	if len(rows) != len(ids) {
		return nil, util.ValidationError(util.ErrRecordNotFound)
	}
	for _, row := range rows {
		if row.Code == "" {
			return nil, util.ValidationError(fmt.Errorf("%w (fila %d)", util.ErrMissingCode, row.ID))
		}
	}

	if date.IsZero() {
		date = time.Now()
	}
	user := ""
	if actor != nil {
		user = actor.Agent
		if user == "" {
			user = actor.Name
		}
	}

	for _, row := range rows {
		entry := &model.ScormUpdate{
			ScormCode:    row.Code,
			ChangeType:   changeType,
			ModifiedDate: date,
			User:         user,
			Notes:        notes,
		}
		if err := w.Updates.Create(entry); err != nil {
			return nil, util.PersistenceError(fmt.Sprintf("registrar actualización de %s", row.Code), err)
		}
	}

	prev := make(map[uint]model.Status, len(rows))
	for _, row := range rows {
		prev[row.ID] = model.ParseStatus(string(row.Status))
	}
	if err := w.persistStatuses(rows, model.StatusUpdatedPendingPublish); err != nil {
		monitoring.StatusTransitions.WithLabelValues(string(model.StatusUpdatedPendingPublish), "error").Inc()
		return nil, err
	}

	result := &TransitionResult{NextStatus: model.StatusUpdatedPendingPublish}
	for _, row := range rows {
		result.Changed = append(result.Changed, row.ID)
	}
	sess.Ledger.Record(TransitionEntry{
		AffectedIDs:  result.Changed,
		PrevStatuses: prev,
		NextStatus:   model.StatusUpdatedPendingPublish,
	})
	monitoring.StatusTransitions.WithLabelValues(string(model.StatusUpdatedPendingPublish), "ok").Inc()
	w.notifyChange()

	return result, nil
}

// PublicationInfo is the read-only projection of a row's effective
// publication date and update type: creation time with the new-publication
// label while pending first publish, and the latest log entry for rows
// updated since.
type PublicationInfo struct {
	Date       time.Time `json:"date"`
	UpdateType string    `json:"updateType"`
}

func (w *StatusWorkflow) PublicationInfo(row *model.ScormMaster) (*PublicationInfo, error) {
	switch model.ParseStatus(string(row.Status)) {
	case model.StatusPendingPublish:
		return &PublicationInfo{Date: row.CreatedAt, UpdateType: model.NewPublicationLabel}, nil
	case model.StatusUpdatedPendingPublish:
		latest, err := w.Updates.LatestByCode(row.Code)
		if err != nil {
			return nil, util.PersistenceError("consultar actualizaciones", err)
		}
		if latest == nil {
			return &PublicationInfo{Date: row.UpdatedAt, UpdateType: model.NewPublicationLabel}, nil
		}
		date := latest.ModifiedDate
		if date.IsZero() {
			date = row.UpdatedAt
		}
		return &PublicationInfo{Date: date, UpdateType: string(latest.ChangeType)}, nil
	default:
		return nil, nil
	}
}
