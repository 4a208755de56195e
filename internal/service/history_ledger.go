package service

import (
	"sync"

	"gscormer_backend/internal/model"
)

// TransitionEntry is one recorded status change, reversible by replaying
// the previous statuses.
type TransitionEntry struct {
	AffectedIDs  []uint                `json:"affectedIds"`
	PrevStatuses map[uint]model.Status `json:"previousStatusById"`
	NextStatus   model.Status          `json:"nextStatus"`
}

// HistoryLedger keeps the linear undo/redo history of one session's status
// transitions. A new recorded action discards the redo branch.
type HistoryLedger struct {
	undoStack []TransitionEntry
	redoStack []TransitionEntry
}

// Record pushes a completed transition and discards the redo branch.
func (l *HistoryLedger) Record(entry TransitionEntry) {
	l.undoStack = append(l.undoStack, entry)
	l.redoStack = nil
}

// PeekUndo returns the entry that the next undo would revert.
func (l *HistoryLedger) PeekUndo() (TransitionEntry, bool) {
	if len(l.undoStack) == 0 {
		return TransitionEntry{}, false
	}
	return l.undoStack[len(l.undoStack)-1], true
}

// PeekRedo returns the entry that the next redo would re-apply.
func (l *HistoryLedger) PeekRedo() (TransitionEntry, bool) {
	if len(l.redoStack) == 0 {
		return TransitionEntry{}, false
	}
	return l.redoStack[len(l.redoStack)-1], true
}

// CommitUndo moves the top undo entry onto the redo stack. Called only
// after the inverse transition was persisted.
func (l *HistoryLedger) CommitUndo() {
	n := len(l.undoStack)
	if n == 0 {
		return
	}
	entry := l.undoStack[n-1]
	l.undoStack = l.undoStack[:n-1]
	l.redoStack = append(l.redoStack, entry)
}

// CommitRedo moves the top redo entry back onto the undo stack without
// recording it again.
func (l *HistoryLedger) CommitRedo() {
	n := len(l.redoStack)
	if n == 0 {
		return
	}
	entry := l.redoStack[n-1]
	l.redoStack = l.redoStack[:n-1]
	l.undoStack = append(l.undoStack, entry)
}

func (l *HistoryLedger) UndoDepth() int { return len(l.undoStack) }
func (l *HistoryLedger) RedoDepth() int { return len(l.redoStack) }

// Session is the per-login workspace: the undo/redo ledger plus the view
// filter sets. The mutex serializes the session's mutating actions, which
// keeps fetch-validate-submit-record atomic per session.
type Session struct {
	mu      sync.Mutex
	UserID  uint
	Ledger  HistoryLedger
	Filters map[string]*FilterEngine
}

// FilterView returns the session's filter engine for a view key, creating
// it on first use.
func (s *Session) FilterView(view string) *FilterEngine {
	f, ok := s.Filters[view]
	if !ok {
		f = NewFilterEngine()
		s.Filters[view] = f
	}
	return f
}

// Lock serializes workspace mutations for this session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionRegistry owns the live sessions: created on login, discarded on
// logout. Anything not persisted to the store dies with the session.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uint]*Session)}
}

// Start returns the user's session, creating a fresh one if none exists.
func (r *SessionRegistry) Start(userID uint) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := &Session{
		UserID:  userID,
		Filters: make(map[string]*FilterEngine),
	}
	r.sessions[userID] = s
	return s
}

// Discard drops the user's session and its history.
func (r *SessionRegistry) Discard(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// SessionSnapshot is a point-in-time view of one live session.
type SessionSnapshot struct {
	UserID        uint `json:"userId"`
	UndoDepth     int  `json:"undoDepth"`
	RedoDepth     int  `json:"redoDepth"`
	ActiveFilters int  `json:"activeFilters"`
}

// Snapshot lists the live sessions, for the admin overview.
func (r *SessionRegistry) Snapshot() []SessionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]SessionSnapshot, 0, len(r.sessions))
	for _, s := range r.sessions {
		s.Lock()
		snap := SessionSnapshot{
			UserID:    s.UserID,
			UndoDepth: s.Ledger.UndoDepth(),
			RedoDepth: s.Ledger.RedoDepth(),
		}
		for _, f := range s.Filters {
			snap.ActiveFilters += f.ActiveCount()
		}
		s.Unlock()
		out = append(out, snap)
	}
	return out
}
