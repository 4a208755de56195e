package service

import (
	"strings"
	"sync"
)

// placeholderCell is what the tables render for an empty cell; clicking it
// must not install a filter.
const placeholderCell = "-"

// FilterEngine holds, per column key, the list of active filter values for
// one view. Matching is a conjunction across columns and a disjunction
// within a column's values; each value is a case-folded substring test
// against the row's display string for that column. Value lists keep
// insertion order for display, the order has no effect on matching.
//
// The engine carries its own lock: one user's session serves concurrent
// requests, so filter reads and edits on a view can overlap.
type FilterEngine struct {
	mu     sync.RWMutex
	fields map[string][]string
}

func NewFilterEngine() *FilterEngine {
	return &FilterEngine{fields: make(map[string][]string)}
}

// AddFilter appends value to the field's list. Blank values and values
// already present (case-insensitive) are ignored.
func (f *FilterEngine) AddFilter(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(field, value)
}

// RemoveFilter drops the case-insensitive match of value from the field's
// list, if present.
func (f *FilterEngine) RemoveFilter(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(field, value)
}

// ClearField drops every filter of the field.
func (f *FilterEngine) ClearField(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fields, field)
}

// ToggleValueFilter is the cell-click gesture: add the value if absent,
// remove it if present. Empty cells and the placeholder are no-ops.
func (f *FilterEngine) ToggleValueFilter(field, rawValue string) {
	value := strings.TrimSpace(rawValue)
	if value == "" || value == placeholderCell {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexOf(field, value) >= 0 {
		f.remove(field, value)
		return
	}
	f.add(field, value)
}

// Values returns a copy of the active filter values of a field, in
// insertion order.
func (f *FilterEngine) Values(field string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.fields[field]...)
}

// Active returns the whole filter set, for rendering the filter panel.
func (f *FilterEngine) Active() map[string][]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string][]string, len(f.fields))
	for field, values := range f.fields {
		out[field] = append([]string(nil), values...)
	}
	return out
}

// ActiveCount is the number of fields with at least one filter value.
func (f *FilterEngine) ActiveCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.fields)
}

// Match reports whether a row passes the filter set. value must return the
// row's display string for a column key; derived columns (e.g. the joined
// SCORM metadata of a course) go through the same path as stored ones.
func (f *FilterEngine) Match(value func(field string) string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.match(value)
}

// add assumes f.mu is held for writing.
func (f *FilterEngine) add(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if f.indexOf(field, value) >= 0 {
		return
	}
	f.fields[field] = append(f.fields[field], value)
}

// remove assumes f.mu is held for writing.
func (f *FilterEngine) remove(field, value string) {
	i := f.indexOf(field, strings.TrimSpace(value))
	if i < 0 {
		return
	}
	values := f.fields[field]
	values = append(values[:i], values[i+1:]...)
	if len(values) == 0 {
		delete(f.fields, field)
	} else {
		f.fields[field] = values
	}
}

// match assumes f.mu is held at least for reading.
func (f *FilterEngine) match(value func(field string) string) bool {
	for field, wanted := range f.fields {
		if len(wanted) == 0 {
			continue
		}
		cell := strings.ToLower(value(field))
		hit := false
		for _, w := range wanted {
			if strings.Contains(cell, strings.ToLower(w)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// indexOf assumes f.mu is held at least for reading.
func (f *FilterEngine) indexOf(field, value string) int {
	for i, existing := range f.fields[field] {
		if strings.EqualFold(existing, value) {
			return i
		}
	}
	return -1
}

// FilterRows applies the engine to a row slice with a per-row valuer. The
// filter set is read once under the engine's lock, so a concurrent edit
// either applies to the whole pass or to none of it.
func FilterRows[T any](f *FilterEngine, rows []T, valuer func(row T, field string) string) []T {
	if f == nil {
		return rows
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.fields) == 0 {
		return rows
	}
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if f.match(func(field string) string { return valuer(row, field) }) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
