package model

// Status is the publication lifecycle of a SCORM or course row.
type Status string

const (
	// StatusNone is the sentinel shown for rows whose estado column is
	// empty or carries a value this version does not know about.
	StatusNone                  Status = ""
	StatusInProgress            Status = "En curso"
	StatusPendingPublish        Status = "Pendiente publicar"
	StatusUpdatedPendingPublish Status = "Actualizado pendiente publicar"
	StatusPublished             Status = "Publicado"
)

var knownStatuses = map[Status]struct{}{
	StatusInProgress:            {},
	StatusPendingPublish:        {},
	StatusUpdatedPendingPublish: {},
	StatusPublished:             {},
}

// ParseStatus maps a raw estado value onto the enum. Unknown values
// collapse to StatusNone so that rows written by newer versions still load.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if _, ok := knownStatuses[s]; ok {
		return s
	}
	return StatusNone
}

// Display returns the label used for the row's estado cell.
func (s Status) Display() string {
	if s == StatusNone {
		return "Sin estado"
	}
	return string(s)
}

// Known reports whether s is one of the workflow states (not the sentinel).
func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}
