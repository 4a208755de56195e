package model

import "time"

// ChangeType categorizes an entry of the SCORM update log.
type ChangeType string

const (
	ChangeContent     ChangeType = "Contenido"
	ChangeTranslation ChangeType = "Traducción"
	ChangeCorrection  ChangeType = "Corrección"
	ChangeDesign      ChangeType = "Diseño"
	ChangeTechnical   ChangeType = "Técnico"
)

// NewPublicationLabel is the update-type label projected for rows that are
// pending their first publication and therefore have no log entry yet.
const NewPublicationLabel = "Nueva publicación"

var knownChangeTypes = map[ChangeType]struct{}{
	ChangeContent:     {},
	ChangeTranslation: {},
	ChangeCorrection:  {},
	ChangeDesign:      {},
	ChangeTechnical:   {},
}

func (t ChangeType) Valid() bool {
	_, ok := knownChangeTypes[t]
	return ok
}

// ScormUpdate is one append-only entry of the update log. Entries are
// created when an update is registered against a SCORM code and are never
// mutated afterwards.
//
// swagger:model ScormUpdate
type ScormUpdate struct {
	BaseModel
	ScormCode    string     `gorm:"column:scorm_code;size:50;index" json:"scormCode"`
	ChangeType   ChangeType `gorm:"column:tipo_cambio;size:50" json:"tipoCambio"`
	ModifiedDate time.Time  `gorm:"column:fecha_modificacion" json:"fechaModificacion"`
	User         string     `gorm:"column:usuario;size:100" json:"usuario"`
	Notes        string     `gorm:"column:notas;type:text" json:"notas"`
}

func (ScormUpdate) TableName() string {
	return "scorms_actualizaciones"
}
