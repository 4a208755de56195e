package model

// ScormMaster is one SCORM package in the authoring catalog. The business
// code is not globally unique: translations of the same package share the
// code, so the duplicate-prevention identity is (language, code).
//
// swagger:model ScormMaster
type ScormMaster struct {
	BaseModel
	Code        string `gorm:"column:scorm_code;size:50;index:idx_lang_code,unique,priority:2" json:"scormCode"`
	Language    string `gorm:"column:scorm_idioma;size:10;index:idx_lang_code,unique,priority:1" json:"scormIdioma"`
	Name        string `gorm:"column:scorm_name;size:255" json:"scormName"`
	Responsible string `gorm:"column:scorm_responsable;size:255" json:"scormResponsable"`
	Type        string `gorm:"column:scorm_tipo;size:100" json:"scormTipo"`
	Category    string `gorm:"column:scorm_categoria;size:100" json:"scormCategoria"`
	Subcategory string `gorm:"column:scorm_subcategoria;size:100" json:"scormSubcategoria"`
	URL         string `gorm:"column:scorm_url;size:500" json:"scormUrl"`
	Status      Status `gorm:"column:scorm_estado;size:50" json:"scormEstado"`
	Tags        string `gorm:"column:scorm_etiquetas;type:text" json:"scormEtiquetas"`
	TestPassed  bool   `gorm:"column:scorm_test" json:"scormTest"`
	PackageFile string `gorm:"column:scorm_paquete;size:500" json:"scormPaquete"`
}

func (ScormMaster) TableName() string {
	return "scorms_master"
}

// LanguageCode is the composite "idioma-código" string shown in joined
// views and used by filters on language-scoped columns.
func (s *ScormMaster) LanguageCode() string {
	if s.Language == "" {
		return s.Code
	}
	return s.Language + "-" + s.Code
}
