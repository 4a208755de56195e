package model

import "fmt"

// ScormCourse is one row of the course catalog. Contenido is free text and
// may embed SCORM references of the shape [LANG-]SCR0000; those are never
// stored as foreign keys, the join is resolved at read time.
//
// swagger:model ScormCourse
type ScormCourse struct {
	BaseModel
	Category       string `gorm:"column:categoria;size:100" json:"categoria"`
	Subcategory    string `gorm:"column:subcategoria;size:100" json:"subcategoria"`
	Typology       string `gorm:"column:tipologia;size:100" json:"tipologia"`
	Subject        string `gorm:"column:materia;size:255" json:"materia"`
	PlanMember     bool   `gorm:"column:pa_formaparte" json:"paFormaparte"`
	PlanCode       string `gorm:"column:pa_codigo;size:50" json:"paCodigo"`
	PlanName       string `gorm:"column:pa_nombre;size:255" json:"paNombre"`
	PlanURL        string `gorm:"column:pa_url;size:500" json:"paUrl"`
	Order          string `gorm:"column:pr_orden;size:50" json:"prOrden"`
	Branches       string `gorm:"column:ramas;size:255" json:"ramas"`
	Enrollment     string `gorm:"column:inscripcion;size:255" json:"inscripcion"`
	IndividualCode string `gorm:"column:ci_codigo;size:50" json:"ciCodigo"`
	CourseCode     string `gorm:"column:curso_codigo;size:50" json:"cursoCodigo"`
	CourseName     string `gorm:"column:curso_nombre;size:255" json:"cursoNombre"`
	Instructor     string `gorm:"column:curso_instructor;size:255" json:"cursoInstructor"`
	CourseEnroll   string `gorm:"column:curso_inscripcion;size:255" json:"cursoInscripcion"`
	Observations   string `gorm:"column:observaciones;type:text" json:"observaciones"`
	Description    string `gorm:"column:curso_descripcion;type:text" json:"cursoDescripcion"`
	CertTime       string `gorm:"column:tiempo_cert;size:50" json:"tiempoCert"`
	SheetURL       string `gorm:"column:curso_url_ficha;size:500" json:"cursoUrlFicha"`
	CourseURL      string `gorm:"column:curso_url;size:500" json:"cursoUrl"`
	Content        string `gorm:"column:contenido;type:text" json:"contenido"`
	TestPassed     bool   `gorm:"column:test" json:"test"`
	Exists         string `gorm:"column:existe;size:50" json:"existe"`
	EnrollLink     string `gorm:"column:link_inscripcion;size:500" json:"linkInscripcion"`
	Status         Status `gorm:"column:estado;size:50" json:"estado"`
}

func (ScormCourse) TableName() string {
	return "scorms_cursos"
}

// IndividualIdentity is the grouping key for the "curso individual" views:
// the individual code when present, then course code, then course name, and
// as a last resort a synthetic per-row key so the identity is never empty.
func (c *ScormCourse) IndividualIdentity() string {
	switch {
	case c.IndividualCode != "":
		return c.IndividualCode
	case c.CourseCode != "":
		return c.CourseCode
	case c.CourseName != "":
		return c.CourseName
	default:
		return fmt.Sprintf("fila-%d", c.ID)
	}
}
