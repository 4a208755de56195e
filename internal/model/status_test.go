package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPublished, ParseStatus("Publicado"))
	assert.Equal(t, StatusInProgress, ParseStatus("En curso"))

	// unknown and empty values collapse to the sentinel
	assert.Equal(t, StatusNone, ParseStatus(""))
	assert.Equal(t, StatusNone, ParseStatus("Archivado"))
	assert.Equal(t, StatusNone, ParseStatus("publicado"))
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "Sin estado", StatusNone.Display())
	assert.Equal(t, "Pendiente publicar", StatusPendingPublish.Display())
}

func TestIndividualIdentityFallbacks(t *testing.T) {
	c := &ScormCourse{BaseModel: BaseModel{ID: 9}}
	assert.Equal(t, "fila-9", c.IndividualIdentity())

	c.CourseName = "Acogida"
	assert.Equal(t, "Acogida", c.IndividualIdentity())

	c.CourseCode = "C-1"
	assert.Equal(t, "C-1", c.IndividualIdentity())

	c.IndividualCode = "CI-1"
	assert.Equal(t, "CI-1", c.IndividualIdentity())
}
