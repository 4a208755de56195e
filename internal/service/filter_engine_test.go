package service

import (
	"sync"
	"testing"

	"gscormer_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEngineAddRemove(t *testing.T) {
	f := NewFilterEngine()

	f.AddFilter("categoria", "Seguridad")
	f.AddFilter("categoria", "seguridad") // case-insensitive duplicate
	f.AddFilter("categoria", "  ")
	f.AddFilter("categoria", "Calidad")

	assert.Equal(t, []string{"Seguridad", "Calidad"}, f.Values("categoria"))
	assert.Equal(t, 1, f.ActiveCount())

	f.RemoveFilter("categoria", "SEGURIDAD")
	assert.Equal(t, []string{"Calidad"}, f.Values("categoria"))

	f.RemoveFilter("categoria", "Calidad")
	assert.Empty(t, f.Values("categoria"))
	assert.Equal(t, 0, f.ActiveCount())
}

func TestFilterEngineToggle(t *testing.T) {
	f := NewFilterEngine()

	f.ToggleValueFilter("materia", "Ventas")
	assert.Equal(t, []string{"Ventas"}, f.Values("materia"))

	// toggling again removes it
	f.ToggleValueFilter("materia", "ventas")
	assert.Empty(t, f.Values("materia"))

	// placeholder and empty cells never install filters
	f.ToggleValueFilter("materia", "-")
	f.ToggleValueFilter("materia", "")
	assert.Equal(t, 0, f.ActiveCount())
}

func TestFilterEngineMatch(t *testing.T) {
	f := NewFilterEngine()
	f.AddFilter("categoria", "segur")
	f.AddFilter("estado", "En curso")
	f.AddFilter("estado", "Publicado")

	row := map[string]string{
		"categoria": "Seguridad laboral",
		"estado":    "Publicado",
	}
	valuer := func(field string) string { return row[field] }

	// AND across fields, OR within a field, substring and case-folded
	assert.True(t, f.Match(valuer))

	row["estado"] = "Pendiente publicar"
	assert.False(t, f.Match(valuer))

	row["estado"] = "EN CURSO"
	assert.True(t, f.Match(valuer))

	row["categoria"] = "Calidad"
	assert.False(t, f.Match(valuer))
}

// One session serves concurrent requests, so filter edits and row passes
// on the same view can overlap. Run with -race.
func TestFilterEngineConcurrentEditAndMatch(t *testing.T) {
	rows := []*model.ScormMaster{
		{Code: "SCR0001", Language: "ES", Category: "Seguridad"},
		{Code: "SCR0002", Language: "FR", Category: "Calidad"},
	}

	f := NewFilterEngine()
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f.AddFilter("scorm_categoria", "Segur")
			f.RemoveFilter("scorm_categoria", "Segur")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f.ToggleValueFilter("scorm_idioma", "ES")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			FilterRows(f, rows, ScormFieldValue)
			f.Active()
			f.ActiveCount()
		}
	}()

	wg.Wait()
}

func TestFilterRows(t *testing.T) {
	rows := []*model.ScormMaster{
		{Code: "SCR0001", Language: "ES", Category: "Seguridad"},
		{Code: "SCR0002", Language: "FR", Category: "Seguridad"},
		{Code: "SCR0003", Language: "ES", Category: "Calidad"},
	}

	f := NewFilterEngine()
	f.AddFilter("scorm_idioma", "ES")
	f.AddFilter("scorm_categoria", "Segur")

	filtered := FilterRows(f, rows, ScormFieldValue)
	require.Len(t, filtered, 1)
	assert.Equal(t, "SCR0001", filtered[0].Code)

	// nil and empty engines pass everything through untouched
	assert.Equal(t, rows, FilterRows(nil, rows, ScormFieldValue))
	assert.Equal(t, rows, FilterRows(NewFilterEngine(), rows, ScormFieldValue))
}
