package service

import (
	"testing"

	"gscormer_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMatches(t *testing.T) {
	assert.Equal(t, "", formatMatches(nil))

	matched := []*model.ScormMaster{
		{Code: "SCR0001", Language: "ES", Name: "Seguridad"},
		{Code: "SCR0002", Language: "FR"},
	}
	assert.Equal(t, "ES-SCR0001 Seguridad; FR-SCR0002", formatMatches(matched))
}

func TestCourseFieldValueDerivedColumn(t *testing.T) {
	view := &CourseView{
		ScormCourse: &model.ScormCourse{
			CourseName: "Acogida",
			Content:    "usa ES-SCR0001",
			Status:     model.StatusInProgress,
		},
		MatchedScorms: "ES-SCR0001 Seguridad",
	}

	assert.Equal(t, "Acogida", CourseFieldValue(view, "curso_nombre"))
	assert.Equal(t, "ES-SCR0001 Seguridad", CourseFieldValue(view, "scorms_encontrados"))
	assert.Equal(t, "En curso", CourseFieldValue(view, "estado"))
	assert.Equal(t, "", CourseFieldValue(view, "desconocido"))

	// the derived column filters like a stored one
	f := NewFilterEngine()
	f.AddFilter("scorms_encontrados", "scr0001")
	filtered := FilterRows(f, []*CourseView{view}, CourseFieldValue)
	assert.Len(t, filtered, 1)
}

// The grouped views derive from the filtered subset, not from the raw
// collection: a row the filters hide must not surface in any bucket.
func TestGroupingRunsOnFilteredSubset(t *testing.T) {
	views := []*CourseView{
		{ScormCourse: &model.ScormCourse{BaseModel: model.BaseModel{ID: 1}, CourseName: "Acogida", Category: "Seguridad", Content: "usa SCR0001"}},
		{ScormCourse: &model.ScormCourse{BaseModel: model.BaseModel{ID: 2}, CourseName: "Ventas", Category: "Comercial", Content: "usa SCR0001"}},
		{ScormCourse: &model.ScormCourse{BaseModel: model.BaseModel{ID: 3}, CourseName: "Calidad", Category: "Seguridad", Content: ""}},
	}

	f := NewFilterEngine()
	f.AddFilter("categoria", "Seguridad")

	visible := courseRows(FilterRows(f, views, CourseFieldValue))
	require.Len(t, visible, 2)

	groups := GroupingEngine{}.ByScorm(visible)
	require.Len(t, groups, 2)
	assert.Equal(t, "SCR0001", groups[0].Code)
	require.Len(t, groups[0].Groups, 1)
	assert.Equal(t, "Acogida", groups[0].Groups[0].Name)
	assert.Equal(t, NoScormBucket, groups[1].Code)

	// no filter set passes everything through
	all := courseRows(FilterRows(NewFilterEngine(), views, CourseFieldValue))
	assert.Len(t, all, 3)
}
