package service

import (
	"testing"

	"gscormer_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReferences(t *testing.T) {
	var idx ReferenceIndex

	t.Run("labeled mentions with both separators", func(t *testing.T) {
		refs := idx.ExtractReferenceList("El curso usa ES-SCR0001 y FR_SCR0002.")
		require.Len(t, refs, 2)
		assert.Equal(t, Reference{Language: "ES", Code: "SCR0001"}, refs[0])
		assert.Equal(t, Reference{Language: "FR", Code: "SCR0002"}, refs[1])
	})

	t.Run("unlabeled mention", func(t *testing.T) {
		refs := idx.ExtractReferenceList("ver SCR0003 para más detalle")
		require.Len(t, refs, 1)
		assert.Equal(t, Reference{Code: "SCR0003"}, refs[0])
	})

	t.Run("attached language tag without separator", func(t *testing.T) {
		refs := idx.ExtractReferenceList("catSCR0009")
		require.Len(t, refs, 1)
		assert.Equal(t, Reference{Language: "CAT", Code: "SCR0009"}, refs[0])
	})

	t.Run("case insensitive", func(t *testing.T) {
		refs := idx.ExtractReferenceList("es-scr0099")
		require.Len(t, refs, 1)
		assert.Equal(t, Reference{Language: "ES", Code: "SCR0099"}, refs[0])
	})

	t.Run("over-long digit groups are rejected", func(t *testing.T) {
		assert.Empty(t, idx.ExtractReferenceList("SCR12345"))
	})

	t.Run("short digit groups are rejected", func(t *testing.T) {
		assert.Empty(t, idx.ExtractReferenceList("SCR123"))
	})

	t.Run("word prefixes longer than a language tag do not match", func(t *testing.T) {
		assert.Empty(t, idx.ExtractReferenceList("CURSOSCR0001"))
	})

	t.Run("order of appearance is preserved", func(t *testing.T) {
		refs := idx.ExtractReferenceList("SCR0002 antes que SCR0001")
		require.Len(t, refs, 2)
		assert.Equal(t, "SCR0002", refs[0].Code)
		assert.Equal(t, "SCR0001", refs[1].Code)
	})
}

func TestExtractReferencesSequenceIsRestartable(t *testing.T) {
	var idx ReferenceIndex
	seq := idx.ExtractReferences("ES-SCR0001 y SCR0002")

	var first, second []Reference
	for r := range seq {
		first = append(first, r)
	}
	for r := range seq {
		second = append(second, r)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestExtractReferencesEarlyBreak(t *testing.T) {
	var idx ReferenceIndex
	var got []Reference
	for r := range idx.ExtractReferences("SCR0001 SCR0002 SCR0003") {
		got = append(got, r)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}

func TestResolveReferences(t *testing.T) {
	var idx ReferenceIndex
	masters := []*model.ScormMaster{
		{BaseModel: model.BaseModel{ID: 1}, Code: "SCR0001", Language: "ES", Name: "Seguridad"},
		{BaseModel: model.BaseModel{ID: 2}, Code: "SCR0001", Language: "FR", Name: "Sécurité"},
		{BaseModel: model.BaseModel{ID: 3}, Code: "SCR0002", Language: "ES", Name: "Calidad"},
	}
	codeIndex := idx.BuildCodeIndex(masters)

	t.Run("labeled reference keeps its language only", func(t *testing.T) {
		refs := idx.ExtractReferenceList("ES-SCR0001")
		resolved := idx.ResolveReferences(refs, codeIndex)
		require.Len(t, resolved, 1)
		assert.Equal(t, uint(1), resolved[0].ID)
	})

	t.Run("unlabeled reference matches every language variant", func(t *testing.T) {
		refs := idx.ExtractReferenceList("SCR0001")
		resolved := idx.ResolveReferences(refs, codeIndex)
		require.Len(t, resolved, 2)
	})

	t.Run("unknown code resolves to nothing", func(t *testing.T) {
		refs := idx.ExtractReferenceList("SCR9999")
		assert.Empty(t, idx.ResolveReferences(refs, codeIndex))
	})

	t.Run("duplicate mentions resolve once", func(t *testing.T) {
		refs := idx.ExtractReferenceList("ES-SCR0001 y otra vez SCR0001")
		resolved := idx.ResolveReferences(refs, codeIndex)
		require.Len(t, resolved, 2)
		assert.Equal(t, uint(1), resolved[0].ID)
	})

	t.Run("language aliases collapse through the normalizer", func(t *testing.T) {
		aliased := ReferenceIndex{NormalizeLang: func(raw string) string {
			if raw == "CA" || raw == "ca" {
				return "CAT"
			}
			return raw
		}}
		catMasters := []*model.ScormMaster{
			{BaseModel: model.BaseModel{ID: 7}, Code: "SCR0005", Language: "CAT"},
		}
		refs := aliased.ExtractReferenceList("CA-SCR0005")
		resolved := aliased.ResolveReferences(refs, aliased.BuildCodeIndex(catMasters))
		require.Len(t, resolved, 1)
		assert.Equal(t, uint(7), resolved[0].ID)
	})
}

func TestRelatedCourses(t *testing.T) {
	var idx ReferenceIndex
	courses := []*model.ScormCourse{
		{BaseModel: model.BaseModel{ID: 10}, CourseName: "A", Content: "usa ES-SCR0001"},
		{BaseModel: model.BaseModel{ID: 11}, CourseName: "B", Content: "usa SCR0001 sin idioma"},
		{BaseModel: model.BaseModel{ID: 12}, CourseName: "C", Content: "usa FR-SCR0001"},
		{BaseModel: model.BaseModel{ID: 13}, CourseName: "D", Content: "sin referencias"},
	}
	courseIndex := idx.BuildCourseIndex(courses)

	t.Run("language scoped plus wildcard mentions", func(t *testing.T) {
		related := courseIndex.RelatedCourses(&model.ScormMaster{Code: "SCR0001", Language: "ES"})
		require.Len(t, related, 2)
		assert.Equal(t, uint(10), related[0].ID)
		assert.Equal(t, uint(11), related[1].ID)
	})

	t.Run("other language variant sees its own mentions", func(t *testing.T) {
		related := courseIndex.RelatedCourses(&model.ScormMaster{Code: "SCR0001", Language: "FR"})
		require.Len(t, related, 2)
		assert.Equal(t, uint(12), related[0].ID)
		assert.Equal(t, uint(11), related[1].ID)
	})

	t.Run("row without code has no relations", func(t *testing.T) {
		assert.Nil(t, courseIndex.RelatedCourses(&model.ScormMaster{Language: "ES"}))
	})
}
