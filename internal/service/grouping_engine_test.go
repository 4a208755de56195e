package service

import (
	"testing"

	"gscormer_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(id uint, name string) *model.ScormCourse {
	return &model.ScormCourse{BaseModel: model.BaseModel{ID: id}, CourseName: name}
}

func TestByIndividualCourse(t *testing.T) {
	g := GroupingEngine{}

	withCI := course(1, "Acogida")
	withCI.IndividualCode = "CI-001"
	alsoCI := course(2, "Acogida (2ª ed.)")
	alsoCI.IndividualCode = "CI-001"

	withCourseCode := course(3, "Ofimática")
	withCourseCode.CourseCode = "C-77"

	byName := course(4, "Ventas")
	anonymous := course(5, "")

	groups := g.ByIndividualCourse([]*model.ScormCourse{withCI, alsoCI, withCourseCode, byName, anonymous})
	require.Len(t, groups, 4)

	keys := make(map[string]int)
	for _, grp := range groups {
		keys[grp.Key] = len(grp.Courses)
	}
	assert.Equal(t, 2, keys["CI-001"])
	assert.Equal(t, 1, keys["C-77"])
	assert.Equal(t, 1, keys["Ventas"])
	// a row with no identity at all still groups, under a synthetic key
	assert.Equal(t, 1, keys["fila-5"])
}

func TestByLearningPlan(t *testing.T) {
	g := GroupingEngine{}

	member := course(1, "Seguridad I")
	member.PlanMember = true
	member.PlanCode = "PA-10"
	member.PlanName = "Plan Seguridad"
	member.PlanURL = "https://example.test/pa-10"

	sibling := course(2, "Seguridad II")
	sibling.PlanMember = true
	sibling.PlanCode = "PA-10"
	sibling.PlanName = "Plan Seguridad"

	loose := course(3, "Suelto")

	bookkeeping := course(4, "Relleno")
	bookkeeping.PlanMember = true
	bookkeeping.PlanCode = "PA-99"
	bookkeeping.PlanName = "Cursos sin PA"

	groups := g.ByLearningPlan([]*model.ScormCourse{member, sibling, loose, bookkeeping})
	require.Len(t, groups, 1)
	assert.Equal(t, "PA-10", groups[0].Key)
	assert.Equal(t, "Plan Seguridad", groups[0].Name)
	assert.Equal(t, "https://example.test/pa-10", groups[0].URL)
	assert.Len(t, groups[0].Courses, 2)
}

func TestByScorm(t *testing.T) {
	g := GroupingEngine{}

	both := course(1, "Doble")
	both.Content = "usa ES-SCR0001 y también SCR0002"

	single := course(2, "Simple")
	single.Content = "sólo SCR0001"

	none := course(3, "Presencial")
	none.Content = "sin material online"

	groups := g.ByScorm([]*model.ScormCourse{both, single, none})
	require.Len(t, groups, 3)

	// alphabetical by code, sentinel bucket last
	assert.Equal(t, "SCR0001", groups[0].Code)
	assert.Equal(t, "SCR0002", groups[1].Code)
	assert.Equal(t, NoScormBucket, groups[2].Code)

	countCourses := func(grp ScormGroup) int {
		n := 0
		for _, sub := range grp.Groups {
			n += len(sub.Courses)
		}
		return n
	}
	// a course with several codes appears under each of them
	assert.Equal(t, 2, countCourses(groups[0]))
	assert.Equal(t, 1, countCourses(groups[1]))
	assert.Equal(t, 1, countCourses(groups[2]))
}

func TestByScormNestsIndividualGroups(t *testing.T) {
	g := GroupingEngine{}

	a := course(1, "Edición A")
	a.IndividualCode = "CI-1"
	a.Content = "SCR0001"
	b := course(2, "Edición B")
	b.IndividualCode = "CI-1"
	b.Content = "SCR0001"
	other := course(3, "Otro")
	other.IndividualCode = "CI-2"
	other.Content = "SCR0001"

	groups := g.ByScorm([]*model.ScormCourse{a, b, other})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Groups, 2)
	assert.Equal(t, "CI-1", groups[0].Groups[0].Key)
	assert.Len(t, groups[0].Groups[0].Courses, 2)
	assert.Equal(t, "CI-2", groups[0].Groups[1].Key)
}
