package controller

import (
	"gscormer_backend/internal/model"
	"gscormer_backend/internal/service"
	"gscormer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Courses  *service.CourseService
	Grouping service.GroupingEngine
	Sessions *service.SessionRegistry
}

func NewCourseController(courses *service.CourseService, grouping service.GroupingEngine, sessions *service.SessionRegistry) *CourseController {
	return &CourseController{Courses: courses, Grouping: grouping, Sessions: sessions}
}

// List godoc
// @Summary Listar cursos
// @Description Devuelve las filas de cursos con la columna derivada de SCORMs encontrados, aplicando los filtros activos
// @Tags Cursos
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.CourseView} "Cursos"
// @Security BearerAuth
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	sess := c.Sessions.Start(user.UserID)
	sess.Lock()
	filter := sess.FilterView(ViewCourses)
	sess.Unlock()

	views, err := c.Courses.ListViewFiltered(filter)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

type SaveContentRequest struct {
	Content string `json:"contenido"`
}

// SaveContent godoc
// @Summary Guardar contenido
// @Description Guarda el texto de contenido de un curso y recalcula las referencias
// @Tags Cursos
// @Accept  json
// @Produce  json
// @Param   id path int true "ID del curso"
// @Param   body body SaveContentRequest true "Texto de contenido"
// @Success 200 {object} util.Response{data=model.ScormCourse} "Curso guardado"
// @Security BearerAuth
// @Router /api/courses/{id}/content [put]
func (c *CourseController) SaveContent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	var req SaveContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	row, err := c.Courses.SaveContent(id, req.Content)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, row)
}

// visibleCourses is the filtered course subset the grouped views derive
// from, using the session's cursos filter set like the flat listing does.
func (c *CourseController) visibleCourses(ctx *gin.Context) ([]*model.ScormCourse, error) {
	user := util.GetUserFromContext(ctx)
	sess := c.Sessions.Start(user.UserID)
	sess.Lock()
	filter := sess.FilterView(ViewCourses)
	sess.Unlock()
	return c.Courses.FilteredCourses(filter)
}

// GroupedByIndividual godoc
// @Summary Cursos agrupados por curso individual
// @Description Agrupa las filas visibles tras los filtros activos por identidad de curso individual
// @Tags Cursos
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.CourseGroup} "Grupos"
// @Security BearerAuth
// @Router /api/courses/grouped/individual [get]
func (c *CourseController) GroupedByIndividual(ctx *gin.Context) {
	courses, err := c.visibleCourses(ctx)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, c.Grouping.ByIndividualCourse(courses))
}

// GroupedByPlan godoc
// @Summary Cursos agrupados por plan de aprendizaje
// @Description Sólo cursos visibles tras los filtros que forman parte de un plan; los planes sin PA quedan fuera
// @Tags Cursos
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.PlanGroup} "Planes"
// @Security BearerAuth
// @Router /api/courses/grouped/plans [get]
func (c *CourseController) GroupedByPlan(ctx *gin.Context) {
	courses, err := c.visibleCourses(ctx)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, c.Grouping.ByLearningPlan(courses))
}

// GroupedByScorm godoc
// @Summary Cursos agrupados por SCORM referenciado
// @Description Un curso visible tras los filtros aparece bajo cada código que menciona; sin referencias cae en el cubo "(sin SCORM)"
// @Tags Cursos
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.ScormGroup} "Cubos por código"
// @Security BearerAuth
// @Router /api/courses/grouped/scorms [get]
func (c *CourseController) GroupedByScorm(ctx *gin.Context) {
	courses, err := c.visibleCourses(ctx)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, c.Grouping.ByScorm(courses))
}
