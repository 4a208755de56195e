package controller

import (
	"gscormer_backend/internal/service"
	"gscormer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// View names for the per-session filter sets.
const (
	ViewScorms  = "scorms"
	ViewCourses = "cursos"
)

type ScormController struct {
	Scorms   *service.ScormService
	Courses  *service.CourseService
	Storage  *service.StorageService
	Workflow *service.StatusWorkflow
	Sessions *service.SessionRegistry
}

func NewScormController(scorms *service.ScormService, courses *service.CourseService, storage *service.StorageService, workflow *service.StatusWorkflow, sessions *service.SessionRegistry) *ScormController {
	return &ScormController{Scorms: scorms, Courses: courses, Storage: storage, Workflow: workflow, Sessions: sessions}
}

// List godoc
// @Summary Listar SCORMs
// @Description Devuelve el catálogo completo aplicando los filtros activos de la sesión
// @Tags SCORMs
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.ScormMaster} "Catálogo"
// @Security BearerAuth
// @Router /api/scorms [get]
func (c *ScormController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	sess := c.Sessions.Start(user.UserID)
	sess.Lock()
	filter := sess.FilterView(ViewScorms)
	sess.Unlock()

	rows, err := c.Scorms.ListFiltered(filter)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// Fields godoc
// @Summary Columnas del catálogo
// @Description Devuelve la tabla de columnas con su etiqueta y editabilidad
// @Tags SCORMs
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.FieldDescriptor} "Columnas"
// @Security BearerAuth
// @Router /api/scorms/fields [get]
func (c *ScormController) Fields(ctx *gin.Context) {
	util.Success(ctx, service.ScormFields)
}

// Create godoc
// @Summary Crear SCORM
// @Description Da de alta una fila nueva; el código no puede repetirse
// @Tags SCORMs
// @Accept  json
// @Produce  json
// @Param   body body service.CreateScormRequest true "Datos de la fila"
// @Success 201 {object} util.Response{data=model.ScormMaster} "Fila creada"
// @Failure 400 {object} util.Response "Código vacío o duplicado"
// @Security BearerAuth
// @Router /api/scorms [post]
func (c *ScormController) Create(ctx *gin.Context) {
	var req service.CreateScormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	row, err := c.Scorms.Create(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, row)
}

// Detail godoc
// @Summary Detalle de un SCORM
// @Description Devuelve la fila y, si está pendiente, la proyección de publicación
// @Tags SCORMs
// @Produce  json
// @Param   id path int true "ID de la fila"
// @Success 200 {object} util.Response "Detalle"
// @Failure 404 {object} util.Response "Fila no encontrada"
// @Security BearerAuth
// @Router /api/scorms/{id} [get]
func (c *ScormController) Detail(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	row, err := c.Scorms.Repo.FindByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	info, err := c.Workflow.PublicationInfo(row)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"scorm": row, "publicacion": info})
}

type UpdateRowRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// Update godoc
// @Summary Guardar fila
// @Description Guarda los campos editables de una fila del catálogo
// @Tags SCORMs
// @Accept  json
// @Produce  json
// @Param   id path int true "ID de la fila"
// @Param   body body UpdateRowRequest true "Campos a guardar"
// @Success 200 {object} util.Response{data=model.ScormMaster} "Fila guardada"
// @Security BearerAuth
// @Router /api/scorms/{id} [put]
func (c *ScormController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	var req UpdateRowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	row, err := c.Scorms.UpdateRow(id, req.Values)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, row)
}

type TranslateRequest struct {
	Language string `json:"idioma" binding:"required"`
}

// Translate godoc
// @Summary Traducir SCORM
// @Description Clona la fila en otro idioma con el mismo código
// @Tags SCORMs
// @Accept  json
// @Produce  json
// @Param   id path int true "ID de la fila origen"
// @Param   body body TranslateRequest true "Idioma destino"
// @Success 201 {object} util.Response{data=model.ScormMaster} "Traducción creada"
// @Failure 400 {object} util.Response "Ya existe ese idioma para el código"
// @Security BearerAuth
// @Router /api/scorms/{id}/translate [post]
func (c *ScormController) Translate(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	var req TranslateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	clone, err := c.Scorms.Translate(id, req.Language)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, clone)
}

// Updates godoc
// @Summary Historial de actualizaciones
// @Description Lista el registro de cambios del código de la fila
// @Tags SCORMs
// @Produce  json
// @Param   id path int true "ID de la fila"
// @Success 200 {object} util.Response{data=[]model.ScormUpdate} "Actualizaciones"
// @Security BearerAuth
// @Router /api/scorms/{id}/updates [get]
func (c *ScormController) Updates(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	entries, err := c.Scorms.UpdatesFor(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// RelatedCourses godoc
// @Summary Cursos relacionados
// @Description Cursos cuyo contenido referencia esta fila, respetando el idioma
// @Tags SCORMs
// @Produce  json
// @Param   id path int true "ID de la fila"
// @Success 200 {object} util.Response{data=[]model.ScormCourse} "Cursos"
// @Security BearerAuth
// @Router /api/scorms/{id}/courses [get]
func (c *ScormController) RelatedCourses(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	courses, err := c.Courses.RelatedCourses(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// UploadPackage godoc
// @Summary Subir paquete SCORM
// @Description Almacena un archivo zip y lo asocia a la fila
// @Tags SCORMs
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path int true "ID de la fila"
// @Param   file formData file true "Paquete zip"
// @Success 200 {object} util.Response{data=model.ScormMaster} "Paquete asociado"
// @Failure 400 {object} util.Response "Tipo de archivo no permitido"
// @Security BearerAuth
// @Router /api/scorms/{id}/package [post]
func (c *ScormController) UploadPackage(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "id inválido")
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "archivo requerido")
		return
	}

	row, err := c.Storage.AttachPackage(ctx.Request.Context(), id, header)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, row)
}
