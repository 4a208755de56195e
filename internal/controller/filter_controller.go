package controller

import (
	"gscormer_backend/internal/service"
	"gscormer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// FilterController manages the per-session filter sets. Filters live in
// the working session only; logging out discards them.
type FilterController struct {
	Sessions *service.SessionRegistry
}

func NewFilterController(sessions *service.SessionRegistry) *FilterController {
	return &FilterController{Sessions: sessions}
}

func (c *FilterController) filterFor(ctx *gin.Context) (*service.Session, *service.FilterEngine) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		return nil, nil
	}
	sess := c.Sessions.Start(user.UserID)
	sess.Lock()
	f := sess.FilterView(ctx.Param("view"))
	sess.Unlock()
	return sess, f
}

type FilterRequest struct {
	Field string `json:"campo" binding:"required"`
	Value string `json:"valor"`
}

// Active godoc
// @Summary Filtros activos
// @Description Devuelve los filtros de la vista y el total de valores activos
// @Tags Filtros
// @Produce  json
// @Param   view path string true "Vista (scorms o cursos)"
// @Success 200 {object} util.Response "Filtros activos"
// @Security BearerAuth
// @Router /api/filters/{view} [get]
func (c *FilterController) Active(ctx *gin.Context) {
	_, f := c.filterFor(ctx)
	if f == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, gin.H{"filtros": f.Active(), "total": f.ActiveCount()})
}

// Add godoc
// @Summary Añadir filtro
// @Description Añade un valor al campo; los valores de un campo se combinan con O, los campos entre sí con Y
// @Tags Filtros
// @Accept  json
// @Produce  json
// @Param   view path string true "Vista (scorms o cursos)"
// @Param   body body FilterRequest true "Campo y valor"
// @Success 200 {object} util.Response "Filtros activos tras el cambio"
// @Security BearerAuth
// @Router /api/filters/{view} [post]
func (c *FilterController) Add(ctx *gin.Context) {
	_, f := c.filterFor(ctx)
	if f == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f.AddFilter(req.Field, req.Value)
	util.Success(ctx, gin.H{"filtros": f.Active(), "total": f.ActiveCount()})
}

// Toggle godoc
// @Summary Conmutar filtro de celda
// @Description Alterna el valor de una celda como filtro; las celdas vacías o de relleno no hacen nada
// @Tags Filtros
// @Accept  json
// @Produce  json
// @Param   view path string true "Vista (scorms o cursos)"
// @Param   body body FilterRequest true "Campo y valor de la celda"
// @Success 200 {object} util.Response "Filtros activos tras el cambio"
// @Security BearerAuth
// @Router /api/filters/{view}/toggle [post]
func (c *FilterController) Toggle(ctx *gin.Context) {
	_, f := c.filterFor(ctx)
	if f == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f.ToggleValueFilter(req.Field, req.Value)
	util.Success(ctx, gin.H{"filtros": f.Active(), "total": f.ActiveCount()})
}

// Clear godoc
// @Summary Limpiar filtros
// @Description Limpia un campo si se indica, o toda la vista si no
// @Tags Filtros
// @Produce  json
// @Param   view path string true "Vista (scorms o cursos)"
// @Param   campo query string false "Campo a limpiar"
// @Success 200 {object} util.Response "Filtros activos tras el cambio"
// @Security BearerAuth
// @Router /api/filters/{view} [delete]
func (c *FilterController) Clear(ctx *gin.Context) {
	sess, f := c.filterFor(ctx)
	if f == nil {
		util.Unauthorized(ctx)
		return
	}

	if field := ctx.Query("campo"); field != "" {
		f.ClearField(field)
	} else {
		sess.Lock()
		sess.Filters[ctx.Param("view")] = service.NewFilterEngine()
		f = sess.Filters[ctx.Param("view")]
		sess.Unlock()
	}
	util.Success(ctx, gin.H{"filtros": f.Active(), "total": f.ActiveCount()})
}
