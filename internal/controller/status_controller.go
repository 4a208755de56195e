package controller

import (
	"time"

	"gscormer_backend/internal/model"
	"gscormer_backend/internal/service"
	"gscormer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatusController struct {
	Workflow *service.StatusWorkflow
	Sessions *service.SessionRegistry
}

func NewStatusController(workflow *service.StatusWorkflow, sessions *service.SessionRegistry) *StatusController {
	return &StatusController{Workflow: workflow, Sessions: sessions}
}

func (c *StatusController) session(ctx *gin.Context) (*service.Session, *util.Claims) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		return nil, nil
	}
	return c.Sessions.Start(user.UserID), user
}

type TransitionRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"estado" binding:"required"`
}

// Transition godoc
// @Summary Cambiar estado
// @Description Aplica un cambio de estado a una o varias filas; o entran todas o ninguna
// @Tags Estados
// @Accept  json
// @Produce  json
// @Param   body body TransitionRequest true "Filas y estado destino"
// @Success 200 {object} util.Response{data=service.TransitionResult} "Resultado"
// @Failure 400 {object} util.Response "Transición no permitida"
// @Failure 403 {object} util.Response "Publicar requiere administrador"
// @Security BearerAuth
// @Router /api/scorms/status [post]
func (c *StatusController) Transition(ctx *gin.Context) {
	sess, user := c.session(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Workflow.Transition(sess, user, req.IDs, model.ParseStatus(req.Status))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	if len(result.AlreadyPublished) > 0 && len(result.Changed) == 0 {
		util.SuccessMessage(ctx, "las filas ya estaban publicadas", result)
		return
	}
	util.Success(ctx, result)
}

// Undo godoc
// @Summary Deshacer
// @Description Revierte el último cambio de estado de la sesión
// @Tags Estados
// @Produce  json
// @Success 200 {object} util.Response "Cambio revertido, o nada que deshacer"
// @Security BearerAuth
// @Router /api/scorms/status/undo [post]
func (c *StatusController) Undo(ctx *gin.Context) {
	sess, _ := c.session(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}

	entry, err := c.Workflow.Undo(sess)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	if entry == nil {
		util.SuccessMessage(ctx, "no hay cambios que deshacer", nil)
		return
	}
	util.Success(ctx, entry)
}

// Redo godoc
// @Summary Rehacer
// @Description Reaplica el último cambio deshecho de la sesión
// @Tags Estados
// @Produce  json
// @Success 200 {object} util.Response "Cambio reaplicado, o nada que rehacer"
// @Security BearerAuth
// @Router /api/scorms/status/redo [post]
func (c *StatusController) Redo(ctx *gin.Context) {
	sess, _ := c.session(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}

	entry, err := c.Workflow.Redo(sess)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	if entry == nil {
		util.SuccessMessage(ctx, "no hay cambios que rehacer", nil)
		return
	}
	util.Success(ctx, entry)
}

type RegisterUpdateRequest struct {
	IDs        []uint `json:"ids" binding:"required"`
	ChangeType string `json:"tipoCambio" binding:"required"`
	Date       string `json:"fechaModificacion"`
	Notes      string `json:"notas"`
}

// RegisterUpdate godoc
// @Summary Registrar actualización
// @Description Anota una actualización sobre filas publicadas y las deja pendientes de republicar
// @Tags Estados
// @Accept  json
// @Produce  json
// @Param   body body RegisterUpdateRequest true "Filas, tipo de cambio y fecha"
// @Success 200 {object} util.Response{data=service.TransitionResult} "Actualización registrada"
// @Failure 400 {object} util.Response "Tipo de cambio desconocido o fila sin código"
// @Security BearerAuth
// @Router /api/scorms/status/update [post]
func (c *StatusController) RegisterUpdate(ctx *gin.Context) {
	sess, user := c.session(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RegisterUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	date := time.Time{}
	if req.Date != "" {
		parsed, err := time.Parse(util.DateFormat, req.Date)
		if err != nil {
			util.BadRequest(ctx, "fecha inválida")
			return
		}
		date = parsed
	}

	result, err := c.Workflow.RegisterUpdate(sess, user, req.IDs, model.ChangeType(req.ChangeType), date, req.Notes)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ActiveSessions godoc
// @Summary Sesiones activas
// @Description Vista de administración de las sesiones de trabajo abiertas
// @Tags Estados
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.SessionSnapshot} "Sesiones"
// @Security BearerAuth
// @Router /api/admin/sessions [get]
func (c *StatusController) ActiveSessions(ctx *gin.Context) {
	util.Success(ctx, c.Sessions.Snapshot())
}
