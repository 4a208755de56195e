package controller

import (
	"gscormer_backend/internal/service"
	"gscormer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// LoginRequest credenciales de acceso
// swagger:model LoginRequest
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Iniciar sesión
// @Description Valida las credenciales y abre una sesión de trabajo
// @Tags Autenticación
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credenciales"
// @Success 200 {object} util.Response{data=service.LoginResult} "Sesión iniciada"
// @Failure 403 {object} util.Response "Credenciales inválidas"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Name, req.Password)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Logout godoc
// @Summary Cerrar sesión
// @Description Descarta la sesión de trabajo: historial de cambios y filtros
// @Tags Autenticación
// @Produce  json
// @Success 200 {object} util.Response "Sesión cerrada"
// @Security BearerAuth
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	c.AuthService.Logout(user.UserID)
	util.SuccessMessage(ctx, "sesión cerrada", nil)
}

type ChangePasswordRequest struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next" binding:"required"`
}

// ChangePassword godoc
// @Summary Cambiar contraseña
// @Tags Autenticación
// @Accept  json
// @Produce  json
// @Param   body body ChangePasswordRequest true "Contraseña actual y nueva"
// @Success 200 {object} util.Response "Contraseña actualizada"
// @Failure 400 {object} util.Response "Contraseña demasiado corta"
// @Security BearerAuth
// @Router /api/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(user.UserID, req.Current, req.Next); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "contraseña actualizada", nil)
}
