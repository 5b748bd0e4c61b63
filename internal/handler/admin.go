package handler

import (
	"net/http"

	"carta/internal/config"
	"carta/internal/dto"
	"carta/internal/middleware"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin device and messaging settings.
type AdminHandler struct {
	tokens   service.AdminTokenService
	whatsapp service.WhatsAppService
	cfg      *config.Config
}

func NewAdminHandler(tokens service.AdminTokenService, whatsapp service.WhatsAppService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{tokens: tokens, whatsapp: whatsapp, cfg: cfg}
}

// RegistrarToken godoc
// @Summary      Registrar dispositivo para push
// @Description  Guarda el token push del navegador del administrador autenticado.
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.RegistrarTokenRequest true "Token push"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Router       /v1/admin/push/token [put]
func (h *AdminHandler) RegistrarToken(c *gin.Context) {
	var req dto.RegistrarTokenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	if err := h.tokens.Registrar(c.Request.Context(), actor, req.Token, c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) EliminarToken(c *gin.Context) {
	if err := h.tokens.Eliminar(c.Request.Context(), middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PushConfig GET /v1/admin/push/config
func (h *AdminHandler) PushConfig(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PushConfigResponse{
		Habilitado: h.cfg.PushGatewayURL != "",
		PublicKey:  h.cfg.PushPublicKey,
		SenderID:   h.cfg.PushSenderID,
	})
}

func (h *AdminHandler) ObtenerWhatsApp(c *gin.Context) {
	resp, err := h.whatsapp.ObtenerConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarWhatsApp PUT /v1/admin/config/whatsapp
func (h *AdminHandler) ActualizarWhatsApp(c *gin.Context) {
	var req dto.ConfigWhatsAppRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.whatsapp.ActualizarConfig(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
