package handler

import (
	"net/http"

	"carta/internal/dto"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificacionesHandler struct{ svc service.NotificacionService }

func NewNotificacionesHandler(svc service.NotificacionService) *NotificacionesHandler {
	return &NotificacionesHandler{svc: svc}
}

// Listar godoc
// @Summary      Bandeja de notificaciones
// @Tags         notificaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.NotificacionListResponse
// @Router       /v1/admin/notificaciones [get]
func (h *NotificacionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificacionesHandler) NoLeidas(c *gin.Context) {
	n, err := h.svc.ContarNoLeidas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"no_leidas": n})
}

// MarcarLeida PATCH /v1/admin/notificaciones/:id
func (h *NotificacionesHandler) MarcarLeida(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.MarcarLeidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MarcarLeida(c.Request.Context(), id, *req.Leida); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificacionesHandler) MarcarTodasLeidas(c *gin.Context) {
	n, err := h.svc.MarcarTodasLeidas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actualizadas": n})
}

func (h *NotificacionesHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificacionesHandler) EliminarTodas(c *gin.Context) {
	n, err := h.svc.EliminarTodas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eliminadas": n})
}
