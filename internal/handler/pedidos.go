package handler

import (
	"fmt"
	"net/http"
	"strings"

	"carta/internal/dto"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler { return &PedidosHandler{svc: svc} }

// Checkout godoc
// @Summary      Enviar pedido
// @Description  Convierte el carrito de la sesión en un pedido. Pedido y notificación se guardan en una sola transacción; los avisos a administradores son de mejor esfuerzo.
// @Tags         tienda
// @Accept       json
// @Produce      json
// @Param        X-Session-ID    header string              true  "Sesión del cliente"
// @Param        Idempotency-Key header string              false "Evita pedidos duplicados por reintento"
// @Param        body            body   dto.CheckoutRequest true  "Datos del cliente"
// @Success      201  {object} dto.CheckoutResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/checkout [post]
func (h *PedidosHandler) Checkout(c *gin.Context) {
	sesion, ok := sesionID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	idem := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	resp, err := h.svc.Checkout(c.Request.Context(), sesion, idem, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Historial GET /v1/pedidos/historial?telefono=09xxxxxxxx
func (h *PedidosHandler) Historial(c *gin.Context) {
	resp, err := h.svc.Historial(c.Request.Context(), c.Query("telefono"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar pedidos
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | completado"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 20)"
// @Success      200    {object} dto.PedidoListResponse
// @Router       /v1/admin/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar PATCH /v1/admin/pedidos/:id/completar. Idempotent.
func (h *PedidosHandler) Completar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Eliminar(c *gin.Context) {
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

// Ticket godoc
// @Summary      Ticket PDF del pedido
// @Tags         pedidos
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/admin/pedidos/{id}/ticket [get]
func (h *PedidosHandler) Ticket(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	path, err := h.svc.Ticket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "pedido.pdf"))
	c.File(path)
}
