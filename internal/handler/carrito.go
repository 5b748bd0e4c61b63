package handler

import (
	"context"
	"net/http"

	"carta/internal/apierror"
	"carta/internal/carrito"
	"carta/internal/dto"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarritoHandler struct {
	svc        service.CarritoService
	cotizacion service.CotizacionService
}

func NewCarritoHandler(svc service.CarritoService, cotizacion service.CotizacionService) *CarritoHandler {
	return &CarritoHandler{svc: svc, cotizacion: cotizacion}
}

// Cotizar godoc
// @Summary      Cotizar producto configurado
// @Description  Precio unitario y total de un producto con sus selecciones, más el estado de validación por grupo.
// @Tags         tienda
// @Accept       json
// @Produce      json
// @Param        body body dto.CotizarRequest true "Producto y selecciones"
// @Success      200  {object} dto.CotizacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cotizar [post]
func (h *CarritoHandler) Cotizar(c *gin.Context) {
	var req dto.CotizarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cotizacion.Cotizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/carrito
func (h *CarritoHandler) Obtener(c *gin.Context) {
	sesion, ok := sesionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), sesion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary      Agregar al carrito
// @Description  Cotiza el producto en el servidor y lo fusiona con la línea de igual producto y selecciones.
// @Tags         tienda
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string                 true "Sesión del cliente"
// @Param        body         body   dto.AgregarItemRequest true "Producto y selecciones"
// @Success      200  {object} carrito.Carrito
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/carrito/items [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	sesion, ok := sesionID(c)
	if !ok {
		return
	}
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), sesion, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar DELETE /v1/carrito/items/:itemId
func (h *CarritoHandler) Quitar(c *gin.Context) {
	sesion, ok := sesionID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Quitar(c.Request.Context(), sesion, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vaciar DELETE /v1/carrito
func (h *CarritoHandler) Vaciar(c *gin.Context) {
	h.con(c, h.svc.Vaciar)
}

// Abrir POST /v1/carrito/abrir
func (h *CarritoHandler) Abrir(c *gin.Context) {
	h.con(c, h.svc.Abrir)
}

// Cerrar POST /v1/carrito/cerrar
func (h *CarritoHandler) Cerrar(c *gin.Context) {
	h.con(c, h.svc.Cerrar)
}

func (h *CarritoHandler) con(c *gin.Context, op func(ctx context.Context, sesion string) (*carrito.Carrito, error)) {
	sesion, ok := sesionID(c)
	if !ok {
		return
	}
	resp, err := op(c.Request.Context(), sesion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
