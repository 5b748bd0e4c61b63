package handler

import (
	"net/http"

	"carta/internal/apierror"
	"carta/internal/dto"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Description  Valida precio de promoción y que cada opción incluida exista en su grupo.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Param        categoria_id query string false "UUID de categoría"
// @Param        nombre       query string false "Búsqueda por nombre"
// @Param        promocion    query bool   false "Solo en promoción"
// @Param        page         query int    false "Página (default 1)"
// @Param        limit        query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.ProductoListResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) Listar(soloDisponibles bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter dto.ProductoFilter
		if !bindQuery(c, &filter) {
			return
		}
		if soloDisponibles {
			filter.SoloDisponibles = true
		}
		resp, err := h.svc.Listar(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Detalle godoc
// @Summary      Detalle de producto
// @Description  Producto con sus grupos de opciones en el orden de sus reglas.
// @Tags         productos
// @Produce      json
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductoDetalleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) Detalle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Disponibilidad PATCH /v1/admin/productos/:id/disponibilidad
func (h *ProductosHandler) Disponibilidad(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.DisponibilidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Disponible == nil {
		c.JSON(http.StatusBadRequest, apierror.New("disponible es obligatorio"))
		return
	}
	if err := h.svc.CambiarDisponibilidad(c.Request.Context(), id, *req.Disponible); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
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

// ── Grupos de opciones ───────────────────────────────────────────────────────

type GruposHandler struct{ svc service.GrupoOpcionesService }

func NewGruposHandler(svc service.GrupoOpcionesService) *GruposHandler {
	return &GruposHandler{svc: svc}
}

func (h *GruposHandler) Crear(c *gin.Context) {
	var req dto.CrearGrupoOpcionesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GruposHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GruposHandler) ObtenerPorID(c *gin.Context) {
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

// Actualizar PUT /v1/admin/grupos/:id. Replacing the sub-options drops free
// inclusions that no longer exist from every linked product.
func (h *GruposHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarGrupoOpcionesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GruposHandler) Eliminar(c *gin.Context) {
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
