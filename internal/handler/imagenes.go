package handler

import (
	"errors"
	"net/http"

	"carta/internal/apierror"
	"carta/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MaxImagen is the upload limit for product images.
const MaxImagen = 5 << 20

type ImagenesHandler struct{ storage *infra.Storage }

func NewImagenesHandler(storage *infra.Storage) *ImagenesHandler {
	return &ImagenesHandler{storage: storage}
}

// Subir godoc
// @Summary      Subir imagen de producto
// @Tags         productos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo formData file true "Imagen (jpeg, png, webp o gif; máx. 5 MB)"
// @Success      201 {object} infra.Archivo
// @Failure      400 {object} apierror.APIError
// @Failure      413 {object} apierror.APIError
// @Router       /v1/admin/imagenes [post]
func (h *ImagenesHandler) Subir(c *gin.Context) {
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo"))
		return
	}
	if fh.Size > MaxImagen {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera los 5 MB"))
		return
	}
	tipo := fh.Header.Get("Content-Type")
	if _, ok := infra.TiposImagen[tipo]; !ok {
		c.JSON(http.StatusBadRequest, apierror.New("Formato de imagen no soportado"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	arch, err := h.storage.Guardar(c.Request.Context(), infra.CarpetaProductos, tipo, f)
	if err != nil {
		if errors.Is(err, infra.ErrTipoNoSoportado) {
			c.JSON(http.StatusBadRequest, apierror.New("Formato de imagen no soportado"))
			return
		}
		log.Error().Err(err).Msg("imagenes: store failed")
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo guardar la imagen"))
		return
	}
	c.JSON(http.StatusCreated, arch)
}
