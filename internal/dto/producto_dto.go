package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpcionVinculadaRequest struct {
	GrupoID           uuid.UUID `json:"grupo_id"            validate:"required"`
	IncluidasSinCargo []string  `json:"incluidas_sin_cargo" validate:"dive,required"`
}

type CrearProductoRequest struct {
	Nombre             string                   `json:"nombre"              validate:"required,min=2,max=120"`
	Descripcion        string                   `json:"descripcion"         validate:"max=1000"`
	Precio             decimal.Decimal          `json:"precio"              validate:"gt=0"`
	EnPromocion        bool                     `json:"en_promocion"`
	PrecioPromocion    *decimal.Decimal         `json:"precio_promocion"    validate:"omitempty,gt=0"`
	Disponible         *bool                    `json:"disponible"`
	ImagenURL          string                   `json:"imagen_url"          validate:"omitempty,url"`
	CategoriaID        *uuid.UUID               `json:"categoria_id"`
	OpcionesVinculadas []OpcionVinculadaRequest `json:"opciones_vinculadas" validate:"dive"`
}

type ActualizarProductoRequest struct {
	Nombre             *string                   `json:"nombre"              validate:"omitempty,min=2,max=120"`
	Descripcion        *string                   `json:"descripcion"         validate:"omitempty,max=1000"`
	Precio             *decimal.Decimal          `json:"precio"              validate:"omitempty,gt=0"`
	EnPromocion        *bool                     `json:"en_promocion"`
	PrecioPromocion    *decimal.Decimal          `json:"precio_promocion"    validate:"omitempty,gt=0"`
	Disponible         *bool                     `json:"disponible"`
	ImagenURL          *string                   `json:"imagen_url"          validate:"omitempty,url"`
	CategoriaID        *uuid.UUID                `json:"categoria_id"`
	OpcionesVinculadas *[]OpcionVinculadaRequest `json:"opciones_vinculadas" validate:"omitempty,dive"`
}

type DisponibilidadRequest struct {
	Disponible *bool `json:"disponible" validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	CategoriaID     string `form:"categoria_id"  validate:"omitempty,uuid"`
	Nombre          string `form:"nombre"`
	SoloDisponibles bool   `form:"disponibles"`
	SoloPromocion   bool   `form:"promocion"`
	Page            int    `form:"page,default=1"   validate:"min=1"`
	Limit           int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OpcionVinculadaResponse struct {
	GrupoID           uuid.UUID `json:"grupo_id"`
	IncluidasSinCargo []string  `json:"incluidas_sin_cargo"`
}

type ProductoResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	Nombre             string                    `json:"nombre"`
	Descripcion        string                    `json:"descripcion"`
	Precio             decimal.Decimal           `json:"precio"`
	EnPromocion        bool                      `json:"en_promocion"`
	PrecioPromocion    *decimal.Decimal          `json:"precio_promocion"`
	PrecioBase         decimal.Decimal           `json:"precio_base"`
	Disponible         bool                      `json:"disponible"`
	ImagenURL          string                    `json:"imagen_url"`
	CategoriaID        *uuid.UUID                `json:"categoria_id"`
	OpcionesVinculadas []OpcionVinculadaResponse `json:"opciones_vinculadas"`
}

// ProductoDetalleResponse carries the product plus the groups it links, in
// the product's rule order.
type ProductoDetalleResponse struct {
	ProductoResponse
	Grupos []GrupoOpcionesResponse `json:"grupos"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
