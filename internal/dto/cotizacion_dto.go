package dto

import (
	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CotizarRequest prices a configured product without touching the cart.
type CotizarRequest struct {
	ProductoID  uuid.UUID         `json:"producto_id" validate:"required"`
	Cantidad    int               `json:"cantidad"    validate:"min=0,max=99"`
	Selecciones model.Selecciones `json:"selecciones"`
}

type CotizacionResponse struct {
	Base           decimal.Decimal        `json:"base"`
	Adicionales    decimal.Decimal        `json:"adicionales"`
	PrecioUnitario decimal.Decimal        `json:"precio_unitario"`
	Cantidad       int                    `json:"cantidad"`
	Total          decimal.Decimal        `json:"total"`
	PuedeEnviar    bool                   `json:"puede_enviar"`
	Errores        map[uuid.UUID]string   `json:"errores"`
	NoResueltas    map[uuid.UUID][]string `json:"no_resueltas,omitempty"`
}

// AgregarItemRequest adds a configured product to the session cart.
type AgregarItemRequest struct {
	ProductoID  uuid.UUID         `json:"producto_id" validate:"required"`
	Cantidad    int               `json:"cantidad"    validate:"min=0,max=99"`
	Selecciones model.Selecciones `json:"selecciones"`
}
