package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SubOpcionRequest struct {
	Nombre          string          `json:"nombre"           validate:"required,max=80"`
	PrecioAdicional decimal.Decimal `json:"precio_adicional" validate:"gte=0"`
}

type CrearGrupoOpcionesRequest struct {
	Titulo      string             `json:"titulo"       validate:"required,min=2,max=80"`
	Tipo        string             `json:"tipo"         validate:"required,oneof=unica multiple"`
	Requerido   bool               `json:"requerido"`
	SubOpciones []SubOpcionRequest `json:"sub_opciones" validate:"required,min=1,dive"`
}

type ActualizarGrupoOpcionesRequest struct {
	Titulo      *string             `json:"titulo"       validate:"omitempty,min=2,max=80"`
	Tipo        *string             `json:"tipo"         validate:"omitempty,oneof=unica multiple"`
	Requerido   *bool               `json:"requerido"`
	SubOpciones *[]SubOpcionRequest `json:"sub_opciones" validate:"omitempty,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SubOpcionResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioAdicional decimal.Decimal `json:"precio_adicional" validate:"gte=0"`
}

type GrupoOpcionesResponse struct {
	ID          uuid.UUID           `json:"id"`
	Titulo      string              `json:"titulo"`
	Tipo        string              `json:"tipo"`
	Requerido   bool                `json:"requerido"`
	SubOpciones []SubOpcionResponse `json:"sub_opciones"`
}
