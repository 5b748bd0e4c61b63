package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MarcarLeidaRequest struct {
	Leida *bool `json:"leida" validate:"required"`
}

type NotificacionResponse struct {
	ID            uuid.UUID       `json:"id"`
	PedidoID      uuid.UUID       `json:"pedido_id"`
	Titulo        string          `json:"titulo"`
	Cuerpo        string          `json:"cuerpo"`
	Total         decimal.Decimal `json:"total"`
	CantidadItems int             `json:"cantidad_items"`
	Leida         bool            `json:"leida"`
	CreatedAt     time.Time       `json:"created_at"`
}

type NotificacionListResponse struct {
	Data     []NotificacionResponse `json:"data"`
	NoLeidas int64                  `json:"no_leidas"`
}
