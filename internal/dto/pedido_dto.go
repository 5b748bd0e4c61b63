package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CheckoutRequest turns the session cart into an order.
type CheckoutRequest struct {
	ClienteNombre   string  `json:"cliente_nombre"   validate:"required,min=2,max=100"`
	ClienteTelefono string  `json:"cliente_telefono" validate:"required"`
	ClienteEmail    *string `json:"cliente_email"    validate:"omitempty,email"`
	MetodoPago      string  `json:"metodo_pago"      validate:"required,oneof=efectivo transferencia tarjeta"`
	Notas           string  `json:"notas"            validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type PedidoFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente completado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoItemResponse struct {
	ProductoID     uuid.UUID       `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
	Opciones       string          `json:"opciones,omitempty"`
}

type PedidoResponse struct {
	ID              uuid.UUID            `json:"id"`
	Numero          int64                `json:"numero"`
	Items           []PedidoItemResponse `json:"items"`
	Total           decimal.Decimal      `json:"total"`
	ClienteNombre   string               `json:"cliente_nombre"`
	ClienteTelefono string               `json:"cliente_telefono"`
	ClienteEmail    *string              `json:"cliente_email,omitempty"`
	MetodoPago      string               `json:"metodo_pago"`
	Notas           string               `json:"notas,omitempty"`
	Estado          string               `json:"estado"`
	CreatedAt       time.Time            `json:"created_at"`
	CompletadoAt    *time.Time           `json:"completado_at,omitempty"`
}

type PedidoListResponse struct {
	Data       []PedidoResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// CheckoutResponse returns the stored order and the WhatsApp hand-off links.
type CheckoutResponse struct {
	Pedido           PedidoResponse `json:"pedido"`
	WhatsAppOperador string         `json:"whatsapp_operador,omitempty"`
	WhatsAppCliente  string         `json:"whatsapp_cliente"`
}
