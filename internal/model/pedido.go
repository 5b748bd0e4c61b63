package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado de un pedido. pendiente -> completado is the only transition.
const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
)

// Metodos de pago aceptados en el checkout.
var MetodosPago = []string{"efectivo", "transferencia", "tarjeta"}

// Pedido is an order placed from the storefront. Items are snapshots taken at
// checkout and never follow later product edits.
type Pedido struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Numero          int64           `gorm:"uniqueIndex;not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClienteNombre   string          `gorm:"not null"`
	ClienteTelefono string          `gorm:"index;not null"`
	ClienteEmail    *string
	MetodoPago      string `gorm:"type:varchar(20);not null"`
	Notas           string
	Estado          string `gorm:"type:varchar(20);not null;index"`
	CreatedAt       time.Time
	CompletadoAt    *time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

// PedidoItem is one line of an order.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Opciones is a display summary, e.g. "Sabor: Chocolate | Extras: Queso".
	Opciones string
}

// CantidadItems sums quantities over all lines.
func (p *Pedido) CantidadItems() int {
	n := 0
	for _, it := range p.Items {
		n += it.Cantidad
	}
	return n
}
