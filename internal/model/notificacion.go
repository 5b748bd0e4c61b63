package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notificacion mirrors an order summary for the back-office inbox. It is
// committed together with its Pedido.
type Notificacion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Titulo        string          `gorm:"not null"`
	Cuerpo        string          `gorm:"not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadItems int             `gorm:"not null"`
	Leida         bool            `gorm:"not null;index"`
	CreatedAt     time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }
