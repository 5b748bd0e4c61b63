package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria groups products on the storefront menu. Orden drives display order.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Orden       int  `gorm:"not null;default:0"`
	Activo      bool `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Categoria) TableName() string { return "categorias" }
