package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OpcionVinculada links a product to an option group. IncluidasSinCargo lists
// the names of that group's sub-options that are free for this product; every
// name must exist in the group (checked when the product is saved).
type OpcionVinculada struct {
	GrupoID           uuid.UUID `json:"grupo_id"`
	IncluidasSinCargo []string  `json:"incluidas_sin_cargo"`
}

// Incluye reports whether nombre is free of charge under this rule.
func (o OpcionVinculada) Incluye(nombre string) bool {
	for _, n := range o.IncluidasSinCargo {
		if n == nombre {
			return true
		}
	}
	return false
}

// Producto is a menu item. When EnPromocion is set, PrecioPromocion replaces
// Precio as the pricing base (as long as it is positive).
type Producto struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre             string    `gorm:"index;not null"`
	Descripcion        string
	Precio             decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	EnPromocion        bool             `gorm:"not null"`
	PrecioPromocion    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Disponible         bool             `gorm:"not null;index"`
	ImagenURL          string
	CategoriaID        *uuid.UUID                           `gorm:"type:uuid;index"`
	OpcionesVinculadas datatypes.JSONSlice[OpcionVinculada] `gorm:"column:opciones_vinculadas"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// Vinculo returns the linked-option rule for grupoID, if the product has one.
func (p *Producto) Vinculo(grupoID uuid.UUID) (OpcionVinculada, bool) {
	for _, o := range p.OpcionesVinculadas {
		if o.GrupoID == grupoID {
			return o, true
		}
	}
	return OpcionVinculada{}, false
}

// GruposVinculados returns the ids of every linked group, in rule order.
func (p *Producto) GruposVinculados() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.OpcionesVinculadas))
	for _, o := range p.OpcionesVinculadas {
		ids = append(ids, o.GrupoID)
	}
	return ids
}
