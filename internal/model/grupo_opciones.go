package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Tipo de seleccion de un grupo.
const (
	TipoUnica    = "unica"
	TipoMultiple = "multiple"
)

// SubOpcion is one choice inside a group, e.g. "Chocolate" (+0.00).
type SubOpcion struct {
	Nombre          string          `json:"nombre"`
	PrecioAdicional decimal.Decimal `json:"precio_adicional"`
}

// GrupoOpciones is a named set of add-on choices ("Sabor", "Extras") that can
// be linked to many products. Sub-option names are unique within a group.
type GrupoOpciones struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	Titulo      string                         `gorm:"not null"`
	Tipo        string                         `gorm:"type:varchar(10);not null"`
	Requerido   bool                           `gorm:"not null"`
	SubOpciones datatypes.JSONSlice[SubOpcion] `gorm:"column:sub_opciones"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GrupoOpciones) TableName() string { return "grupos_opciones" }

// BuscarSubOpcion resolves a sub-option by exact name.
func (g *GrupoOpciones) BuscarSubOpcion(nombre string) (SubOpcion, bool) {
	for _, s := range g.SubOpciones {
		if s.Nombre == nombre {
			return s, true
		}
	}
	return SubOpcion{}, false
}
