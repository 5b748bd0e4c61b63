// Package pricing computes the price of a configured product and checks that
// every required option group has a selection.
//
// Calcular is a pure function of (product, groups, selections, quantity):
// price and validation always come from the same snapshot.
package pricing

import (
	"fmt"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entrada is the snapshot priced by Calcular.
type Entrada struct {
	Producto    *model.Producto
	Grupos      []model.GrupoOpciones // groups linked by the product, as loaded
	Selecciones model.Selecciones
	Cantidad    int
}

// Resultado carries price and validation state.
type Resultado struct {
	Base           decimal.Decimal        `json:"base"`
	Adicionales    decimal.Decimal        `json:"adicionales"`
	PrecioUnitario decimal.Decimal        `json:"precio_unitario"`
	Total          decimal.Decimal        `json:"total"`
	PuedeEnviar    bool                   `json:"puede_enviar"`
	Errores        map[uuid.UUID]string   `json:"errores"`
	NoResueltas    map[uuid.UUID][]string `json:"no_resueltas,omitempty"`
}

// MensajeRequerido is the validation message of an unsatisfied required group.
func MensajeRequerido(titulo string) string {
	return fmt.Sprintf("Debe seleccionar al menos una opción de %s", titulo)
}

// MensajeUnica is the validation message of a single-choice group holding
// more than one name.
func MensajeUnica(titulo string) string {
	return fmt.Sprintf("Solo puede seleccionar una opción de %s", titulo)
}

// PrecioBase returns the promotional price when the promotion is active and
// positive, otherwise the regular price.
func PrecioBase(p *model.Producto) decimal.Decimal {
	if p.EnPromocion && p.PrecioPromocion != nil && p.PrecioPromocion.IsPositive() {
		return *p.PrecioPromocion
	}
	return p.Precio
}

// Calcular prices and validates a configured product. It never fails: missing
// option data degrades to a zero contribution so checkout stays available.
// Names that could not be priced are reported in NoResueltas. Each group's
// selection is treated as a set, and a single-choice group holding more than
// one distinct name fails validation.
func Calcular(in Entrada) Resultado {
	res := Resultado{
		Errores:     map[uuid.UUID]string{},
		Adicionales: decimal.Zero,
	}
	if in.Producto == nil {
		res.Base, res.PrecioUnitario, res.Total = decimal.Zero, decimal.Zero, decimal.Zero
		return res
	}

	grupos := make(map[uuid.UUID]*model.GrupoOpciones, len(in.Grupos))
	for i := range in.Grupos {
		grupos[in.Grupos[i].ID] = &in.Grupos[i]
	}

	// Validation: only groups the product links are considered.
	for _, id := range in.Producto.GruposVinculados() {
		g, ok := grupos[id]
		if !ok || !g.Requerido {
			continue
		}
		if in.Selecciones[id].Vacia() {
			res.Errores[id] = MensajeRequerido(g.Titulo)
		}
	}

	for grupoID, sel := range in.Selecciones {
		nombres := sel.Distintos()
		vinculo, _ := in.Producto.Vinculo(grupoID)
		g := grupos[grupoID]
		if g != nil && g.Tipo == model.TipoUnica && len(nombres) > 1 {
			res.Errores[grupoID] = MensajeUnica(g.Titulo)
		}
		for _, nombre := range nombres {
			if vinculo.Incluye(nombre) {
				continue
			}
			if g == nil {
				res.noResuelta(grupoID, nombre)
				continue
			}
			sub, ok := g.BuscarSubOpcion(nombre)
			if !ok {
				res.noResuelta(grupoID, nombre)
				continue
			}
			res.Adicionales = res.Adicionales.Add(sub.PrecioAdicional)
		}
	}
	res.PuedeEnviar = len(res.Errores) == 0

	cantidad := in.Cantidad
	if cantidad < 1 {
		cantidad = 1
	}
	res.Base = PrecioBase(in.Producto)
	res.PrecioUnitario = res.Base.Add(res.Adicionales)
	res.Total = res.PrecioUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
	return res
}

func (r *Resultado) noResuelta(grupoID uuid.UUID, nombre string) {
	if r.NoResueltas == nil {
		r.NoResueltas = map[uuid.UUID][]string{}
	}
	r.NoResueltas[grupoID] = append(r.NoResueltas[grupoID], nombre)
}
