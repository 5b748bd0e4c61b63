// Package carrito holds the per-session cart aggregate and its store.
package carrito

import (
	"errors"
	"time"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxCantidad bounds the quantity of a single line, merged adds included.
const MaxCantidad = 99

var ErrCantidadMaxima = errors.New("carrito: cantidad máxima por línea superada")

// Item is one cart line. Product data is a snapshot taken when the line was
// added.
type Item struct {
	ID             uuid.UUID           `json:"id"`
	ProductoID     uuid.UUID           `json:"producto_id"`
	Nombre         string              `json:"nombre"`
	PrecioUnitario decimal.Decimal     `json:"precio_unitario"`
	ImagenURL      string              `json:"imagen_url,omitempty"`
	Cantidad       int                 `json:"cantidad"`
	Selecciones    map[string][]string `json:"selecciones"` // by group title, for display
	SeleccionesRaw model.Selecciones   `json:"selecciones_raw"`
	Opciones       string              `json:"opciones,omitempty"`
	Clave          string              `json:"clave"`
	Total          decimal.Decimal     `json:"total"`
}

// Carrito is the cart of one client session.
type Carrito struct {
	SesionID      string          `json:"sesion_id"`
	Items         []Item          `json:"items"`
	Abierto       bool            `json:"abierto"`
	CantidadItems int             `json:"cantidad_items"`
	Total         decimal.Decimal `json:"total"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func Nuevo(sesionID string) *Carrito {
	return &Carrito{SesionID: sesionID, Items: []Item{}}
}

// Clave is the merge identity of a line: product id plus the canonical
// selection serialization.
func Clave(productoID uuid.UUID, sel model.Selecciones) string {
	return productoID.String() + "|" + sel.Canonica()
}

// Agregar merges it into the line with the same Clave (quantities and totals
// add up) or appends it. The cart opens. A line that would exceed MaxCantidad
// is refused with ErrCantidadMaxima and the cart is left untouched.
func (c *Carrito) Agregar(it Item) error {
	if it.Clave == "" {
		it.Clave = Clave(it.ProductoID, it.SeleccionesRaw)
	}
	for i := range c.Items {
		if c.Items[i].Clave == it.Clave {
			if c.Items[i].Cantidad+it.Cantidad > MaxCantidad {
				return ErrCantidadMaxima
			}
			c.Items[i].Cantidad += it.Cantidad
			c.Items[i].Total = c.Items[i].Total.Add(it.Total)
			c.Abierto = true
			c.Recalcular()
			return nil
		}
	}
	if it.Cantidad > MaxCantidad {
		return ErrCantidadMaxima
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	c.Items = append(c.Items, it)
	c.Abierto = true
	c.Recalcular()
	return nil
}

// Quitar removes the line with id. Reports whether it existed.
func (c *Carrito) Quitar(id uuid.UUID) bool {
	for i, it := range c.Items {
		if it.ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Recalcular()
			return true
		}
	}
	return false
}

func (c *Carrito) Vaciar() {
	c.Items = []Item{}
	c.Recalcular()
}

func (c *Carrito) Vacio() bool { return len(c.Items) == 0 }

// Recalcular refreshes the derived CantidadItems and Total.
func (c *Carrito) Recalcular() {
	n := 0
	total := decimal.Zero
	for _, it := range c.Items {
		n += it.Cantidad
		total = total.Add(it.Total)
	}
	c.CantidadItems = n
	c.Total = total
}
