package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carta/internal/carrito"
	"carta/internal/dto"
	"carta/internal/model"

	"github.com/google/uuid"
)

// CarritoService manages the cart of a client session.
type CarritoService interface {
	Obtener(ctx context.Context, sesionID string) (*carrito.Carrito, error)
	Agregar(ctx context.Context, sesionID string, req dto.AgregarItemRequest) (*carrito.Carrito, error)
	Quitar(ctx context.Context, sesionID string, itemID uuid.UUID) (*carrito.Carrito, error)
	Vaciar(ctx context.Context, sesionID string) (*carrito.Carrito, error)
	Abrir(ctx context.Context, sesionID string) (*carrito.Carrito, error)
	Cerrar(ctx context.Context, sesionID string) (*carrito.Carrito, error)
}

type carritoService struct {
	store      carrito.Store
	cotizacion CotizacionService
}

func NewCarritoService(store carrito.Store, cotizacion CotizacionService) CarritoService {
	return &carritoService{store: store, cotizacion: cotizacion}
}

func (s *carritoService) Obtener(ctx context.Context, sesionID string) (*carrito.Carrito, error) {
	return s.store.Obtener(ctx, sesionID)
}

// Agregar prices the configured product and merges it into the cart. An
// unavailable product, a missing required selection or a sub-option name
// the group does not offer is rejected; errors on selections are keyed by
// option group id.
func (s *carritoService) Agregar(ctx context.Context, sesionID string, req dto.AgregarItemRequest) (*carrito.Carrito, error) {
	cot, err := s.cotizacion.Preparar(ctx, req.ProductoID, req.Selecciones, req.Cantidad)
	if err != nil {
		return nil, err
	}
	if !cot.Producto.Disponible {
		return nil, campo("producto_id", "El producto no está disponible")
	}
	if !cot.Resultado.PuedeEnviar {
		campos := make(map[string]string, len(cot.Resultado.Errores))
		for id, msg := range cot.Resultado.Errores {
			campos[id.String()] = msg
		}
		return nil, validacion("Selección de opciones inválida", campos)
	}
	if len(cot.Resultado.NoResueltas) > 0 {
		campos := make(map[string]string, len(cot.Resultado.NoResueltas))
		for id, nombres := range cot.Resultado.NoResueltas {
			campos[id.String()] = "Opción desconocida: " + strings.Join(nombres, ", ")
		}
		return nil, validacion("Opciones no disponibles", campos)
	}

	c, err := s.store.Obtener(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	raw := seleccionesLimpias(req.Selecciones)
	display, resumen := describirSelecciones(cot.Grupos, raw)
	err = c.Agregar(carrito.Item{
		ProductoID:     cot.Producto.ID,
		Nombre:         cot.Producto.Nombre,
		PrecioUnitario: cot.Resultado.PrecioUnitario,
		ImagenURL:      cot.Producto.ImagenURL,
		Cantidad:       cot.Cantidad,
		Selecciones:    display,
		SeleccionesRaw: raw,
		Opciones:       resumen,
		Clave:          carrito.Clave(cot.Producto.ID, raw),
		Total:          cot.Resultado.Total,
	})
	if errors.Is(err, carrito.ErrCantidadMaxima) {
		return nil, campo("cantidad", fmt.Sprintf("No puede agregar más de %d unidades del mismo producto", carrito.MaxCantidad))
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.Guardar(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *carritoService) Quitar(ctx context.Context, sesionID string, itemID uuid.UUID) (*carrito.Carrito, error) {
	return s.modificar(ctx, sesionID, func(c *carrito.Carrito) error {
		if !c.Quitar(itemID) {
			return ErrItemNoEncontrado
		}
		return nil
	})
}

func (s *carritoService) Vaciar(ctx context.Context, sesionID string) (*carrito.Carrito, error) {
	return s.modificar(ctx, sesionID, func(c *carrito.Carrito) error {
		c.Vaciar()
		return nil
	})
}

func (s *carritoService) Abrir(ctx context.Context, sesionID string) (*carrito.Carrito, error) {
	return s.modificar(ctx, sesionID, func(c *carrito.Carrito) error {
		c.Abierto = true
		return nil
	})
}

func (s *carritoService) Cerrar(ctx context.Context, sesionID string) (*carrito.Carrito, error) {
	return s.modificar(ctx, sesionID, func(c *carrito.Carrito) error {
		c.Abierto = false
		return nil
	})
}

func (s *carritoService) modificar(ctx context.Context, sesionID string, fn func(*carrito.Carrito) error) (*carrito.Carrito, error) {
	c, err := s.store.Obtener(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Guardar(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// seleccionesLimpias drops blank and repeated names and empty groups.
func seleccionesLimpias(sel model.Selecciones) model.Selecciones {
	out := make(model.Selecciones, len(sel))
	for id, nombres := range sel {
		if keep := nombres.Distintos(); len(keep) > 0 {
			out[id] = keep
		}
	}
	return out
}

// describirSelecciones keys the selections by group title and builds the
// summary "Titulo: a, b | Otro: c", both in rule order.
func describirSelecciones(grupos []model.GrupoOpciones, sel model.Selecciones) (map[string][]string, string) {
	display := map[string][]string{}
	partes := make([]string, 0, len(sel))
	for _, g := range grupos {
		nombres, ok := sel[g.ID]
		if !ok {
			continue
		}
		display[g.Titulo] = append([]string(nil), nombres...)
		partes = append(partes, g.Titulo+": "+strings.Join(nombres, ", "))
	}
	return display, strings.Join(partes, " | ")
}
