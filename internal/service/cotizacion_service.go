package service

import (
	"context"
	"errors"

	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/pricing"
	"carta/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cotizacion is a priced snapshot of a configured product.
type Cotizacion struct {
	Producto  *model.Producto
	Grupos    []model.GrupoOpciones // rule order
	Cantidad  int
	Resultado pricing.Resultado
}

// CotizacionService loads a product with its linked groups and prices a
// selection against them.
type CotizacionService interface {
	Preparar(ctx context.Context, productoID uuid.UUID, sel model.Selecciones, cantidad int) (*Cotizacion, error)
	Cotizar(ctx context.Context, req dto.CotizarRequest) (*dto.CotizacionResponse, error)
}

type cotizacionService struct {
	productos repository.ProductoRepository
	grupos    repository.GrupoOpcionesRepository
}

func NewCotizacionService(productos repository.ProductoRepository, grupos repository.GrupoOpcionesRepository) CotizacionService {
	return &cotizacionService{productos: productos, grupos: grupos}
}

func (s *cotizacionService) Preparar(ctx context.Context, productoID uuid.UUID, sel model.Selecciones, cantidad int) (*Cotizacion, error) {
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	grupos, err := gruposVinculados(ctx, s.grupos, p)
	if err != nil {
		return nil, err
	}
	if cantidad < 1 {
		cantidad = 1
	}
	res := pricing.Calcular(pricing.Entrada{
		Producto:    p,
		Grupos:      grupos,
		Selecciones: sel,
		Cantidad:    cantidad,
	})
	return &Cotizacion{Producto: p, Grupos: grupos, Cantidad: cantidad, Resultado: res}, nil
}

func (s *cotizacionService) Cotizar(ctx context.Context, req dto.CotizarRequest) (*dto.CotizacionResponse, error) {
	c, err := s.Preparar(ctx, req.ProductoID, req.Selecciones, req.Cantidad)
	if err != nil {
		return nil, err
	}
	r := c.Resultado
	return &dto.CotizacionResponse{
		Base:           r.Base,
		Adicionales:    r.Adicionales,
		PrecioUnitario: r.PrecioUnitario,
		Cantidad:       c.Cantidad,
		Total:          r.Total,
		PuedeEnviar:    r.PuedeEnviar,
		Errores:        r.Errores,
		NoResueltas:    r.NoResueltas,
	}, nil
}
