package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/model"
	"carta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// Detalle returns the product with its linked groups, in rule order.
	Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoDetalleResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	grupos     repository.GrupoOpcionesRepository
	categorias repository.CategoriaRepository
	pub        Publicador
}

func NewProductoService(
	repo repository.ProductoRepository,
	grupos repository.GrupoOpcionesRepository,
	categorias repository.CategoriaRepository,
	pub Publicador,
) ProductoService {
	return &productoService{repo: repo, grupos: grupos, categorias: categorias, pub: pub}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	disponible := true
	if req.Disponible != nil {
		disponible = *req.Disponible
	}
	p := &model.Producto{
		Nombre:          strings.TrimSpace(req.Nombre),
		Descripcion:     req.Descripcion,
		Precio:          req.Precio,
		EnPromocion:     req.EnPromocion,
		PrecioPromocion: req.PrecioPromocion,
		Disponible:      disponible,
		ImagenURL:       req.ImagenURL,
		CategoriaID:     req.CategoriaID,
	}
	if err := s.validar(ctx, p, req.OpcionesVinculadas); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	publicar(s.pub, ctx, events.ColProductos)
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoDetalleResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	grupos, err := gruposVinculados(ctx, s.grupos, p)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoDetalleResponse{ProductoResponse: mapProducto(p), Grupos: make([]dto.GrupoOpcionesResponse, 0, len(grupos))}
	for i := range grupos {
		resp.Grupos = append(resp.Grupos, mapGrupo(&grupos[i]))
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, mapProducto(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.EnPromocion != nil {
		p.EnPromocion = *req.EnPromocion
	}
	if req.PrecioPromocion != nil {
		p.PrecioPromocion = req.PrecioPromocion
	}
	if req.Disponible != nil {
		p.Disponible = *req.Disponible
	}
	if req.ImagenURL != nil {
		p.ImagenURL = *req.ImagenURL
	}
	if req.CategoriaID != nil {
		p.CategoriaID = req.CategoriaID
	}

	vinculos := vinculosActuales(p)
	if req.OpcionesVinculadas != nil {
		vinculos = *req.OpcionesVinculadas
	}
	if err := s.validar(ctx, p, vinculos); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	publicar(s.pub, ctx, events.ColProductos)
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) CambiarDisponibilidad(ctx context.Context, id uuid.UUID, disponible bool) error {
	if err := s.repo.SetDisponible(ctx, id, disponible); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		return err
	}
	publicar(s.pub, ctx, events.ColProductos)
	return nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		return err
	}
	publicar(s.pub, ctx, events.ColProductos)
	return nil
}

// validar checks the promotion price, the category and every linked option,
// then stores the validated links on p.
func (s *productoService) validar(ctx context.Context, p *model.Producto, vinculos []dto.OpcionVinculadaRequest) error {
	campos := map[string]string{}

	if !p.Precio.GreaterThan(decimal.Zero) {
		campos["precio"] = "El precio debe ser mayor a cero"
	}
	if p.EnPromocion && (p.PrecioPromocion == nil || !p.PrecioPromocion.GreaterThan(decimal.Zero)) {
		campos["precio_promocion"] = "Un producto en promoción necesita precio de promoción"
	}
	if p.CategoriaID != nil && s.categorias != nil {
		if _, err := s.categorias.ObtenerPorID(ctx, *p.CategoriaID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			campos["categoria_id"] = "Categoría inexistente"
		}
	}

	ids := make([]uuid.UUID, 0, len(vinculos))
	for _, v := range vinculos {
		ids = append(ids, v.GrupoID)
	}
	grupos, err := s.grupos.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	porID := make(map[uuid.UUID]*model.GrupoOpciones, len(grupos))
	for i := range grupos {
		porID[grupos[i].ID] = &grupos[i]
	}

	out := make([]model.OpcionVinculada, 0, len(vinculos))
	vistos := map[uuid.UUID]bool{}
	for _, v := range vinculos {
		key := "opciones_vinculadas." + v.GrupoID.String()
		g, ok := porID[v.GrupoID]
		switch {
		case !ok:
			campos[key] = "Grupo de opciones inexistente"
			continue
		case vistos[v.GrupoID]:
			campos[key] = "Grupo vinculado más de una vez"
			continue
		}
		vistos[v.GrupoID] = true

		incl := make([]string, 0, len(v.IncluidasSinCargo))
		for _, nombre := range v.IncluidasSinCargo {
			if _, ok := g.BuscarSubOpcion(nombre); !ok {
				campos[key] = "\"" + nombre + "\" no existe en " + g.Titulo
				break
			}
			incl = append(incl, nombre)
		}
		out = append(out, model.OpcionVinculada{GrupoID: v.GrupoID, IncluidasSinCargo: incl})
	}

	if len(campos) > 0 {
		return validacion("Error de validación", campos)
	}
	p.OpcionesVinculadas = out
	return nil
}

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return p, nil
}

func vinculosActuales(p *model.Producto) []dto.OpcionVinculadaRequest {
	out := make([]dto.OpcionVinculadaRequest, 0, len(p.OpcionesVinculadas))
	for _, o := range p.OpcionesVinculadas {
		out = append(out, dto.OpcionVinculadaRequest{GrupoID: o.GrupoID, IncluidasSinCargo: o.IncluidasSinCargo})
	}
	return out
}

// gruposVinculados loads the groups p links, in the product's rule order.
// Groups that no longer exist are skipped.
func gruposVinculados(ctx context.Context, repo repository.GrupoOpcionesRepository, p *model.Producto) ([]model.GrupoOpciones, error) {
	ids := p.GruposVinculados()
	if len(ids) == 0 {
		return nil, nil
	}
	grupos, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]model.GrupoOpciones, len(grupos))
	for _, g := range grupos {
		porID[g.ID] = g
	}
	out := make([]model.GrupoOpciones, 0, len(grupos))
	for _, id := range ids {
		if g, ok := porID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}
