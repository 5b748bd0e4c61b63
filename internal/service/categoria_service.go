package service

import (
	"context"
	"errors"
	"strings"

	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/model"
	"carta/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for menu categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
	pub  Publicador
}

func NewCategoriaService(repo repository.CategoriaRepository, pub Publicador) CategoriaService {
	return &categoriaService{repo: repo, pub: pub}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if err := s.nombreLibre(ctx, nombre, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}

	c := &model.Categoria{
		Nombre:      nombre,
		Descripcion: req.Descripcion,
		Orden:       req.Orden,
		Activo:      true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	publicar(s.pub, ctx, events.ColCategorias)
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, ErrCategoriaNoEncontrada
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		// Check uniqueness if name is changing
		if !strings.EqualFold(nombre, c.Nombre) {
			if err := s.nombreLibre(ctx, nombre, id); err != nil {
				return dto.CategoriaResponse{}, err
			}
		}
		c.Nombre = nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Orden != nil {
		c.Orden = *req.Orden
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	publicar(s.pub, ctx, events.ColCategorias)
	return mapCategoria(*c), nil
}

// Eliminar deletes the category; its products stay, uncategorized.
func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoriaNoEncontrada
		}
		return err
	}
	publicar(s.pub, ctx, events.ColCategorias, events.ColProductos)
	return nil
}

func (s *categoriaService) nombreLibre(ctx context.Context, nombre string, propio uuid.UUID) error {
	existing, err := s.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != propio {
		return ErrCategoriaDuplicada
	}
	return nil
}
