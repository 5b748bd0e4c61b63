package service

import (
	"context"
	"errors"
	"strings"

	"carta/internal/auth"
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UsuarioService interface {
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	Perfil(ctx context.Context, actor auth.Actor) (*dto.UsuarioResponse, error)
	ActualizarPerfil(ctx context.Context, actor auth.Actor, req dto.ActualizarPerfilRequest) (*dto.UsuarioResponse, error)
	// CambiarRol switches id between admin and user. Demotion never leaves
	// the store without an admin and an admin cannot demote themself.
	CambiarRol(ctx context.Context, actor auth.Actor, id uuid.UUID, rol string) (*dto.UsuarioResponse, error)
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, mapUsuario(&users[i]))
	}
	return out, nil
}

func (s *usuarioService) Perfil(ctx context.Context, actor auth.Actor) (*dto.UsuarioResponse, error) {
	u, err := s.buscar(ctx, actor.UsuarioID)
	if err != nil {
		return nil, err
	}
	resp := mapUsuario(u)
	return &resp, nil
}

func (s *usuarioService) ActualizarPerfil(ctx context.Context, actor auth.Actor, req dto.ActualizarPerfilRequest) (*dto.UsuarioResponse, error) {
	u, err := s.buscar(ctx, actor.UsuarioID)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		u.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Telefono != nil {
		u.Telefono = strings.TrimSpace(*req.Telefono)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := mapUsuario(u)
	return &resp, nil
}

// CambiarRol reads the admin count at decision time. Two admins demoting
// each other concurrently can both pass the count check; that race is
// accepted.
func (s *usuarioService) CambiarRol(ctx context.Context, actor auth.Actor, id uuid.UUID, rol string) (*dto.UsuarioResponse, error) {
	if rol != model.RolAdmin && rol != model.RolUsuario {
		return nil, campo("rol", "Rol inválido")
	}
	u, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Rol == rol {
		resp := mapUsuario(u)
		return &resp, nil
	}

	if u.EsAdmin() && rol == model.RolUsuario {
		if u.Activo {
			n, err := s.repo.CountAdmins(ctx)
			if err != nil {
				return nil, err
			}
			if n <= 1 {
				return nil, ErrUltimoAdmin
			}
		}
		if u.ID == actor.UsuarioID {
			return nil, ErrAutoDegradacion
		}
	}

	u.Rol = rol
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	log.Info().
		Str("usuario_id", u.ID.String()).
		Str("rol", rol).
		Str("actor", actor.UsuarioID.String()).
		Msg("usuario: rol actualizado")
	resp := mapUsuario(u)
	return &resp, nil
}

func (s *usuarioService) buscar(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNoEncontrado
		}
		return nil, err
	}
	return u, nil
}
