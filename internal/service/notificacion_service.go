package service

import (
	"context"
	"errors"

	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LimiteNotificaciones caps the inbox listing.
const LimiteNotificaciones = 100

type NotificacionService interface {
	Listar(ctx context.Context) (*dto.NotificacionListResponse, error)
	ContarNoLeidas(ctx context.Context) (int64, error)
	MarcarLeida(ctx context.Context, id uuid.UUID, leida bool) error
	MarcarTodasLeidas(ctx context.Context) (int64, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	EliminarTodas(ctx context.Context) (int64, error)
}

type notificacionService struct {
	repo repository.NotificacionRepository
	pub  Publicador
}

func NewNotificacionService(repo repository.NotificacionRepository, pub Publicador) NotificacionService {
	return &notificacionService{repo: repo, pub: pub}
}

func (s *notificacionService) Listar(ctx context.Context) (*dto.NotificacionListResponse, error) {
	ns, err := s.repo.List(ctx, LimiteNotificaciones)
	if err != nil {
		return nil, err
	}
	noLeidas, err := s.repo.CountNoLeidas(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.NotificacionResponse, 0, len(ns))
	for i := range ns {
		data = append(data, mapNotificacion(&ns[i]))
	}
	return &dto.NotificacionListResponse{Data: data, NoLeidas: noLeidas}, nil
}

func (s *notificacionService) ContarNoLeidas(ctx context.Context) (int64, error) {
	return s.repo.CountNoLeidas(ctx)
}

func (s *notificacionService) MarcarLeida(ctx context.Context, id uuid.UUID, leida bool) error {
	if err := s.repo.SetLeida(ctx, id, leida); err != nil {
		return notificacionErr(err)
	}
	publicar(s.pub, ctx, events.ColNotificaciones)
	return nil
}

func (s *notificacionService) MarcarTodasLeidas(ctx context.Context) (int64, error) {
	n, err := s.repo.MarcarTodasLeidas(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		publicar(s.pub, ctx, events.ColNotificaciones)
	}
	return n, nil
}

func (s *notificacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notificacionErr(err)
	}
	publicar(s.pub, ctx, events.ColNotificaciones)
	return nil
}

func (s *notificacionService) EliminarTodas(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		publicar(s.pub, ctx, events.ColNotificaciones)
	}
	return n, nil
}

func notificacionErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificacionNoEncontrada
	}
	return err
}
