package service

import (
	"context"
	"strings"
	"time"

	"carta/internal/auth"
	"carta/internal/model"
	"carta/internal/repository"
)

// AdminTokenService keeps the push token of each admin's browser. A newer
// registration overwrites the previous token.
type AdminTokenService interface {
	Registrar(ctx context.Context, actor auth.Actor, token, userAgent string) error
	Eliminar(ctx context.Context, actor auth.Actor) error
}

type adminTokenService struct {
	repo repository.AdminTokenRepository
}

func NewAdminTokenService(repo repository.AdminTokenRepository) AdminTokenService {
	return &adminTokenService{repo: repo}
}

func (s *adminTokenService) Registrar(ctx context.Context, actor auth.Actor, token, userAgent string) error {
	if !actor.EsAdmin() {
		return nuevoError(ErrProhibido, "solo los administradores reciben notificaciones push")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return campo("token", "Token vacío")
	}
	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	return s.repo.Upsert(ctx, &model.AdminToken{
		UsuarioID: actor.UsuarioID,
		Token:     token,
		UserAgent: userAgent,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *adminTokenService) Eliminar(ctx context.Context, actor auth.Actor) error {
	return s.repo.Delete(ctx, actor.UsuarioID)
}
