package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"carta/internal/auth"
	"carta/internal/config"
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost of every stored password hash.
const BcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Registrar creates a storefront account with role user.
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil || !user.Activo {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.emitir(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := auth.Parsear(s.cfg.JWTSecret, refreshToken, auth.TipoRefresh)
	if err != nil {
		return nil, ErrCredenciales
	}
	actor, err := claims.Actor()
	if err != nil {
		return nil, ErrCredenciales
	}
	user, err := s.repo.FindByID(ctx, actor.UsuarioID)
	if err != nil || !user.Activo {
		return nil, ErrCredenciales
	}
	// role changes take effect on the next refresh
	return s.emitir(user)
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistrado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:        email,
		Nombre:       strings.TrimSpace(req.Nombre),
		Telefono:     strings.TrimSpace(req.Telefono),
		PasswordHash: hash,
		Rol:          model.RolUsuario,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	access, err := auth.Firmar(s.cfg.JWTSecret, user, auth.TipoAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.Firmar(s.cfg.JWTSecret, user, auth.TipoRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapUsuario(user),
	}, nil
}

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
