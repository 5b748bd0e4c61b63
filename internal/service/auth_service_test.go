package service_test

import (
	"context"
	"testing"

	"carta/internal/auth"
	"carta/internal/config"
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1, JWTRefreshHours: 24}
}

func usuarioConClave(t *testing.T, email, clave, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(clave), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.Usuario{Email: email, Nombre: "Test", PasswordHash: string(hash), Rol: rol, Activo: true}
}

func TestLogin(t *testing.T) {
	u := usuarioConClave(t, "admin@carta.ec", "clave1234", model.RolAdmin)
	cfg := testConfig()
	svc := service.NewAuthService(newStubUsuarioRepo(u), cfg)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ADMIN@carta.ec", Password: "clave1234"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, u.ID, resp.User.ID)

	claims, err := auth.Parsear(cfg.JWTSecret, resp.AccessToken, auth.TipoAccess)
	require.NoError(t, err)
	assert.Equal(t, model.RolAdmin, claims.Rol)

	_, err = auth.Parsear(cfg.JWTSecret, resp.AccessToken, auth.TipoRefresh)
	assert.ErrorIs(t, err, auth.ErrTokenInvalido, "access token is not a refresh token")

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "admin@carta.ec", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nadie@carta.ec", Password: "clave1234"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestLogin_Inactivo(t *testing.T) {
	u := usuarioConClave(t, "baja@carta.ec", "clave1234", model.RolUsuario)
	u.Activo = false
	svc := service.NewAuthService(newStubUsuarioRepo(u), testConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "baja@carta.ec", Password: "clave1234"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh_TomaRolActual(t *testing.T) {
	u := usuarioConClave(t, "a@carta.ec", "clave1234", model.RolAdmin)
	repo := newStubUsuarioRepo(u)
	cfg := testConfig()
	svc := service.NewAuthService(repo, cfg)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "a@carta.ec", Password: "clave1234"})
	require.NoError(t, err)

	repo.usuarios[u.ID].Rol = model.RolUsuario
	resp, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, model.RolUsuario, resp.User.Rol)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRegistrar(t *testing.T) {
	existente := usuarioConClave(t, "ya@carta.ec", "clave1234", model.RolUsuario)
	repo := newStubUsuarioRepo(existente)
	svc := service.NewAuthService(repo, testConfig())
	ctx := context.Background()

	resp, err := svc.Registrar(ctx, dto.RegistroRequest{Email: " Nuevo@Carta.ec ", Nombre: "Nuevo", Password: "clave12345"})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@carta.ec", resp.Email)
	assert.Equal(t, model.RolUsuario, resp.Rol)

	stored, err := repo.FindByEmail(ctx, "nuevo@carta.ec")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave12345")))

	_, err = svc.Registrar(ctx, dto.RegistroRequest{Email: "YA@carta.ec", Nombre: "Otro", Password: "clave12345"})
	assert.ErrorIs(t, err, service.ErrEmailRegistrado)
}
