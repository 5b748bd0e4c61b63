package auth

import (
	"context"
	"testing"
	"time"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirmarYParsear(t *testing.T) {
	u := &model.Usuario{ID: uuid.New(), Email: "admin@carta.test", Rol: model.RolAdmin}

	tok, err := Firmar("secreto", u, TipoAccess, time.Hour)
	require.NoError(t, err)

	claims, err := Parsear("secreto", tok, TipoAccess)
	require.NoError(t, err)
	a, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, u.ID, a.UsuarioID)
	assert.True(t, a.EsAdmin())

	_, err = Parsear("otro", tok, TipoAccess)
	assert.ErrorIs(t, err, ErrTokenInvalido)
	_, err = Parsear("secreto", tok, TipoRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestParsear_Expired(t *testing.T) {
	u := &model.Usuario{ID: uuid.New(), Rol: model.RolUsuario}
	tok, err := Firmar("s", u, TipoRefresh, -time.Minute)
	require.NoError(t, err)
	_, err = Parsear("s", tok, TipoRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, Anonimo, FromContext(context.Background()))
	assert.False(t, Anonimo.Autenticado())

	a := Actor{UsuarioID: uuid.New(), Rol: model.RolUsuario}
	got := FromContext(WithActor(context.Background(), a))
	assert.Equal(t, a, got)
	assert.True(t, got.Autenticado())
	assert.False(t, got.EsAdmin())
}
