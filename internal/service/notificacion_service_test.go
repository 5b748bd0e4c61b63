package service_test

import (
	"context"
	"testing"

	"carta/internal/auth"
	"carta/internal/events"
	"carta/internal/model"
	"carta/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificaciones(t *testing.T) {
	repo := newStubNotificacionRepo()
	pub := &stubPublicador{}
	svc := service.NewNotificacionService(repo, pub)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n := &model.Notificacion{PedidoID: uuid.New(), Titulo: "Nuevo pedido"}
		require.NoError(t, repo.Create(ctx, nil, n))
		ids = append(ids, n.ID)
	}

	list, err := svc.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Data, 3)
	assert.Equal(t, int64(3), list.NoLeidas)

	require.NoError(t, svc.MarcarLeida(ctx, ids[0], true))
	n, _ := svc.ContarNoLeidas(ctx)
	assert.Equal(t, int64(2), n)

	require.NoError(t, svc.MarcarLeida(ctx, ids[0], false))
	n, _ = svc.ContarNoLeidas(ctx)
	assert.Equal(t, int64(3), n)

	marcadas, err := svc.MarcarTodasLeidas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marcadas)

	require.NoError(t, svc.Eliminar(ctx, ids[1]))
	assert.ErrorIs(t, svc.Eliminar(ctx, ids[1]), service.ErrNotificacionNoEncontrada)
	assert.ErrorIs(t, svc.MarcarLeida(ctx, ids[1], true), service.ErrNotificacionNoEncontrada)

	borradas, err := svc.EliminarTodas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), borradas)

	for _, c := range pub.colecciones() {
		assert.Equal(t, events.ColNotificaciones, c)
	}
	assert.Len(t, pub.colecciones(), 5)
}

func TestAdminTokens(t *testing.T) {
	repo := newStubTokenRepo()
	svc := service.NewAdminTokenService(repo)
	ctx := context.Background()
	admin := auth.Actor{UsuarioID: uuid.New(), Rol: model.RolAdmin}

	require.NoError(t, svc.Registrar(ctx, admin, "t1", "Firefox"))
	require.NoError(t, svc.Registrar(ctx, admin, "t2", "Chrome"))
	assert.Equal(t, "t2", repo.tokens[admin.UsuarioID].Token, "latest registration wins")

	err := svc.Registrar(ctx, auth.Actor{UsuarioID: uuid.New(), Rol: model.RolUsuario}, "t3", "")
	assert.ErrorIs(t, err, service.ErrProhibido)

	require.NoError(t, svc.Eliminar(ctx, admin))
	assert.Empty(t, repo.tokens)
}
