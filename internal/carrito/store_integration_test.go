//go:build integration

package carrito

import (
	"context"
	"testing"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	ctr, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	store := NewRedisStore(rdb)

	c, err := store.Obtener(ctx, "nueva")
	require.NoError(t, err)
	assert.True(t, c.Vacio())

	g := uuid.New()
	require.NoError(t, c.Agregar(item(uuid.New(), model.Selecciones{g: {"Grande"}}, 2, "3.50")))
	require.NoError(t, store.Guardar(ctx, c))

	ttl, err := rdb.TTL(ctx, keyPrefix+"nueva").Result()
	require.NoError(t, err)
	assert.InDelta(t, TTL.Seconds(), ttl.Seconds(), 5)

	got, err := store.Obtener(ctx, "nueva")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, model.Seleccion{"Grande"}, got.Items[0].SeleccionesRaw[g])
	assert.Equal(t, "7", got.Total.String())
	assert.True(t, got.Abierto)

	require.NoError(t, store.Eliminar(ctx, "nueva"))
	got, err = store.Obtener(ctx, "nueva")
	require.NoError(t, err)
	assert.True(t, got.Vacio())
}
