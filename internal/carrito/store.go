package carrito

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL of an idle cart.
const TTL = 30 * 24 * time.Hour

const keyPrefix = "carrito:"

// Store persists carts by session id.
type Store interface {
	// Obtener returns an empty cart when the session has none.
	Obtener(ctx context.Context, sesionID string) (*Carrito, error)
	Guardar(ctx context.Context, c *Carrito) error
	Eliminar(ctx context.Context, sesionID string) error
}

// RedisStore keeps each cart as one JSON document with a sliding TTL.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Obtener(ctx context.Context, sesionID string) (*Carrito, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sesionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Nuevo(sesionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("carrito: get: %w", err)
	}
	var c Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("carrito: decode: %w", err)
	}
	c.SesionID = sesionID
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.Recalcular()
	return &c, nil
}

func (s *RedisStore) Guardar(ctx context.Context, c *Carrito) error {
	c.Recalcular()
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("carrito: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+c.SesionID, data, TTL).Err(); err != nil {
		return fmt.Errorf("carrito: set: %w", err)
	}
	return nil
}

func (s *RedisStore) Eliminar(ctx context.Context, sesionID string) error {
	return s.rdb.Del(ctx, keyPrefix+sesionID).Err()
}
