package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Canal is the Redis pub/sub channel relayed by every live admin stream.
const Canal = "carta:notificaciones"

// Aviso is the broadcast payload.
type Aviso struct {
	NotificacionID uuid.UUID       `json:"notificacion_id"`
	PedidoID       uuid.UUID       `json:"pedido_id"`
	Numero         int64           `json:"numero"`
	Titulo         string          `json:"titulo"`
	Cuerpo         string          `json:"cuerpo"`
	Total          decimal.Decimal `json:"total"`
	CantidadItems  int             `json:"cantidad_items"`
	CreatedAt      time.Time       `json:"created_at"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// BroadcastSink publishes every new notification on Canal. Every server
// instance relays it to its open admin connections.
type BroadcastSink struct {
	pub publisher
}

func NewBroadcastSink(pub publisher) *BroadcastSink { return &BroadcastSink{pub: pub} }

func (s *BroadcastSink) Nombre() string { return "broadcast" }

func (s *BroadcastSink) Enviar(ctx context.Context, ev Evento) error {
	n := ev.Notificacion
	data, err := json.Marshal(Aviso{
		NotificacionID: n.ID,
		PedidoID:       ev.Pedido.ID,
		Numero:         ev.Pedido.Numero,
		Titulo:         n.Titulo,
		Cuerpo:         n.Cuerpo,
		Total:          n.Total,
		CantidadItems:  n.CantidadItems,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("broadcast: marshal: %w", err)
	}
	if err := s.pub.Publish(ctx, Canal, data).Err(); err != nil {
		return fmt.Errorf("broadcast: publish: %w", err)
	}
	return nil
}

// Escuchar subscribes to Canal. The returned channel closes when ctx ends or
// cerrar is called.
func Escuchar(ctx context.Context, rdb *redis.Client) (<-chan Aviso, func()) {
	ps := rdb.Subscribe(ctx, Canal)
	out := make(chan Aviso, 8)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var a Aviso
			if err := json.Unmarshal([]byte(msg.Payload), &a); err != nil {
				log.Warn().Err(err).Msg("broadcast: bad payload")
				continue
			}
			select {
			case out <- a:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = ps.Close() }
}
