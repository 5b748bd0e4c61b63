package notify

import (
	"context"
	"strconv"

	"carta/internal/worker"
)

type pushEnqueuer interface {
	EnqueuePush(ctx context.Context, payload worker.PushJobPayload) error
}

// PushSink enqueues one push job with every resolved admin token. Admins
// without a token are skipped; with no tokens at all nothing is sent.
type PushSink struct {
	q pushEnqueuer
}

func NewPushSink(q pushEnqueuer) *PushSink { return &PushSink{q: q} }

func (s *PushSink) Nombre() string { return "push" }

func (s *PushSink) Enviar(ctx context.Context, ev Evento) error {
	var tokens []string
	seen := map[string]bool{}
	for _, d := range ev.Destinatarios {
		if d.Token == "" || seen[d.Token] {
			continue
		}
		seen[d.Token] = true
		tokens = append(tokens, d.Token)
	}
	if len(tokens) == 0 {
		return nil
	}

	return s.q.EnqueuePush(ctx, worker.PushJobPayload{
		Tokens: tokens,
		Titulo: ev.Notificacion.Titulo,
		Cuerpo: ev.Notificacion.Cuerpo,
		Datos: map[string]string{
			"pedido_id": ev.Pedido.ID.String(),
			"numero":    strconv.FormatInt(ev.Pedido.Numero, 10),
			"url":       "/admin/pedidos",
		},
	})
}
