package worker

// Processes push jobs from QueuePush. Tokens the gateway reports as invalid
// are removed so the next order does not target them again.

import (
	"context"
	"encoding/json"
	"fmt"

	"carta/internal/infra"

	"github.com/rs/zerolog/log"
)

// PushJobPayload is the job envelope sent to QueuePush.
type PushJobPayload struct {
	Tokens []string          `json:"tokens"`
	Titulo string            `json:"titulo"`
	Cuerpo string            `json:"cuerpo"`
	Datos  map[string]string `json:"datos,omitempty"`
}

type pushSender interface {
	Enviar(ctx context.Context, msg infra.PushMensaje) (*infra.PushRespuesta, error)
}

// TokenCleaner deletes admin push tokens by value.
type TokenCleaner interface {
	DeleteByTokens(ctx context.Context, tokens []string) error
}

type PushWorker struct {
	client  pushSender
	cleaner TokenCleaner
}

func NewPushWorker(client pushSender, cleaner TokenCleaner) *PushWorker {
	return &PushWorker{client: client, cleaner: cleaner}
}

func (w *PushWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PushJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("push_worker: invalid payload: %w", err)
	}
	if len(payload.Tokens) == 0 {
		return nil
	}

	resp, err := w.client.Enviar(ctx, infra.PushMensaje{
		Tokens: payload.Tokens,
		Titulo: payload.Titulo,
		Cuerpo: payload.Cuerpo,
		Datos:  payload.Datos,
	})
	if err != nil {
		return fmt.Errorf("push_worker: send: %w", err)
	}

	log.Info().
		Int("sent", resp.Enviados).
		Int("failed", resp.Fallidos).
		Msg("push_worker: push delivered")

	if len(resp.Invalido) > 0 && w.cleaner != nil {
		if err := w.cleaner.DeleteByTokens(ctx, resp.Invalido); err != nil {
			log.Warn().Err(err).Int("tokens", len(resp.Invalido)).Msg("push_worker: could not prune invalid tokens")
		}
	}
	return nil
}
