package worker

// Processes email jobs from QueueEmail: order summaries for admins, sent
// over SMTP.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carta/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	Para    []string `json:"para"`
	Asunto  string   `json:"asunto"`
	Texto   string   `json:"texto"`
	HTML    string   `json:"html,omitempty"`
	Adjunto string   `json:"adjunto,omitempty"`
}

type mailSender interface {
	Enviar(msg infra.Mensaje) error
}

// EmailWorker sends queued emails through the SMTP mailer.
type EmailWorker struct {
	mailer mailSender
}

func NewEmailWorker(mailer mailSender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if len(payload.Para) == 0 {
		log.Warn().Msg("email_worker: no recipients, skipping")
		return nil
	}

	err := w.mailer.Enviar(infra.Mensaje{
		Para:    payload.Para,
		Asunto:  payload.Asunto,
		Texto:   payload.Texto,
		HTML:    payload.HTML,
		Adjunto: payload.Adjunto,
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return fmt.Errorf("email_worker: smtp unavailable: %w", err)
		}
		return fmt.Errorf("email_worker: send: %w", err)
	}
	log.Info().Int("recipients", len(payload.Para)).Str("subject", payload.Asunto).Msg("email_worker: email sent")
	return nil
}
