package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"carta/internal/model"
	"carta/internal/worker"
)

type emailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

var resumenTmpl = template.Must(template.New("resumen").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>{{.Local}}: pedido #{{.Pedido.Numero}}</h2>
<p><strong>{{.Pedido.ClienteNombre}}</strong> ({{.Pedido.ClienteTelefono}}) · {{.Pedido.MetodoPago}}</p>
<table cellpadding="4" style="border-collapse:collapse">
{{range .Pedido.Items}}<tr><td>{{.Cantidad}}x</td><td>{{.Nombre}}{{if .Opciones}}<br><small>{{.Opciones}}</small>{{end}}</td><td align="right">${{.Total.StringFixed 2}}</td></tr>
{{end}}<tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>${{.Pedido.Total.StringFixed 2}}</strong></td></tr>
</table>
{{if .Pedido.Notas}}<p>Notas: {{.Pedido.Notas}}</p>{{end}}
</body></html>`))

// EmailSink enqueues one order summary email addressed to every admin that
// has an email.
type EmailSink struct {
	q     emailEnqueuer
	local string
}

func NewEmailSink(q emailEnqueuer, nombreLocal string) *EmailSink {
	return &EmailSink{q: q, local: nombreLocal}
}

func (s *EmailSink) Nombre() string { return "email" }

func (s *EmailSink) Enviar(ctx context.Context, ev Evento) error {
	var para []string
	for _, d := range ev.Destinatarios {
		if d.Email != "" {
			para = append(para, d.Email)
		}
	}
	if len(para) == 0 {
		return nil
	}

	html, err := RenderResumen(s.local, ev.Pedido)
	if err != nil {
		return err
	}
	return s.q.EnqueueEmail(ctx, worker.EmailJobPayload{
		Para:   para,
		Asunto: ev.Notificacion.Titulo,
		Texto:  ev.Notificacion.Cuerpo,
		HTML:   html,
	})
}

// RenderResumen renders the HTML order summary.
func RenderResumen(local string, p *model.Pedido) (string, error) {
	var buf bytes.Buffer
	err := resumenTmpl.Execute(&buf, struct {
		Local  string
		Pedido *model.Pedido
	}{local, p})
	if err != nil {
		return "", fmt.Errorf("email: render: %w", err)
	}
	return buf.String(), nil
}
