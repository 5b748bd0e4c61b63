package infra

import (
	"fmt"
	"net/smtp"

	"carta/internal/config"

	"github.com/jordan-wright/email"
)

// Mensaje is an outbound email. HTML is optional; Text is always sent.
type Mensaje struct {
	Para    []string
	Asunto  string
	Texto   string
	HTML    string
	Adjunto string // file path, optional
}

// Mailer sends email over SMTP. Sends go through a circuit breaker so a dead
// SMTP relay fails fast instead of tying up workers.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// Enviar delivers msg to every recipient in one SMTP transaction.
func (m *Mailer) Enviar(msg Mensaje) error {
	if !m.Configurado() {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	if len(msg.Para) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = msg.Para
	e.Subject = msg.Asunto
	e.Text = []byte(msg.Texto)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	if msg.Adjunto != "" {
		if _, err := e.AttachFile(msg.Adjunto); err != nil {
			return fmt.Errorf("mailer: attach file: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	send := func() error { return e.Send(m.addr, auth) }
	if m.cb == nil {
		return send()
	}
	return m.cb.Execute(send)
}
