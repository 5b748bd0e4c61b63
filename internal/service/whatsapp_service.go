package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"carta/internal/auth"
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/repository"
)

// telefonoCliente is the accepted customer phone: 10 digits starting with 09.
var telefonoCliente = regexp.MustCompile(`^09\d{8}$`)

// TelefonoValido reports whether tel is a valid customer phone.
func TelefonoValido(tel string) bool { return telefonoCliente.MatchString(tel) }

type WhatsAppService interface {
	ObtenerConfig(ctx context.Context) (*dto.ConfigWhatsAppResponse, error)
	ActualizarConfig(ctx context.Context, actor auth.Actor, req dto.ConfigWhatsAppRequest) (*dto.ConfigWhatsAppResponse, error)
	// Enlaces builds the operator and customer deep links for p. The
	// operator link is empty when no phone is configured.
	Enlaces(ctx context.Context, p *model.Pedido) (operador, cliente string)
}

type whatsAppService struct {
	repo            repository.ConfigRepository
	telefonoDefecto string
	nombreLocal     string
}

func NewWhatsAppService(repo repository.ConfigRepository, telefonoDefecto, nombreLocal string) WhatsAppService {
	return &whatsAppService{repo: repo, telefonoDefecto: telefonoDefecto, nombreLocal: nombreLocal}
}

func (s *whatsAppService) ObtenerConfig(ctx context.Context) (*dto.ConfigWhatsAppResponse, error) {
	cfg, err := s.repo.GetWhatsApp(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &dto.ConfigWhatsAppResponse{Telefono: s.telefonoDefecto}, nil
	}
	return mapConfigWhatsApp(cfg), nil
}

func (s *whatsAppService) ActualizarConfig(ctx context.Context, actor auth.Actor, req dto.ConfigWhatsAppRequest) (*dto.ConfigWhatsAppResponse, error) {
	tel := soloDigitos(req.Telefono)
	if len(tel) < 9 || len(tel) > 15 {
		return nil, campo("telefono", "Número de WhatsApp inválido")
	}
	cfg := &model.ConfigWhatsApp{
		ID:        model.ConfigWhatsAppID,
		Telefono:  tel,
		UpdatedAt: time.Now().UTC(),
	}
	if actor.Autenticado() {
		id := actor.UsuarioID
		cfg.UpdatedBy = &id
	}
	if err := s.repo.SaveWhatsApp(ctx, cfg); err != nil {
		return nil, err
	}
	return mapConfigWhatsApp(cfg), nil
}

func (s *whatsAppService) Enlaces(ctx context.Context, p *model.Pedido) (string, string) {
	msg := MensajePedido(s.nombreLocal, p)

	operador := s.telefonoDefecto
	if cfg, err := s.repo.GetWhatsApp(ctx); err == nil && cfg != nil && cfg.Telefono != "" {
		operador = cfg.Telefono
	}
	var linkOperador string
	if operador != "" {
		linkOperador = Enlace(operador, msg)
	}
	return linkOperador, Enlace(p.ClienteTelefono, msg)
}

// MensajePedido renders the WhatsApp text of an order.
func MensajePedido(local string, p *model.Pedido) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Pedido #%d*", p.Numero)
	if local != "" {
		b.WriteString(" - " + local)
	}
	b.WriteString("\n\n")
	for _, it := range p.Items {
		fmt.Fprintf(&b, "%dx %s - $%s\n", it.Cantidad, it.Nombre, it.Total.StringFixed(2))
		if it.Opciones != "" {
			b.WriteString("   " + it.Opciones + "\n")
		}
	}
	fmt.Fprintf(&b, "\n*Total: $%s*\n\n", p.Total.StringFixed(2))
	b.WriteString("Cliente: " + p.ClienteNombre + "\n")
	b.WriteString("Teléfono: " + p.ClienteTelefono + "\n")
	if p.ClienteEmail != nil && *p.ClienteEmail != "" {
		b.WriteString("Email: " + *p.ClienteEmail + "\n")
	}
	b.WriteString("Pago: " + p.MetodoPago)
	if p.Notas != "" {
		b.WriteString("\nNotas: " + p.Notas)
	}
	return b.String()
}

// Enlace builds https://wa.me/<phone>?text=<msg>. A local number with a
// leading 0 gets the 593 country code.
func Enlace(telefono, msg string) string {
	tel := soloDigitos(telefono)
	if strings.HasPrefix(tel, "0") {
		tel = "593" + tel[1:]
	}
	texto := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + tel + "?text=" + texto
}

func soloDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mapConfigWhatsApp(c *model.ConfigWhatsApp) *dto.ConfigWhatsAppResponse {
	at := c.UpdatedAt
	return &dto.ConfigWhatsAppResponse{Telefono: c.Telefono, UpdatedBy: c.UpdatedBy, UpdatedAt: &at}
}
