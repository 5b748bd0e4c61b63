// Package notify delivers new-order notifications to the back-office.
//
// The order and its Notificacion are already committed when Despachar runs.
// Every Sink is attempted independently; a failing sink is logged and never
// affects the others or the order.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Destinatario is an admin who should hear about a new order. Token is empty
// when the admin never registered a push token.
type Destinatario struct {
	UsuarioID uuid.UUID
	Email     string
	Nombre    string
	Token     string
}

// Evento is what every sink receives.
type Evento struct {
	Pedido        *model.Pedido
	Notificacion  *model.Notificacion
	Destinatarios []Destinatario
}

// Sink is one delivery channel.
type Sink interface {
	Nombre() string
	Enviar(ctx context.Context, ev Evento) error
}

type Despachador struct {
	sinks   []Sink
	timeout time.Duration
}

func NewDespachador(sinks ...Sink) *Despachador {
	return &Despachador{sinks: sinks, timeout: 10 * time.Second}
}

// Despachar runs every sink concurrently and waits for all of them. The
// returned map holds the error of each failed sink, keyed by sink name.
func (d *Despachador) Despachar(ctx context.Context, ev Evento) map[string]error {
	// sinks outlive the request that produced the order
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		fails = map[string]error{}
	)
	for _, s := range d.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			err := enviarSeguro(ctx, s, ev)
			if err == nil {
				return
			}
			log.Warn().Err(err).
				Str("sink", s.Nombre()).
				Str("pedido_id", ev.Pedido.ID.String()).
				Msg("notify: sink failed")
			mu.Lock()
			fails[s.Nombre()] = err
			mu.Unlock()
		}(s)
	}
	wg.Wait()
	return fails
}

func enviarSeguro(ctx context.Context, s Sink, ev Evento) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Enviar(ctx, ev)
}

// TituloPedido is the notification title of order n.
func TituloPedido(n int64) string { return fmt.Sprintf("Nuevo pedido #%d", n) }

// CuerpoPedido lists "<qty>x <name>" per line and the order total.
func CuerpoPedido(p *model.Pedido) string {
	var b strings.Builder
	for _, it := range p.Items {
		fmt.Fprintf(&b, "%dx %s\n", it.Cantidad, it.Nombre)
	}
	b.WriteString("Total: $" + p.Total.StringFixed(2))
	return b.String()
}

// NuevaNotificacion builds the unread inbox entry of p.
func NuevaNotificacion(p *model.Pedido) *model.Notificacion {
	return &model.Notificacion{
		PedidoID:      p.ID,
		Titulo:        TituloPedido(p.Numero),
		Cuerpo:        CuerpoPedido(p),
		Total:         p.Total,
		CantidadItems: p.CantidadItems(),
		Leida:         false,
	}
}
