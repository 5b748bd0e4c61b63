package service

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"carta/internal/carrito"
	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/infra"
	"carta/internal/model"
	"carta/internal/notify"
	"carta/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PedidoService interface {
	// Checkout turns the session cart into an order. idemKey may be empty.
	Checkout(ctx context.Context, sesionID, idemKey string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Historial(ctx context.Context, telefono string) ([]dto.PedidoResponse, error)
	// Completar is idempotent: completing a completed order is a no-op.
	Completar(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	// Ticket renders the order ticket PDF and returns its path.
	Ticket(ctx context.Context, id uuid.UUID) (string, error)
}

// Idempotencia reserves checkout Idempotency-Key values.
type Idempotencia interface {
	Reservar(ctx context.Context, clave string) (bool, error)
	Liberar(ctx context.Context, clave string) error
}

var _ Idempotencia = (*infra.RedisIdempotency)(nil)

// PedidoDeps groups the collaborators of the order pipeline.
type PedidoDeps struct {
	Pedidos        repository.PedidoRepository
	Notificaciones repository.NotificacionRepository
	Usuarios       repository.UsuarioRepository
	Tokens         repository.AdminTokenRepository
	Carritos       carrito.Store
	Despachador    *notify.Despachador
	WhatsApp       WhatsAppService
	Idempotencia   Idempotencia // optional
	Pub            Publicador
	NombreLocal    string
	PDFPath        string
}

type pedidoService struct {
	PedidoDeps
}

func NewPedidoService(deps PedidoDeps) PedidoService {
	return &pedidoService{PedidoDeps: deps}
}

// ── Checkout ─────────────────────────────────────────────────────────────────
//   1. Validate customer data and the cart (no writes before this)
//   2. Reserve the Idempotency-Key, if any
//   3. BEGIN TX: next numero, insert pedido + items, insert notificacion
//   4. COMMIT, then empty the cart and publish snapshots
//   5. Resolve admin recipients and dispatch every sink (best effort)
//   6. Build the WhatsApp hand-off links

func (s *pedidoService) Checkout(ctx context.Context, sesionID, idemKey string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	req.ClienteNombre = strings.TrimSpace(req.ClienteNombre)
	req.ClienteTelefono = strings.TrimSpace(req.ClienteTelefono)

	campos := map[string]string{}
	if req.ClienteNombre == "" {
		campos["cliente_nombre"] = "El nombre es obligatorio"
	}
	if !TelefonoValido(req.ClienteTelefono) {
		campos["cliente_telefono"] = "El teléfono debe tener 10 dígitos y empezar con 09"
	}
	if !slices.Contains(model.MetodosPago, req.MetodoPago) {
		campos["metodo_pago"] = "Método de pago inválido"
	}
	if len(campos) > 0 {
		return nil, validacion("Error de validación", campos)
	}

	c, err := s.Carritos.Obtener(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if c.Vacio() {
		return nil, campo("carrito", "El carrito está vacío")
	}

	if idemKey != "" && s.Idempotencia != nil {
		ok, err := s.Idempotencia.Reservar(ctx, idemKey)
		if err != nil {
			log.Warn().Err(err).Msg("pedido: idempotency store unavailable")
		} else if !ok {
			return nil, ErrPedidoEnProceso
		}
	}

	p := pedidoDesdeCarrito(c, req)
	var notif *model.Notificacion
	err = runTx(ctx, s.Pedidos.DB(), func(tx *gorm.DB) error {
		num, err := s.Pedidos.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		p.Numero = num
		if err := s.Pedidos.Create(ctx, tx, p); err != nil {
			return err
		}
		notif = notify.NuevaNotificacion(p)
		return s.Notificaciones.Create(ctx, tx, notif)
	})
	if err != nil {
		log.Error().Err(err).Str("sesion", sesionID).Msg("pedido: commit failed")
		if idemKey != "" && s.Idempotencia != nil {
			if lerr := s.Idempotencia.Liberar(ctx, idemKey); lerr != nil {
				log.Warn().Err(lerr).Msg("pedido: release idempotency key")
			}
		}
		return nil, ErrPedidoNoRegistrado
	}
	log.Info().Str("pedido_id", p.ID.String()).Int64("numero", p.Numero).Str("total", p.Total.StringFixed(2)).Msg("pedido: registrado")

	if err := s.Carritos.Eliminar(ctx, sesionID); err != nil {
		log.Warn().Err(err).Str("sesion", sesionID).Msg("pedido: cart not cleared")
	}
	publicar(s.Pub, ctx, events.ColPedidos, events.ColNotificaciones)

	if s.Despachador != nil {
		s.Despachador.Despachar(ctx, notify.Evento{
			Pedido:        p,
			Notificacion:  notif,
			Destinatarios: s.destinatarios(ctx),
		})
	}

	resp := &dto.CheckoutResponse{Pedido: mapPedido(p)}
	if s.WhatsApp != nil {
		resp.WhatsAppOperador, resp.WhatsAppCliente = s.WhatsApp.Enlaces(ctx, p)
	}
	return resp, nil
}

func pedidoDesdeCarrito(c *carrito.Carrito, req dto.CheckoutRequest) *model.Pedido {
	p := &model.Pedido{
		ID:              uuid.New(),
		Total:           c.Total,
		ClienteNombre:   req.ClienteNombre,
		ClienteTelefono: req.ClienteTelefono,
		MetodoPago:      req.MetodoPago,
		Notas:           strings.TrimSpace(req.Notas),
		Estado:          model.EstadoPendiente,
		Items:           make([]model.PedidoItem, 0, len(c.Items)),
	}
	if req.ClienteEmail != nil && strings.TrimSpace(*req.ClienteEmail) != "" {
		email := strings.TrimSpace(*req.ClienteEmail)
		p.ClienteEmail = &email
	}
	for _, it := range c.Items {
		p.Items = append(p.Items, model.PedidoItem{
			PedidoID:       p.ID,
			ProductoID:     it.ProductoID,
			Nombre:         it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          it.Total,
			Opciones:       it.Opciones,
		})
	}
	return p
}

// destinatarios resolves the active admins and their push tokens. Lookup
// failures degrade to fewer recipients.
func (s *pedidoService) destinatarios(ctx context.Context) []notify.Destinatario {
	admins, err := s.Usuarios.ListAdmins(ctx)
	if err != nil {
		log.Error().Err(err).Msg("pedido: list admins")
		return nil
	}
	ids := make([]uuid.UUID, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	tokens := map[uuid.UUID]string{}
	if len(ids) > 0 && s.Tokens != nil {
		ts, err := s.Tokens.FindByUsuarioIDs(ctx, ids)
		if err != nil {
			log.Warn().Err(err).Msg("pedido: load admin tokens")
		}
		for _, t := range ts {
			tokens[t.UsuarioID] = t.Token
		}
	}
	out := make([]notify.Destinatario, 0, len(admins))
	for _, a := range admins {
		out = append(out, notify.Destinatario{
			UsuarioID: a.ID,
			Email:     a.Email,
			Nombre:    a.Nombre,
			Token:     tokens[a.ID],
		})
	}
	return out
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	pedidos, total, err := s.Pedidos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, mapPedido(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapPedido(p)
	return &resp, nil
}

func (s *pedidoService) Historial(ctx context.Context, telefono string) ([]dto.PedidoResponse, error) {
	telefono = strings.TrimSpace(telefono)
	if !TelefonoValido(telefono) {
		return nil, campo("telefono", "El teléfono debe tener 10 dígitos y empezar con 09")
	}
	pedidos, err := s.Pedidos.ListByTelefono(ctx, telefono)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, mapPedido(&pedidos[i]))
	}
	return out, nil
}

func (s *pedidoService) Completar(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	cambio, err := s.Pedidos.MarcarCompletado(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if cambio {
		publicar(s.Pub, ctx, events.ColPedidos)
	}
	resp := mapPedido(p)
	return &resp, nil
}

func (s *pedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.Pedidos.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPedidoNoEncontrado
		}
		return err
	}
	publicar(s.Pub, ctx, events.ColPedidos, events.ColNotificaciones)
	return nil
}

func (s *pedidoService) Ticket(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return "", err
	}
	return infra.GenerarTicketPedido(p, s.NombreLocal, s.PDFPath)
}

func (s *pedidoService) buscar(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, err := s.Pedidos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPedidoNoEncontrado
		}
		return nil, err
	}
	return p, nil
}
