package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"carta/internal/apierror"
	"carta/internal/events"
	"carta/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// mensajeStream is one frame sent to the admin panel.
type mensajeStream struct {
	Tipo      string        `json:"tipo"` // snapshot | aviso
	Coleccion string        `json:"coleccion,omitempty"`
	Datos     any           `json:"datos,omitempty"`
	Aviso     *notify.Aviso `json:"aviso,omitempty"`
}

type StreamHandler struct {
	hub      *events.Hub
	rdb      *redis.Client
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *events.Hub, rdb *redis.Client, origins []string) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		rdb: rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     origenPermitido(origins),
		},
	}
}

func origenPermitido(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		if o == "" || len(origins) == 0 {
			return true
		}
		for _, allowed := range origins {
			if allowed == "*" || allowed == o {
				return true
			}
		}
		return false
	}
}

// Stream godoc
// @Summary      Canal en vivo del panel
// @Description  WebSocket. Envía el contenido completo de cada colección pedida cada vez que cambia, más los avisos de pedidos nuevos.
// @Tags         admin
// @Security     BearerAuth
// @Param        colecciones query string false "Lista separada por comas (default: pedidos,notificaciones)"
// @Success      101
// @Failure      400 {object} apierror.APIError
// @Router       /v1/admin/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	cols := parseColecciones(c.Query("colecciones"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subs := make([]*events.Suscripcion, 0, len(cols))
	defer func() {
		for _, s := range subs {
			s.Cerrar()
		}
	}()
	for _, col := range cols {
		s, err := h.hub.Suscribir(c.Request.Context(), col)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Colección desconocida: "+col))
			return
		}
		subs = append(subs, s)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		log.Warn().Err(err).Msg("stream: upgrade failed")
		return
	}
	defer conn.Close()

	out := make(chan mensajeStream, 8)
	for _, s := range subs {
		go reenviar(ctx, s, out)
	}
	if h.rdb != nil {
		avisos, cerrar := notify.Escuchar(ctx, h.rdb)
		defer cerrar()
		go func() {
			for a := range avisos {
				select {
				case out <- mensajeStream{Tipo: "aviso", Aviso: &a}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// reader: only pongs and close frames are expected
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(m); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func reenviar(ctx context.Context, s *events.Suscripcion, out chan<- mensajeStream) {
	for snap := range s.C() {
		select {
		case out <- mensajeStream{Tipo: "snapshot", Coleccion: snap.Coleccion, Datos: snap.Datos}:
		case <-ctx.Done():
			return
		}
	}
}

func parseColecciones(q string) []string {
	if strings.TrimSpace(q) == "" {
		return []string{events.ColPedidos, events.ColNotificaciones}
	}
	seen := map[string]bool{}
	var out []string
	for _, col := range strings.Split(q, ",") {
		col = strings.TrimSpace(col)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}
