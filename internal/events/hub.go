// Package events fans out full-collection snapshots to live subscribers.
//
// Writers call Publicar after a committed change; the hub reloads the whole
// collection once and hands the fresh snapshot to every subscriber of that
// collection. Consumers replace their view with each snapshot. A subscriber
// that has not read the previous snapshot yet gets it replaced by the newer
// one, so a slow consumer never blocks a writer.
//
// Loads of one collection are serialized with their delivery: a snapshot is
// never delivered after one that was loaded later.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Collections.
const (
	ColPedidos        = "pedidos"
	ColNotificaciones = "notificaciones"
	ColCategorias     = "categorias"
	ColProductos      = "productos"
	ColGruposOpciones = "grupos_opciones"
)

var ErrColeccionDesconocida = errors.New("colección desconocida")

// Snapshot is the full current content of one collection.
type Snapshot struct {
	Coleccion string `json:"coleccion"`
	Datos     any    `json:"datos"`
}

// Loader reads a whole collection.
type Loader func(ctx context.Context) (any, error)

type Hub struct {
	mu      sync.Mutex
	loaders map[string]Loader
	subs    map[string]map[*Suscripcion]struct{}
	// one per collection, held across load and delivery
	turnos map[string]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		loaders: map[string]Loader{},
		subs:    map[string]map[*Suscripcion]struct{}{},
		turnos:  map[string]*sync.Mutex{},
	}
}

// turno returns the load lock of coleccion. Callers hold h.mu.
func (h *Hub) turno(coleccion string) *sync.Mutex {
	t, ok := h.turnos[coleccion]
	if !ok {
		t = &sync.Mutex{}
		h.turnos[coleccion] = t
	}
	return t
}

// Registrar sets the loader of a collection.
func (h *Hub) Registrar(coleccion string, l Loader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaders[coleccion] = l
}

// Suscripcion delivers snapshots of one collection until Cerrar is called.
type Suscripcion struct {
	hub       *Hub
	coleccion string
	c         chan Snapshot
	once      sync.Once
}

// C is closed by Cerrar.
func (s *Suscripcion) C() <-chan Snapshot { return s.c }

func (s *Suscripcion) Coleccion() string { return s.coleccion }

// Cerrar unsubscribes and closes C. Safe to call more than once.
func (s *Suscripcion) Cerrar() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		delete(h.subs[s.coleccion], s)
		close(s.c)
		h.mu.Unlock()
	})
}

// Suscribir opens a subscription. The current snapshot is loaded and queued
// immediately so the subscriber starts with a complete view. The subscription
// is registered before that load, so no publish in between is lost.
func (h *Hub) Suscribir(ctx context.Context, coleccion string) (*Suscripcion, error) {
	h.mu.Lock()
	loader, ok := h.loaders[coleccion]
	if !ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrColeccionDesconocida, coleccion)
	}
	turno := h.turno(coleccion)
	h.mu.Unlock()

	turno.Lock()
	defer turno.Unlock()

	s := &Suscripcion{hub: h, coleccion: coleccion, c: make(chan Snapshot, 1)}
	h.mu.Lock()
	if h.subs[coleccion] == nil {
		h.subs[coleccion] = map[*Suscripcion]struct{}{}
	}
	h.subs[coleccion][s] = struct{}{}
	h.mu.Unlock()

	datos, err := loader(ctx)
	if err != nil {
		s.Cerrar()
		return nil, fmt.Errorf("events: load %s: %w", coleccion, err)
	}

	h.mu.Lock()
	entregar(s.c, Snapshot{Coleccion: coleccion, Datos: datos})
	h.mu.Unlock()
	return s, nil
}

// Suscriptores returns the number of open subscriptions of a collection.
func (h *Hub) Suscriptores(coleccion string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[coleccion])
}

// Publicar reloads coleccion and delivers the snapshot to every subscriber.
// Nothing is loaded when nobody listens. Load failures are logged; the
// subscribers keep their previous view.
func (h *Hub) Publicar(ctx context.Context, coleccion string) {
	h.mu.Lock()
	loader, ok := h.loaders[coleccion]
	if !ok {
		h.mu.Unlock()
		return
	}
	turno := h.turno(coleccion)
	h.mu.Unlock()

	turno.Lock()
	defer turno.Unlock()

	if h.Suscriptores(coleccion) == 0 {
		return
	}
	datos, err := loader(ctx)
	if err != nil {
		log.Warn().Err(err).Str("coleccion", coleccion).Msg("events: reload failed")
		return
	}
	snap := Snapshot{Coleccion: coleccion, Datos: datos}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[coleccion] {
		entregar(s.c, snap)
	}
}

// entregar replaces a pending snapshot instead of blocking. Callers hold
// h.mu, which makes the hub the only sender.
func entregar(c chan Snapshot, snap Snapshot) {
	select {
	case c <- snap:
		return
	default:
	}
	select {
	case <-c:
	default:
	}
	select {
	case c <- snap:
	default:
	}
}
