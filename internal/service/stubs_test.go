package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"carta/internal/carrito"
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	orden     []uuid.UUID
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: map[uuid.UUID]*model.Producto{}}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	r.orden = append(r.orden, p.ID)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, id := range r.orden {
		p, ok := r.productos[id]
		if !ok {
			continue
		}
		if f.SoloDisponibles && !p.Disponible {
			continue
		}
		if f.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(f.Nombre)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListAll(ctx context.Context) ([]model.Producto, error) {
	out, _, err := r.List(ctx, dto.ProductoFilter{})
	return out, err
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) SetDisponible(_ context.Context, id uuid.UUID, disponible bool) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Disponible = disponible
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.productos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) WithTx(*gorm.DB) repository.ProductoRepository { return r }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubGrupoRepo is an in-memory GrupoOpcionesRepository.
type stubGrupoRepo struct {
	grupos map[uuid.UUID]*model.GrupoOpciones
	fail   error
}

func newStubGrupoRepo(gs ...model.GrupoOpciones) *stubGrupoRepo {
	r := &stubGrupoRepo{grupos: map[uuid.UUID]*model.GrupoOpciones{}}
	for i := range gs {
		g := gs[i]
		r.grupos[g.ID] = &g
	}
	return r
}

func (r *stubGrupoRepo) Create(_ context.Context, g *model.GrupoOpciones) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	cp := *g
	r.grupos[g.ID] = &cp
	return nil
}

func (r *stubGrupoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GrupoOpciones, error) {
	g, ok := r.grupos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *stubGrupoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.GrupoOpciones, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	var out []model.GrupoOpciones
	for _, id := range ids {
		if g, ok := r.grupos[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGrupoRepo) List(_ context.Context) ([]model.GrupoOpciones, error) {
	var out []model.GrupoOpciones
	for _, g := range r.grupos {
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubGrupoRepo) Update(_ context.Context, g *model.GrupoOpciones) error {
	if _, ok := r.grupos[g.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *g
	r.grupos[g.ID] = &cp
	return nil
}

func (r *stubGrupoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.grupos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.grupos, id)
	return nil
}

func (r *stubGrupoRepo) DB() *gorm.DB { return nil }

func (r *stubGrupoRepo) WithTx(*gorm.DB) repository.GrupoOpcionesRepository { return r }

var _ repository.GrupoOpcionesRepository = (*stubGrupoRepo)(nil)

// stubCategoriaRepo is an in-memory CategoriaRepository.
type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: map[uuid.UUID]*model.Categoria{}}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context, soloActivas bool) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		if soloActivas && !c.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if strings.EqualFold(c.Nombre, nombre) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categorias[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.categorias, id)
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// stubPedidoRepo is an in-memory PedidoRepository; DB() is nil so runTx
// calls through without a transaction.
type stubPedidoRepo struct {
	pedidos   map[uuid.UUID]*model.Pedido
	seq       int64
	createErr error
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: map[uuid.UUID]*model.Pedido{}}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.CreatedAt = time.Now().UTC()
	cp := *p
	r.pedidos[p.ID] = &cp
	return nil
}

func (r *stubPedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPedidoRepo) List(_ context.Context, f dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if f.Estado != "" && p.Estado != f.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) ListRecientes(ctx context.Context, _ int) ([]model.Pedido, error) {
	out, _, err := r.List(ctx, dto.PedidoFilter{})
	return out, err
}

func (r *stubPedidoRepo) ListByTelefono(_ context.Context, tel string) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.ClienteTelefono == tel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) MarcarCompletado(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	p, ok := r.pedidos[id]
	if !ok || p.Estado != model.EstadoPendiente {
		return false, nil
	}
	p.Estado = model.EstadoCompletado
	p.CompletadoAt = &at
	return true, nil
}

func (r *stubPedidoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.pedidos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// stubNotificacionRepo is an in-memory NotificacionRepository.
type stubNotificacionRepo struct {
	notifs    map[uuid.UUID]*model.Notificacion
	createErr error
}

func newStubNotificacionRepo() *stubNotificacionRepo {
	return &stubNotificacionRepo{notifs: map[uuid.UUID]*model.Notificacion{}}
}

func (r *stubNotificacionRepo) Create(_ context.Context, _ *gorm.DB, n *model.Notificacion) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	cp := *n
	r.notifs[n.ID] = &cp
	return nil
}

func (r *stubNotificacionRepo) List(_ context.Context, limit int) ([]model.Notificacion, error) {
	var out []model.Notificacion
	for _, n := range r.notifs {
		if len(out) == limit {
			break
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *stubNotificacionRepo) CountNoLeidas(_ context.Context) (int64, error) {
	var n int64
	for _, x := range r.notifs {
		if !x.Leida {
			n++
		}
	}
	return n, nil
}

func (r *stubNotificacionRepo) SetLeida(_ context.Context, id uuid.UUID, leida bool) error {
	n, ok := r.notifs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Leida = leida
	return nil
}

func (r *stubNotificacionRepo) MarcarTodasLeidas(_ context.Context) (int64, error) {
	var c int64
	for _, n := range r.notifs {
		if !n.Leida {
			n.Leida = true
			c++
		}
	}
	return c, nil
}

func (r *stubNotificacionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.notifs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.notifs, id)
	return nil
}

func (r *stubNotificacionRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.notifs))
	r.notifs = map[uuid.UUID]*model.Notificacion{}
	return n, nil
}

var _ repository.NotificacionRepository = (*stubNotificacionRepo)(nil)

// stubUsuarioRepo is an in-memory UsuarioRepository.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo(us ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{usuarios: map[uuid.UUID]*model.Usuario{}}
	for _, u := range us {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.usuarios[u.ID] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAdmins(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Rol == model.RolAdmin && u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) CountAdmins(ctx context.Context) (int64, error) {
	admins, _ := r.ListAdmins(ctx)
	return int64(len(admins)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubTokenRepo is an in-memory AdminTokenRepository.
type stubTokenRepo struct {
	tokens map[uuid.UUID]model.AdminToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[uuid.UUID]model.AdminToken{}}
}

func (r *stubTokenRepo) Upsert(_ context.Context, t *model.AdminToken) error {
	r.tokens[t.UsuarioID] = *t
	return nil
}

func (r *stubTokenRepo) FindByUsuarioIDs(_ context.Context, ids []uuid.UUID) ([]model.AdminToken, error) {
	var out []model.AdminToken
	for _, id := range ids {
		if t, ok := r.tokens[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tokens, id)
	return nil
}

func (r *stubTokenRepo) DeleteByTokens(_ context.Context, tokens []string) error {
	for id, t := range r.tokens {
		for _, tok := range tokens {
			if t.Token == tok {
				delete(r.tokens, id)
			}
		}
	}
	return nil
}

var _ repository.AdminTokenRepository = (*stubTokenRepo)(nil)

// stubConfigRepo holds the WhatsApp singleton.
type stubConfigRepo struct {
	cfg *model.ConfigWhatsApp
}

func (r *stubConfigRepo) GetWhatsApp(_ context.Context) (*model.ConfigWhatsApp, error) {
	return r.cfg, nil
}

func (r *stubConfigRepo) SaveWhatsApp(_ context.Context, c *model.ConfigWhatsApp) error {
	cp := *c
	r.cfg = &cp
	return nil
}

var _ repository.ConfigRepository = (*stubConfigRepo)(nil)

// stubCarritoStore keeps carts in memory, round-tripping copies like the
// Redis store does.
type stubCarritoStore struct {
	carritos map[string]carrito.Carrito
}

func newStubCarritoStore() *stubCarritoStore {
	return &stubCarritoStore{carritos: map[string]carrito.Carrito{}}
}

func (s *stubCarritoStore) Obtener(_ context.Context, sesionID string) (*carrito.Carrito, error) {
	c, ok := s.carritos[sesionID]
	if !ok {
		return carrito.Nuevo(sesionID), nil
	}
	c.Items = append([]carrito.Item{}, c.Items...)
	return &c, nil
}

func (s *stubCarritoStore) Guardar(_ context.Context, c *carrito.Carrito) error {
	c.Recalcular()
	cp := *c
	cp.Items = append([]carrito.Item{}, c.Items...)
	s.carritos[c.SesionID] = cp
	return nil
}

func (s *stubCarritoStore) Eliminar(_ context.Context, sesionID string) error {
	delete(s.carritos, sesionID)
	return nil
}

var _ carrito.Store = (*stubCarritoStore)(nil)

// stubPublicador records published collections.
type stubPublicador struct {
	mu         sync.Mutex
	publicadas []string
}

func (p *stubPublicador) Publicar(_ context.Context, col string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publicadas = append(p.publicadas, col)
}

func (p *stubPublicador) colecciones() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.publicadas...)
}

// stubIdempotencia is an in-memory key reservation.
type stubIdempotencia struct {
	claves map[string]bool
}

func (s *stubIdempotencia) Reservar(_ context.Context, clave string) (bool, error) {
	if s.claves[clave] {
		return false, nil
	}
	s.claves[clave] = true
	return true, nil
}

func (s *stubIdempotencia) Liberar(_ context.Context, clave string) error {
	delete(s.claves, clave)
	return nil
}

var errDB = errors.New("db caída")
