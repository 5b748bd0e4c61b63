package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"carta/internal/auth"
	"carta/internal/carrito"
	"carta/internal/dto"
	"carta/internal/middleware"
	"carta/internal/model"
	"carta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ─── Mocks ───────────────────────────────────────────────────────────────────

type MockPedidoService struct{ mock.Mock }

func (m *MockPedidoService) Checkout(ctx context.Context, sesionID, idemKey string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	args := m.Called(ctx, sesionID, idemKey, req)
	resp, _ := args.Get(0).(*dto.CheckoutResponse)
	return resp, args.Error(1)
}
func (m *MockPedidoService) Listar(ctx context.Context, f dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	args := m.Called(ctx, f)
	resp, _ := args.Get(0).(*dto.PedidoListResponse)
	return resp, args.Error(1)
}
func (m *MockPedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.PedidoResponse)
	return resp, args.Error(1)
}
func (m *MockPedidoService) Historial(ctx context.Context, tel string) ([]dto.PedidoResponse, error) {
	args := m.Called(ctx, tel)
	resp, _ := args.Get(0).([]dto.PedidoResponse)
	return resp, args.Error(1)
}
func (m *MockPedidoService) Completar(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.PedidoResponse)
	return resp, args.Error(1)
}
func (m *MockPedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockPedidoService) Ticket(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockUsuarioService struct{ mock.Mock }

func (m *MockUsuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]dto.UsuarioResponse)
	return resp, args.Error(1)
}
func (m *MockUsuarioService) Perfil(ctx context.Context, a auth.Actor) (*dto.UsuarioResponse, error) {
	args := m.Called(ctx, a)
	resp, _ := args.Get(0).(*dto.UsuarioResponse)
	return resp, args.Error(1)
}
func (m *MockUsuarioService) ActualizarPerfil(ctx context.Context, a auth.Actor, req dto.ActualizarPerfilRequest) (*dto.UsuarioResponse, error) {
	args := m.Called(ctx, a, req)
	resp, _ := args.Get(0).(*dto.UsuarioResponse)
	return resp, args.Error(1)
}
func (m *MockUsuarioService) CambiarRol(ctx context.Context, a auth.Actor, id uuid.UUID, rol string) (*dto.UsuarioResponse, error) {
	args := m.Called(ctx, a, id, rol)
	resp, _ := args.Get(0).(*dto.UsuarioResponse)
	return resp, args.Error(1)
}

type MockCarritoService struct{ mock.Mock }

func (m *MockCarritoService) call(name string, args ...any) (*carrito.Carrito, error) {
	ret := m.MethodCalled(name, args...)
	c, _ := ret.Get(0).(*carrito.Carrito)
	return c, ret.Error(1)
}
func (m *MockCarritoService) Obtener(ctx context.Context, s string) (*carrito.Carrito, error) {
	return m.call("Obtener", s)
}
func (m *MockCarritoService) Agregar(ctx context.Context, s string, req dto.AgregarItemRequest) (*carrito.Carrito, error) {
	return m.call("Agregar", s, req)
}
func (m *MockCarritoService) Quitar(ctx context.Context, s string, id uuid.UUID) (*carrito.Carrito, error) {
	return m.call("Quitar", s, id)
}
func (m *MockCarritoService) Vaciar(ctx context.Context, s string) (*carrito.Carrito, error) {
	return m.call("Vaciar", s)
}
func (m *MockCarritoService) Abrir(ctx context.Context, s string) (*carrito.Carrito, error) {
	return m.call("Abrir", s)
}
func (m *MockCarritoService) Cerrar(ctx context.Context, s string) (*carrito.Carrito, error) {
	return m.call("Cerrar", s)
}

var (
	_ service.PedidoService  = (*MockPedidoService)(nil)
	_ service.UsuarioService = (*MockUsuarioService)(nil)
	_ service.CarritoService = (*MockCarritoService)(nil)
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

func comoActor(a auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(middleware.ActorKey, a) }
}

func hacer(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutValido() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		ClienteNombre:   "Ana Pérez",
		ClienteTelefono: "0991234567",
		MetodoPago:      "efectivo",
	}
}

func pedidosRouter(svc service.PedidoService) *gin.Engine {
	h := NewPedidosHandler(svc)
	r := gin.New()
	r.POST("/v1/checkout", h.Checkout)
	r.GET("/v1/pedidos/historial", h.Historial)
	r.GET("/v1/admin/pedidos", h.Listar)
	r.PATCH("/v1/admin/pedidos/:id/completar", h.Completar)
	r.DELETE("/v1/admin/pedidos/:id", h.Eliminar)
	return r
}

// ─── Checkout ────────────────────────────────────────────────────────────────

func TestCheckout_Created(t *testing.T) {
	svc := new(MockPedidoService)
	resp := &dto.CheckoutResponse{Pedido: dto.PedidoResponse{Numero: 7}, WhatsAppCliente: "https://wa.me/593991234567"}
	svc.On("Checkout", mock.Anything, "sesion-1", "idem-1", checkoutValido()).Return(resp, nil)

	w := hacer(pedidosRouter(svc), http.MethodPost, "/v1/checkout", checkoutValido(),
		map[string]string{"X-Session-ID": "sesion-1", "Idempotency-Key": "idem-1"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 7, got.Pedido.Numero)
	svc.AssertExpectations(t)
}

func TestCheckout_MissingSession(t *testing.T) {
	svc := new(MockPedidoService)
	w := hacer(pedidosRouter(svc), http.MethodPost, "/v1/checkout", checkoutValido(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_BadPaymentMethod(t *testing.T) {
	svc := new(MockPedidoService)
	req := checkoutValido()
	req.MetodoPago = "cheque"
	w := hacer(pedidosRouter(svc), http.MethodPost, "/v1/checkout", req, map[string]string{"X-Session-ID": "s"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "metodo_pago")
}

func TestCheckout_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		detail string
	}{
		"validacion": {
			err:    &service.ValidacionError{Msg: "Error de validación", Campos: map[string]string{"cliente_telefono": "Formato 09XXXXXXXX"}},
			status: http.StatusUnprocessableEntity,
			detail: "cliente_telefono",
		},
		"en proceso":     {err: service.ErrPedidoEnProceso, status: http.StatusConflict, detail: "procesando"},
		"no registrado":  {err: service.ErrPedidoNoRegistrado, status: http.StatusServiceUnavailable, detail: "intente nuevamente"},
		"error interno":  {err: errors.New("pq: connection refused"), status: http.StatusInternalServerError, detail: "Error interno"},
		"no encontrado":  {err: service.ErrProductoNoEncontrado, status: http.StatusNotFound, detail: "producto"},
		"no autorizado":  {err: service.ErrProhibido, status: http.StatusForbidden, detail: "no permitida"},
		"sin credencial": {err: service.ErrCredenciales, status: http.StatusUnauthorized, detail: "Credenciales"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := new(MockPedidoService)
			svc.On("Checkout", mock.Anything, "s", "", mock.Anything).Return(nil, tc.err)

			w := hacer(pedidosRouter(svc), http.MethodPost, "/v1/checkout", checkoutValido(), map[string]string{"X-Session-ID": "s"})

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.detail)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

// ─── Admin orders ────────────────────────────────────────────────────────────

func TestPedidos_Listar_BindsFilter(t *testing.T) {
	svc := new(MockPedidoService)
	svc.On("Listar", mock.Anything, dto.PedidoFilter{Estado: "pendiente", Page: 2, Limit: 20}).
		Return(&dto.PedidoListResponse{Page: 2, Limit: 20}, nil)

	w := hacer(pedidosRouter(svc), http.MethodGet, "/v1/admin/pedidos?estado=pendiente&page=2", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPedidos_Listar_InvalidEstado(t *testing.T) {
	w := hacer(pedidosRouter(new(MockPedidoService)), http.MethodGet, "/v1/admin/pedidos?estado=cancelado", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPedidos_Completar(t *testing.T) {
	id := uuid.New()
	svc := new(MockPedidoService)
	svc.On("Completar", mock.Anything, id).Return(&dto.PedidoResponse{ID: id, Estado: model.EstadoCompletado}, nil)

	w := hacer(pedidosRouter(svc), http.MethodPatch, "/v1/admin/pedidos/"+id.String()+"/completar", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.EstadoCompletado)
}

func TestPedidos_BadID(t *testing.T) {
	w := hacer(pedidosRouter(new(MockPedidoService)), http.MethodDelete, "/v1/admin/pedidos/no-es-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPedidos_Historial(t *testing.T) {
	svc := new(MockPedidoService)
	svc.On("Historial", mock.Anything, "0991234567").Return([]dto.PedidoResponse{{Numero: 1}, {Numero: 2}}, nil)

	w := hacer(pedidosRouter(svc), http.MethodGet, "/v1/pedidos/historial?telefono=0991234567", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.PedidoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

// ─── Role changes ────────────────────────────────────────────────────────────

func TestCambiarRol_PassesActor(t *testing.T) {
	actor := auth.Actor{UsuarioID: uuid.New(), Rol: model.RolAdmin}
	target := uuid.New()
	svc := new(MockUsuarioService)
	svc.On("CambiarRol", mock.Anything, actor, target, model.RolUsuario).
		Return(nil, service.ErrUltimoAdmin)

	h := NewUsuariosHandler(svc)
	r := gin.New()
	r.PATCH("/usuarios/:id/rol", comoActor(actor), h.CambiarRol)

	w := hacer(r, http.MethodPatch, "/usuarios/"+target.String()+"/rol", dto.CambiarRolRequest{Rol: model.RolUsuario}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "último administrador")
	svc.AssertExpectations(t)
}

func TestCambiarRol_InvalidRole(t *testing.T) {
	h := NewUsuariosHandler(new(MockUsuarioService))
	r := gin.New()
	r.PATCH("/usuarios/:id/rol", h.CambiarRol)

	w := hacer(r, http.MethodPatch, "/usuarios/"+uuid.NewString()+"/rol", map[string]string{"rol": "root"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ─── Cart ────────────────────────────────────────────────────────────────────

func TestCarrito_AgregarRejectsMissingOptions(t *testing.T) {
	grupo := uuid.New()
	svc := new(MockCarritoService)
	svc.On("Agregar", "s", mock.Anything).
		Return(nil, &service.ValidacionError{Msg: "Faltan opciones requeridas", Campos: map[string]string{grupo.String(): "Sabor es obligatorio"}})

	h := NewCarritoHandler(svc, nil)
	r := gin.New()
	r.POST("/carrito/items", h.Agregar)

	w := hacer(r, http.MethodPost, "/carrito/items", dto.AgregarItemRequest{ProductoID: uuid.New(), Cantidad: 1}, map[string]string{"X-Session-ID": "s"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), grupo.String())
}

func TestCarrito_Vaciar(t *testing.T) {
	svc := new(MockCarritoService)
	svc.On("Vaciar", "s").Return(&carrito.Carrito{SesionID: "s"}, nil)

	h := NewCarritoHandler(svc, nil)
	r := gin.New()
	r.DELETE("/carrito", h.Vaciar)

	w := hacer(r, http.MethodDelete, "/carrito", nil, map[string]string{"X-Session-ID": "s"})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

// ─── Misc ────────────────────────────────────────────────────────────────────

func TestParseColecciones(t *testing.T) {
	assert.Equal(t, []string{"pedidos", "notificaciones"}, parseColecciones(""))
	assert.Equal(t, []string{"productos", "categorias"}, parseColecciones("productos, categorias,productos,"))
}

func TestOrigenPermitido(t *testing.T) {
	check := origenPermitido([]string{"https://carta.ec"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://carta.ec")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}
