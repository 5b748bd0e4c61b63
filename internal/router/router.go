package router

import (
	"context"

	"carta/internal/carrito"
	"carta/internal/config"
	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/handler"
	"carta/internal/infra"
	"carta/internal/middleware"
	"carta/internal/model"
	"carta/internal/notify"
	"carta/internal/repository"
	"carta/internal/service"
	"carta/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// Background job consumers are started by the caller; New only enqueues.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pushCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter("general", middleware.LimitGeneral, middleware.BurstGeneral))

	// ── Infrastructure ───────────────────────────────────────────────────────
	hub := events.NewHub()
	dispatcher := worker.NewDispatcher(rdb)
	storage := infra.NewStorage(cfg.StoragePath, cfg.PublicBaseURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	grupoRepo := repository.NewGrupoOpcionesRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)
	tokenRepo := repository.NewAdminTokenRepository(db)
	configRepo := repository.NewConfigRepository(db)
	carritos := carrito.NewRedisStore(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, hub)
	grupoSvc := service.NewGrupoOpcionesService(grupoRepo, productoRepo, hub)
	productoSvc := service.NewProductoService(productoRepo, grupoRepo, categoriaRepo, hub)
	cotizacionSvc := service.NewCotizacionService(productoRepo, grupoRepo)
	carritoSvc := service.NewCarritoService(carritos, cotizacionSvc)
	whatsappSvc := service.NewWhatsAppService(configRepo, cfg.WhatsAppDefaultPhone, cfg.NombreLocal)
	notificacionSvc := service.NewNotificacionService(notificacionRepo, hub)
	tokenSvc := service.NewAdminTokenService(tokenRepo)

	despachador := notify.NewDespachador(
		notify.NewBroadcastSink(rdb),
		notify.NewEmailSink(dispatcher, cfg.NombreLocal),
		notify.NewPushSink(dispatcher),
	)
	pedidoSvc := service.NewPedidoService(service.PedidoDeps{
		Pedidos:        pedidoRepo,
		Notificaciones: notificacionRepo,
		Usuarios:       usuarioRepo,
		Tokens:         tokenRepo,
		Carritos:       carritos,
		Despachador:    despachador,
		WhatsApp:       whatsappSvc,
		Idempotencia:   infra.NewRedisIdempotency(rdb, "carta:idem:checkout:"),
		Pub:            hub,
		NombreLocal:    cfg.NombreLocal,
		PDFPath:        cfg.PDFStoragePath,
	})

	registrarColecciones(hub, categoriaSvc, grupoSvc, productoSvc, pedidoSvc, notificacionSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	gruposH := handler.NewGruposHandler(grupoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc, cotizacionSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	notificacionesH := handler.NewNotificacionesHandler(notificacionSvc)
	adminH := handler.NewAdminHandler(tokenSvc, whatsappSvc, cfg)
	imagenesH := handler.NewImagenesHandler(storage)
	streamH := handler.NewStreamHandler(hub, rdb, cfg.Origins())

	strict := middleware.RateLimiter("strict", middleware.LimitStrict, middleware.BurstStrict)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, pushCB))
	r.GET("/sitemap.xml", handler.Sitemap(productoSvc, cfg.PublicBaseURL))
	r.Static("/media", storage.BasePath())

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", strict, authH.Login)
		auth.POST("/registro", strict, authH.Registro)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront: anonymous, cart keyed by X-Session-ID
	v1 := r.Group("/v1", middleware.OptionalAuth(cfg.JWTSecret))
	{
		v1.GET("/categorias", categoriasH.Listar(true))
		v1.GET("/productos", productosH.Listar(true))
		v1.GET("/productos/:id", productosH.Detalle)
		v1.POST("/cotizar", carritoH.Cotizar)
		v1.GET("/push/config", adminH.PushConfig)

		cart := v1.Group("/carrito")
		{
			cart.GET("", carritoH.Obtener)
			cart.POST("/items", carritoH.Agregar)
			cart.DELETE("/items/:itemId", carritoH.Quitar)
			cart.DELETE("", carritoH.Vaciar)
			cart.POST("/abrir", carritoH.Abrir)
			cart.POST("/cerrar", carritoH.Cerrar)
		}

		v1.POST("/checkout", strict, pedidosH.Checkout)
		v1.GET("/pedidos/historial", pedidosH.Historial)
	}

	me := r.Group("/v1/me", middleware.JWTAuth(cfg.JWTSecret))
	{
		me.GET("", usuariosH.Perfil)
		me.PUT("", usuariosH.ActualizarPerfil)
	}

	admin := r.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RolAdmin))
	{
		admin.GET("/stream", streamH.Stream)

		admin.GET("/categorias", categoriasH.Listar(false))
		admin.POST("/categorias", categoriasH.Crear)
		admin.PUT("/categorias/:id", categoriasH.Actualizar)
		admin.DELETE("/categorias/:id", categoriasH.Eliminar)

		admin.GET("/grupos", gruposH.Listar)
		admin.POST("/grupos", gruposH.Crear)
		admin.GET("/grupos/:id", gruposH.ObtenerPorID)
		admin.PUT("/grupos/:id", gruposH.Actualizar)
		admin.DELETE("/grupos/:id", gruposH.Eliminar)

		admin.GET("/productos", productosH.Listar(false))
		admin.POST("/productos", productosH.Crear)
		admin.PUT("/productos/:id", productosH.Actualizar)
		admin.PATCH("/productos/:id/disponibilidad", productosH.Disponibilidad)
		admin.DELETE("/productos/:id", productosH.Eliminar)
		admin.POST("/imagenes", imagenesH.Subir)

		admin.GET("/pedidos", pedidosH.Listar)
		admin.GET("/pedidos/:id", pedidosH.ObtenerPorID)
		admin.PATCH("/pedidos/:id/completar", pedidosH.Completar)
		admin.DELETE("/pedidos/:id", pedidosH.Eliminar)
		admin.GET("/pedidos/:id/ticket", pedidosH.Ticket)

		admin.GET("/notificaciones", notificacionesH.Listar)
		admin.GET("/notificaciones/no-leidas", notificacionesH.NoLeidas)
		admin.PATCH("/notificaciones/:id", notificacionesH.MarcarLeida)
		admin.POST("/notificaciones/leer-todas", notificacionesH.MarcarTodasLeidas)
		admin.DELETE("/notificaciones/:id", notificacionesH.Eliminar)
		admin.DELETE("/notificaciones", notificacionesH.EliminarTodas)

		admin.GET("/usuarios", usuariosH.Listar)
		admin.PATCH("/usuarios/:id/rol", usuariosH.CambiarRol)

		admin.PUT("/push/token", adminH.RegistrarToken)
		admin.DELETE("/push/token", adminH.EliminarToken)
		admin.GET("/config/whatsapp", adminH.ObtenerWhatsApp)
		admin.PUT("/config/whatsapp", adminH.ActualizarWhatsApp)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// registrarColecciones gives the hub one loader per live collection.
func registrarColecciones(
	hub *events.Hub,
	categorias service.CategoriaService,
	grupos service.GrupoOpcionesService,
	productos service.ProductoService,
	pedidos service.PedidoService,
	notificaciones service.NotificacionService,
) {
	hub.Registrar(events.ColCategorias, func(ctx context.Context) (any, error) {
		return categorias.Listar(ctx, false)
	})
	hub.Registrar(events.ColGruposOpciones, func(ctx context.Context) (any, error) {
		return grupos.Listar(ctx)
	})
	hub.Registrar(events.ColProductos, func(ctx context.Context) (any, error) {
		return productos.Listar(ctx, dto.ProductoFilter{Page: 1, Limit: 200})
	})
	hub.Registrar(events.ColPedidos, func(ctx context.Context) (any, error) {
		return pedidos.Listar(ctx, dto.PedidoFilter{Page: 1, Limit: 100})
	})
	hub.Registrar(events.ColNotificaciones, func(ctx context.Context) (any, error) {
		return notificaciones.Listar(ctx)
	})
}
