package router

import (
	"time"

	"shalom/internal/config"
	"shalom/internal/handler"
	"shalom/internal/infra"
	"shalom/internal/middleware"
	"shalom/internal/model"
	"shalom/internal/repository"
	"shalom/internal/service"
	"shalom/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	pdfGen := infra.NewInvoicePDF(cfg.PDFStoragePath, cfg.BusinessName)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	stockSvc := service.NewStockService(productRepo, movementRepo, rdb)
	crmSvc := service.NewCRMService(customerRepo, vehicleRepo)
	orderSvc := service.NewOrderService(orderRepo, vehicleRepo, productRepo, stockSvc)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	billingSvc := service.NewBillingService(invoiceRepo, orderRepo, cfg, pdfGen, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	clientesH := handler.NewClientesHandler(crmSvc)
	vehiculosH := handler.NewVehiculosHandler(crmSvc)
	ordenesH := handler.NewOrdenesHandler(orderSvc)
	facturasH := handler.NewFacturasHandler(billingSvc, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Both roles can operate the shop; destructive or
	// administrative operations require ADMIN.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleEmployee)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		prods := v1.Group("/productos", anyRole)
		{
			prods.GET("", productosH.Listar)
			prods.GET("/categorias", productosH.Categorias)
			prods.GET("/codigo/:codigo", productosH.ObtenerPorCodigo)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
		}
		v1.DELETE("/productos/:id", adminOnly, productosH.Desactivar)
		v1.PATCH("/productos/:id/reactivar", adminOnly, productosH.Reactivar)

		stock := v1.Group("/stock", anyRole)
		{
			stock.POST("/movimientos", stockH.RegistrarMovimiento)
			stock.GET("/movimientos", stockH.ListarMovimientos)
		}

		clientes := v1.Group("/clientes", anyRole)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/estadisticas", clientesH.Estadisticas)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", adminOnly, clientesH.Eliminar)

		vehiculos := v1.Group("/vehiculos", anyRole)
		{
			vehiculos.POST("", vehiculosH.Crear)
			vehiculos.GET("", vehiculosH.Listar)
			vehiculos.GET("/patente/:patente", vehiculosH.ObtenerPorPatente)
			vehiculos.GET("/:id", vehiculosH.ObtenerPorID)
			vehiculos.PUT("/:id", vehiculosH.Actualizar)
			vehiculos.PATCH("/:id/kilometraje", vehiculosH.ActualizarKilometraje)
		}
		v1.DELETE("/vehiculos/:id", adminOnly, vehiculosH.Eliminar)

		ordenes := v1.Group("/ordenes", anyRole)
		{
			ordenes.POST("", ordenesH.Crear)
			ordenes.GET("", ordenesH.Listar)
			ordenes.GET("/estadisticas", ordenesH.Estadisticas)
			ordenes.GET("/:id", ordenesH.ObtenerPorID)
			ordenes.PUT("/:id", ordenesH.Actualizar)
			ordenes.POST("/:id/items", ordenesH.AgregarItem)
			ordenes.DELETE("/:id/items/:itemId", ordenesH.QuitarItem)
			ordenes.POST("/:id/completar", ordenesH.Completar)
			ordenes.POST("/:id/cancelar", ordenesH.Cancelar)
		}

		facturas := v1.Group("/facturas", anyRole)
		{
			facturas.POST("", facturasH.Emitir)
			facturas.GET("", facturasH.Listar)
			facturas.GET("/estadisticas", facturasH.Estadisticas)
			facturas.GET("/:id", facturasH.ObtenerPorID)
			facturas.GET("/:id/pdf", facturasH.DescargarPDF)
			facturas.POST("/:id/pagar", facturasH.MarcarPagada)
		}
		v1.POST("/facturas/:id/anular", adminOnly, facturasH.Anular)

		usuarios := v1.Group("/usuarios", adminOnly)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.ObtenerPorID)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
