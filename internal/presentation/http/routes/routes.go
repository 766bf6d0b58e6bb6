package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/config"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/presentation/http/handler"
	"github.com/sangkips/tillsync/internal/presentation/http/middleware"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Sale     *handler.SaleHandler
	Sync     *handler.SyncHandler
	Settings *handler.SettingsHandler
	Item     *handler.ItemHandler
	Client   *handler.ClientHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	AuthService     *service.AuthService
	RateLimiter     *middleware.ClientRateLimiter
	Log             logger.ZapLogger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	}))
	{
		v1.GET("/health", h.Health.Health)
		v1.GET("/bootstrap", h.Health.Bootstrap)

		registerAuthRoutes(v1, h)
		registerSaleRoutes(v1, h)
		registerSyncRoutes(v1, h)

		v1.GET("/settings", h.Settings.GetSettings)
		v1.PUT("/settings", h.Settings.UpdateSettings)

		registerItemRoutes(v1, h)
		registerClientRoutes(v1, h, deps)

		v1.GET("/reports/summary", h.Report.Summary)
		v1.GET("/reports/sales.xlsx", h.Report.ExportSales)

		v1.GET("/printer/status", h.Printer.GetStatus)
		v1.POST("/printer/test", h.Printer.TestPrint)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/session", h.Auth.Session)
	}
}

func registerSaleRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt", h.Sale.Receipt)
		sales.POST("/:id/print", h.Sale.Print)
	}
	v1.POST("/receipts/preview", h.Sale.Preview)
}

func registerSyncRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sync := v1.Group("/sync")
	{
		sync.GET("/status", h.Sync.Status)
		sync.POST("", h.Sync.Sync)
		sync.GET("/dead-letter", h.Sync.DeadLetters)
		sync.POST("/requeue", h.Sync.Requeue)
	}
}

func registerItemRoutes(v1 *gin.RouterGroup, h *Handlers) {
	items := v1.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
	}

	demo := v1.Group("/demo")
	{
		demo.POST("/checkout", h.Item.Checkout)
		demo.GET("/receipts", h.Item.ListReceipts)
		demo.GET("/receipts/:id", h.Item.GetReceipt)
	}
}

func registerClientRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	clients := v1.Group("/clients")
	clients.Use(middleware.RequireSession(deps.AuthService))
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}
