package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/config"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/infrastructure/database"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	"github.com/sangkips/tillsync/internal/infrastructure/remote"
	"github.com/sangkips/tillsync/internal/infrastructure/repository"
	"github.com/sangkips/tillsync/internal/presentation/http/handler"
	"github.com/sangkips/tillsync/internal/presentation/http/middleware"
	"github.com/sangkips/tillsync/internal/presentation/http/routes"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/printer"
	"github.com/sangkips/tillsync/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.App.Env != "production",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local store first: the till must work without the remote store
	store := localstore.Open(cfg.LocalStore.Path, log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close local store", zap.Error(err))
		}
	}()
	if store.InMemory() {
		log.Warn("Local store is not persistent, sales will be lost on restart")
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal("Failed to configure remote store", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Warn("Remote migrations skipped, remote store unreachable", zap.Error(err))
		} else if err := database.SeedDefaultUser(db, &cfg.Seed, log); err != nil {
			log.Warn("Failed to seed default user", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	defaults := entity.DefaultStoreSettings()
	if cfg.Store.WalkInLabel != "" {
		defaults.WalkInLabel = cfg.Store.WalkInLabel
	}
	if cfg.Store.CurrencySymbol != "" {
		defaults.CurrencySymbol = cfg.Store.CurrencySymbol
	}
	location := cfg.Store.Location()

	// Initialize repositories
	historyRepo := repository.NewSaleHistoryRepository(store)
	pendingRepo := repository.NewPendingSaleRepository(store)
	deadLetterRepo := repository.NewDeadLetterRepository(store)
	syncStatusRepo := repository.NewSyncStatusRepository(store)
	settingsRepo := repository.NewSettingsRepository(store, defaults)
	itemRepo := repository.NewItemRepository(store)
	demoRepo := repository.NewDemoReceiptRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	idempotencyRepo := repository.NewIdempotencyRepository(store)

	remoteStore := remote.NewStore(db, sessionRepo, jwtManager, cfg.Sync.RemoteTimeout)
	clientRepo := remote.NewClientRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn("Failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	syncService := service.NewSyncService(
		historyRepo,
		pendingRepo,
		deadLetterRepo,
		syncStatusRepo,
		settingsRepo,
		itemRepo,
		remoteStore,
		log,
		service.SyncOptions{
			HistoryWindow: cfg.Sync.HistoryWindow,
			MaxAttempts:   cfg.Sync.MaxAttempts,
		},
	)
	receiptService := service.NewReceiptService(thermalPrinter, historyRepo, demoRepo, settingsRepo, location, log)
	settingsService := service.NewSettingsService(settingsRepo, remoteStore, log)
	authService := service.NewAuthService(remoteStore, sessionRepo, jwtManager, syncService, log)
	catalogService := service.NewCatalogService(itemRepo, demoRepo, settingsRepo, receiptService, log)
	clientService := service.NewClientService(clientRepo, remoteStore)
	reportService := service.NewReportService(historyRepo, location)

	watcher := service.NewConnectivityWatcher(remoteStore, syncService, cfg.Sync.Interval, log)
	watcherDone := watcher.Start(ctx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:   handler.NewHealthHandler(cfg.App.Name, syncService),
		Auth:     handler.NewAuthHandler(authService),
		Sale:     handler.NewSaleHandler(syncService, catalogService, receiptService, settingsService, log),
		Sync:     handler.NewSyncHandler(syncService),
		Settings: handler.NewSettingsHandler(settingsService),
		Item:     handler.NewItemHandler(catalogService),
		Client:   handler.NewClientHandler(clientService),
		Report:   handler.NewReportHandler(reportService, location, log),
		Printer:  handler.NewPrinterHandler(receiptService),
	}

	var rateLimiter *middleware.ClientRateLimiter
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Duration > 0 {
		rateLimiter = middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
			BurstSize:         cfg.RateLimit.Requests,
		}, ctx.Done())
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		AuthService:     authService,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("app", cfg.App.Name), zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	select {
	case <-watcherDone:
	case <-shutdownCtx.Done():
		log.Warn("Connectivity watcher still running at shutdown")
	}
}
