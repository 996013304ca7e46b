package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/billsync/backend/internal/application/billing"
	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/infrastructure/cache"
	"github.com/billsync/backend/internal/infrastructure/config"
	"github.com/billsync/backend/internal/infrastructure/event"
	"github.com/billsync/backend/internal/infrastructure/logger"
	"github.com/billsync/backend/internal/infrastructure/persistence"
	"github.com/billsync/backend/internal/infrastructure/scheduler"
	"github.com/billsync/backend/internal/infrastructure/storage"
	"github.com/billsync/backend/internal/infrastructure/xero"
	"github.com/billsync/backend/internal/interfaces/http/handler"
	"github.com/billsync/backend/internal/interfaces/http/middleware"
	"github.com/billsync/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BillSync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithZap(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	requestRepo := persistence.NewGormPaymentRequestRepository(db.DB)
	payeeRepo := persistence.NewGormPayeeRepository(db.DB)

	// Sync lock store, Redis when configured with in-memory fallback
	lockFactory := cache.NewSyncLockStoreFactory(cfg.Redis, cache.WithLogger(log))
	lockStore, err := lockFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create sync lock store", zap.Error(err))
	}

	// Accounting provider gateway
	gateway := xero.NewAdapter(&cfg.Xero)
	if gateway.IsConfigured() {
		log.Info("Accounting gateway configured", zap.String("base_url", cfg.Xero.BaseURL))
	} else {
		log.Warn("Accounting gateway not configured, sync stays inactive")
	}

	// Attachment store
	attachmentStore, err := storage.NewAttachmentStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create attachment store", zap.Error(err))
	}

	// Sync settings seeded from file configuration
	syncConfig := syncapp.NewConfigStore(syncConfigFromFile(&cfg.Sync))

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	contactResolver := syncapp.NewContactResolver(gateway, payeeRepo, log)
	attachmentUploader := syncapp.NewAttachmentUploader(attachmentStore, gateway, log)
	syncService := syncapp.NewService(
		requestRepo, payeeRepo, gateway,
		contactResolver, attachmentUploader,
		syncConfig, lockStore, log,
	)
	requestService := appbilling.NewPaymentRequestService(requestRepo, payeeRepo, eventBus, syncConfig, log)
	payeeService := appbilling.NewPayeeService(payeeRepo, log)

	// Submitted requests trigger a sync attempt through the event stream
	requestEventHandler := syncapp.NewRequestEventHandler(syncService, requestRepo, log)
	eventBus.Subscribe(requestEventHandler, requestEventHandler.EventTypes()...)

	// Background jobs
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.SyncSchedulerConfig{
			Enabled:           true,
			BacklogInterval:   cfg.Scheduler.BacklogInterval,
			ReconcileInterval: cfg.Scheduler.ReconcileInterval,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}
		syncScheduler, err = scheduler.NewSyncScheduler(schedulerConfig, syncService, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	systemHandler := handler.NewSystemHandler(map[string]handler.HealthChecker{
		"database": db.Ping,
	})

	router.NewRouter(engine).
		Register(handler.NewPaymentRequestHandler(requestService, syncService)).
		Register(handler.NewPayeeHandler(payeeService)).
		Register(handler.NewSyncHandler(syncService, syncConfig)).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncScheduler != nil {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Error stopping sync scheduler", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// syncConfigFromFile converts the file-backed sync settings into the runtime
// snapshot the sync engine works from
func syncConfigFromFile(cfg *config.SyncConfig) syncapp.Config {
	defaults := syncapp.DefaultConfig()

	out := defaults
	out.Enabled = cfg.Enabled
	out.BacklogEnabled = cfg.BacklogEnabled
	out.AttachmentsEnabled = cfg.AttachmentsEnabled
	if cfg.BacklogLimit > 0 {
		out.BacklogLimit = cfg.BacklogLimit
	}
	if len(cfg.AccountMappings) > 0 {
		mappings := make(map[billing.RequestBundle]string, len(cfg.AccountMappings))
		for bundle, code := range cfg.AccountMappings {
			mappings[billing.RequestBundle(bundle)] = code
		}
		out.AccountMappings = mappings
	}
	if cfg.DefaultHourlyRate > 0 {
		out.DefaultHourlyRate = decimal.NewFromFloat(cfg.DefaultHourlyRate)
	}
	if cfg.DuplicateWindow > 0 {
		out.DuplicateWindow = cfg.DuplicateWindow
	}
	if cfg.DueTermDays > 0 {
		out.DueTermDays = cfg.DueTermDays
	}
	if cfg.ReconcileChunkSize > 0 {
		out.ReconcileChunkSize = cfg.ReconcileChunkSize
	}
	return out
}
