// Command server runs the CRM backend API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contactapp "github.com/crm/backend/internal/application/contact"
	partnerapp "github.com/crm/backend/internal/application/partner"
	quoteapp "github.com/crm/backend/internal/application/quote"
	settingsapp "github.com/crm/backend/internal/application/settings"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/ledger"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/scheduler"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout      = 30 * time.Second
	poolMetricsInterval  = 15 * time.Second
	instrumentationScope = "github.com/crm/backend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// The log bridge needs a logger to report its own setup, so the final
	// logger is built once the provider exists.
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogExportEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    serviceName,
		LoggerProvider: loggerProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(instrumentationScope)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log).RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	var poolMetrics *telemetry.DBPoolMetrics
	if meterProvider.IsEnabled() {
		poolMetrics, err = telemetry.NewDBPoolMetrics(meter, db.SQL(), poolMetricsInterval, log)
		if err != nil {
			log.Warn("Failed to create database pool metrics", zap.Error(err))
		} else {
			poolMetrics.Start(ctx)
		}
	}

	pipelineMetrics, err := telemetry.NewPipelineMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create pipeline metrics", zap.Error(err))
	}

	// Repositories
	contactRepo := persistence.NewGormContactRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	requestRepo := persistence.NewGormQuoteRequestRepository(db.DB)
	offerRepo := persistence.NewGormOfferRepository(db.DB)
	appTypeRepo := persistence.NewGormApplicationTypeRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Ledger
	keyProvider := ledger.NewSettingsKeyProvider(settingsRepo, cfg.Ledger.APIKey, cfg.Ledger.KeyCacheTTL, log)
	ledgerClient, err := ledger.NewClient(ledger.Config{
		BaseURL: cfg.Ledger.BaseURL,
		Timeout: cfg.Ledger.Timeout,
	}, keyProvider, log, ledger.WithObserver(pipelineMetrics))
	if err != nil {
		log.Fatal("Invalid ledger configuration", zap.Error(err))
	}

	creationLock, closeLock, err := cache.NewCreationLock(ctx, cfg.Redis, cfg.Lock, log)
	if err != nil {
		log.Fatal("Failed to initialize offer creation lock", zap.Error(err))
	}

	// Services
	contactService := contactapp.NewContactService(contactRepo, partnerRepo, ledgerClient, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, log)
	requestService := quoteapp.NewQuoteRequestService(requestRepo, offerRepo, contactRepo, log)
	offerService := quoteapp.NewOfferService(offerRepo, requestRepo, contactRepo, appTypeRepo, ledgerClient, creationLock, log)
	appTypeService := quoteapp.NewApplicationTypeService(appTypeRepo, offerRepo, log)
	settingsService := settingsapp.NewSettingsService(settingsRepo, keyProvider, log)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	contactService.SetEventPublisher(eventBus)
	partnerService.SetEventPublisher(eventBus)
	requestService.SetEventPublisher(eventBus)
	offerService.SetEventPublisher(eventBus)

	var syncScheduler *scheduler.LedgerSyncScheduler
	if cfg.Scheduler.Enabled {
		syncScheduler, err = scheduler.NewLedgerSyncScheduler(scheduler.LedgerSyncConfig{
			Interval:   cfg.Scheduler.SyncInterval,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, offerService, pipelineMetrics, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := syncScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start ledger sync scheduler", zap.Error(err))
		}
	}

	// HTTP
	jwtService := auth.NewJWTService(cfg.Auth)
	if !cfg.Auth.Enabled {
		log.Warn("Authentication is disabled, every request runs as a local administrator")
	}

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}

	var webhookLimiter *middleware.RateLimiter
	if cfg.Webhook.RateLimit > 0 {
		webhookLimiter = middleware.NewRateLimiter(cfg.Webhook.RateLimit, cfg.Webhook.RateWindow)
	}

	engine, err := router.NewEngine(router.Config{
		ServiceName:   serviceName,
		Mode:          mode,
		HTTP:          cfg.HTTP,
		Swagger:       cfg.Swagger.Enabled,
		Tracing:       tracerProvider.IsEnabled(),
		MeterProvider: meterProvider,
		Auth: middleware.AuthConfig{
			Authenticator: jwtService,
			Disabled:      !cfg.Auth.Enabled,
			Logger:        log,
		},
		AdminRole:      jwtService.AdminRole(),
		WebhookSecret:  cfg.Webhook.Secret,
		WebhookLimiter: webhookLimiter,
		Logger:         log,
	}, router.Handlers{
		Contact:         handler.NewContactHandler(contactService, log),
		Partner:         handler.NewPartnerHandler(partnerService, log),
		QuoteRequest:    handler.NewQuoteRequestHandler(requestService, log),
		Offer:           handler.NewOfferHandler(offerService, log),
		ApplicationType: handler.NewApplicationTypeHandler(appTypeService, log),
		Settings:        handler.NewSettingsHandler(settingsService, log),
		Health: handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, map[string]handler.HealthCheck{
			"database": db.Ping,
		}),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if syncScheduler != nil {
		if err := syncScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping ledger sync scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := closeLock(); err != nil {
		log.Error("Error closing offer creation lock", zap.Error(err))
	}
	if poolMetrics != nil {
		poolMetrics.Stop()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
