package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaudit "github.com/milorg/backend/internal/application/audit"
	apphierarchy "github.com/milorg/backend/internal/application/hierarchy"
	"github.com/milorg/backend/internal/application/integrity"
	apporder "github.com/milorg/backend/internal/application/order"
	appreference "github.com/milorg/backend/internal/application/reference"
	apptransfer "github.com/milorg/backend/internal/application/transfer"
	"github.com/milorg/backend/internal/infrastructure/auth"
	"github.com/milorg/backend/internal/infrastructure/cache"
	"github.com/milorg/backend/internal/infrastructure/config"
	"github.com/milorg/backend/internal/infrastructure/logger"
	"github.com/milorg/backend/internal/infrastructure/persistence"
	"github.com/milorg/backend/internal/infrastructure/telemetry"
	"github.com/milorg/backend/internal/interfaces/http/handler"
	"github.com/milorg/backend/internal/interfaces/http/middleware"
	"github.com/milorg/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Milorg Integrity Service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing. When disabled this installs a no-op provider.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		queryTracer := telemetry.NewQueryTracer(telemetry.DefaultQueryTracingConfig(), log)
		if err := queryTracer.Instrument(db.DB); err != nil {
			log.Error("Failed to instrument database tracing", zap.Error(err))
		}
	}

	// Redis-backed reference cache. The service degrades to direct reads
	// when Redis is unavailable, so a failure here is not fatal.
	var entryCache appreference.EntryCache
	referenceCache, err := cache.NewRedisReferenceCache(cfg.Redis)
	if err != nil {
		log.Warn("Reference cache unavailable, reads go straight to the database", zap.Error(err))
	} else {
		entryCache = referenceCache
		defer func() {
			if err := referenceCache.Close(); err != nil {
				log.Error("Error closing reference cache", zap.Error(err))
			}
		}()
		log.Info("Reference cache connected")
	}

	// Repositories
	divisionRepo := persistence.NewGormDivisionRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	holdingRepo := persistence.NewGormHoldingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)
	auditRepo := persistence.NewGormAuditRecordRepository(db.DB)
	referenceRepo := persistence.NewGormReferenceRepository(db.DB)

	// Application services, each with its own transactional unit of work
	hierarchyService := apphierarchy.NewHierarchyService(
		persistence.NewGormHierarchyTransactionScope(db.DB), divisionRepo, log)
	transferService := apptransfer.NewTransferService(
		persistence.NewGormTransferTransactionScope(db.DB), transferRepo, holdingRepo, log)
	orderService := apporder.NewOrderService(
		persistence.NewGormOrderTransactionScope(db.DB), orderRepo, assignmentRepo, log)
	referenceService := appreference.NewReferenceService(
		persistence.NewGormReferenceTransactionScope(db.DB), referenceRepo, entryCache, log)
	historyService := appaudit.NewHistoryService(auditRepo, log)

	facade := integrity.NewFacade(hierarchyService, transferService, orderService, historyService, referenceService)

	// Token verification for actor identity
	verifier := auth.NewTokenVerifier(cfg.JWT)

	engine := buildEngine(cfg, log, verifier)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.BuildRoutes(r, router.Handlers{
		Division:  handler.NewDivisionHandler(facade.HierarchyService),
		Transfer:  handler.NewTransferHandler(facade.TransferService),
		Order:     handler.NewOrderHandler(facade.OrderService),
		Reference: handler.NewReferenceHandler(facade.ReferenceService),
		Audit:     handler.NewAuditHandler(facade.HistoryService),
		System:    handler.NewSystemHandler(db.DB),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// buildEngine assembles the gin engine with the shared middleware chain.
// The actor auth middleware protects everything except the health endpoints.
func buildEngine(cfg *config.Config, log *zap.Logger, verifier *auth.TokenVerifier) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	authCfg := middleware.DefaultActorAuthConfig(verifier)
	authCfg.Logger = log
	engine.Use(middleware.ActorAuthWithConfig(authCfg))
	engine.Use(middleware.TracingAttributeInjector())

	return engine
}
