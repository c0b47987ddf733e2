package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	dbpkg "github.com/BruksfildServices01/homefix/internal/db"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/infra/kv"
	infraRepo "github.com/BruksfildServices01/homefix/internal/infra/repository"
	"github.com/BruksfildServices01/homefix/internal/infra/store"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	"github.com/BruksfildServices01/homefix/internal/routes"
	"github.com/BruksfildServices01/homefix/internal/validators"
	"github.com/BruksfildServices01/homefix/internal/web"
	"github.com/BruksfildServices01/homefix/internal/worker"
)

func main() {

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer dbpkg.Close(db)

	// ======================================================
	// SESSION + DRAFT BACKEND
	// ======================================================
	var (
		backend   kv.Store
		sweepable worker.Sweepable
	)

	switch cfg.StoreBackend {
	case "redis":
		client := kv.NewRedisClient(kv.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := kv.Ping(ctx, client)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("redis unavailable")
		}
		defer client.Close()
		backend = kv.NewRedisStore(client, "homefix:")

	default:
		mem := kv.NewMemoryStore()
		backend = mem
		sweepable = mem
	}

	sessions := store.NewSessionStore(backend, cfg.SessionTTL)
	drafts := store.NewDraftStore(backend, cfg.DraftTTL)

	// ======================================================
	// GATEWAY + AUDIT
	// ======================================================
	mode, err := gateway.ParseMode(cfg.GatewayMode)
	if err != nil {
		log.WithError(err).Fatal("invalid gateway mode")
	}
	gw := gateway.New(gateway.Config{
		Mode:      mode,
		Latency:   cfg.GatewayLatency,
		FailEvery: cfg.GatewayFailEvery,
	})

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// MAINTENANCE JOBS
	// ======================================================
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	scheduler, err := worker.New(worker.Config{
		SweepSchedule: "@every 1m",
		PurgeSchedule: "@daily",
		Retention:     time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour,
	}, sweepable, auditLogger, log)
	if err != nil {
		log.WithError(err).Fatal("invalid worker schedule")
	}
	if err := scheduler.Schedule("@every 5m", limiter.Cleanup); err != nil {
		log.WithError(err).Fatal("invalid worker schedule")
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(web.Templates())

	deps := routes.Deps{
		Config:  cfg,
		Log:     log,
		Catalog: catalog.Default(),

		Sessions: sessions,
		Drafts:   drafts,

		Bookings: infraRepo.NewBookingGormRepository(db),
		Accounts: infraRepo.NewAccountGormRepository(db),
		Reviews:  infraRepo.NewReviewGormRepository(db),
		Messages: infraRepo.NewContactGormRepository(db),

		Audit:     auditDispatcher,
		AuditLogs: auditLogger,

		Gateway:  gw,
		Validate: validators.New(),
		Limiter:  limiter,
	}
	if cfg.IsProduction() {
		deps.DomainCheck = validators.IsEmailDomainValid
	}

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(map[string]any{
			"addr":      cfg.Addr(),
			"base_path": cfg.BasePath,
			"env":       cfg.Env,
			"store":     cfg.StoreBackend,
		}).Info("server running")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	scheduler.Stop()
	auditDispatcher.Close()
}
