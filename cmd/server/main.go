package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/marketplace/grocery-api/internal/config"
	"github.com/marketplace/grocery-api/internal/database"
	"github.com/marketplace/grocery-api/internal/handler"
	"github.com/marketplace/grocery-api/internal/logger"
	"github.com/marketplace/grocery-api/internal/media"
	"github.com/marketplace/grocery-api/internal/metrics"
	"github.com/marketplace/grocery-api/internal/middleware"
	"github.com/marketplace/grocery-api/internal/queue"
	"github.com/marketplace/grocery-api/internal/repository"
	"github.com/marketplace/grocery-api/internal/router"
	"github.com/marketplace/grocery-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.Load()

	log, err := logger.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatal("database unavailable", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, cfg.MetricsPrefix)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("media store unavailable", zap.Error(err))
	}

	cascade := repository.NewCascade(db, repository.DefaultPlan(cfg.CascadeCatalogDeep))
	var publisher *service.EventPublisher
	if cfg.QueueEnabled {
		publisher = service.NewEventPublisher(cfg.RabbitMQURL, log)
		go func() {
			if err := queue.NewConsumer(cfg.RabbitMQURL, cfg.AuditLogDir, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}
	cascade.Committed = func(ctx context.Context, r repository.CascadeResult) {
		m.CascadeDeletes.WithLabelValues(string(r.Kind)).Inc()
		for kind, n := range r.Removed {
			m.CascadeRows.WithLabelValues(string(kind)).Add(float64(n))
		}
		if publisher == nil {
			return
		}
		ev := service.CascadeEvent(r, logger.RequestIDFrom(ctx))
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = publisher.PublishCascadeDeleted(pctx, ev)
		}()
	}

	deps := handler.NewDeps(db, cascade)
	deps.Log = log
	deps.Media = media.NewRelay(store, log, m)
	deps.Tokens = service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	deps.Detector = service.NewDetectionClient(cfg.DetectionURL, cfg.DetectionTimeout)
	deps.BcryptCost = cfg.BcryptCost
	deps.CookieSecure = cfg.CookieSecure

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, running without cache and rate limiting")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestID)
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics(m))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, db, reg, cfg.MediaDir, cfg.MediaURL)
	router.RegisterAPI(e, deps, router.NewGates(deps, m))

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	var (
		db      *sql.DB
		dialect string
		err     error
	)
	switch cfg.DBDriver {
	case database.DialectSQLite:
		db, err = database.OpenSQLite(cfg.DBPath)
		dialect = database.DialectSQLite
	default:
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialect = database.DialectMySQL
	}
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newStore(cfg config.Config) (media.Store, error) {
	if cfg.CloudinaryConfigured() {
		return media.NewCloudinaryStore(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
	}
	return media.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
}
