package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tinylink-io/linklite/config"
	appmodel "github.com/tinylink-io/linklite/internal/app/model"
	apprepository "github.com/tinylink-io/linklite/internal/app/repository"
	appserver "github.com/tinylink-io/linklite/internal/app/server"
	appservice "github.com/tinylink-io/linklite/internal/app/service"
	"github.com/tinylink-io/linklite/internal/http/cache"
	"github.com/tinylink-io/linklite/internal/infra/logger"
	"github.com/tinylink-io/linklite/internal/infra/metrics"
	infraNATS "github.com/tinylink-io/linklite/internal/infra/nats"
	infraPostgres "github.com/tinylink-io/linklite/internal/infra/postgres"
	infraPrometheus "github.com/tinylink-io/linklite/internal/infra/prometheus"
	infraRedis "github.com/tinylink-io/linklite/internal/infra/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const expectedCodes = 100_000

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Int("server_port", cfg.Server.Port),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Bool("redis_disabled", cfg.Redis.Disabled),
		zap.Bool("nats_disabled", cfg.NATS.Disabled),
	)

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("Invalid auth token TTL", zap.String("token_ttl", cfg.Auth.TokenTTL), zap.Error(err))
	}
	sessions, err := appservice.NewSessionService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tokenTTL)
	if err != nil {
		log.Fatal("Failed to build session service", zap.Error(err))
	}

	var (
		pool      *pgxpool.Pool
		linkRepo  apprepository.LinkRepository
		userRepo  apprepository.UserRepository
		clickRepo apprepository.ClickEventRepository
	)

	switch cfg.Storage.Driver {
	case "", "postgres":
		gormDB, gormErr := infraPostgres.NewGorm(cfg.Postgres)
		if gormErr != nil {
			log.Fatal("Failed to open GORM connection", zap.Error(gormErr))
		}
		sqlDB, dbErr := gormDB.DB()
		if dbErr != nil {
			log.Fatal("Failed to access underlying SQL DB", zap.Error(dbErr))
		}
		defer sqlDB.Close()

		if migrateErr := infraPostgres.AutoMigrate(ctx, gormDB,
			&appmodel.ShortLink{}, &appmodel.User{}, &appmodel.ClickEvent{}); migrateErr != nil {
			log.Fatal("Failed to run database migrations", zap.Error(migrateErr))
		}

		pool, err = infraPostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer pool.Close()
		log.Info("Connected to Postgres")

		linkRepo = apprepository.NewLinkRepository(gormDB)
		userRepo = apprepository.NewUserRepository(gormDB)
		clickRepo = apprepository.NewClickEventRepository(gormDB)
	case "memory":
		log.Warn("Using in-memory storage; links and the admin account will not survive a restart")
		linkRepo = apprepository.NewMemoryLinkRepository()
		userRepo = apprepository.NewMemoryUserRepository()
		clickRepo = apprepository.NewMemoryClickEventRepository()
	default:
		log.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	codes := cache.NewCodeFilter(expectedCodes, 0.01)
	if pool != nil {
		n, warmErr := codes.Warm(ctx, pool)
		if warmErr != nil {
			log.Warn("Failed to warm code filter; redirects fall back to store lookups", zap.Error(warmErr))
			codes = nil
		} else {
			log.Info("Code filter warmed", zap.Int("codes", n))
		}
	}

	deps := appserver.Dependencies{
		Logger:   log,
		Postgres: pool,
		Links:    linkRepo,
		Users:    userRepo,
		Sessions: sessions,
		Codes:    codes,
		HomeURL:  cfg.Server.HomeURL,
	}

	if !cfg.Redis.Disabled {
		redisClient, redisErr := infraRedis.NewClient(ctx, cfg.Redis)
		if redisErr != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(redisErr))
		}
		defer redisClient.Close()
		log.Info("Connected to Redis")
		deps.Redis = redisClient
	}

	if !cfg.NATS.Disabled {
		natsConn, js, natsErr := infraNATS.Connect(cfg.NATS)
		if natsErr != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(natsErr))
		}
		defer natsConn.Drain()
		log.Info("Connected to NATS")

		deps.ClickPublisher = appservice.NewClickPublisher(js)

		consumer := appservice.NewClickConsumer(js, log, clickRepo)
		if consumerErr := consumer.Start(); consumerErr != nil {
			log.Fatal("Failed to start click consumer", zap.Error(consumerErr))
		}
	}

	metrics.Init()
	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server", zap.String("addr", promServer.Addr))
			if serveErr := promServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(serveErr))
			}
		}()
		defer func() {
			if closeErr := promServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(closeErr))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	srv := appserver.New(deps)
	if err := srv.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
