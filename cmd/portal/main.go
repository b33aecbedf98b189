package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"syncportal/internal/cache"
	"syncportal/internal/config"
	"syncportal/internal/database"
	"syncportal/internal/events"
	"syncportal/internal/gateway"
	"syncportal/internal/handlers"
	"syncportal/internal/jobs"
	"syncportal/internal/log"
	"syncportal/internal/review"
	"syncportal/internal/server"
	"syncportal/internal/service"
	"syncportal/internal/session"
	"syncportal/internal/verify"
	"syncportal/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Review.Backend == config.BackendRedis || cfg.Review.Notify || cfg.Jobs.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
	}

	var dbPool *pgxpool.Pool
	if cfg.Review.Backend == config.BackendPostgres {
		dbPool, err = database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect postgres")
		}
	}

	store, err := review.OpenStore(ctx, cfg.Review, redisClient, dbPool)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Review.Backend).Msg("failed to open review store")
	}

	var queueOpts []review.Option
	var publisher *events.Publisher
	if redisClient != nil {
		publisher = events.NewPublisher(redisClient, cfg.Redis.Stream)
		if cfg.Review.Notify {
			queueOpts = append(queueOpts, review.WithNotifier(publisher))
		}
	}
	queue := review.NewQueue(store, logger, queueOpts...)

	var denylist session.Denylist = session.NewMemoryDenylist()
	if redisClient != nil {
		denylist = session.NewRedisDenylist(redisClient)
	}
	sessions := session.NewManager(cfg.Security.SessionSecret, cfg.Security.SessionTTL, cfg.Security.TicketTTL, denylist)

	gw := gateway.New(cfg.Gateway, logger)
	auth, err := service.NewAuthService(gw, queue, sessions, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init auth service")
	}

	handlerSet := handlers.NewHandlerSet(handlers.Deps{
		Log:      logger,
		Config:   cfg,
		Auth:     auth,
		Sessions: sessions,
		Views:    views.NewBuilder(gw, queue, cfg.Gateway.FeaturedStudent),
		Verifier: verify.NewVerifier(gw, queue, logger),
		Queue:    queue,
		DB:       dbPool,
		Cache:    redisClient,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled && publisher != nil {
		scheduler = jobs.NewScheduler(publisher, cfg.Jobs, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
			scheduler = nil
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
