package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/cache"
	"github.com/actuallystonmai/meal-recommendation-service/internal/config"
	"github.com/actuallystonmai/meal-recommendation-service/internal/engine"
	"github.com/actuallystonmai/meal-recommendation-service/internal/handler"
	"github.com/actuallystonmai/meal-recommendation-service/internal/logging"
	"github.com/actuallystonmai/meal-recommendation-service/internal/repository"
	"github.com/actuallystonmai/meal-recommendation-service/internal/router"
	"github.com/actuallystonmai/meal-recommendation-service/internal/service"
	"github.com/actuallystonmai/meal-recommendation-service/internal/supervisor"
	"github.com/actuallystonmai/meal-recommendation-service/migrations"
	"github.com/actuallystonmai/meal-recommendation-service/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize) //nolint:gosec // bounded by config validation
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("database not ready")
	}
	logger.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrations.Down(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate down")
		}
		logger.Info().Msg("migrations dropped")
		return
	}

	if err := migrations.Up(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate up")
	}
	logger.Info().Msg("migrations applied")

	// ------------ Setup Seed Data ---------------
	if cfg.SeedOnStart {
		if err := checkSeed(ctx, pool, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to check seed")
		}
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// cache errors never fail requests, so a missing redis only degrades health
		logger.Warn().Err(err).Msg("redis unavailable, continuing without warm cache")
	} else {
		logger.Info().Msg("connected to Redis")
	}

	// ------------ Engine & service ---------------
	repo := repository.New(pool)
	eng := engine.New(logging.Component("engine"))
	svc := service.NewService(repo, cache.NewCache(redisClient, cfg.CacheTTL), eng, service.Options{
		LikeWeight:      cfg.LikeWeight,
		DislikeWeight:   cfg.DislikeWeight,
		DefaultLimit:    cfg.DefaultLimit,
		MaxLimit:        cfg.MaxLimit,
		LoadConcurrency: cfg.LoadConcurrency,
		Seed: func(ctx context.Context) error {
			return seeds.ReseedCorpus(ctx, pool, logging.Component("seeds"))
		},
	}, logging.Component("service"))

	stats, err := svc.Reload(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build meal index")
	}
	logger.Info().
		Int64("version", stats.Version).
		Int("meals", stats.Meals).
		Int("ingredients", stats.Ingredients).
		Int("skipped_tokens", stats.SkippedTokens).
		Msg("meal index ready")

	// ---------------- Server --------------------
	h := handler.NewHandler(svc, logging.Component("handler"))
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(h, router.MiddlewareConfig{
			CORSAllowedOrigins: cfg.CORSOrigins,
			RateLimitRequests:  cfg.RateLimitRequests,
			RateLimitWindow:    cfg.RateLimitWindow,
			RequestTimeout:     cfg.RequestTimeout,
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig(), logger)
	tree.Add(supervisor.NewHTTPService(srv, 15*time.Second))
	if cfg.ReindexInterval > 0 {
		tree.Add(supervisor.NewReindexService(svc, cfg.ReindexInterval, logging.Component("reindex")))
	}

	logger.Info().Str("addr", srv.Addr).Msg("server running")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("supervisor stopped")
	}
	logger.Info().Msg("server stopped")
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info().Int("attempt", i+1).Int("max_attempts", 30).Msg("waiting for database")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func checkSeed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		logger.Info().Int("users", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool, logging.Component("seeds"))
}
