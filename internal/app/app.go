package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/events"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/server"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, event bus, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	broadcaster *events.Broadcaster
	bgCancels   []context.CancelFunc
}

// New bootstraps the logger, Postgres, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	queries := sqlcgen.New(pool)
	categoryRepo := repository.NewCategoryRepository(queries)
	questionRepo := repository.NewQuestionRepository(queries)

	m := metrics.New(prometheus.DefaultRegisterer)
	hub := ws.NewHub(logger)

	var (
		redisClient *redis.Client
		publisher   question.EventPublisher
		broadcaster *events.Broadcaster
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		publisher = events.NewPublisher(redisClient, cfg.Redis.EventsChannel)
		broadcaster = events.NewBroadcaster(redisClient, hub, cfg.Redis.EventsChannel, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.EventsChannel).Msg("question events via redis")
	} else {
		publisher = events.NewHubPublisher(hub)
		logger.Warn().Msg("REDIS_ADDR not set; question events stay local to this instance")
	}

	questionSvc := question.NewService(categoryRepo, questionRepo, question.ServiceOptions{
		PageSize: cfg.Trivia.QuestionsPerPage,
		MaxDraws: cfg.Trivia.QuizMaxDraws,
		Events:   publisher,
		Observer: m,
	}, logger)
	questionHandlers := question.NewHTTPHandlers(questionSvc, logger)
	feedHandler := events.NewFeedHandler(hub, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pingDependencies(pool, redisClient), m, questionHandlers, feedHandler.HandleWebSocket)

	return &Application{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		redis:       redisClient,
		http:        apiServer,
		broadcaster: broadcaster,
		bgCancels:   make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.close()
	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) close() {
	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("question broadcaster stopped")
			}
		}()
	}
}

func pingDependencies(pool *pgxpool.Pool, redis *redis.Client) server.PingFunc {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if redis != nil {
			if err := redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}
