package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleychat/parley/internal/config"
	"github.com/parleychat/parley/internal/log"
	"github.com/parleychat/parley/internal/observability"
	"github.com/parleychat/parley/internal/postgres"
)

// app bundles the wiring every database-touching command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
	db     *postgres.DB

	shutdownTracing func(context.Context) error
}

// newApp loads configuration, builds the logger, connects the pool,
// and wraps it in the connection governor. close must be called when
// the command finishes.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := log.New(log.Config{
		Level: parseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})
	slog.SetDefault(logger)

	pool, err := pgxpool.New(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	opts := []postgres.Option{}
	if cfg.TxMaxAttempts > 0 {
		retry := postgres.DefaultRetryConfig()
		retry.MaxAttempts = cfg.TxMaxAttempts
		opts = append(opts, postgres.WithRetryConfig(retry))
	}

	shutdownTracing := func(context.Context) error { return nil }
	if cfg.OTLPEndpoint != "" {
		tracer, shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.OTLPEndpoint,
			Environment: cfg.Environment,
			ServiceName: cfg.ServiceName,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("set up tracing: %w", err)
		}
		shutdownTracing = shutdown
		opts = append(opts, postgres.WithTracer(tracer))
	}

	db := postgres.New(postgres.NewPool(pool), logger.With("component", "postgres"), opts...)

	return &app{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		db:              db,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdownTracing(ctx); err != nil {
		a.logger.Warn("tracing shutdown failed", "error", err)
	}
	a.pool.Close()
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
