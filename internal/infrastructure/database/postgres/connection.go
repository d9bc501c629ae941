package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-servicing/internal/config"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns          int32 = 8
	defaultMaxConnIdleTime         = 5 * time.Minute
	defaultHealthCheckPeriod       = 30 * time.Second
	defaultPingTimeout             = 5 * time.Second
)

var errEmptyDatabaseURL = errors.New("database URL is empty in configuration")

// NewConnectionPool opens the pool backing the postgres payment store and fails fast when
// the database cannot be pinged.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "PostgresPool",
		"host", poolConfig.ConnConfig.Host,
		"db", poolConfig.ConnConfig.Database,
		"max_conns", poolConfig.MaxConns,
	)
	logger.Info("Opening loan store connection pool...")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := ping(ctx, pool, pingTimeoutFor(cfg), logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Loan store connection pool ready.")
	return pool, nil
}

// poolConfigFor parses the URL and applies the configured sizing over the pool defaults.
func poolConfigFor(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errEmptyDatabaseURL
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = min(cfg.MinConns, poolConfig.MaxConns)
	}
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	return poolConfig, nil
}

func pingTimeoutFor(cfg config.DatabaseConfig) time.Duration {
	if cfg.PingTimeout > 0 {
		return cfg.PingTimeout
	}
	return defaultPingTimeout
}

func ping(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("Loan store database did not answer ping", "timeout", timeout, "error", err)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}
	return nil
}
