package main

import (
	"context"
	"io"
	"loan-servicing/internal/batch"
	"loan-servicing/internal/config"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/event"
	"loan-servicing/internal/infrastructure/cache"
	"loan-servicing/internal/infrastructure/logging"
	"loan-servicing/internal/infrastructure/memory"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = logging.New(io.Discard, config.LoggerConfig{Level: "error"})

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestInitializeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("seeded memory store", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory, Seed: true}}

		store, pool, err := initializeStore(ctx, cfg, logger)

		require.NoError(t, err)
		assert.Nil(t, pool)
		loans, err := store.ListLoans(ctx)
		require.NoError(t, err)
		assert.Len(t, loans, 4)
	})

	t.Run("empty memory store", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory}}

		store, _, err := initializeStore(ctx, cfg, logger)

		require.NoError(t, err)
		loans, err := store.ListLoans(ctx)
		require.NoError(t, err)
		assert.Empty(t, loans)
	})

	t.Run("postgres without url", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendPostgres}}

		store, pool, err := initializeStore(ctx, cfg, logger)

		require.Error(t, err)
		assert.Nil(t, store)
		assert.Nil(t, pool)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Backend: "sqlite"}}

		_, _, err := initializeStore(ctx, cfg, logger)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown store backend")
	})
}

func TestWrapWithCache(t *testing.T) {
	store := memory.NewSeededPaymentStore(logger)
	cfg := &config.Config{Cache: config.CacheConfig{TTL: time.Minute}}

	assert.Same(t, store, wrapWithCache(store, nil, cfg, logger))

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	wrapped := wrapWithCache(store, client, cfg, logger)
	assert.IsType(t, &cache.LoanCache{}, wrapped)
}

func TestDisabledIntegrations(t *testing.T) {
	cfg := &config.Config{}

	assert.Nil(t, initializeRedisClient(cfg, logger))
	assert.Nil(t, setupRabbitMQ(cfg, logger))
	assert.IsType(t, event.NoopPublisher{}, initializePublisher(nil, cfg, logger))
}

func TestInitializeServices(t *testing.T) {
	store := memory.NewSeededPaymentStore(logger)

	loanService, paymentService := initializeServices(store, nil, logger)
	require.NotNil(t, loanService)
	require.NotNil(t, paymentService)

	loanID := int64(4)
	amount := 1500.0
	date := "2025-03-10"
	payment, err := paymentService.RecordPayment(context.Background(), loan.PaymentRequest{
		LoanID:        &loanID,
		PaymentAmount: &amount,
		PaymentDate:   &date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), payment.ID)
}

func TestStartBatchJobs(t *testing.T) {
	loanService, _ := initializeServices(memory.NewSeededPaymentStore(logger), nil, logger)
	job := batch.NewStatusReportJob(loanService, logger)

	t.Run("schedules the report", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{StatusReportSchedule: "*/5 * * * *"}}
		c := startBatchJobs(cfg, logger, job)
		defer c.Stop()

		assert.Len(t, c.Entries(), 1)
	})

	t.Run("invalid schedule is skipped", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{StatusReportSchedule: "not a schedule"}}
		c := startBatchJobs(cfg, logger, job)
		defer c.Stop()

		assert.Empty(t, c.Entries())
	})
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	defer srv.Close()

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	shutdownChan <- syscall.SIGINT
	go func() {
		time.Sleep(50 * time.Millisecond)
		serverErrors <- nil
	}()

	assert.NotPanics(t, func() {
		handleShutdown(srv, cronScheduler, nil, nil, shutdownChan, serverErrors, logger)
	})
}
