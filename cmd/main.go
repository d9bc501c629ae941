package main

import (
	"context"
	"errors"
	"fmt"
	_ "loan-servicing/docs"
	"loan-servicing/internal/api"
	"loan-servicing/internal/api/middleware"
	"loan-servicing/internal/batch"
	"loan-servicing/internal/config"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/event"
	"loan-servicing/internal/infrastructure/cache"
	"loan-servicing/internal/infrastructure/database/postgres"
	"loan-servicing/internal/infrastructure/logging"
	"loan-servicing/internal/infrastructure/memory"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// @title Loan Servicing API
// @version 1.0
// @description Records loan repayments and reports each loan's repayment status.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, dbPool, err := initializeStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeDatabase(dbPool, logger)

	redisClient := initializeRedisClient(cfg, logger)
	store = wrapWithCache(store, redisClient, cfg, logger)

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	publisher := initializePublisher(rabbitMQConn, cfg, logger)

	loanService, paymentService := initializeServices(store, publisher, logger)

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	go rateLimiter.RunSweeper(ctx)

	reportJob := batch.NewStatusReportJob(loanService, logger)
	cronScheduler := startBatchJobs(cfg, logger, reportJob)

	router, err := api.SetupRouter(rateLimiter, loanService, paymentService, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up router", "error", err)
		os.Exit(1)
	}

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", cfg.ConfigFile)

	return cfg, logger
}

// initializeStore returns the configured payment store. The pool is nil for the memory backend.
func initializeStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (loan.Repository, *pgxpool.Pool, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory, "":
		if !cfg.Store.Seed {
			logger.Info("Using empty in-memory store.")
			return memory.NewPaymentStore(nil, nil, logger), nil, nil
		}
		logger.Info("Using seeded in-memory store.")
		return memory.NewSeededPaymentStore(logger), nil, nil
	case config.StoreBackendPostgres:
		dbPool, err := initializeDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPaymentStore(dbPool, logger), dbPool, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func initializeDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(ctx, dbPool, logger); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return dbPool, nil
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	if dbPool == nil {
		return
	}
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Cache.Enabled {
		logger.Info("Loan cache disabled, skipping Redis client.")
		return nil
	}
	logger.Info("Initializing Redis client...")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Warn("Failed to connect to Redis, continuing without loan cache", "error", status.Err(), "addr", cfg.Cache.Addr)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Cache.Addr, "db", cfg.Cache.DB)
	return rdb
}

func wrapWithCache(store loan.Repository, redisClient *redis.Client, cfg *config.Config, logger *slog.Logger) loan.Repository {
	if redisClient == nil {
		return store
	}
	return cache.NewLoanCache(store, cache.NewRedisCache(redisClient), cfg.Cache.TTL, logger)
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	} else {
		logger.Info("Redis client connection closed.")
	}
}

func connectRabbitMQ(uri string, retryCount int, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		if i < retryCount {
			time.Sleep(time.Duration(i*2) * time.Second)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// setupRabbitMQ returns nil when events are disabled or the broker cannot be reached.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, payment events will not be published.")
		return nil
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RabbitMQ enabled but no URL configured, payment events will not be published.")
		return nil
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, 5, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, payment events will not be published", "error", err)
		return nil
	}
	return conn
}

func initializePublisher(conn *amqp.Connection, cfg *config.Config, logger *slog.Logger) event.EventPublisher {
	if conn == nil {
		return event.NoopPublisher{Logger: logger}
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ event publisher", "error", err)
		return event.NoopPublisher{Logger: logger}
	}
	return publisher
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
		return
	}
	if rabbitConn.IsClosed() {
		logger.Info("RabbitMQ connection already closed, skipping close.")
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
	} else {
		logger.Info("RabbitMQ connection closed.")
	}
}

func initializeServices(store loan.Repository, publisher event.EventPublisher, logger *slog.Logger) (loan.LoanService, loan.PaymentService) {
	logger.Info("Initializing application components...")
	return loan.NewLoanService(store, logger), loan.NewPaymentService(store, publisher, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	shutdownHTTPServer(srv, serverErrors, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, reportJob *batch.StatusReportJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.StatusReportSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 * * * *"
		logger.Warn("Status report schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.StatusReportTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "StatusReport")
		jobLogger.Info("Cron triggered: Running loan status report job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, runErr := reportJob.Run(ctx); runErr != nil {
			jobLogger.Error("Loan status report job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Loan status report job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule loan status report job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled loan status report job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}
