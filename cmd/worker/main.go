package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/api"
	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/config"
	"github.com/projectdolphin/notification-pipeline/internal/db"
	"github.com/projectdolphin/notification-pipeline/internal/dispatch"
	"github.com/projectdolphin/notification-pipeline/internal/health"
	"github.com/projectdolphin/notification-pipeline/internal/metrics"
	"github.com/projectdolphin/notification-pipeline/internal/ratelimiter"
	"github.com/projectdolphin/notification-pipeline/internal/repository"
	"github.com/projectdolphin/notification-pipeline/internal/transport"
	"github.com/projectdolphin/notification-pipeline/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	// The tenant config store and audit store live in Postgres regardless
	// of which queue broker is configured.
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tracker := health.NewTracker()

	repo := repository.NewPgApplicationRepository(pool)
	auditStore := repository.NewPgAuditStore(pool)

	var queue broker.Queue
	switch cfg.Broker {
	case config.BrokerKafka:
		kq := broker.NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		defer kq.Close() //nolint:errcheck
		queue = kq
	default:
		queue = broker.NewPgQueue(pool, cfg.QueueName, cfg.VisibilityTimeout,
			cfg.MaxReceiveCount, logger, func(n int) {
				tracker.RecordDeadLetters(n)
				m.OnDeadLetters(n)
			})
	}

	trans := transport.NewWebhookTransport(cfg.EmailEndpoint, cfg.TopicEndpoint, cfg.TransportTimeout)
	limiters := ratelimiter.New(cfg.RateLimit)
	dispatcher := dispatch.NewDispatcher(trans, trans, limiters,
		cfg.DefaultEmailIdentity, cfg.DefaultTopic, logger)

	// ---- worker pool ----
	// Context for all poll loops; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	onDelivered, onFailed, onPollError := m.WorkerHooks()
	processor := worker.NewProcessor(repo, dispatcher, auditStore, tracker, worker.MetricHooks{
		OnDelivered: onDelivered,
		OnFailed:    onFailed,
		OnPollError: onPollError,
	}, logger)

	workers := worker.NewPool(cfg, queue, processor, tracker, onPollError, logger)
	workers.Start(workerCtx)

	// ---- health / metrics surface ----
	router := api.NewWorkerRouter(tracker, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("worker health server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("health server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop the health surface.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", zap.Error(err))
	}

	// 2. Stop accepting new batches.
	cancelWorkers()

	// 3. Wait for in-flight messages to finish their current batch.
	workers.Wait()

	logger.Info("worker stopped cleanly")
}
