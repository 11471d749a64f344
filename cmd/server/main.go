package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/api"
	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/config"
	"github.com/projectdolphin/notification-pipeline/internal/db"
	"github.com/projectdolphin/notification-pipeline/internal/repository"
	"github.com/projectdolphin/notification-pipeline/internal/service"
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
	repo := repository.NewPgApplicationRepository(pool)
	auditStore := repository.NewPgAuditStore(pool)

	var producer broker.Producer
	switch cfg.Broker {
	case config.BrokerKafka:
		kp := broker.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close() //nolint:errcheck
		producer = kp
	default:
		producer = broker.NewPgQueue(pool, cfg.QueueName, cfg.VisibilityTimeout,
			cfg.MaxReceiveCount, logger, nil)
	}

	submissions := service.NewSubmissionService(producer, logger)
	admin := service.NewAdminService(repo, auditStore, logger)

	// ---- HTTP server ----
	router := api.NewRouter(submissions, admin, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
