// Package main runs the background stats refresh worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/perceptua/backend/config"
	"github.com/perceptua/backend/internal/comparisons"
	"github.com/perceptua/backend/internal/sessions"
	"github.com/perceptua/backend/internal/stats"
	"github.com/perceptua/backend/internal/studies"
	"github.com/perceptua/backend/internal/worker"
	"github.com/perceptua/backend/pkg/database"
	"github.com/perceptua/backend/pkg/queue"
	"github.com/perceptua/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	studyRepo := studies.NewRepository(pool)
	comparisonRepo := comparisons.NewRepository(pool)
	sessionRepo := sessions.NewRepository(pool)

	aggregator := stats.NewAggregator(studyRepo, comparisonRepo, sessionRepo)
	statsCache := stats.NewCache(rdb.Client, time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewStatsProcessor(aggregator, statsCache, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
