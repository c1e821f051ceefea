// Package main runs the comparison-study platform HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/perceptua/backend/config"
	"github.com/perceptua/backend/internal/comparisons"
	"github.com/perceptua/backend/internal/export"
	"github.com/perceptua/backend/internal/middleware"
	"github.com/perceptua/backend/internal/sessions"
	"github.com/perceptua/backend/internal/stats"
	"github.com/perceptua/backend/internal/studies"
	"github.com/perceptua/backend/pkg/database"
	"github.com/perceptua/backend/pkg/queue"
	"github.com/perceptua/backend/pkg/redis"
	"github.com/perceptua/backend/pkg/response"
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

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Studies
	studyRepo := studies.NewRepository(pool)
	studyHandler := studies.NewHandler(studyRepo)

	// Comparison catalog
	comparisonRepo := comparisons.NewRepository(pool)
	comparisonHandler := comparisons.NewHandler(comparisonRepo, studyRepo)

	// Sessions (participant lifecycle)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	sessionRepo := sessions.NewRepository(pool)
	sessionService := sessions.NewService(sessionRepo, studyRepo, comparisonRepo, jobQueue, logger)
	sessionHandler := sessions.NewHandler(sessionService)

	// Aggregate statistics
	aggregator := stats.NewAggregator(studyRepo, comparisonRepo, sessionRepo)
	statsCache := stats.NewCache(rdb.Client, time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second)
	statsHandler := stats.NewHandler(aggregator, statsCache, logger)
	exportHandler := export.NewHandler(aggregator, comparisonRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Studies (researcher surface)
	router.POST("/studies", studyHandler.Create)
	router.GET("/studies", studyHandler.List)
	router.GET("/studies/:id", studyHandler.GetByID)
	router.PATCH("/studies/:id", studyHandler.Update)
	router.DELETE("/studies/:id", studyHandler.Delete)

	// Comparison catalog
	router.POST("/studies/:id/comparisons", comparisonHandler.Create)
	router.GET("/studies/:id/comparisons", comparisonHandler.ListByStudy)
	router.GET("/comparisons/:id", comparisonHandler.GetByID)

	// Sessions (participant surface, anonymous)
	router.POST("/studies/:id/sessions", sessionHandler.Start)
	router.GET("/sessions/:id", sessionHandler.GetByID)
	router.POST("/sessions/:id/responses", sessionHandler.AddResponse)
	router.POST("/sessions/:id/complete", sessionHandler.Complete)

	// Aggregate statistics
	router.GET("/studies/:id/stats", statsHandler.GetByStudy)
	router.GET("/studies/:id/stats/export", exportHandler.ExportByStudy)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
