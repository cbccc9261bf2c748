package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fishing-tournament-backend/internal/common/config"
	"fishing-tournament-backend/internal/common/logger"
	"fishing-tournament-backend/internal/common/middleware"
	competitionhttp "fishing-tournament-backend/internal/features/competition/delivery/http"
	competitionpg "fishing-tournament-backend/internal/features/competition/repository/postgres"
	competitionredis "fishing-tournament-backend/internal/features/competition/repository/redis"
	"fishing-tournament-backend/internal/features/competition/service"
	"fishing-tournament-backend/internal/platform/notify"
	"fishing-tournament-backend/internal/platform/postgres"
	"fishing-tournament-backend/internal/platform/redis"
	"fishing-tournament-backend/internal/platform/vision"
)

func main() {
	cfg := config.Load()

	logger.Init("tournament-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting tournament backend")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	repo := competitionpg.NewRepository(postgresClient.DB())
	cache := competitionredis.NewLeaderboardCache(redisClient.Client, cfg.Scheduler.LeaderboardRefresh)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Notify.BaseURL != "" {
		notifier = notify.NewClient(cfg.Notify.BaseURL, cfg.Notify.Timeout)
	}
	analyzer := vision.NewClient(cfg.Vision.BaseURL, cfg.Vision.APIKey, cfg.Vision.Timeout)

	rules := service.ScoringRules{
		WeightMultiplier: cfg.Scoring.WeightMultiplier,
		LengthMultiplier: cfg.Scoring.LengthMultiplier,
		PointsPerCatch:   cfg.Scoring.PointsPerCatch,
		PointsPerSpecies: cfg.Scoring.PointsPerSpecies,
	}
	verifier := service.NewVerifier(repo, analyzer, cfg.Vision.MinConfidence, rules)
	aggregator := service.NewAggregator(repo, rules)
	allocator := service.NewAllocator(repo, notifier)
	competitionSvc := service.NewCompetitionService(repo, cache, verifier, aggregator, allocator)

	scheduler := service.NewPhaseScheduler(repo, aggregator, allocator, cfg.Scheduler.JudgingWindow)
	if err := scheduler.Start(cfg.Scheduler.SweepInterval, cfg.Scheduler.LeaderboardRefresh, competitionSvc.RefreshActiveLeaderboards); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start phase scheduler")
	}
	defer scheduler.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := router.Group("/api/v1")
	competitionhttp.NewHandler(competitionSvc).RegisterRoutes(api)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
