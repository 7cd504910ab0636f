package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"koya/config"
	"koya/handler"
	"koya/logger"
	"koya/middleware"
	"koya/storage"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// the server works in UTC only
	time.Local = time.UTC
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init("koya", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	db, err := utils.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer utils.CloseDB(db)

	rdb, err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer utils.CloseRedis(rdb)

	if err := handler.RegisterValidators(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to register validators")
	}

	files := storage.NewClient(cfg.Uploads.APIURL, cfg.Uploads.Secret)
	handlers := handler.NewHandlers(db, files, cfg)
	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.BaseURL))

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	handler.RegisterRoutes(r, handlers,
		middleware.AuthMiddleware(cfg.JWTSecret),
		limiter.Middleware(),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("koya service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("server forced to shutdown")
	}
}
