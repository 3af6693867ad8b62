package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/middleware/auth"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("migrations_failed", "error", err)
		os.Exit(1)
	}

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis only backs the signup cooldown; run without it when unset
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = repository.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis_connect_failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		logger.Info("redis_connected", "signup_cooldown", cfg.SignupCooldown.String())
	}

	mailer, err := mail.New(cfg, logger)
	if err != nil {
		logger.Error("mailer_init_failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Services
	services := handler.Services{
		Auth: service.NewAuthService(
			userRepo,
			tokens,
			mailer,
			repository.NewSignupCooldown(rdb),
			cfg.SignupCooldown,
			logger,
		),
		Users:      service.NewUserService(userRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Genres:     service.NewGenreService(genreRepo),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo),
		Reviews:    service.NewReviewService(reviewRepo, titleRepo),
		Comments:   service.NewCommentService(commentRepo, reviewRepo),
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(time.Minute, ctx.Done())

	router := handler.NewRouter(services, handler.RouterConfig{
		Tokens:  tokens,
		Users:   userRepo,
		Limiter: limiter,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http_server_listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server_stopped_gracefully")
}
