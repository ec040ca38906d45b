package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/api"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/billing"
	"github.com/aiquanty/Quanty-Backend/internal/database"
	"github.com/aiquanty/Quanty-Backend/internal/storage"
	"github.com/aiquanty/Quanty-Backend/pkg/config"
	"github.com/aiquanty/Quanty-Backend/pkg/queue"
	"github.com/aiquanty/Quanty-Backend/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Quanty server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient = nil
	}

	asynqClient := queue.NewClient(&cfg.Redis)

	store, err := storage.New(context.Background(), &cfg.AWS)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)
	resetService := auth.NewPasswordResetService(db, jwtService, asynqClient)

	aiClient := aibackend.NewClient(cfg.AIBackend.URL)
	accountsService := accounts.NewService(db, aiClient, store, logger)
	teamService := accounts.NewTeamService(accountsService, jwtService, asynqClient, logger)
	billingService := billing.NewService(db, accountsService, cfg.Stripe, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:              db,
		Redis:           redisClient,
		Logger:          logger,
		JWTService:      jwtService,
		AuthService:     authService,
		ResetService:    resetService,
		AccountsService: accountsService,
		TeamService:     teamService,
		BillingService:  billingService,
		Storage:         store,
		Jobs:            asynqClient,
		RateLimitReqs:   cfg.RateLimit.Requests,
		RateLimitSecs:   cfg.RateLimit.WindowSeconds,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // document ingestion waits on the AI backend
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	asynqClient.Close()
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
