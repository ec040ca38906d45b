package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/aiquanty/Quanty-Backend/internal/mail"
	"github.com/aiquanty/Quanty-Backend/internal/tasks"
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

	logger.Info("starting Quanty worker")

	srv := queue.NewServer(&cfg.Redis, 10)

	mailer := mail.New(&cfg.Mail)
	handler := tasks.NewHandler(mailer, logger)

	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()
	logger.Info("worker stopped")
}
