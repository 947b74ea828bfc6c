package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vacancyradar/internal/config"
	"vacancyradar/internal/hh"
	"vacancyradar/internal/messaging"
	"vacancyradar/internal/scheduler"
	"vacancyradar/internal/telegram"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("failed to sync logger: %v", err)
		}
	}()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting ingestion service",
		zap.String("hh_api_url", cfg.HHBaseURL),
		zap.Duration("api_timeout", cfg.HHTimeout),
		zap.Duration("polling_interval", cfg.PollingInterval))

	hhClient := hh.NewClient(logger, cfg)

	publisher, err := messaging.NewPublisher(logger, cfg)
	if err != nil {
		logger.Fatal("failed to create NATS publisher", zap.Error(err))
	}
	defer publisher.Close()

	runner := scheduler.NewRunner(hhClient, publisher, logger, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := runner.Start(ctx); err != nil {
			logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, runner, logger)
		if err != nil {
			logger.Fatal("failed to create telegram bot", zap.Error(err))
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				logger.Error("telegram bot stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("telegram bot disabled, no token configured")
	}

	logger.Info("ingestion service started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	runner.Stop()
	cancel()
	logger.Info("shutdown complete")
}
