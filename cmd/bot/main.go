package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/pto_bot/internal/app"
	"github.com/Freeeeeet/pto_bot/internal/config"
	"github.com/Freeeeeet/pto_bot/internal/controller/slackbot"
	"github.com/Freeeeeet/pto_bot/internal/controller/telegram"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting pto bot",
		zap.String("environment", cfg.Environment),
		zap.String("calendar_provider", cfg.CalendarProvider),
		zap.String("default_calendar", cfg.DefaultCalendarID),
		zap.Bool("verify_on_bind", cfg.VerifyOnBind))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	var transports []app.Transport

	if cfg.SlackEnabled() {
		transports = append(transports, slackbot.New(cfg.SlackBotToken, cfg.SlackAppToken,
			func(messenger service.Messenger) *service.PTOService {
				return application.NewPTOService(messenger, cfg.DefaultChannelID)
			}, logger))
	}

	if cfg.TelegramEnabled() {
		tg, err := telegram.New(cfg.TelegramToken,
			func(messenger service.Messenger) *service.PTOService {
				return application.NewPTOService(messenger, "")
			}, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		transports = append(transports, tg)
	}

	if err := app.NewRunner(logger, transports...).Run(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		return
	}

	logger.Info("👋 Bot stopped")
}
