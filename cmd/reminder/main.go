package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapmeal/snapmeal-backend/internal/bot/texts"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/reminder"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running and sweep daily at REMINDER_HOUR instead of exiting after one sweep")
	flag.Parse()

	if err := run(*daemon); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Reminder failed: %v\n", err)
		os.Exit(1)
	}
}

func run(daemon bool) error {
	log, err := logger.New(os.Getenv("MODE"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	botToken := utils.GetEnv("BOT_TOKEN", "", log)
	if botToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	backendURL := utils.GetEnv("BACKEND_URL", "http://localhost:8000", log)

	backend, err := clients.NewBackendClient(log, backendURL, botToken)
	if err != nil {
		return err
	}
	catalog, err := texts.Load()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return fmt.Errorf("init telegram api: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := reminder.NewJob(log, backend, api, catalog)
	if daemon {
		return job.RunDaily(ctx, utils.GetEnvAsInt("REMINDER_HOUR", 8, log))
	}
	return job.Run(ctx)
}
