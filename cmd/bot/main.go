package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapmeal/snapmeal-backend/internal/bot/keyboards"
	"github.com/snapmeal/snapmeal-backend/internal/bot/pending"
	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
	"github.com/snapmeal/snapmeal-backend/internal/bot/telegram"
	"github.com/snapmeal/snapmeal-backend/internal/bot/texts"
	"github.com/snapmeal/snapmeal-backend/internal/bot/workflow"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/photostore"
	"github.com/snapmeal/snapmeal-backend/internal/platform/openai"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
	"github.com/snapmeal/snapmeal-backend/internal/vision"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Bot failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
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
	ai, err := openai.NewClient(log)
	if err != nil {
		return err
	}
	store, err := photostore.New(log)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return fmt.Errorf("init telegram api: %w", err)
	}

	wf := workflow.New(
		log,
		backend,
		vision.NewClassifier(log, ai),
		telegram.NewPhotoFetcher(api),
		store,
		session.NewStore(),
		pending.NewRegistry(),
	)
	kb := keyboards.NewBuilder(catalog)
	wf.SetMenuResolver(kb.ResolveMenu)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return telegram.NewBot(log, api, wf, catalog, kb).Run(ctx)
}
