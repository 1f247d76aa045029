package app

import (
	"fmt"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
)

type Config struct {
	BotToken string
	Port     string
}

func LoadConfig(log *logger.Logger) (Config, error) {
	botToken := utils.GetEnv("BOT_TOKEN", "", log)
	if botToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}
	port := utils.GetEnv("PORT", "8000", log)
	return Config{
		BotToken: botToken,
		Port:     port,
	}, nil
}
