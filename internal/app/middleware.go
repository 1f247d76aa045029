package app

import (
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/middleware"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, cfg.BotToken),
	}
}
