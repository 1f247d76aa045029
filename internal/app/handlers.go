package app

import (
	"github.com/snapmeal/snapmeal-backend/internal/handlers"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
)

type Handlers struct {
	User  *handlers.UserHandler
	Diary *handlers.DiaryHandler
	Meal  *handlers.MealHandler
	Stats *handlers.StatsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		User:  handlers.NewUserHandler(serviceset.User),
		Diary: handlers.NewDiaryHandler(serviceset.Diary),
		Meal:  handlers.NewMealHandler(serviceset.Diary),
		Stats: handlers.NewStatsHandler(serviceset.Stats),
	}
}
