package app

import (
	"github.com/gin-gonic/gin"

	"github.com/snapmeal/snapmeal-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware: middlewareset.Auth,
		UserHandler:    handlerset.User,
		DiaryHandler:   handlerset.Diary,
		MealHandler:    handlerset.Meal,
		StatsHandler:   handlerset.Stats,
	})
}
