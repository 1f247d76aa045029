package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/snapmeal/snapmeal-backend/internal/handlers"
	"github.com/snapmeal/snapmeal-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	DiaryHandler   *handlers.DiaryHandler
	MealHandler    *handlers.MealHandler
	StatsHandler   *handlers.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Auth", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireBotToken())
	// Users
	protected.POST("/users", cfg.UserHandler.Create)
	protected.GET("/users/reminder", cfg.UserHandler.ListReminderEnabled)
	protected.GET("/users/telegram/:telegram_id", cfg.UserHandler.GetByTelegramID)
	protected.PATCH("/users/telegram/:telegram_id", cfg.UserHandler.Update)
	// Diary
	protected.POST("/diary", cfg.DiaryHandler.Create)
	protected.GET("/diary/date/:user_id/:year/:month/:day", cfg.DiaryHandler.GetByDate)
	// Meals
	protected.POST("/meal", cfg.MealHandler.Create)
	protected.DELETE("/meal/:id", cfg.MealHandler.Delete)
	// Stats
	protected.GET("/stats", cfg.StatsHandler.Usage)

	return router
}
