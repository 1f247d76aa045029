package app

import (
	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/services"
)

type Services struct {
	User  services.UserService
	Diary services.DiaryService
	Stats services.StatsService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		User:  services.NewUserService(db, log, reposet.User),
		Diary: services.NewDiaryService(db, log, reposet.Diary, reposet.Meal),
		Stats: services.NewStatsService(db, log, reposet.User),
	}
}
