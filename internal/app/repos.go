package app

import (
	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/repos"
)

type Repos struct {
	User  repos.UserRepo
	Diary repos.DiaryRepo
	Meal  repos.MealRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:  repos.NewUserRepo(db, log),
		Diary: repos.NewDiaryRepo(db, log),
		Meal:  repos.NewMealRepo(db, log),
	}
}
