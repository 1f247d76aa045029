package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/repos"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

// MealInput carries the confirmed candidate fields the bot submits on save.
type MealInput struct {
	DiaryID   uint            `json:"diary"`
	FoodName  string          `json:"food_name"`
	Grams     int             `json:"grams"`
	Calories  decimal.Decimal `json:"calories"`
	Protein   decimal.Decimal `json:"protein"`
	Fat       decimal.Decimal `json:"fat"`
	Carbs     decimal.Decimal `json:"carbs"`
	ImageURL  string          `json:"image_url"`
	AIRawJSON string          `json:"ai_raw_json"`
}

type DiaryService interface {
	GetOrCreate(ctx context.Context, userID uint, date time.Time) (*types.Diary, error)
	GetByDate(ctx context.Context, userID uint, date time.Time) (*types.Diary, error)
	CreateMeal(ctx context.Context, input MealInput) (*types.Meal, error)
	DeleteMeal(ctx context.Context, mealID uint) error
}

type diaryService struct {
	db        *gorm.DB
	log       *logger.Logger
	diaryRepo repos.DiaryRepo
	mealRepo  repos.MealRepo
}

func NewDiaryService(db *gorm.DB, baseLog *logger.Logger, diaryRepo repos.DiaryRepo, mealRepo repos.MealRepo) DiaryService {
	serviceLog := baseLog.With("service", "DiaryService")
	return &diaryService{db: db, log: serviceLog, diaryRepo: diaryRepo, mealRepo: mealRepo}
}

func (ds *diaryService) GetOrCreate(ctx context.Context, userID uint, date time.Time) (*types.Diary, error) {
	diary, err := ds.diaryRepo.GetOrCreate(ctx, nil, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get or create diary: %w", err)
	}
	return diary, nil
}

// GetByDate recomputes totals before returning, mirroring the read path of the
// original API so stale totals are never served.
func (ds *diaryService) GetByDate(ctx context.Context, userID uint, date time.Time) (*types.Diary, error) {
	diary, err := ds.diaryRepo.GetByUserAndDate(ctx, nil, userID, date)
	if err != nil {
		return nil, err
	}
	if diary == nil {
		return nil, nil
	}
	return ds.diaryRepo.RecalcTotals(ctx, nil, diary.ID)
}

// CreateMeal inserts the meal and recomputes the owning diary's totals inside a
// single transaction; the caller may assume fresh totals once this returns.
func (ds *diaryService) CreateMeal(ctx context.Context, input MealInput) (*types.Meal, error) {
	if input.FoodName == "" {
		return nil, fmt.Errorf("food_name is required")
	}
	if input.Grams < 1 {
		input.Grams = 100
	}

	var created *types.Meal
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		diary, err := ds.diaryRepo.GetByID(ctx, tx, input.DiaryID)
		if err != nil {
			return err
		}
		if diary == nil {
			return fmt.Errorf("diary %d not found", input.DiaryID)
		}

		meal := &types.Meal{
			DiaryID:   diary.ID,
			FoodName:  input.FoodName,
			Grams:     input.Grams,
			Calories:  input.Calories,
			Protein:   input.Protein,
			Fat:       input.Fat,
			Carbs:     input.Carbs,
			ImageURL:  input.ImageURL,
			AIRawJSON: input.AIRawJSON,
		}
		created, err = ds.mealRepo.Create(ctx, tx, meal)
		if err != nil {
			return err
		}
		_, err = ds.diaryRepo.RecalcTotals(ctx, tx, diary.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	ds.log.Info("Meal created", "diary_id", input.DiaryID, "food_name", input.FoodName)
	return created, nil
}

func (ds *diaryService) DeleteMeal(ctx context.Context, mealID uint) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meal, err := ds.mealRepo.GetByID(ctx, tx, mealID)
		if err != nil {
			return err
		}
		if meal == nil {
			return nil
		}
		if err := ds.mealRepo.Delete(ctx, tx, mealID); err != nil {
			return err
		}
		_, err = ds.diaryRepo.RecalcTotals(ctx, tx, meal.DiaryID)
		return err
	})
}
