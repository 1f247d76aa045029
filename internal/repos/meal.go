package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

type MealRepo interface {
	Create(ctx context.Context, tx *gorm.DB, meal *types.Meal) (*types.Meal, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Meal, error)
	ListByDiary(ctx context.Context, tx *gorm.DB, diaryID uint) ([]*types.Meal, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type mealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealRepo(db *gorm.DB, baseLog *logger.Logger) MealRepo {
	repoLog := baseLog.With("repo", "MealRepo")
	return &mealRepo{db: db, log: repoLog}
}

func (mr *mealRepo) Create(ctx context.Context, tx *gorm.DB, meal *types.Meal) (*types.Meal, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if meal == nil {
		return nil, errors.New("no meal given")
	}
	if meal.Grams < 1 {
		return nil, errors.New("grams must be at least 1")
	}

	if err := transaction.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

func (mr *mealRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Meal, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.Meal
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mr *mealRepo) ListByDiary(ctx context.Context, tx *gorm.DB, diaryID uint) ([]*types.Meal, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Meal
	if err := transaction.WithContext(ctx).
		Where("diary_id = ?", diaryID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mealRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Meal{}).Error
}
