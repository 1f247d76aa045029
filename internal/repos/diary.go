package repos

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

type DiaryRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Diary, error)
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uint, date time.Time) (*types.Diary, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uint, date time.Time) (*types.Diary, error)
	RecalcTotals(ctx context.Context, tx *gorm.DB, diaryID uint) (*types.Diary, error)
}

type diaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiaryRepo(db *gorm.DB, baseLog *logger.Logger) DiaryRepo {
	repoLog := baseLog.With("repo", "DiaryRepo")
	return &diaryRepo{db: db, log: repoLog}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr *diaryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Diary
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

func (dr *diaryRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uint, date time.Time) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Diary
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, truncateToDate(date)).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// GetOrCreate is idempotent: the unique (user_id, date) index plus DoNothing on
// conflict guarantees a single diary per user and day even under concurrent calls.
func (dr *diaryRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uint, date time.Time) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	day := truncateToDate(date)
	diary := types.Diary{
		UserID: userID,
		Date:   day,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&diary).Error; err != nil {
		return nil, err
	}
	return dr.GetByUserAndDate(ctx, transaction, userID, day)
}

type totalsRow struct {
	Calories decimal.Decimal
	Protein  decimal.Decimal
	Fat      decimal.Decimal
	Carbs    decimal.Decimal
}

// RecalcTotals rewrites the diary's four totals as the exact sum over its current
// meals. Totals are never adjusted incrementally, so partial failures cannot
// leave them drifted from the meal rows.
func (dr *diaryRepo) RecalcTotals(ctx context.Context, tx *gorm.DB, diaryID uint) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var row totalsRow
	if err := transaction.WithContext(ctx).
		Model(&types.Meal{}).
		Select(
			"COALESCE(SUM(calories), 0) AS calories, " +
				"COALESCE(SUM(protein), 0) AS protein, " +
				"COALESCE(SUM(fat), 0) AS fat, " +
				"COALESCE(SUM(carbs), 0) AS carbs").
		Where("diary_id = ?", diaryID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Diary{}).
		Where("id = ?", diaryID).
		Updates(map[string]interface{}{
			"total_calories": row.Calories,
			"total_protein":  row.Protein,
			"total_fat":      row.Fat,
			"total_carbs":    row.Carbs,
		}).Error; err != nil {
		return nil, err
	}

	return dr.GetByID(ctx, transaction, diaryID)
}
