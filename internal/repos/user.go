package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.AppUser) (*types.AppUser, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.AppUser, error)
	GetByTelegramID(ctx context.Context, tx *gorm.DB, telegramID int64) (*types.AppUser, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, telegramID int64, fields map[string]interface{}) (*types.AppUser, error)
	ListReminderEnabled(ctx context.Context, tx *gorm.DB) ([]*types.AppUser, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.AppUser) (*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if user == nil {
		return nil, errors.New("no user given")
	}

	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.AppUser
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

func (ur *userRepo) GetByTelegramID(ctx context.Context, tx *gorm.DB, telegramID int64) (*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.AppUser
	if err := transaction.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) UpdateFields(ctx context.Context, tx *gorm.DB, telegramID int64, fields map[string]interface{}) (*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(fields) == 0 {
		return ur.GetByTelegramID(ctx, transaction, telegramID)
	}

	res := transaction.WithContext(ctx).
		Model(&types.AppUser{}).
		Where("telegram_id = ?", telegramID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return ur.GetByTelegramID(ctx, transaction, telegramID)
}

func (ur *userRepo) ListReminderEnabled(ctx context.Context, tx *gorm.DB) ([]*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.AppUser
	if err := transaction.WithContext(ctx).
		Where("morning_summary_enabled = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AppUser{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveSince counts distinct users that logged at least one meal after the
// given cutoff, matching the stats endpoint of the original API.
func (ur *userRepo) CountActiveSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Meal{}).
		Joins("JOIN diary ON diary.id = meal.diary_id").
		Where("meal.created_at >= ?", since).
		Distinct("diary.user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
