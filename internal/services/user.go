package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/repos"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

type UserService interface {
	Register(ctx context.Context, telegramID int64, language string) (*types.AppUser, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*types.AppUser, error)
	UpdateByTelegramID(ctx context.Context, telegramID int64, fields map[string]interface{}) (*types.AppUser, error)
	ListReminderEnabled(ctx context.Context) ([]*types.AppUser, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) Register(ctx context.Context, telegramID int64, language string) (*types.AppUser, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id is required")
	}
	if language == "" {
		language = types.LanguageRU
	}
	if !types.ValidLanguage(language) {
		return nil, fmt.Errorf("unsupported language %q", language)
	}

	existing, err := us.userRepo.GetByTelegramID(ctx, nil, telegramID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	user := &types.AppUser{
		TelegramID:            telegramID,
		Language:              language,
		Goal:                  types.GoalMaintain,
		MorningSummaryEnabled: true,
	}
	created, err := us.userRepo.Create(ctx, nil, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	us.log.Info("User registered", "telegram_id", telegramID, "language", language)
	return created, nil
}

func (us *userService) GetByTelegramID(ctx context.Context, telegramID int64) (*types.AppUser, error) {
	return us.userRepo.GetByTelegramID(ctx, nil, telegramID)
}

// UpdateByTelegramID accepts the same writable fields as the original PATCH
// endpoint and rejects anything else.
func (us *userService) UpdateByTelegramID(ctx context.Context, telegramID int64, fields map[string]interface{}) (*types.AppUser, error) {
	allowed := map[string]bool{
		"language":                true,
		"goal":                    true,
		"weight_kg":               true,
		"morning_summary_enabled": true,
		"name":                    true,
		"gender":                  true,
		"age":                     true,
		"height_cm":               true,
		"calorie_target":          true,
		"protein_target_g":        true,
		"fat_target_g":            true,
		"carb_target_g":           true,
	}
	for key := range fields {
		if !allowed[key] {
			return nil, fmt.Errorf("field %q is not writable", key)
		}
	}
	if lang, ok := fields["language"].(string); ok && !types.ValidLanguage(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	if goal, ok := fields["goal"].(string); ok && !types.ValidGoal(goal) {
		return nil, fmt.Errorf("unsupported goal %q", goal)
	}

	return us.userRepo.UpdateFields(ctx, nil, telegramID, fields)
}

func (us *userService) ListReminderEnabled(ctx context.Context) ([]*types.AppUser, error) {
	return us.userRepo.ListReminderEnabled(ctx, nil)
}
