package types

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalLose     = "lose"
	GoalGain     = "gain"
	GoalMaintain = "maintain"
)

const (
	LanguageRU = "ru"
	LanguageEN = "en"
	LanguageUZ = "uz"
)

type AppUser struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	TelegramID int64            `gorm:"uniqueIndex;not null;column:telegram_id" json:"telegram_id"`
	Name       string           `gorm:"column:name" json:"name"`
	Gender     string           `gorm:"column:gender" json:"gender"`
	Age        *int             `gorm:"column:age" json:"age"`
	HeightCm   *int             `gorm:"column:height_cm" json:"height_cm"`
	WeightKg   *decimal.Decimal `gorm:"type:numeric(5,2);column:weight_kg" json:"weight_kg"`
	Goal       string           `gorm:"not null;default:maintain;column:goal" json:"goal"`
	Language   string           `gorm:"not null;default:ru;column:language" json:"language"`

	CalorieTarget  *int             `gorm:"column:calorie_target" json:"calorie_target"`
	ProteinTargetG *decimal.Decimal `gorm:"type:numeric(6,2);column:protein_target_g" json:"protein_target_g"`
	FatTargetG     *decimal.Decimal `gorm:"type:numeric(6,2);column:fat_target_g" json:"fat_target_g"`
	CarbTargetG    *decimal.Decimal `gorm:"type:numeric(6,2);column:carb_target_g" json:"carb_target_g"`

	MorningSummaryEnabled bool `gorm:"not null;default:true;column:morning_summary_enabled" json:"morning_summary_enabled"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (AppUser) TableName() string {
	return "app_user"
}

func ValidGoal(goal string) bool {
	switch goal {
	case GoalLose, GoalGain, GoalMaintain:
		return true
	}
	return false
}

func ValidLanguage(language string) bool {
	switch language {
	case LanguageRU, LanguageEN, LanguageUZ:
		return true
	}
	return false
}
