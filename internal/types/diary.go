package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Diary is the per-user, per-day aggregate of logged meals. The four totals are
// always recomputed as the sum over the diary's meals, never adjusted in place.
type Diary struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_diary_user_date;column:user_id" json:"user"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_diary_user_date;index;column:date" json:"date"`

	TotalCalories decimal.Decimal `gorm:"type:numeric(9,2);not null;default:0" json:"total_calories"`
	TotalProtein  decimal.Decimal `gorm:"type:numeric(9,2);not null;default:0" json:"total_protein"`
	TotalFat      decimal.Decimal `gorm:"type:numeric(9,2);not null;default:0" json:"total_fat"`
	TotalCarbs    decimal.Decimal `gorm:"type:numeric(9,2);not null;default:0" json:"total_carbs"`

	Meals []Meal `gorm:"foreignKey:DiaryID" json:"meals,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Diary) TableName() string {
	return "diary"
}
