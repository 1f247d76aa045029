package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meal is immutable once created; edits happen on the unconfirmed candidate
// before it is committed to a diary.
type Meal struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	DiaryID uint `gorm:"not null;index;column:diary_id" json:"diary"`

	FoodName string `gorm:"not null;column:food_name" json:"food_name"`
	Grams    int    `gorm:"not null;column:grams" json:"grams"`

	Calories decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"calories"`
	Protein  decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"protein"`
	Fat      decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"fat"`
	Carbs    decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"carbs"`

	ImageURL  string `gorm:"column:image_url" json:"image_url"`
	AIRawJSON string `gorm:"column:ai_raw_json" json:"ai_raw_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Meal) TableName() string {
	return "meal"
}
