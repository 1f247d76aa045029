package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/repos"
	"github.com/snapmeal/snapmeal-backend/internal/types"
)

var day = time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	// A named in-memory database keeps every pooled connection on the same
	// schema while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.AppUser{}, &types.Diary{}, &types.Meal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return db, log
}

func newTestDiaryService(t *testing.T) (DiaryService, *gorm.DB, *types.AppUser) {
	t.Helper()
	db, log := openTestDB(t)

	user := &types.AppUser{TelegramID: 100, Language: "en"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewDiaryService(db, log, repos.NewDiaryRepo(db, log), repos.NewMealRepo(db, log))
	return svc, db, user
}

func mealInput(diaryID uint, name string, calories int64) MealInput {
	return MealInput{
		DiaryID:  diaryID,
		FoodName: name,
		Grams:    100,
		Calories: decimal.NewFromInt(calories),
		Protein:  decimal.NewFromInt(5),
		Fat:      decimal.NewFromInt(3),
		Carbs:    decimal.NewFromInt(20),
	}
}

func TestCreateMealUpdatesTotals(t *testing.T) {
	svc, _, user := newTestDiaryService(t)
	ctx := context.Background()

	diary, err := svc.GetOrCreate(ctx, user.ID, day)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if _, err := svc.CreateMeal(ctx, mealInput(diary.ID, "apple", 52)); err != nil {
		t.Fatalf("first meal: %v", err)
	}
	if _, err := svc.CreateMeal(ctx, mealInput(diary.ID, "rice", 195)); err != nil {
		t.Fatalf("second meal: %v", err)
	}

	got, err := svc.GetByDate(ctx, user.ID, day)
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if !got.TotalCalories.Equal(decimal.NewFromInt(247)) {
		t.Fatalf("calories: expected 247, got %s", got.TotalCalories)
	}
	if !got.TotalProtein.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("protein: expected 10, got %s", got.TotalProtein)
	}
}

func TestCreateMealDefaultsGrams(t *testing.T) {
	svc, db, user := newTestDiaryService(t)
	ctx := context.Background()

	diary, _ := svc.GetOrCreate(ctx, user.ID, day)
	input := mealInput(diary.ID, "soup", 80)
	input.Grams = 0

	meal, err := svc.CreateMeal(ctx, input)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if meal.Grams != 100 {
		t.Fatalf("expected default portion of 100g, got %d", meal.Grams)
	}

	var stored types.Meal
	if err := db.First(&stored, meal.ID).Error; err != nil {
		t.Fatalf("fetch meal: %v", err)
	}
	if stored.Grams != 100 {
		t.Fatalf("stored grams: expected 100, got %d", stored.Grams)
	}
}

func TestCreateMealRejectsMissingDiary(t *testing.T) {
	svc, _, _ := newTestDiaryService(t)

	_, err := svc.CreateMeal(context.Background(), mealInput(9999, "ghost", 1))
	if err == nil {
		t.Fatal("expected error for unknown diary")
	}
}

func TestCreateMealRequiresFoodName(t *testing.T) {
	svc, _, user := newTestDiaryService(t)
	ctx := context.Background()

	diary, _ := svc.GetOrCreate(ctx, user.ID, day)
	input := mealInput(diary.ID, "", 10)

	if _, err := svc.CreateMeal(ctx, input); err == nil {
		t.Fatal("expected error for empty food name")
	}
}

func TestDeleteMealRecalculatesTotals(t *testing.T) {
	svc, _, user := newTestDiaryService(t)
	ctx := context.Background()

	diary, _ := svc.GetOrCreate(ctx, user.ID, day)
	first, _ := svc.CreateMeal(ctx, mealInput(diary.ID, "apple", 52))
	if _, err := svc.CreateMeal(ctx, mealInput(diary.ID, "rice", 195)); err != nil {
		t.Fatalf("second meal: %v", err)
	}

	if err := svc.DeleteMeal(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := svc.GetByDate(ctx, user.ID, day)
	if !got.TotalCalories.Equal(decimal.NewFromInt(195)) {
		t.Fatalf("calories after delete: expected 195, got %s", got.TotalCalories)
	}
}

func TestGetByDateRepairsDriftedTotals(t *testing.T) {
	svc, db, user := newTestDiaryService(t)
	ctx := context.Background()

	diary, _ := svc.GetOrCreate(ctx, user.ID, day)
	if _, err := svc.CreateMeal(ctx, mealInput(diary.ID, "apple", 52)); err != nil {
		t.Fatalf("create meal: %v", err)
	}

	// Corrupt the stored totals directly; the read path must recompute them.
	if err := db.Model(&types.Diary{}).Where("id = ?", diary.ID).
		Update("total_calories", decimal.NewFromInt(9999)).Error; err != nil {
		t.Fatalf("corrupt totals: %v", err)
	}

	got, err := svc.GetByDate(ctx, user.ID, day)
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if !got.TotalCalories.Equal(decimal.NewFromInt(52)) {
		t.Fatalf("expected recomputed 52, got %s", got.TotalCalories)
	}
}

func TestGetByDateMissingDiary(t *testing.T) {
	svc, _, user := newTestDiaryService(t)

	got, err := svc.GetByDate(context.Background(), user.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for a day without entries")
	}
}
