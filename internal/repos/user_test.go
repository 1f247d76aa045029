package repos

import (
	"context"
	"testing"

	"github.com/snapmeal/snapmeal-backend/internal/types"
)

func TestGetByTelegramIDMissing(t *testing.T) {
	db, log := openTestDB(t)
	repo := NewUserRepo(db, log)

	user, err := repo.GetByTelegramID(context.Background(), nil, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatal("expected nil for unknown telegram id")
	}
}

func TestCreateAndFetchUser(t *testing.T) {
	db, log := openTestDB(t)
	repo := NewUserRepo(db, log)
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, &types.AppUser{TelegramID: 100, Language: "uz"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := repo.GetByTelegramID(ctx, nil, 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched == nil || fetched.ID != created.ID || fetched.Language != "uz" {
		t.Fatalf("unexpected user: %+v", fetched)
	}
}

func TestUpdateFields(t *testing.T) {
	db, log := openTestDB(t)
	repo := NewUserRepo(db, log)
	ctx := context.Background()

	if _, err := repo.Create(ctx, nil, &types.AppUser{TelegramID: 100, Language: "ru"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := repo.UpdateFields(ctx, nil, 100, map[string]interface{}{
		"language": "en",
		"goal":     types.GoalLose,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	user, _ := repo.GetByTelegramID(ctx, nil, 100)
	if user.Language != "en" || user.Goal != types.GoalLose {
		t.Fatalf("update not applied: %+v", user)
	}
}

func TestListReminderEnabled(t *testing.T) {
	db, log := openTestDB(t)
	repo := NewUserRepo(db, log)
	ctx := context.Background()

	seedUser(t, db, 1)
	seedUser(t, db, 2)
	if _, err := repo.UpdateFields(ctx, nil, 2, map[string]interface{}{"morning_summary_enabled": false}); err != nil {
		t.Fatalf("disable reminder: %v", err)
	}

	users, err := repo.ListReminderEnabled(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].TelegramID != 1 {
		t.Fatalf("expected only user 1, got %+v", users)
	}
}
