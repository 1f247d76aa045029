package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
)

// UserProfile mirrors the user JSON served by the diary API.
type UserProfile struct {
	ID                    uint             `json:"id"`
	TelegramID            int64            `json:"telegram_id"`
	Language              string           `json:"language"`
	Goal                  string           `json:"goal"`
	WeightKg              *decimal.Decimal `json:"weight_kg"`
	MorningSummaryEnabled bool             `json:"morning_summary_enabled"`
}

// DiaryView mirrors the diary JSON served by the diary API.
type DiaryView struct {
	ID            uint            `json:"id"`
	Date          string          `json:"date"`
	TotalCalories decimal.Decimal `json:"total_calories"`
	TotalProtein  decimal.Decimal `json:"total_protein"`
	TotalFat      decimal.Decimal `json:"total_fat"`
	TotalCarbs    decimal.Decimal `json:"total_carbs"`
}

// MealPayload is the meal-creation body posted on a confirmed save.
type MealPayload struct {
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

type UsageStats struct {
	TotalUsers  int64 `json:"total_users"`
	Active7Days int64 `json:"active_7_days"`
	Active1Days int64 `json:"active_1_days"`
}

// Backend is the diary API surface the bot depends on.
type Backend interface {
	GetUserProfile(ctx context.Context, telegramID int64) (*UserProfile, error)
	CreateUser(ctx context.Context, telegramID int64, language string) (*UserProfile, error)
	UpdateUserField(ctx context.Context, telegramID int64, field string, value interface{}) error
	FindOrCreateDiary(ctx context.Context, backendUserID uint, date time.Time) (uint, error)
	GetDiaryByDate(ctx context.Context, backendUserID uint, date time.Time) (*DiaryView, error)
	CreateMeal(ctx context.Context, payload MealPayload) error
	ListReminderUsers(ctx context.Context) ([]*UserProfile, error)
	UsageStats(ctx context.Context) (*UsageStats, error)
}

type backendClient struct {
	log        *logger.Logger
	baseURL    string
	botToken   string
	httpClient *http.Client
}

func NewBackendClient(baseLog *logger.Logger, baseURL, botToken string) (Backend, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("backend base url required")
	}
	if strings.TrimSpace(botToken) == "" {
		return nil, fmt.Errorf("bot token required")
	}
	return &backendClient{
		log:        baseLog.With("service", "BackendClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (bc *backendClient) doJSON(ctx context.Context, method, path string, body any, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, bc.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Auth", bc.botToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := bc.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (bc *backendClient) GetUserProfile(ctx context.Context, telegramID int64) (*UserProfile, error) {
	var profile UserProfile
	status, err := bc.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/telegram/%d", telegramID), nil, &profile)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get user profile: status %d", status)
	}
	return &profile, nil
}

func (bc *backendClient) CreateUser(ctx context.Context, telegramID int64, language string) (*UserProfile, error) {
	body := map[string]interface{}{
		"telegram_id": telegramID,
		"language":    language,
	}
	var profile UserProfile
	status, err := bc.doJSON(ctx, http.MethodPost, "/users", body, &profile)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("create user: status %d", status)
	}
	return &profile, nil
}

func (bc *backendClient) UpdateUserField(ctx context.Context, telegramID int64, field string, value interface{}) error {
	body := map[string]interface{}{field: value}
	status, err := bc.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/users/telegram/%d", telegramID), body, nil)
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("update user %s: status %d", field, status)
	}
	return nil
}

func (bc *backendClient) GetDiaryByDate(ctx context.Context, backendUserID uint, date time.Time) (*DiaryView, error) {
	path := fmt.Sprintf("/diary/date/%d/%d/%d/%d", backendUserID, date.Year(), int(date.Month()), date.Day())
	var diaries []DiaryView
	status, err := bc.doJSON(ctx, http.MethodGet, path, nil, &diaries)
	if err != nil {
		return nil, fmt.Errorf("get diary by date: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get diary by date: status %d", status)
	}
	if len(diaries) == 0 {
		return nil, nil
	}
	return &diaries[0], nil
}

func (bc *backendClient) FindOrCreateDiary(ctx context.Context, backendUserID uint, date time.Time) (uint, error) {
	existing, err := bc.GetDiaryByDate(ctx, backendUserID, date)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	body := map[string]interface{}{
		"user": backendUserID,
		"date": date.Format("2006-01-02"),
	}
	var diary DiaryView
	status, err := bc.doJSON(ctx, http.MethodPost, "/diary", body, &diary)
	if err != nil {
		return 0, fmt.Errorf("create diary: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return 0, fmt.Errorf("create diary: status %d", status)
	}
	return diary.ID, nil
}

func (bc *backendClient) CreateMeal(ctx context.Context, payload MealPayload) error {
	status, err := bc.doJSON(ctx, http.MethodPost, "/meal", payload, nil)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return fmt.Errorf("create meal: status %d", status)
	}
	return nil
}

func (bc *backendClient) ListReminderUsers(ctx context.Context) ([]*UserProfile, error) {
	var users []*UserProfile
	status, err := bc.doJSON(ctx, http.MethodGet, "/users/reminder", nil, &users)
	if err != nil {
		return nil, fmt.Errorf("list reminder users: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list reminder users: status %d", status)
	}
	return users, nil
}

func (bc *backendClient) UsageStats(ctx context.Context) (*UsageStats, error) {
	var stats UsageStats
	status, err := bc.doJSON(ctx, http.MethodGet, "/stats", nil, &stats)
	if err != nil {
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("usage stats: status %d", status)
	}
	return &stats, nil
}
