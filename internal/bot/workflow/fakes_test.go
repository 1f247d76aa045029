package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/bot/pending"
	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/vision"
)

type fieldUpdate struct {
	TelegramID int64
	Field      string
	Value      interface{}
}

type fakeBackend struct {
	profiles map[int64]*clients.UserProfile
	diaries  map[string]*clients.DiaryView
	meals    []clients.MealPayload
	updates  []fieldUpdate

	nextDiaryID     uint
	failProfile     bool
	failCreateMeal  int
	failUpdateField bool
	created         []int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		profiles:    make(map[int64]*clients.UserProfile),
		diaries:     make(map[string]*clients.DiaryView),
		nextDiaryID: 1,
	}
}

func diaryKey(userID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.Format("2006-01-02"))
}

func (f *fakeBackend) GetUserProfile(_ context.Context, telegramID int64) (*clients.UserProfile, error) {
	if f.failProfile {
		return nil, errors.New("backend down")
	}
	return f.profiles[telegramID], nil
}

func (f *fakeBackend) CreateUser(_ context.Context, telegramID int64, language string) (*clients.UserProfile, error) {
	p := &clients.UserProfile{ID: uint(len(f.profiles) + 1), TelegramID: telegramID, Language: language}
	f.profiles[telegramID] = p
	f.created = append(f.created, telegramID)
	return p, nil
}

func (f *fakeBackend) UpdateUserField(_ context.Context, telegramID int64, field string, value interface{}) error {
	if f.failUpdateField {
		return errors.New("backend down")
	}
	f.updates = append(f.updates, fieldUpdate{TelegramID: telegramID, Field: field, Value: value})
	return nil
}

func (f *fakeBackend) FindOrCreateDiary(_ context.Context, userID uint, date time.Time) (uint, error) {
	key := diaryKey(userID, date)
	if d, ok := f.diaries[key]; ok {
		return d.ID, nil
	}
	d := &clients.DiaryView{ID: f.nextDiaryID, Date: date.Format("2006-01-02")}
	f.nextDiaryID++
	f.diaries[key] = d
	return d.ID, nil
}

func (f *fakeBackend) GetDiaryByDate(_ context.Context, userID uint, date time.Time) (*clients.DiaryView, error) {
	return f.diaries[diaryKey(userID, date)], nil
}

func (f *fakeBackend) CreateMeal(_ context.Context, payload clients.MealPayload) error {
	if f.failCreateMeal > 0 {
		f.failCreateMeal--
		return errors.New("backend down")
	}
	f.meals = append(f.meals, payload)
	return nil
}

func (f *fakeBackend) ListReminderUsers(_ context.Context) ([]*clients.UserProfile, error) {
	var users []*clients.UserProfile
	for _, p := range f.profiles {
		if p.MorningSummaryEnabled {
			users = append(users, p)
		}
	}
	return users, nil
}

func (f *fakeBackend) UsageStats(_ context.Context) (*clients.UsageStats, error) {
	return &clients.UsageStats{TotalUsers: int64(len(f.profiles))}, nil
}

type fakeClassifier struct {
	estimate *vision.Estimate
	err      error
	calls    int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ string) (*vision.Estimate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e := *f.estimate
	return &e, nil
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) FetchPhoto(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type fakePhotoStore struct {
	saved int
	err   error
}

func (f *fakePhotoStore) Save(telegramID int64, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved++
	return fmt.Sprintf("image/%d-%d.jpg", telegramID, f.saved), nil
}

type fixture struct {
	wf       *Workflow
	backend  *fakeBackend
	vision   *fakeClassifier
	fetcher  *fakeFetcher
	store    *fakePhotoStore
	sessions *session.Store
	registry *pending.Registry
}

var testDay = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	f := &fixture{
		backend: newFakeBackend(),
		vision: &fakeClassifier{estimate: &vision.Estimate{
			FoodName: "apple",
			Calories: decimal.NewFromInt(52),
			Protein:  decimal.RequireFromString("0.3"),
			Fat:      decimal.RequireFromString("0.2"),
			Carbs:    decimal.NewFromInt(14),
			Raw:      `{"food_name":"apple"}`,
		}},
		fetcher:  &fakeFetcher{data: []byte("jpeg")},
		store:    &fakePhotoStore{},
		sessions: session.NewStore(),
		registry: pending.NewRegistry(),
	}
	f.wf = New(log, f.backend, f.vision, f.fetcher, f.store, f.sessions, f.registry)
	f.wf.now = func() time.Time { return testDay }
	return f
}

// registeredUser seeds a known profile and returns its telegram id.
func (f *fixture) registeredUser() int64 {
	const id int64 = 100
	f.backend.profiles[id] = &clients.UserProfile{ID: 1, TelegramID: id, Language: "en", MorningSummaryEnabled: true}
	return id
}

func firstKey(t *testing.T, out Outcome) string {
	t.Helper()
	if len(out.Replies) == 0 {
		t.Fatal("expected at least one reply")
	}
	return out.Replies[0].Key
}
