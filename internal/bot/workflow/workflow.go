package workflow

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/bot/pending"
	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
	"github.com/snapmeal/snapmeal-backend/internal/vision"
)

const defaultLanguage = "ru"

// PhotoFetcher downloads the raw bytes of a photo the user sent, addressed by
// the transport's file reference.
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, fileRef string) ([]byte, error)
}

// PhotoStore persists a downloaded photo and returns its local path.
type PhotoStore interface {
	Save(telegramID int64, data []byte) (string, error)
}

// Workflow implements the conversation logic behind every bot interaction.
// Each handler takes the user's telegram id, consults the session state and
// pending registry, talks to the diary API, and returns the replies to send.
// Errors never escape a handler; they collapse into user-facing replies while
// the session and registry are adjusted according to the failure kind.
type Workflow struct {
	log       *logger.Logger
	backend   clients.Backend
	vision    vision.Classifier
	photos    PhotoFetcher
	store     PhotoStore
	sessions  *session.Store
	registry  *pending.Registry
	operators map[int64]bool

	resolveMenu MenuResolver
	now         func() time.Time
}

func New(
	baseLog *logger.Logger,
	backend clients.Backend,
	classifier vision.Classifier,
	photos PhotoFetcher,
	store PhotoStore,
	sessions *session.Store,
	registry *pending.Registry,
) *Workflow {
	return &Workflow{
		log:       baseLog.With("service", "Workflow"),
		backend:   backend,
		vision:    classifier,
		photos:    photos,
		store:     store,
		sessions:  sessions,
		registry:  registry,
		operators: parseOperators(utils.GetEnv("STATS_ALLOWED_IDS", "", baseLog)),
		now:       time.Now,
	}
}

func parseOperators(raw string) map[int64]bool {
	operators := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		operators[id] = true
	}
	return operators
}

// language resolves the user's interface language, falling back to the default
// for unknown users or an unreachable backend.
func (w *Workflow) language(ctx context.Context, userID int64) string {
	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil || profile == nil || profile.Language == "" {
		return defaultLanguage
	}
	return profile.Language
}

// || Meal flow ||

// HandlePhoto runs the recognition pipeline for an uploaded photo. Photos are
// accepted in every conversation state; a new photo replaces whatever
// unconfirmed candidate the user had.
func (w *Workflow) HandlePhoto(ctx context.Context, userID int64, fileRef string) Outcome {
	lang := w.language(ctx, userID)

	data, err := w.photos.FetchPhoto(ctx, fileRef)
	if err != nil {
		w.log.Warn("Photo download failed", "telegram_id", userID, "error", err)
		w.sessions.Reset(userID)
		return reply("photo_transfer_failed", lang, KeyboardMain)
	}

	path, err := w.store.Save(userID, data)
	if err != nil {
		w.log.Error("Photo persist failed", "telegram_id", userID, "error", err)
		w.sessions.Reset(userID)
		return reply("photo_transfer_failed", lang, KeyboardMain)
	}

	estimate, err := w.vision.Classify(ctx, lang, path)
	if err != nil {
		w.log.Info("Photo not recognized", "telegram_id", userID, "error", err)
		w.sessions.Reset(userID)
		return reply("food_not_recognized", lang, KeyboardMain)
	}

	candidate := pending.Candidate{
		FoodName:  estimate.FoodName,
		Calories:  estimate.Calories,
		Protein:   estimate.Protein,
		Fat:       estimate.Fat,
		Carbs:     estimate.Carbs,
		Grams:     100,
		PhotoPath: path,
		Raw:       estimate.Raw,
	}
	w.registry.Put(userID, candidate)
	w.sessions.SetState(userID, session.StateAwaitingConfirmation)

	out := reply("meal_summary", lang, KeyboardConfirm)
	out.Replies[0].Candidate = &candidate
	return out
}

// HandleSave commits the pending candidate to the diary. On any backend
// failure the candidate and the session are left untouched so the user can
// simply press save again.
func (w *Workflow) HandleSave(ctx context.Context, userID int64) Outcome {
	lang := w.language(ctx, userID)

	candidate, ok := w.registry.Get(userID)
	if !ok {
		w.sessions.Reset(userID)
		return reply("nothing_to_save", lang, KeyboardMain)
	}

	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil {
		w.log.Warn("Profile lookup failed on save", "telegram_id", userID, "error", err)
		return reply("save_failed", lang, KeyboardConfirm)
	}
	if profile == nil {
		w.log.Warn("Save attempted by unregistered user", "telegram_id", userID)
		return reply("save_failed", lang, KeyboardConfirm)
	}

	diaryID, err := w.backend.FindOrCreateDiary(ctx, profile.ID, w.now())
	if err != nil {
		w.log.Warn("Diary lookup failed on save", "telegram_id", userID, "error", err)
		return reply("save_failed", lang, KeyboardConfirm)
	}

	payload := clients.MealPayload{
		DiaryID:   diaryID,
		FoodName:  candidate.FoodName,
		Grams:     candidate.Grams,
		Calories:  candidate.Calories,
		Protein:   candidate.Protein,
		Fat:       candidate.Fat,
		Carbs:     candidate.Carbs,
		ImageURL:  candidate.PhotoPath,
		AIRawJSON: candidate.Raw,
	}
	if err := w.backend.CreateMeal(ctx, payload); err != nil {
		w.log.Warn("Meal create failed on save", "telegram_id", userID, "error", err)
		return reply("save_failed", lang, KeyboardConfirm)
	}

	w.registry.Remove(userID)
	w.sessions.Reset(userID)
	w.log.Info("Meal saved", "telegram_id", userID, "diary_id", diaryID, "food", candidate.FoodName)
	return reply("meal_saved", lang, KeyboardMain)
}

// HandleEditRequest shows the editable-field picker for the pending candidate.
func (w *Workflow) HandleEditRequest(ctx context.Context, userID int64) Outcome {
	lang := w.language(ctx, userID)
	if _, ok := w.registry.Get(userID); !ok {
		w.sessions.Reset(userID)
		return reply("nothing_to_save", lang, KeyboardMain)
	}
	return reply("choose_field", lang, KeyboardEditFields)
}

var editableFields = map[string]bool{
	"calories": true,
	"protein":  true,
	"fat":      true,
	"carbs":    true,
}

// HandleEditField records which nutrient the user wants to change and prompts
// for the new value. Food name and grams are not editable.
func (w *Workflow) HandleEditField(ctx context.Context, userID int64, field string) Outcome {
	lang := w.language(ctx, userID)
	if !editableFields[field] {
		return reply("choose_field", lang, KeyboardEditFields)
	}
	if _, ok := w.registry.Get(userID); !ok {
		w.sessions.Reset(userID)
		return reply("nothing_to_save", lang, KeyboardMain)
	}
	w.sessions.SetEditing(userID, field)
	return reply("enter_new_value", lang, KeyboardNone)
}

// HandleFieldValue applies a typed replacement value to the field chosen
// earlier. Invalid input re-prompts without touching the candidate.
func (w *Workflow) HandleFieldValue(ctx context.Context, userID int64, text string) Outcome {
	lang := w.language(ctx, userID)
	sess := w.sessions.Get(userID)
	if sess.State != session.StateAwaitingFieldValue || !editableFields[sess.EditingField] {
		w.sessions.Reset(userID)
		return reply("default_message", lang, KeyboardMain)
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(text), ",", "."))
	if err != nil || !value.IsPositive() {
		return reply("invalid_number", lang, KeyboardNone)
	}
	value = value.Round(2)

	field := sess.EditingField
	ok := w.registry.Update(userID, func(c *pending.Candidate) {
		switch field {
		case "calories":
			c.Calories = value
		case "protein":
			c.Protein = value
		case "fat":
			c.Fat = value
		case "carbs":
			c.Carbs = value
		}
	})
	if !ok {
		w.sessions.Reset(userID)
		return reply("nothing_to_save", lang, KeyboardMain)
	}

	w.sessions.SetState(userID, session.StateAwaitingConfirmation)
	candidate, _ := w.registry.Get(userID)
	out := Outcome{Replies: []Reply{
		{Key: "value_updated", Language: lang, Keyboard: KeyboardNone},
		{Key: "meal_summary", Language: lang, Keyboard: KeyboardConfirm, Candidate: &candidate},
	}}
	return out
}

// HandleCancel discards the pending candidate unconditionally. Safe to call
// when nothing is pending.
func (w *Workflow) HandleCancel(ctx context.Context, userID int64) Outcome {
	lang := w.language(ctx, userID)
	w.registry.Remove(userID)
	w.sessions.Reset(userID)
	return reply("meal_canceled", lang, KeyboardMain)
}
