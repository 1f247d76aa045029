package workflow

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
)

var validGoals = map[string]bool{
	"lose":     true,
	"maintain": true,
	"gain":     true,
}

var validLanguages = map[string]bool{
	"ru": true,
	"en": true,
	"uz": true,
}

var maxWeightKg = decimal.NewFromInt(500)

// HandleSettings shows the current profile with the settings keyboard.
func (w *Workflow) HandleSettings(ctx context.Context, userID int64) Outcome {
	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil || profile == nil {
		return reply("backend_unavailable", defaultLanguage, KeyboardMain)
	}
	out := reply("settings", profile.Language, KeyboardSettings)
	out.Replies[0].Profile = profile
	return out
}

func (w *Workflow) HandleGoalMenu(ctx context.Context, userID int64) Outcome {
	w.sessions.SetState(userID, session.StateAwaitingGoalChoice)
	return reply("choose_goal", w.language(ctx, userID), KeyboardGoals)
}

// HandleGoalChoice persists a goal selection. On backend failure the user
// stays in the choice state and is re-prompted.
func (w *Workflow) HandleGoalChoice(ctx context.Context, userID int64, goal string) Outcome {
	lang := w.language(ctx, userID)
	if !validGoals[goal] {
		return reply("choose_goal", lang, KeyboardGoals)
	}
	if err := w.backend.UpdateUserField(ctx, userID, "goal", goal); err != nil {
		w.log.Warn("Goal update failed", "telegram_id", userID, "error", err)
		return reply("choose_goal", lang, KeyboardGoals)
	}
	w.sessions.Reset(userID)
	return reply("goal_updated", lang, KeyboardSettings)
}

func (w *Workflow) HandleWeightMenu(ctx context.Context, userID int64) Outcome {
	w.sessions.SetState(userID, session.StateAwaitingWeightValue)
	return reply("enter_weight", w.language(ctx, userID), KeyboardNone)
}

// HandleWeightValue parses and persists a typed weight. Accepted range is
// 0 < weight <= 500 kg; comma decimal separators are tolerated.
func (w *Workflow) HandleWeightValue(ctx context.Context, userID int64, text string) Outcome {
	lang := w.language(ctx, userID)

	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(text), ",", "."))
	if err != nil || !value.IsPositive() || value.GreaterThan(maxWeightKg) {
		return reply("invalid_weight", lang, KeyboardNone)
	}
	value = value.Round(2)

	if err := w.backend.UpdateUserField(ctx, userID, "weight_kg", value); err != nil {
		w.log.Warn("Weight update failed", "telegram_id", userID, "error", err)
		return reply("invalid_weight", lang, KeyboardNone)
	}
	w.sessions.Reset(userID)
	return reply("weight_updated", lang, KeyboardSettings)
}

func (w *Workflow) HandleLanguageMenu(ctx context.Context, userID int64) Outcome {
	w.sessions.SetState(userID, session.StateAwaitingLanguageChoice)
	return reply("choose_language", w.language(ctx, userID), KeyboardLanguages)
}

// HandleLanguageChoice serves both onboarding and the settings menu: unknown
// users are registered with the chosen language, known users are updated.
func (w *Workflow) HandleLanguageChoice(ctx context.Context, userID int64, lang string) Outcome {
	if !validLanguages[lang] {
		return reply("choose_language", w.language(ctx, userID), KeyboardLanguages)
	}

	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil {
		w.log.Warn("Profile lookup failed on language choice", "telegram_id", userID, "error", err)
		return reply("choose_language", lang, KeyboardLanguages)
	}

	if profile == nil {
		if _, err := w.backend.CreateUser(ctx, userID, lang); err != nil {
			w.log.Warn("User registration failed", "telegram_id", userID, "error", err)
			return reply("choose_language", lang, KeyboardLanguages)
		}
		w.sessions.Reset(userID)
		w.log.Info("User registered", "telegram_id", userID, "language", lang)
		return reply("welcome", lang, KeyboardMain)
	}

	if err := w.backend.UpdateUserField(ctx, userID, "language", lang); err != nil {
		w.log.Warn("Language update failed", "telegram_id", userID, "error", err)
		return reply("choose_language", lang, KeyboardLanguages)
	}
	w.sessions.Reset(userID)
	return reply("language_updated", lang, KeyboardSettings)
}

// HandleReminderToggle flips the morning summary flag.
func (w *Workflow) HandleReminderToggle(ctx context.Context, userID int64) Outcome {
	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil || profile == nil {
		return reply("backend_unavailable", defaultLanguage, KeyboardMain)
	}

	enabled := !profile.MorningSummaryEnabled
	if err := w.backend.UpdateUserField(ctx, userID, "morning_summary_enabled", enabled); err != nil {
		w.log.Warn("Reminder toggle failed", "telegram_id", userID, "error", err)
		return reply("backend_unavailable", profile.Language, KeyboardSettings)
	}

	key := "reminder_disabled"
	if enabled {
		key = "reminder_enabled"
	}
	return reply(key, profile.Language, KeyboardSettings)
}
