package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
)

// MenuResolver maps the literal text of a reply-keyboard button to its menu
// action, across all supported languages.
type MenuResolver func(text string) (MenuAction, bool)

// SetMenuResolver wires the label lookup used for free-text menu dispatch.
func (w *Workflow) SetMenuResolver(resolve MenuResolver) {
	w.resolveMenu = resolve
}

// HandleStart greets the user. Unknown users are sent to language selection;
// known users get the main menu.
func (w *Workflow) HandleStart(ctx context.Context, userID int64) Outcome {
	w.sessions.Reset(userID)

	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil {
		w.log.Warn("Profile lookup failed on start", "telegram_id", userID, "error", err)
		return reply("backend_unavailable", defaultLanguage, KeyboardRemove)
	}
	if profile == nil {
		w.sessions.SetState(userID, session.StateAwaitingLanguageChoice)
		return reply("choose_language", defaultLanguage, KeyboardLanguages)
	}
	return reply("welcome_back", profile.Language, KeyboardMain)
}

// HandleText routes a free-text message: state-specific input first, then the
// menu-label fallback, then the default hint.
func (w *Workflow) HandleText(ctx context.Context, userID int64, text string) Outcome {
	sess := w.sessions.Get(userID)

	switch sess.State {
	case session.StateAwaitingFieldValue:
		return w.HandleFieldValue(ctx, userID, text)
	case session.StateAwaitingWeightValue:
		return w.HandleWeightValue(ctx, userID, text)
	case session.StateAwaitingGoalChoice:
		return reply("choose_goal", w.language(ctx, userID), KeyboardGoals)
	case session.StateAwaitingLanguageChoice:
		return reply("choose_language", w.language(ctx, userID), KeyboardLanguages)
	case session.StateAwaitingPhoto:
		// Anything that is not a photo drops the user back to the menu.
		w.sessions.Reset(userID)
	}

	if w.resolveMenu != nil {
		if action, ok := w.resolveMenu(strings.TrimSpace(text)); ok {
			return w.HandleMenuAction(ctx, userID, action)
		}
	}
	return reply("default_message", w.language(ctx, userID), KeyboardMain)
}

// HandleMenuAction dispatches a resolved menu entry.
func (w *Workflow) HandleMenuAction(ctx context.Context, userID int64, action MenuAction) Outcome {
	switch action {
	case MenuAddMeal:
		return w.HandleAddMeal(ctx, userID)
	case MenuMyDiary:
		return w.HandleDiary(ctx, userID, w.now())
	case MenuSettings:
		return w.HandleSettings(ctx, userID)
	case MenuGoal:
		return w.HandleGoalMenu(ctx, userID)
	case MenuWeight:
		return w.HandleWeightMenu(ctx, userID)
	case MenuLanguage:
		return w.HandleLanguageMenu(ctx, userID)
	case MenuReminderToggle:
		return w.HandleReminderToggle(ctx, userID)
	case MenuHelp:
		return w.HandleHelp(ctx, userID)
	case MenuBack:
		return w.HandleBack(ctx, userID)
	}
	return reply("default_message", w.language(ctx, userID), KeyboardMain)
}

// HandleCallback routes an inline-button press by its action identifier.
func (w *Workflow) HandleCallback(ctx context.Context, userID int64, data string) Outcome {
	switch {
	case data == ActionSaveMeal:
		return w.HandleSave(ctx, userID)
	case data == ActionEditMeal:
		return w.HandleEditRequest(ctx, userID)
	case data == ActionCancelMeal:
		return w.HandleCancel(ctx, userID)
	case strings.HasPrefix(data, ActionEditFieldPrefix):
		return w.HandleEditField(ctx, userID, strings.TrimPrefix(data, ActionEditFieldPrefix))
	case strings.HasPrefix(data, ActionGoalPrefix):
		return w.HandleGoalChoice(ctx, userID, strings.TrimPrefix(data, ActionGoalPrefix))
	case strings.HasPrefix(data, ActionLangPrefix):
		return w.HandleLanguageChoice(ctx, userID, strings.TrimPrefix(data, ActionLangPrefix))
	case strings.HasPrefix(data, ActionDiaryPrevPrefix):
		return w.handleDiaryShift(ctx, userID, strings.TrimPrefix(data, ActionDiaryPrevPrefix), -1)
	case strings.HasPrefix(data, ActionDiaryNextPrefix):
		return w.handleDiaryShift(ctx, userID, strings.TrimPrefix(data, ActionDiaryNextPrefix), +1)
	}
	return reply("default_message", w.language(ctx, userID), KeyboardMain)
}

// HandleAddMeal asks for a photo. The state is advisory; photos are handled in
// any state.
func (w *Workflow) HandleAddMeal(ctx context.Context, userID int64) Outcome {
	w.sessions.SetState(userID, session.StateAwaitingPhoto)
	return reply("send_photo", w.language(ctx, userID), KeyboardMain)
}

// HandleDiary shows the totals for one day with prev/next navigation.
func (w *Workflow) HandleDiary(ctx context.Context, userID int64, date time.Time) Outcome {
	lang := w.language(ctx, userID)

	profile, err := w.backend.GetUserProfile(ctx, userID)
	if err != nil || profile == nil {
		return reply("backend_unavailable", lang, KeyboardMain)
	}

	diary, err := w.backend.GetDiaryByDate(ctx, profile.ID, date)
	if err != nil {
		w.log.Warn("Diary fetch failed", "telegram_id", userID, "error", err)
		return reply("backend_unavailable", lang, KeyboardMain)
	}

	out := Outcome{Replies: []Reply{{
		Key:      "diary_day",
		Language: lang,
		Keyboard: KeyboardDiaryNav,
		Diary:    diary,
		Date:     date,
	}}}
	if diary == nil {
		out.Replies[0].Key = "diary_empty"
	}
	return out
}

func (w *Workflow) handleDiaryShift(ctx context.Context, userID int64, shown string, days int) Outcome {
	date, err := time.Parse("2006-01-02", shown)
	if err != nil {
		return w.HandleDiary(ctx, userID, w.now())
	}
	return w.HandleDiary(ctx, userID, date.AddDate(0, 0, days))
}

// HandleStats reports usage counters to operators. Requests from anyone else
// are answered like any other unknown text.
func (w *Workflow) HandleStats(ctx context.Context, userID int64) Outcome {
	lang := w.language(ctx, userID)
	if !w.operators[userID] {
		return reply("default_message", lang, KeyboardMain)
	}

	stats, err := w.backend.UsageStats(ctx)
	if err != nil {
		w.log.Warn("Stats fetch failed", "telegram_id", userID, "error", err)
		return reply("backend_unavailable", lang, KeyboardMain)
	}
	out := reply("stats", lang, KeyboardMain)
	out.Replies[0].Stats = stats
	return out
}

func (w *Workflow) HandleHelp(ctx context.Context, userID int64) Outcome {
	return reply("help", w.language(ctx, userID), KeyboardMain)
}

func (w *Workflow) HandleBack(ctx context.Context, userID int64) Outcome {
	w.sessions.Reset(userID)
	return reply("main_menu", w.language(ctx, userID), KeyboardMain)
}
