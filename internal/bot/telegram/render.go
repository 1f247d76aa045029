package telegram

import (
	"github.com/snapmeal/snapmeal-backend/internal/bot/workflow"
)

// renderText localizes a reply and fills its template arguments from the
// attached payload.
func (b *Bot) renderText(r workflow.Reply) string {
	switch r.Key {
	case "meal_summary":
		c := r.Candidate
		if c == nil {
			return b.catalog.Get(r.Language, "nothing_to_save")
		}
		return b.catalog.F(r.Language, r.Key, c.FoodName, c.Grams, c.Calories, c.Protein, c.Fat, c.Carbs)

	case "diary_day":
		d := r.Diary
		if d == nil {
			return b.catalog.F(r.Language, "diary_empty", r.Date.Format("2006-01-02"))
		}
		return b.catalog.F(r.Language, r.Key, r.Date.Format("2006-01-02"),
			d.TotalCalories, d.TotalProtein, d.TotalFat, d.TotalCarbs)

	case "diary_empty":
		return b.catalog.F(r.Language, r.Key, r.Date.Format("2006-01-02"))

	case "settings":
		p := r.Profile
		if p == nil {
			return b.catalog.Get(r.Language, "backend_unavailable")
		}
		goal := b.catalog.Get(r.Language, "not_set")
		if p.Goal != "" {
			goal = b.catalog.Get(r.Language, "goal_"+p.Goal)
		}
		weight := any(b.catalog.Get(r.Language, "not_set"))
		if p.WeightKg != nil {
			weight = *p.WeightKg
		}
		reminder := b.catalog.Get(r.Language, "off")
		if p.MorningSummaryEnabled {
			reminder = b.catalog.Get(r.Language, "on")
		}
		return b.catalog.F(r.Language, r.Key, goal, weight, reminder)

	case "stats":
		s := r.Stats
		if s == nil {
			return b.catalog.Get(r.Language, "backend_unavailable")
		}
		return b.catalog.F(r.Language, r.Key, s.TotalUsers, s.Active7Days, s.Active1Days)
	}

	return b.catalog.Get(r.Language, r.Key)
}

// markup picks the keyboard to attach, or nil for none.
func (b *Bot) markup(r workflow.Reply) interface{} {
	switch r.Keyboard {
	case workflow.KeyboardMain:
		return b.kb.Main(r.Language)
	case workflow.KeyboardSettings:
		return b.kb.Settings(r.Language)
	case workflow.KeyboardConfirm:
		return b.kb.Confirm(r.Language)
	case workflow.KeyboardEditFields:
		return b.kb.EditFields(r.Language)
	case workflow.KeyboardGoals:
		return b.kb.Goals(r.Language)
	case workflow.KeyboardLanguages:
		return b.kb.Languages(r.Language)
	case workflow.KeyboardDiaryNav:
		return b.kb.DiaryNav(r.Language, r.Date)
	case workflow.KeyboardRemove:
		return removeKeyboard()
	}
	return nil
}
