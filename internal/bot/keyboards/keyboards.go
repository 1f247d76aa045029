package keyboards

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapmeal/snapmeal-backend/internal/bot/texts"
	"github.com/snapmeal/snapmeal-backend/internal/bot/workflow"
)

// Builder renders keyboards from the locale catalog. Inline buttons carry
// stable action identifiers in their callback data; only the visible labels
// are localized.
type Builder struct {
	catalog *texts.Catalog
	byLabel map[string]workflow.MenuAction
}

func NewBuilder(catalog *texts.Catalog) *Builder {
	b := &Builder{catalog: catalog, byLabel: make(map[string]workflow.MenuAction)}

	labelActions := map[string]workflow.MenuAction{
		"btn_add_meal": workflow.MenuAddMeal,
		"btn_my_diary": workflow.MenuMyDiary,
		"btn_settings": workflow.MenuSettings,
		"btn_goal":     workflow.MenuGoal,
		"btn_weight":   workflow.MenuWeight,
		"btn_language": workflow.MenuLanguage,
		"btn_reminder": workflow.MenuReminderToggle,
		"btn_help":     workflow.MenuHelp,
		"btn_back":     workflow.MenuBack,
	}
	for _, lang := range catalog.Languages() {
		for key, action := range labelActions {
			b.byLabel[catalog.Get(lang, key)] = action
		}
	}
	return b
}

// ResolveMenu maps a reply-keyboard label in any language to its action.
func (b *Builder) ResolveMenu(text string) (workflow.MenuAction, bool) {
	action, ok := b.byLabel[text]
	return action, ok
}

func (b *Builder) Main(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_add_meal")),
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_my_diary")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_settings")),
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_help")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Builder) Settings(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_goal")),
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_weight")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_language")),
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_reminder")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.catalog.Get(lang, "btn_back")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Builder) Confirm(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_save"), workflow.ActionSaveMeal),
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_edit"), workflow.ActionEditMeal),
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_cancel"), workflow.ActionCancelMeal),
		),
	)
}

func (b *Builder) EditFields(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_field_calories"), workflow.ActionEditFieldPrefix+"calories"),
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_field_protein"), workflow.ActionEditFieldPrefix+"protein"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_field_fat"), workflow.ActionEditFieldPrefix+"fat"),
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_field_carbs"), workflow.ActionEditFieldPrefix+"carbs"),
		),
	)
}

func (b *Builder) Goals(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_goal_lose"), workflow.ActionGoalPrefix+"lose"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_goal_maintain"), workflow.ActionGoalPrefix+"maintain"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_goal_gain"), workflow.ActionGoalPrefix+"gain"),
		),
	)
}

func (b *Builder) Languages(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_lang_ru"), workflow.ActionLangPrefix+"ru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_lang_en"), workflow.ActionLangPrefix+"en"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_lang_uz"), workflow.ActionLangPrefix+"uz"),
		),
	)
}

// DiaryNav navigates relative to the day currently shown.
func (b *Builder) DiaryNav(lang string, date time.Time) tgbotapi.InlineKeyboardMarkup {
	day := date.Format("2006-01-02")
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_prev"), workflow.ActionDiaryPrevPrefix+day),
			tgbotapi.NewInlineKeyboardButtonData(b.catalog.Get(lang, "btn_next"), workflow.ActionDiaryNextPrefix+day),
		),
	)
}
