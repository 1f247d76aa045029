package workflow

import (
	"time"

	"github.com/snapmeal/snapmeal-backend/internal/bot/pending"
	"github.com/snapmeal/snapmeal-backend/internal/clients"
)

// KeyboardKind names the keyboard the transport should attach to a reply. The
// workflow decides which keyboard is appropriate; rendering lives elsewhere.
type KeyboardKind int

const (
	KeyboardNone KeyboardKind = iota
	KeyboardMain
	KeyboardSettings
	KeyboardConfirm
	KeyboardEditFields
	KeyboardGoals
	KeyboardLanguages
	KeyboardDiaryNav
	KeyboardRemove
)

// Inline controls carry these action identifiers in their callback data, so
// routing never depends on the localized label the user happens to see.
const (
	ActionSaveMeal   = "meal:save"
	ActionEditMeal   = "meal:edit"
	ActionCancelMeal = "meal:cancel"

	ActionEditFieldPrefix = "meal:field:" // + calories|protein|fat|carbs

	ActionGoalPrefix = "goal:" // + lose|maintain|gain
	ActionLangPrefix = "lang:" // + ru|en|uz

	ActionDiaryPrevPrefix = "diary:prev:" // + YYYY-MM-DD of the shown day
	ActionDiaryNextPrefix = "diary:next:"
)

// MenuAction identifies a main- or settings-menu entry resolved from a reply
// keyboard label.
type MenuAction string

const (
	MenuAddMeal        MenuAction = "add_meal"
	MenuMyDiary        MenuAction = "my_diary"
	MenuSettings       MenuAction = "settings"
	MenuGoal           MenuAction = "goal"
	MenuWeight         MenuAction = "weight"
	MenuLanguage       MenuAction = "language"
	MenuReminderToggle MenuAction = "reminder_toggle"
	MenuHelp           MenuAction = "help"
	MenuBack           MenuAction = "back"
)

// Reply is one outbound message described by content, not by final text: the
// transport layer localizes Key and renders the keyboard.
type Reply struct {
	Key      string
	Language string
	Keyboard KeyboardKind

	Candidate *pending.Candidate
	Diary     *clients.DiaryView
	Date      time.Time
	Profile   *clients.UserProfile
	Stats     *clients.UsageStats
}

// Outcome is everything a handler wants sent back to the user, in order.
type Outcome struct {
	Replies []Reply
}

func reply(key, language string, kb KeyboardKind) Outcome {
	return Outcome{Replies: []Reply{{Key: key, Language: language, Keyboard: kb}}}
}
