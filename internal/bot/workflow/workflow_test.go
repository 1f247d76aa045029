package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/bot/session"
	"github.com/snapmeal/snapmeal-backend/internal/vision"
)

func TestPhotoCreatesPendingCandidate(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()

	out := f.wf.HandlePhoto(context.Background(), user, "file-1")

	if got := firstKey(t, out); got != "meal_summary" {
		t.Fatalf("expected meal_summary, got %q", got)
	}
	if out.Replies[0].Keyboard != KeyboardConfirm {
		t.Fatalf("expected confirm keyboard, got %v", out.Replies[0].Keyboard)
	}

	c, ok := f.registry.Get(user)
	if !ok {
		t.Fatal("expected pending candidate after recognition")
	}
	if c.FoodName != "apple" || c.Grams != 100 {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if f.sessions.Get(user).State != session.StateAwaitingConfirmation {
		t.Fatalf("expected awaiting confirmation, got %v", f.sessions.Get(user).State)
	}
}

func TestSecondPhotoReplacesFirst(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()

	f.wf.HandlePhoto(context.Background(), user, "file-1")
	f.vision.estimate.FoodName = "burger"
	f.wf.HandlePhoto(context.Background(), user, "file-2")

	c, ok := f.registry.Get(user)
	if !ok || c.FoodName != "burger" {
		t.Fatalf("expected second photo to replace first, got %+v (ok=%v)", c, ok)
	}
}

func TestPhotoAcceptedInAnyState(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.sessions.SetState(user, session.StateAwaitingWeightValue)

	out := f.wf.HandlePhoto(context.Background(), user, "file-1")

	if got := firstKey(t, out); got != "meal_summary" {
		t.Fatalf("expected meal_summary, got %q", got)
	}
	if f.sessions.Get(user).State != session.StateAwaitingConfirmation {
		t.Fatal("photo should move any state to awaiting confirmation")
	}
}

func TestUnrecognizedPhotoLeavesNothingPending(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.vision.err = vision.ErrNotRecognized

	out := f.wf.HandlePhoto(context.Background(), user, "file-1")

	if got := firstKey(t, out); got != "food_not_recognized" {
		t.Fatalf("expected food_not_recognized, got %q", got)
	}
	if _, ok := f.registry.Get(user); ok {
		t.Fatal("unrecognized photo must not create a candidate")
	}
	if f.sessions.Get(user).State != session.StateIdle {
		t.Fatal("expected idle state after failed recognition")
	}
}

func TestPhotoDownloadFailureReportsTransfer(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.fetcher.err = context.DeadlineExceeded

	out := f.wf.HandlePhoto(context.Background(), user, "file-1")

	if got := firstKey(t, out); got != "photo_transfer_failed" {
		t.Fatalf("expected photo_transfer_failed, got %q", got)
	}
	if f.vision.calls != 0 {
		t.Fatal("classifier must not run when the download fails")
	}
	if _, ok := f.registry.Get(user); ok {
		t.Fatal("failed download must not create a candidate")
	}
}

func TestSaveCommitsMealAndClears(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")

	out := f.wf.HandleSave(context.Background(), user)

	if got := firstKey(t, out); got != "meal_saved" {
		t.Fatalf("expected meal_saved, got %q", got)
	}
	if len(f.backend.meals) != 1 {
		t.Fatalf("expected one meal saved, got %d", len(f.backend.meals))
	}
	meal := f.backend.meals[0]
	if meal.FoodName != "apple" || meal.Grams != 100 {
		t.Fatalf("unexpected meal payload: %+v", meal)
	}
	if _, ok := f.backend.diaries[diaryKey(1, testDay)]; !ok {
		t.Fatal("expected a diary for the save day")
	}
	if _, ok := f.registry.Get(user); ok {
		t.Fatal("candidate must be consumed by a successful save")
	}
	if f.sessions.Get(user).State != session.StateIdle {
		t.Fatal("expected idle state after save")
	}
}

func TestSaveWithoutCandidate(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.sessions.SetState(user, session.StateAwaitingConfirmation)

	out := f.wf.HandleSave(context.Background(), user)

	if got := firstKey(t, out); got != "nothing_to_save" {
		t.Fatalf("expected nothing_to_save, got %q", got)
	}
	if len(f.backend.meals) != 0 {
		t.Fatal("no meal may be created without a candidate")
	}
	if f.sessions.Get(user).State != session.StateIdle {
		t.Fatal("expected session cleared")
	}
}

func TestSaveFailureKeepsCandidateForRetry(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")
	f.backend.failCreateMeal = 1

	out := f.wf.HandleSave(context.Background(), user)
	if got := firstKey(t, out); got != "save_failed" {
		t.Fatalf("expected save_failed, got %q", got)
	}
	if _, ok := f.registry.Get(user); !ok {
		t.Fatal("candidate must survive a failed save")
	}
	if f.sessions.Get(user).State != session.StateAwaitingConfirmation {
		t.Fatal("session must survive a failed save")
	}

	out = f.wf.HandleSave(context.Background(), user)
	if got := firstKey(t, out); got != "meal_saved" {
		t.Fatalf("retry should succeed, got %q", got)
	}
	if len(f.backend.meals) != 1 {
		t.Fatalf("expected exactly one meal after retry, got %d", len(f.backend.meals))
	}
}

func TestCancelThenSaveIsNoOp(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")

	out := f.wf.HandleCancel(context.Background(), user)
	if got := firstKey(t, out); got != "meal_canceled" {
		t.Fatalf("expected meal_canceled, got %q", got)
	}

	out = f.wf.HandleSave(context.Background(), user)
	if got := firstKey(t, out); got != "nothing_to_save" {
		t.Fatalf("expected nothing_to_save after cancel, got %q", got)
	}
	if len(f.backend.meals) != 0 {
		t.Fatal("canceled candidate must never reach the diary")
	}
}

func TestCancelWithoutCandidateIsSafe(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()

	out := f.wf.HandleCancel(context.Background(), user)
	if got := firstKey(t, out); got != "meal_canceled" {
		t.Fatalf("expected meal_canceled, got %q", got)
	}
}

func TestEditFlowUpdatesCandidate(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")

	out := f.wf.HandleEditField(context.Background(), user, "calories")
	if got := firstKey(t, out); got != "enter_new_value" {
		t.Fatalf("expected enter_new_value, got %q", got)
	}
	if sess := f.sessions.Get(user); sess.State != session.StateAwaitingFieldValue || sess.EditingField != "calories" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	out = f.wf.HandleFieldValue(context.Background(), user, "100")
	if len(out.Replies) != 2 || out.Replies[0].Key != "value_updated" || out.Replies[1].Key != "meal_summary" {
		t.Fatalf("unexpected replies: %+v", out.Replies)
	}

	c, _ := f.registry.Get(user)
	if !c.Calories.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100 calories, got %s", c.Calories)
	}
	if f.sessions.Get(user).State != session.StateAwaitingConfirmation {
		t.Fatal("expected return to awaiting confirmation after edit")
	}
}

func TestEditRejectsInvalidValues(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")
	f.wf.HandleEditField(context.Background(), user, "protein")
	before, _ := f.registry.Get(user)

	for _, input := range []string{"abc", "-5", "0", ""} {
		out := f.wf.HandleFieldValue(context.Background(), user, input)
		if got := firstKey(t, out); got != "invalid_number" {
			t.Fatalf("input %q: expected invalid_number, got %q", input, got)
		}
		after, _ := f.registry.Get(user)
		if !after.Protein.Equal(before.Protein) {
			t.Fatalf("input %q: candidate mutated by invalid input", input)
		}
		if sess := f.sessions.Get(user); sess.State != session.StateAwaitingFieldValue || sess.EditingField != "protein" {
			t.Fatalf("input %q: editing state lost: %+v", input, sess)
		}
	}
}

func TestEditRoundsToTwoDecimals(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()

	cases := []struct{ in, want string }{
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"12,5", "12.5"},
		{"7", "7"},
	}
	for _, tc := range cases {
		f.wf.HandlePhoto(context.Background(), user, "file-1")
		f.wf.HandleEditField(context.Background(), user, "fat")
		f.wf.HandleFieldValue(context.Background(), user, tc.in)

		c, _ := f.registry.Get(user)
		if !c.Fat.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("input %q: expected %s, got %s", tc.in, tc.want, c.Fat)
		}
	}
}

func TestEditFieldRejectsUneditableFields(t *testing.T) {
	f := newFixture(t)
	user := f.registeredUser()
	f.wf.HandlePhoto(context.Background(), user, "file-1")

	for _, field := range []string{"grams", "food_name", "image_url", ""} {
		out := f.wf.HandleEditField(context.Background(), user, field)
		if got := firstKey(t, out); got != "choose_field" {
			t.Fatalf("field %q: expected choose_field, got %q", field, got)
		}
		if f.sessions.Get(user).State != session.StateAwaitingConfirmation {
			t.Fatalf("field %q: state must not change", field)
		}
	}
}
