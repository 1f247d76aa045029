package vision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/platform/openai"
)

type fakeAI struct {
	response string
	err      error
	lastUser string
}

func (f *fakeAI) GenerateTextWithImage(_ context.Context, _ string, user string, _ openai.ImageInput) (string, error) {
	f.lastUser = user
	return f.response, f.err
}

func newTestClassifier(t *testing.T, ai *fakeAI) Classifier {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewClassifier(log, ai)
}

func photoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meal.jpg")
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	return path
}

func TestClassifyParsesEstimate(t *testing.T) {
	ai := &fakeAI{response: `{"food_name":"borscht","calories":85,"protein":3.5,"fat":4.2,"carbs":8.1}`}
	cl := newTestClassifier(t, ai)

	est, err := cl.Classify(context.Background(), "ru", photoFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.FoodName != "borscht" {
		t.Fatalf("expected borscht, got %q", est.FoodName)
	}
	if !est.Calories.Equal(decimal.NewFromInt(85)) || !est.Protein.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected values: %+v", est)
	}
	if est.Raw == "" {
		t.Fatal("raw model output must be preserved")
	}
}

func TestClassifyStripsCodeFence(t *testing.T) {
	ai := &fakeAI{response: "```json\n{\"food_name\":\"plov\",\"calories\":190,\"protein\":6,\"fat\":9,\"carbs\":22}\n```"}
	cl := newTestClassifier(t, ai)

	est, err := cl.Classify(context.Background(), "uz", photoFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.FoodName != "plov" {
		t.Fatalf("expected plov, got %q", est.FoodName)
	}
}

func TestClassifyErrorMarker(t *testing.T) {
	ai := &fakeAI{response: `{"error":"Unable to recognize the food in the image."}`}
	cl := newTestClassifier(t, ai)

	_, err := cl.Classify(context.Background(), "en", photoFile(t))
	if !errors.Is(err, ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
}

func TestClassifyMalformedOutput(t *testing.T) {
	ai := &fakeAI{response: "I think this is a sandwich."}
	cl := newTestClassifier(t, ai)

	_, err := cl.Classify(context.Background(), "en", photoFile(t))
	if !errors.Is(err, ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	ai := &fakeAI{err: errors.New("connection reset")}
	cl := newTestClassifier(t, ai)

	_, err := cl.Classify(context.Background(), "en", photoFile(t))
	if !errors.Is(err, ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
}

func TestClassifyMissingFile(t *testing.T) {
	cl := newTestClassifier(t, &fakeAI{})

	_, err := cl.Classify(context.Background(), "en", "/nonexistent/photo.jpg")
	if !errors.Is(err, ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
}

func TestClassifyPromptLanguage(t *testing.T) {
	ai := &fakeAI{response: `{"food_name":"tea","calories":2,"protein":0,"fat":0,"carbs":0.5}`}
	cl := newTestClassifier(t, ai)

	if _, err := cl.Classify(context.Background(), "uz", photoFile(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.lastUser != userPrompts["uz"] {
		t.Fatal("expected the uz prompt to be used")
	}

	if _, err := cl.Classify(context.Background(), "fr", photoFile(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.lastUser != userPrompts["ru"] {
		t.Fatal("expected fallback to the ru prompt for unknown languages")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
