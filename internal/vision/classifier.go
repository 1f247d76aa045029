package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/platform/openai"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
)

// ErrNotRecognized is the error marker for any photo the model could not turn
// into a usable estimate: missing file, transport failure, malformed model
// output, or an explicit "cannot recognize" answer.
var ErrNotRecognized = errors.New("food not recognized")

// Estimate is the structured nutrition guess produced for one photo.
type Estimate struct {
	FoodName string
	Calories decimal.Decimal
	Protein  decimal.Decimal
	Fat      decimal.Decimal
	Carbs    decimal.Decimal
	Raw      string
}

type Classifier interface {
	Classify(ctx context.Context, language string, photoPath string) (*Estimate, error)
}

type classifier struct {
	log     *logger.Logger
	ai      openai.Client
	timeout time.Duration
}

func NewClassifier(baseLog *logger.Logger, ai openai.Client) Classifier {
	serviceLog := baseLog.With("service", "NutritionClassifier")
	timeoutSec := utils.GetEnvAsInt("VISION_TIMEOUT_SECONDS", 60, baseLog)
	return &classifier{
		log:     serviceLog,
		ai:      ai,
		timeout: time.Duration(timeoutSec) * time.Second,
	}
}

const systemPrompt = "You are a professional nutritionist and visual food recognition expert. " +
	"Identify the item in the photo (dish, drink, dessert or snack) and estimate its nutritional content. " +
	"Always return your best possible estimate, even for unclear or partially visible food. " +
	"Return strictly JSON with no extra text or formatting."

var userPrompts = map[string]string{
	"en": `Estimate the food in the photo. Answer in English only.
Return exactly this JSON shape:
{"food_name": "name of the item", "calories": number, "protein": number, "fat": number, "carbs": number}
Calories in kcal, protein/fat/carbs in grams.
If the food cannot be identified, return: {"error": "Unable to recognize the food in the image."}`,
	"ru": `Определи еду на фотографии. Отвечай только на русском языке.
Верни строго такой JSON:
{"food_name": "название блюда", "calories": число, "protein": число, "fat": число, "carbs": число}
Калории в ккал, белки/жиры/углеводы в граммах.
Если еду определить невозможно, верни: {"error": "Невозможно распознать еду на изображении."}`,
	"uz": `Rasmdagi ovqatni aniqlang. Faqat o'zbek tilida javob bering.
Aynan shunday JSON qaytaring:
{"food_name": "taom nomi", "calories": son, "protein": son, "fat": son, "carbs": son}
Kaloriya kkal, oqsil/yog'/uglevod grammda.
Agar ovqatni aniqlab bo'lmasa: {"error": "Ovqatni rasmdan aniqlab bo'lmadi."}`,
}

type estimatePayload struct {
	FoodName string          `json:"food_name"`
	Calories decimal.Decimal `json:"calories"`
	Protein  decimal.Decimal `json:"protein"`
	Fat      decimal.Decimal `json:"fat"`
	Carbs    decimal.Decimal `json:"carbs"`
	Error    string          `json:"error"`
}

// Classify reads the stored photo and asks the model for a structured estimate.
// Every failure collapses into ErrNotRecognized so callers have a single
// terminal path for an unusable photo.
func (cl *classifier) Classify(ctx context.Context, language string, photoPath string) (*Estimate, error) {
	prompt, ok := userPrompts[language]
	if !ok {
		prompt = userPrompts["ru"]
	}

	data, err := os.ReadFile(photoPath)
	if err != nil {
		cl.log.Warn("Photo file unreadable", "path", photoPath, "error", err)
		return nil, fmt.Errorf("%w: read photo: %v", ErrNotRecognized, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cl.timeout)
	defer cancel()

	image := openai.ImageInput{
		ImageURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
	}
	text, err := cl.ai.GenerateTextWithImage(ctx, systemPrompt, prompt, image)
	if err != nil {
		cl.log.Warn("Vision call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNotRecognized, err)
	}

	raw := stripCodeFence(text)

	var payload estimatePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		cl.log.Warn("Vision output is not valid JSON", "error", err)
		return nil, fmt.Errorf("%w: parse model output: %v", ErrNotRecognized, err)
	}
	if payload.Error != "" || payload.FoodName == "" {
		return nil, ErrNotRecognized
	}

	return &Estimate{
		FoodName: payload.FoodName,
		Calories: payload.Calories,
		Protein:  payload.Protein,
		Fat:      payload.Fat,
		Carbs:    payload.Carbs,
		Raw:      raw,
	}, nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) > 2 {
			return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}
	return trimmed
}
