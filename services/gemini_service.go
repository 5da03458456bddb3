package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/models"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultGeminiTimeout = 30 * time.Second
)

// GeminiConfig enumerates every option the client recognizes. Validated once
// in NewGeminiService, not at point of use.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiService calls the Gemini generateContent API for meal-image analysis
// and health tips. Construct one per process and inject it where needed; the
// client holds no package-level state.
type GeminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewGeminiService(cfg GeminiConfig, log *zap.Logger) (*GeminiService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", models.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGeminiTimeout
	}
	return &GeminiService{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}, nil
}

// Wire types for the generateContent endpoint.
type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// analysisSchema constrains the model to the NutritionEstimate shape.
const analysisSchema = `{
  "type": "OBJECT",
  "properties": {
    "dish_name": {"type": "STRING"},
    "description": {"type": "STRING"},
    "calories_kcal": {"type": "NUMBER"},
    "carbs_g": {"type": "NUMBER"},
    "protein_g": {"type": "NUMBER"},
    "fat_g": {"type": "NUMBER"},
    "health_score": {"type": "NUMBER"},
    "pros": {"type": "ARRAY", "items": {"type": "STRING"}},
    "cons": {"type": "ARRAY", "items": {"type": "STRING"}},
    "macro_nutrients": {"type": "ARRAY", "items": {
      "type": "OBJECT",
      "properties": {
        "name": {"type": "STRING"},
        "amount": {"type": "STRING"},
        "daily_value": {"type": "STRING"}
      },
      "required": ["name", "amount", "daily_value"]
    }},
    "micro_nutrients": {"type": "ARRAY", "items": {
      "type": "OBJECT",
      "properties": {
        "name": {"type": "STRING"},
        "amount": {"type": "STRING"},
        "daily_value": {"type": "STRING"}
      },
      "required": ["name", "amount", "daily_value"]
    }}
  },
  "required": ["dish_name", "description", "calories_kcal", "carbs_g", "protein_g",
    "fat_g", "health_score", "pros", "cons", "macro_nutrients", "micro_nutrients"]
}`

const analysisPrompt = "Analyze the dish in this photo. Identify the foods, name the dish and give a " +
	"short description. Estimate nutrition for the portion shown: calories, carbs, protein and fat as " +
	"plain numbers. Build a macronutrient table (Calories, Protein, Carbs, Total Fat) and list 3-5 " +
	"relevant vitamins and minerals, each with name, amount with unit, and % Daily Value. Score how " +
	"healthy the dish is from 0 to 10 and list 3 pros and 3 cons. Answer only with JSON matching the schema."

// AnalyzeMealImage sends one base64-encoded photo to the model and returns a
// fully validated estimate. Transport and upstream failures surface as
// ErrGateway; a response that parses but violates the schema surfaces as
// ErrInvalidResponse and never reaches a history.
func (s *GeminiService) AnalyzeMealImage(ctx context.Context, base64Image, mimeType string) (models.NutritionEstimate, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64Image}},
			{Text: analysisPrompt},
		}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   json.RawMessage(analysisSchema),
		},
	}

	text, err := s.generate(ctx, req)
	if err != nil {
		return models.NutritionEstimate{}, err
	}
	return parseEstimate([]byte(text))
}

const tipsPrompt = `You are a virtual nutritionist and health coach.
Review the user's meal analyses and body assessments below and give 5 personal, practical,
encouraging health tips based on the eating patterns and body data. Format the answer as a
list of clear, direct tips, each starting with a related emoji. Be positive and motivating.`

type mealSummary struct {
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	HealthScore float64  `json:"health_score"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
}

type compositionSummary struct {
	Date           string  `json:"date"`
	WeightKg       float64 `json:"weight_kg"`
	BMI            float64 `json:"bmi"`
	Classification string  `json:"classification"`
}

// HealthTips asks the model for a best-effort natural-language summary over
// both histories. The histories are summarized before they go on the wire;
// failures surface as ErrGateway and never affect stored state.
func (s *GeminiService) HealthTips(ctx context.Context, meals []models.MealRecord, comps []models.BodyCompositionRecord) (string, error) {
	mealSummaries := make([]mealSummary, 0, len(meals))
	for _, m := range meals {
		mealSummaries = append(mealSummaries, mealSummary{
			Name:        m.DishName,
			Calories:    m.CaloriesKcal,
			HealthScore: m.HealthScore,
			Pros:        m.Pros,
			Cons:        m.Cons,
		})
	}
	compSummaries := make([]compositionSummary, 0, len(comps))
	for _, c := range comps {
		compSummaries = append(compSummaries, compositionSummary{
			Date:           c.RecordedDate,
			WeightKg:       c.WeightKg,
			BMI:            c.BMI,
			Classification: string(c.BMIClass),
		})
	}

	mealJSON, err := json.MarshalIndent(mealSummaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode meal history: %v", models.ErrGateway, err)
	}
	compJSON, err := json.MarshalIndent(compSummaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode composition history: %v", models.ErrGateway, err)
	}

	prompt := fmt.Sprintf("%s\n\nMeal analysis history:\n%s\n\nBody assessment history:\n%s\n\nGive 5 tips based on this data.",
		tipsPrompt, mealJSON, compJSON)

	text, err := s.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: model returned no tips", models.ErrGateway)
	}
	return text, nil
}

func (s *GeminiService) generate(ctx context.Context, req geminiRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", models.ErrGateway, err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", models.ErrGateway, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: call gemini: %v", models.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read gemini response: %v", models.ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("gemini call failed",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", fmt.Errorf("%w: gemini API error %d", models.ErrGateway, resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("%w: parse gemini envelope: %v", models.ErrGateway, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", models.ErrGateway)
	}
	return strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text), nil
}

// estimatePayload mirrors NutritionEstimate with pointer fields so missing
// required keys are detectable. All shape checking happens here, in one place.
type estimatePayload struct {
	DishName       *string           `json:"dish_name"`
	Description    *string           `json:"description"`
	CaloriesKcal   *float64          `json:"calories_kcal"`
	CarbsG         *float64          `json:"carbs_g"`
	ProteinG       *float64          `json:"protein_g"`
	FatG           *float64          `json:"fat_g"`
	HealthScore    *float64          `json:"health_score"`
	Pros           []string          `json:"pros"`
	Cons           []string          `json:"cons"`
	MacroNutrients []nutrientPayload `json:"macro_nutrients"`
	MicroNutrients []nutrientPayload `json:"micro_nutrients"`
}

type nutrientPayload struct {
	Name       *string `json:"name"`
	Amount     *string `json:"amount"`
	DailyValue *string `json:"daily_value"`
}

func parseEstimate(raw []byte) (models.NutritionEstimate, error) {
	var p estimatePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.NutritionEstimate{}, fmt.Errorf("%w: malformed estimate JSON: %v", models.ErrInvalidResponse, err)
	}

	missing := func(field string) (models.NutritionEstimate, error) {
		return models.NutritionEstimate{}, fmt.Errorf("%w: missing field %q", models.ErrInvalidResponse, field)
	}
	switch {
	case p.DishName == nil:
		return missing("dish_name")
	case p.Description == nil:
		return missing("description")
	case p.CaloriesKcal == nil:
		return missing("calories_kcal")
	case p.CarbsG == nil:
		return missing("carbs_g")
	case p.ProteinG == nil:
		return missing("protein_g")
	case p.FatG == nil:
		return missing("fat_g")
	case p.HealthScore == nil:
		return missing("health_score")
	case p.Pros == nil:
		return missing("pros")
	case p.Cons == nil:
		return missing("cons")
	case p.MacroNutrients == nil:
		return missing("macro_nutrients")
	case p.MicroNutrients == nil:
		return missing("micro_nutrients")
	}
	if *p.HealthScore < 0 || *p.HealthScore > 10 {
		return models.NutritionEstimate{}, fmt.Errorf("%w: health_score %v out of [0,10]",
			models.ErrInvalidResponse, *p.HealthScore)
	}

	macros, err := parseNutrients("macro_nutrients", p.MacroNutrients)
	if err != nil {
		return models.NutritionEstimate{}, err
	}
	micros, err := parseNutrients("micro_nutrients", p.MicroNutrients)
	if err != nil {
		return models.NutritionEstimate{}, err
	}

	return models.NutritionEstimate{
		DishName:       *p.DishName,
		Description:    *p.Description,
		CaloriesKcal:   *p.CaloriesKcal,
		CarbsG:         *p.CarbsG,
		ProteinG:       *p.ProteinG,
		FatG:           *p.FatG,
		HealthScore:    *p.HealthScore,
		Pros:           p.Pros,
		Cons:           p.Cons,
		MacroNutrients: macros,
		MicroNutrients: micros,
	}, nil
}

func parseNutrients(field string, payloads []nutrientPayload) ([]models.Nutrient, error) {
	out := make([]models.Nutrient, 0, len(payloads))
	for i, n := range payloads {
		if n.Name == nil || n.Amount == nil || n.DailyValue == nil {
			return nil, fmt.Errorf("%w: %s[%d] is incomplete", models.ErrInvalidResponse, field, i)
		}
		out = append(out, models.Nutrient{Name: *n.Name, Amount: *n.Amount, DailyValue: *n.DailyValue})
	}
	return out, nil
}
