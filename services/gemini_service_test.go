package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/models"
)

const validEstimateJSON = `{
  "dish_name": "Grilled Chicken Salad",
  "description": "Mixed greens with grilled chicken breast.",
  "calories_kcal": 420,
  "carbs_g": 18,
  "protein_g": 38,
  "fat_g": 21,
  "health_score": 8.5,
  "pros": ["high protein", "plenty of vegetables", "low added sugar"],
  "cons": ["dressing adds fat", "low fiber", "high sodium"],
  "macro_nutrients": [
    {"name": "Calories", "amount": "420 kcal", "daily_value": "21%"},
    {"name": "Protein", "amount": "38g", "daily_value": "76%"}
  ],
  "micro_nutrients": [
    {"name": "Iron", "amount": "2.5mg", "daily_value": "14%"},
    {"name": "Vitamin C", "amount": "30mg", "daily_value": "33%"}
  ]
}`

// geminiEnvelope wraps model output text the way the API does.
func geminiEnvelope(text string) string {
	env := map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"parts": []any{map[string]any{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(env)
	return string(b)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiService, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := NewGeminiService(GeminiConfig{APIKey: "demo", BaseURL: ts.URL}, zap.NewNop())
	require.NoError(t, err)
	return svc, ts
}

func TestNewGeminiServiceRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(GeminiConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAnalyzeMealImageParsesEstimate(t *testing.T) {
	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[0].InlineData.MimeType)
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, geminiEnvelope(validEstimateJSON))
	})

	est, err := svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Grilled Chicken Salad", est.DishName)
	assert.Equal(t, 420.0, est.CaloriesKcal)
	assert.Equal(t, 8.5, est.HealthScore)
	assert.Len(t, est.Pros, 3)
	assert.Len(t, est.MacroNutrients, 2)
	assert.Equal(t, "Iron", est.MicroNutrients[0].Name)
}

func TestAnalyzeMealImageMissingFieldIsRejected(t *testing.T) {
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validEstimateJSON), &payload))
	delete(payload, "health_score")
	withoutScore, err := json.Marshal(payload)
	require.NoError(t, err)

	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(string(withoutScore)))
	})

	_, err = svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	assert.ErrorIs(t, err, models.ErrInvalidResponse)
	assert.Contains(t, err.Error(), "health_score")
}

func TestAnalyzeMealImageHealthScoreOutOfRange(t *testing.T) {
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validEstimateJSON), &payload))
	payload["health_score"] = json.RawMessage("11")
	bad, err := json.Marshal(payload)
	require.NoError(t, err)

	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(string(bad)))
	})

	_, err = svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	assert.ErrorIs(t, err, models.ErrInvalidResponse)
}

func TestAnalyzeMealImageIncompleteNutrientIsRejected(t *testing.T) {
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validEstimateJSON), &payload))
	payload["micro_nutrients"] = json.RawMessage(`[{"name": "Iron"}]`)
	bad, err := json.Marshal(payload)
	require.NoError(t, err)

	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(string(bad)))
	})

	_, err = svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	assert.ErrorIs(t, err, models.ErrInvalidResponse)
}

func TestAnalyzeMealImageUpstreamErrorIsGatewayError(t *testing.T) {
	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	assert.ErrorIs(t, err, models.ErrGateway)
}

func TestAnalyzeMealImageEmptyCandidates(t *testing.T) {
	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	})

	_, err := svc.AnalyzeMealImage(context.Background(), "aGVsbG8=", "image/jpeg")
	assert.ErrorIs(t, err, models.ErrGateway)
}

func TestHealthTipsSummarizesHistories(t *testing.T) {
	var prompt string
	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Contents[0].Parts[0].Text
		fmt.Fprint(w, geminiEnvelope("🥗 Eat more vegetables."))
	})

	meals := []models.MealRecord{{
		NutritionEstimate: models.NutritionEstimate{
			DishName: "Feijoada", CaloriesKcal: 900, HealthScore: 4,
			Pros: []string{"protein"}, Cons: []string{"sodium"},
		},
		RecordedDate: "2024-03-01",
	}}
	comps := []models.BodyCompositionRecord{{
		RecordedDate: "2024-03-01", WeightKg: 82, BMI: 27.1, BMIClass: models.BMIOverweight,
	}}

	tips, err := svc.HealthTips(context.Background(), meals, comps)
	require.NoError(t, err)
	assert.Equal(t, "🥗 Eat more vegetables.", tips)

	// Summaries, not whole records, go on the wire.
	assert.Contains(t, prompt, "Feijoada")
	assert.Contains(t, prompt, "27.1")
	assert.NotContains(t, prompt, "image_url")
	assert.NotContains(t, prompt, "macro_nutrients")
}

func TestHealthTipsUpstreamFailure(t *testing.T) {
	svc, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := svc.HealthTips(context.Background(), nil, nil)
	assert.ErrorIs(t, err, models.ErrGateway)
}
