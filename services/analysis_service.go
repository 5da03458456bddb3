package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/models"
	"github.com/danilofelipe32/nutriscan100/utils"
)

// NutritionAnalyzer is the external AI boundary the analysis flow depends on.
type NutritionAnalyzer interface {
	AnalyzeMealImage(ctx context.Context, base64Image, mimeType string) (models.NutritionEstimate, error)
}

// TipsProvider produces a best-effort natural-language summary over both
// histories.
type TipsProvider interface {
	HealthTips(ctx context.Context, meals []models.MealRecord, comps []models.BodyCompositionRecord) (string, error)
}

// ImageStore persists uploaded meal photos and returns a public reference.
type ImageStore interface {
	UploadBase64Image(ctx context.Context, base64Data, contentType, keyPrefix string) (string, error)
}

// AnalysisService runs the photo-to-history flow and keeps the meal-analysis
// history.
type AnalysisService struct {
	gateway NutritionAnalyzer
	images  ImageStore
	history *HistoryStore[models.MealRecord]
	hub     *EventHub
	log     *zap.Logger
	now     func() time.Time
}

func NewAnalysisService(gateway NutritionAnalyzer, images ImageStore, history *HistoryStore[models.MealRecord], hub *EventHub, log *zap.Logger) *AnalysisService {
	return &AnalysisService{
		gateway: gateway,
		images:  images,
		history: history,
		hub:     hub,
		log:     log,
		now:     time.Now,
	}
}

// AnalyzeMeal sends the photo to the gateway and, only once a validated
// estimate is back, stores the image and prepends the meal record. A gateway
// or validation failure leaves the history untouched.
func (s *AnalysisService) AnalyzeMeal(ctx context.Context, imageDataURI string) (models.MealRecord, []models.MealRecord, error) {
	contentType, base64Data, err := utils.ParseImageDataURI(imageDataURI)
	if err != nil {
		return models.MealRecord{}, nil, err
	}

	estimate, err := s.gateway.AnalyzeMealImage(ctx, base64Data, contentType)
	if err != nil {
		return models.MealRecord{}, nil, err
	}

	var imageURL string
	if s.images != nil {
		imageURL, err = s.images.UploadBase64Image(ctx, base64Data, contentType, "meals")
		if err != nil {
			// The estimate is still good; keep the record without a stored photo.
			s.log.Warn("meal image upload failed", zap.Error(err))
			imageURL = ""
		}
	}

	rec := models.MealRecord{
		NutritionEstimate: estimate,
		RecordedDate:      s.now().Format("2006-01-02"),
		ImageURL:          imageURL,
	}
	history, err := s.history.Prepend(rec)
	if err != nil {
		return models.MealRecord{}, nil, err
	}
	s.hub.Publish(Event{Kind: "meal.analyzed", Payload: rec})
	return rec, history, nil
}

func (s *AnalysisService) History() []models.MealRecord {
	return s.history.Records()
}

// Reload re-reads the history from persistence.
func (s *AnalysisService) Reload() []models.MealRecord {
	return s.history.Load()
}

func (s *AnalysisService) RemoveAt(index int) ([]models.MealRecord, error) {
	history, err := s.history.RemoveAt(index)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(Event{Kind: "meal.removed", Payload: index})
	return history, nil
}

func (s *AnalysisService) Clear() error {
	if err := s.history.Clear(); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: "meal.cleared"})
	return nil
}
