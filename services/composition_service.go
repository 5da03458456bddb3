package services

import (
	"time"

	"github.com/danilofelipe32/nutriscan100/models"
	"github.com/danilofelipe32/nutriscan100/utils"
)

// CompositionService evaluates biometric inputs and keeps the body-composition
// history.
type CompositionService struct {
	history *HistoryStore[models.BodyCompositionRecord]
	hub     *EventHub
	now     func() time.Time
}

func NewCompositionService(history *HistoryStore[models.BodyCompositionRecord], hub *EventHub) *CompositionService {
	return &CompositionService{history: history, hub: hub, now: time.Now}
}

// Evaluate computes a full body-composition record from the input and prepends
// it to the history. Any validation failure surfaces before the history is
// touched; a partial record never gets stored.
func (s *CompositionService) Evaluate(in models.BiometricInput) (models.BodyCompositionRecord, []models.BodyCompositionRecord, error) {
	today := s.now()

	age, err := utils.CalculateAge(in.DateOfBirth, today)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}
	bmi, err := utils.CalculateBMI(in.HeightCm, in.WeightKg)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}
	ideal, idealRange, err := utils.IdealWeight(in.Sex, in.HeightCm)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}
	bmr, err := utils.CalculateBMR(in.Sex, in.WeightKg, in.HeightCm, age)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}
	tdee, err := utils.CalculateTDEE(bmr, in.ActivityLevel)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}

	rec := models.BodyCompositionRecord{
		RecordedDate:         today.Format("2006-01-02"),
		Age:                  age,
		Sex:                  in.Sex,
		WeightKg:             in.WeightKg,
		HeightCm:             in.HeightCm,
		BMI:                  bmi,
		BMIClass:             utils.ClassifyBMI(bmi),
		IdealWeightKg:        ideal,
		IdealWeightRangeKg:   idealRange,
		BMR:                  bmr,
		TotalDailyEnergyKcal: tdee,
	}

	history, err := s.history.Prepend(rec)
	if err != nil {
		return models.BodyCompositionRecord{}, nil, err
	}
	s.hub.Publish(Event{Kind: "composition.recorded", Payload: rec})
	return rec, history, nil
}

func (s *CompositionService) History() []models.BodyCompositionRecord {
	return s.history.Records()
}

// Reload re-reads the history from persistence.
func (s *CompositionService) Reload() []models.BodyCompositionRecord {
	return s.history.Load()
}

func (s *CompositionService) RemoveAt(index int) ([]models.BodyCompositionRecord, error) {
	history, err := s.history.RemoveAt(index)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(Event{Kind: "composition.removed", Payload: index})
	return history, nil
}

func (s *CompositionService) Clear() error {
	if err := s.history.Clear(); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: "composition.cleared"})
	return nil
}
