package models

import (
	"fmt"
	"strings"
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	}
	return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, s)
}

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityIntense   ActivityLevel = "intense"
)

func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch ActivityLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ActivitySedentary:
		return ActivitySedentary, nil
	case ActivityLight:
		return ActivityLight, nil
	case ActivityModerate:
		return ActivityModerate, nil
	case ActivityIntense:
		return ActivityIntense, nil
	}
	return "", fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, s)
}

// Factor returns the multiplier applied to a BMR to estimate total daily
// energy expenditure. An unknown level yields an error, never a zero factor.
func (a ActivityLevel) Factor() (float64, error) {
	switch a {
	case ActivitySedentary:
		return 1.2, nil
	case ActivityLight:
		return 1.375, nil
	case ActivityModerate:
		return 1.55, nil
	case ActivityIntense:
		return 1.725, nil
	}
	return 0, fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, string(a))
}

type BMIClass string

const (
	BMIUnderweight BMIClass = "underweight"
	BMINormal      BMIClass = "normal"
	BMIOverweight  BMIClass = "overweight"
	BMIObese       BMIClass = "obese"
)

// WeightRange is a [low, high] pair in kilograms, JSON-encoded as an array.
type WeightRange [2]float64

type BiometricInput struct {
	DateOfBirth   time.Time
	Sex           Sex
	ActivityLevel ActivityLevel
	WeightKg      float64
	HeightCm      float64
}

// BodyCompositionRecord is built once per submitted BiometricInput and never
// mutated afterwards; histories only prepend or drop whole records.
type BodyCompositionRecord struct {
	RecordedDate         string      `json:"recorded_date"`
	Age                  int         `json:"age"`
	Sex                  Sex         `json:"sex"`
	WeightKg             float64     `json:"weight_kg"`
	HeightCm             float64     `json:"height_cm"`
	BMI                  float64     `json:"bmi"`
	BMIClass             BMIClass    `json:"bmi_class"`
	IdealWeightKg        float64     `json:"ideal_weight_kg"`
	IdealWeightRangeKg   WeightRange `json:"ideal_weight_range_kg"`
	BMR                  float64     `json:"bmr"`
	TotalDailyEnergyKcal float64     `json:"total_daily_energy_kcal"`
}
