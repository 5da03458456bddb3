package utils

import (
	"fmt"
	"time"

	"github.com/danilofelipe32/nutriscan100/models"
)

// CalculateAge returns whole years between dob and today, counting a year only
// once the birthday has passed.
func CalculateAge(dob, today time.Time) (int, error) {
	if dob.After(today) {
		return 0, fmt.Errorf("%w: date of birth %s is in the future",
			models.ErrInvalidDate, dob.Format("2006-01-02"))
	}
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age, nil
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, fmt.Errorf("%w: height and weight must be positive", models.ErrInvalidInput)
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

// ClassifyBMI buckets a BMI value. Intervals are half-open: inclusive on the
// lower bound, exclusive on the upper.
func ClassifyBMI(bmi float64) models.BMIClass {
	switch {
	case bmi < 18.5:
		return models.BMIUnderweight
	case bmi < 25.0:
		return models.BMINormal
	case bmi < 30.0:
		return models.BMIOverweight
	default:
		return models.BMIObese
	}
}

// IdealWeight estimates an ideal weight for the height and sex, plus a ±5 kg
// range around it.
func IdealWeight(sex models.Sex, heightCm float64) (float64, models.WeightRange, error) {
	if heightCm <= 0 {
		return 0, models.WeightRange{}, fmt.Errorf("%w: height must be positive", models.ErrInvalidInput)
	}

	var ideal float64
	switch sex {
	case models.SexMale:
		ideal = 52 + 0.75*(heightCm-152.4)
	case models.SexFemale:
		ideal = 52 + 0.67*(heightCm-152.4)
	default:
		return 0, models.WeightRange{}, fmt.Errorf("%w: unknown sex %q", models.ErrInvalidInput, string(sex))
	}
	return ideal, models.WeightRange{ideal - 5, ideal + 5}, nil
}

// CalculateBMR estimates the basal metabolic rate in kcal/day using the
// Mifflin-St Jeor equation.
func CalculateBMR(sex models.Sex, weightKg, heightCm float64, age int) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, fmt.Errorf("%w: height and weight must be positive", models.ErrInvalidInput)
	}
	if age < 0 {
		return 0, fmt.Errorf("%w: age must not be negative", models.ErrInvalidInput)
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case models.SexMale:
		return base + 5, nil
	case models.SexFemale:
		return base - 161, nil
	}
	return 0, fmt.Errorf("%w: unknown sex %q", models.ErrInvalidInput, string(sex))
}

// CalculateTDEE scales a basal metabolic rate by the activity factor.
func CalculateTDEE(bmr float64, level models.ActivityLevel) (float64, error) {
	factor, err := level.Factor()
	if err != nil {
		return 0, err
	}
	return bmr * factor, nil
}
