package models

// Nutrient is one row of the macro/micro tables the vision model produces.
// Amounts keep their units as free text ("12g", "2.5mg"), same as the
// daily-value percentage ("24%").
type Nutrient struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	DailyValue string `json:"daily_value"`
}

// NutritionEstimate is the structured result of analyzing one meal photo.
// Every field is required on the wire; the gateway rejects responses with
// anything missing before an estimate gets this far.
type NutritionEstimate struct {
	DishName       string     `json:"dish_name"`
	Description    string     `json:"description"`
	CaloriesKcal   float64    `json:"calories_kcal"`
	CarbsG         float64    `json:"carbs_g"`
	ProteinG       float64    `json:"protein_g"`
	FatG           float64    `json:"fat_g"`
	HealthScore    float64    `json:"health_score"`
	Pros           []string   `json:"pros"`
	Cons           []string   `json:"cons"`
	MacroNutrients []Nutrient `json:"macro_nutrients"`
	MicroNutrients []Nutrient `json:"micro_nutrients"`
}

// MealRecord is what actually lands in the analysis history.
type MealRecord struct {
	NutritionEstimate
	RecordedDate string `json:"recorded_date"`
	ImageURL     string `json:"image_url"`
}
