package nutrition

import (
	"fmt"
	"math"
)

// NutritionalProfile is the fixed set of nutrient amounts attached to a food
// portion. Meals and meal logs carry the same shape, derived by summation.
// Tags match the JSON the web app sends and the foods table columns.
type NutritionalProfile struct {
	Calories           int     `json:"calories" db:"calories" yaml:"calories"`
	Carbohydrates      float64 `json:"carbohydrates" db:"carbohydrates" yaml:"carbohydrates"`
	Protein            float64 `json:"protein" db:"protein" yaml:"protein"`
	Fat                float64 `json:"fat" db:"fat" yaml:"fat"`
	MonounsaturatedFat float64 `json:"monounsaturatedFat" db:"monounsaturated_fat" yaml:"monounsaturatedFat"`
	SaturatedFat       float64 `json:"saturatedFat" db:"saturated_fat" yaml:"saturatedFat"`
	PolyunsaturatedFat float64 `json:"polyunsaturatedFat" db:"polyunsaturated_fat" yaml:"polyunsaturatedFat"`
	TransFat           float64 `json:"transFat" db:"trans_fat" yaml:"transFat"`
	Cholesterol        float64 `json:"cholesterol" db:"cholesterol" yaml:"cholesterol"`
	Sodium             float64 `json:"sodium" db:"sodium" yaml:"sodium"`
	Potassium          float64 `json:"potassium" db:"potassium" yaml:"potassium"`
	Fiber              float64 `json:"fiber" db:"fiber" yaml:"fiber"`
	Sugar              float64 `json:"sugar" db:"sugar" yaml:"sugar"`
	Calcium            float64 `json:"calcium" db:"calcium" yaml:"calcium"`
	Iron               float64 `json:"iron" db:"iron" yaml:"iron"`
	VitaminA           float64 `json:"vitaminA" db:"vitamin_a" yaml:"vitaminA"`
	VitaminC           float64 `json:"vitaminC" db:"vitamin_c" yaml:"vitaminC"`
}

// Validate rejects negative amounts.
func (p NutritionalProfile) Validate() error {
	if p.Calories < 0 {
		return fmt.Errorf("calories %d: %w", p.Calories, ErrInvalidMeasurement)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"carbohydrates", p.Carbohydrates},
		{"protein", p.Protein},
		{"fat", p.Fat},
		{"monounsaturatedFat", p.MonounsaturatedFat},
		{"saturatedFat", p.SaturatedFat},
		{"polyunsaturatedFat", p.PolyunsaturatedFat},
		{"transFat", p.TransFat},
		{"cholesterol", p.Cholesterol},
		{"sodium", p.Sodium},
		{"potassium", p.Potassium},
		{"fiber", p.Fiber},
		{"sugar", p.Sugar},
		{"calcium", p.Calcium},
		{"iron", p.Iron},
		{"vitaminA", p.VitaminA},
		{"vitaminC", p.VitaminC},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) {
			return fmt.Errorf("%s %v: %w", f.name, f.value, ErrInvalidMeasurement)
		}
	}
	return nil
}

// Macronutrients returns the protein/carbs/fat part of the profile.
func (p NutritionalProfile) Macronutrients() Macronutrients {
	return Macronutrients{ProteinG: p.Protein, CarbsG: p.Carbohydrates, FatG: p.Fat}
}

// Combine is the one field-wise addition every aggregate is built from.
func Combine(a, b NutritionalProfile) NutritionalProfile {
	return NutritionalProfile{
		Calories:           a.Calories + b.Calories,
		Carbohydrates:      a.Carbohydrates + b.Carbohydrates,
		Protein:            a.Protein + b.Protein,
		Fat:                a.Fat + b.Fat,
		MonounsaturatedFat: a.MonounsaturatedFat + b.MonounsaturatedFat,
		SaturatedFat:       a.SaturatedFat + b.SaturatedFat,
		PolyunsaturatedFat: a.PolyunsaturatedFat + b.PolyunsaturatedFat,
		TransFat:           a.TransFat + b.TransFat,
		Cholesterol:        a.Cholesterol + b.Cholesterol,
		Sodium:             a.Sodium + b.Sodium,
		Potassium:          a.Potassium + b.Potassium,
		Fiber:              a.Fiber + b.Fiber,
		Sugar:              a.Sugar + b.Sugar,
		Calcium:            a.Calcium + b.Calcium,
		Iron:               a.Iron + b.Iron,
		VitaminA:           a.VitaminA + b.VitaminA,
		VitaminC:           a.VitaminC + b.VitaminC,
	}
}

// Sum folds Combine over profiles starting from the zero profile, so an empty
// input yields all zeros.
func Sum(profiles ...NutritionalProfile) NutritionalProfile {
	var total NutritionalProfile
	for _, p := range profiles {
		total = Combine(total, p)
	}
	return total
}

// MealNutrition is the aggregate of the foods a meal references.
func MealNutrition(foods []NutritionalProfile) NutritionalProfile {
	return Sum(foods...)
}

// MealLogNutrition aggregates a meal log in two levels: each meal is first
// summed over its own foods, then the meal totals are combined with the foods
// attached directly to the log.
func MealLogNutrition(meals [][]NutritionalProfile, foods []NutritionalProfile) NutritionalProfile {
	mealTotals := make([]NutritionalProfile, 0, len(meals))
	for _, m := range meals {
		mealTotals = append(mealTotals, MealNutrition(m))
	}
	return Combine(Sum(mealTotals...), Sum(foods...))
}

/* ─── Consumed vs. target ────────────────────────────────────────────── */

// Progress compares one consumed amount with its target. Consumption above
// the target is reported as is; Remaining goes negative.
type Progress struct {
	Target      float64 `json:"target"`
	Consumed    float64 `json:"consumed"`
	Remaining   float64 `json:"remaining"`
	Percentage  int     `json:"percentage"`
	GoalReached bool    `json:"goalReached"`
}

func CompareProgress(consumed, target float64) Progress {
	p := Progress{
		Target:      target,
		Consumed:    consumed,
		Remaining:   target - consumed,
		GoalReached: consumed >= target,
	}
	if target > 0 {
		p.Percentage = int(math.Round(consumed / target * 100))
	}
	return p
}

// DailyProgress is the response shape of the daily progress dashboard.
type DailyProgress struct {
	TargetCalories         int            `json:"targetCalories"`
	CaloriesConsumed       int            `json:"caloriesConsumed"`
	MacronutrientsTarget   Macronutrients `json:"macronutrientsTarget"`
	MacronutrientsConsumed Macronutrients `json:"macronutrientsConsumed"`
	WaterIntakeTarget      float64        `json:"waterIntakeTarget"`
	WaterIngested          float64        `json:"waterIngested"`

	Calories      Progress `json:"calories"`
	Protein       Progress `json:"protein"`
	Carbohydrates Progress `json:"carbohydrates"`
	Fat           Progress `json:"fat"`
	Water         Progress `json:"water"`
}

// DailyTargets are the parts of a goal the dashboard compares against.
type DailyTargets struct {
	Calories       int
	Macronutrients Macronutrients
	WaterLiters    float64
}

// BuildDailyProgress compares a day's consumed profile and water with targets.
func BuildDailyProgress(t DailyTargets, consumed NutritionalProfile, waterIngestedL float64) DailyProgress {
	macros := consumed.Macronutrients()
	return DailyProgress{
		TargetCalories:         t.Calories,
		CaloriesConsumed:       consumed.Calories,
		MacronutrientsTarget:   t.Macronutrients,
		MacronutrientsConsumed: macros,
		WaterIntakeTarget:      t.WaterLiters,
		WaterIngested:          waterIngestedL,

		Calories:      CompareProgress(float64(consumed.Calories), float64(t.Calories)),
		Protein:       CompareProgress(macros.ProteinG, t.Macronutrients.ProteinG),
		Carbohydrates: CompareProgress(macros.CarbsG, t.Macronutrients.CarbsG),
		Fat:           CompareProgress(macros.FatG, t.Macronutrients.FatG),
		Water:         CompareProgress(waterIngestedL, t.WaterLiters),
	}
}
