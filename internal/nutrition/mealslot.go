package nutrition

import (
	"fmt"
	"math"
)

// Proportion returns the share of the daily calorie goal assigned to a meal
// slot. The ten shares sum to 1.0.
func Proportion(m MealType) (float64, error) {
	switch m {
	case Breakfast:
		return 0.20, nil
	case Brunch:
		return 0.10, nil
	case Lunch:
		return 0.30, nil
	case AfternoonSnack:
		return 0.10, nil
	case Dinner:
		return 0.20, nil
	case Supper, Snack, PreWorkout, PostWorkout, MidnightSnack:
		return 0.05, nil
	}
	return 0, fmt.Errorf("meal type %q: %w", string(m), ErrUnsupportedCategory)
}

// AllocateCalories returns round(dailyGoal × proportion) for the meal slot.
// math.Round rounds half away from zero.
func AllocateCalories(m MealType, dailyGoal int) (int, error) {
	if dailyGoal <= 0 {
		return 0, fmt.Errorf("daily goal %d: %w", dailyGoal, ErrInvalidCalories)
	}
	p, err := Proportion(m)
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(dailyGoal) * p)), nil
}

// AllocateDay returns the allocation for every meal type. Because each slot is
// rounded independently, the total may differ from dailyGoal by at most one
// kcal per slot.
func AllocateDay(dailyGoal int) (map[MealType]int, error) {
	out := make(map[MealType]int, len(AllMealTypes))
	for _, m := range AllMealTypes {
		kcal, err := AllocateCalories(m, dailyGoal)
		if err != nil {
			return nil, err
		}
		out[m] = kcal
	}
	return out, nil
}
