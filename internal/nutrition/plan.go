package nutrition

import (
	"fmt"
	"sort"
)

// MealLogPreference is a user's template for a meal slot they usually log.
// Time is "HH:MM". A zero CaloriesGoal means the slot's share of the daily goal.
type MealLogPreference struct {
	MealType     MealType
	Time         string
	CaloriesGoal int
}

// CaloriesFor returns the preference's own calorie goal when set, otherwise
// the allocator output for dailyGoal.
func (p MealLogPreference) CaloriesFor(dailyGoal int) (int, error) {
	if p.CaloriesGoal < 0 {
		return 0, fmt.Errorf("preference calories goal %d: %w", p.CaloriesGoal, ErrInvalidCalories)
	}
	if p.CaloriesGoal > 0 {
		return p.CaloriesGoal, nil
	}
	return AllocateCalories(p.MealType, dailyGoal)
}

// PlannedMealLog is a meal log the day is expected to have.
type PlannedMealLog struct {
	MealType     MealType `json:"type"`
	Time         string   `json:"time"`
	CaloriesGoal int      `json:"caloriesGoal"`
}

// PlanDay returns the meal logs to pre-populate for a day: one per preference
// whose meal type is not in logged, ordered by time, each with the
// preference's calorie goal or, when unset, the slot's share of dailyGoal.
func PlanDay(prefs []MealLogPreference, logged []MealType, dailyGoal int) ([]PlannedMealLog, error) {
	seen := make(map[MealType]bool, len(prefs))
	for _, p := range prefs {
		if !p.MealType.Valid() {
			return nil, fmt.Errorf("meal type %q: %w", string(p.MealType), ErrUnsupportedCategory)
		}
		if seen[p.MealType] {
			return nil, fmt.Errorf("preference for %s: %w", p.MealType, ErrDuplicateMealType)
		}
		seen[p.MealType] = true
	}

	exists := make(map[MealType]bool, len(logged))
	for _, m := range logged {
		exists[m] = true
	}

	planned := []PlannedMealLog{}
	for _, p := range prefs {
		if exists[p.MealType] {
			continue
		}
		kcal, err := p.CaloriesFor(dailyGoal)
		if err != nil {
			return nil, err
		}
		planned = append(planned, PlannedMealLog{MealType: p.MealType, Time: p.Time, CaloriesGoal: kcal})
	}

	// "HH:MM" sorts lexically; equal times keep preference order.
	sort.SliceStable(planned, func(i, j int) bool { return planned[i].Time < planned[j].Time })
	return planned, nil
}
