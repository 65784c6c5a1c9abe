package main

import (
	"errors"
	"testing"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
)

func directFood(logID string, kcal int, protein float64) loggedFood {
	return loggedFood{MealLogID: logID, food: food{
		NutritionalProfile: nutrition.NutritionalProfile{Calories: kcal, Protein: protein},
	}}
}

func mealFood(logID, mealID string, kcal int, protein float64) loggedFood {
	r := directFood(logID, kcal, protein)
	r.MealID = &mealID
	return r
}

func TestGroupLoggedFoods(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		rows []loggedFood
		want map[string]nutrition.NutritionalProfile
	}{
		{
			name: "nothing attached",
			ids:  []string{"a"},
			want: map[string]nutrition.NutritionalProfile{"a": {}},
		},
		{
			name: "direct foods only",
			ids:  []string{"a"},
			rows: []loggedFood{directFood("a", 100, 5), directFood("a", 50, 1)},
			want: map[string]nutrition.NutritionalProfile{"a": {Calories: 150, Protein: 6}},
		},
		{
			// Egg (80 kcal) attached directly and again through the breakfast meal.
			name: "same food direct and via a meal",
			ids:  []string{"a"},
			rows: []loggedFood{
				directFood("a", 80, 6),
				mealFood("a", "breakfast", 80, 6),
				mealFood("a", "breakfast", 120, 4),
			},
			want: map[string]nutrition.NutritionalProfile{"a": {Calories: 280, Protein: 16}},
		},
		{
			name: "two meals",
			ids:  []string{"a"},
			rows: []loggedFood{
				mealFood("a", "rice-and-beans", 130, 2.5),
				mealFood("a", "rice-and-beans", 76, 4.8),
				mealFood("a", "salad", 15, 1),
			},
			want: map[string]nutrition.NutritionalProfile{"a": {Calories: 221, Protein: 8.3}},
		},
		{
			name: "rows split across logs",
			ids:  []string{"a", "b", "c"},
			rows: []loggedFood{
				directFood("a", 100, 0),
				mealFood("b", "m", 200, 10),
				directFood("b", 10, 0),
			},
			want: map[string]nutrition.NutritionalProfile{
				"a": {Calories: 100},
				"b": {Calories: 210, Protein: 10},
				"c": {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupLoggedFoods(tt.ids, tt.rows)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d logs, want %d: %+v", len(got), len(tt.want), got)
			}
			for id, want := range tt.want {
				g, ok := got[id]
				if !ok {
					t.Errorf("log %s missing", id)
					continue
				}
				if g.Calories != want.Calories {
					t.Errorf("log %s calories = %d, want %d", id, g.Calories, want.Calories)
				}
				if diff := g.Protein - want.Protein; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("log %s protein = %v, want %v", id, g.Protein, want.Protein)
				}
			}
		})
	}
}

func TestFillPreferenceGoal(t *testing.T) {
	stored := 750
	tests := []struct {
		name string
		pref mealLogPreference
		want int
	}{
		{"stored goal kept", mealLogPreference{Type: "LUNCH", Time: "12:00", CaloriesGoal: &stored}, 750},
		{"missing goal allocated", mealLogPreference{Type: "DINNER", Time: "19:00"}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pref
			if err := fillPreferenceGoal(&p, 2000); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.CaloriesGoal == nil || *p.CaloriesGoal != tt.want {
				t.Errorf("caloriesGoal = %v, want %d", p.CaloriesGoal, tt.want)
			}
		})
	}

	p := mealLogPreference{Type: "ELEVENSES"}
	if err := fillPreferenceGoal(&p, 2000); !errors.Is(err, nutrition.ErrUnsupportedCategory) {
		t.Errorf("unknown slot: got %v, want ErrUnsupportedCategory", err)
	}
}

func TestMealLogPreferencePlan(t *testing.T) {
	goal := 620
	got := mealLogPreference{Type: "LUNCH", Time: "12:30", CaloriesGoal: &goal}.plan()
	want := nutrition.MealLogPreference{MealType: nutrition.Lunch, Time: "12:30", CaloriesGoal: 620}
	if got != want {
		t.Errorf("plan() = %+v, want %+v", got, want)
	}
	if got := (mealLogPreference{Type: "DINNER", Time: "19:00"}).plan(); got.CaloriesGoal != 0 {
		t.Errorf("unset goal planned as %d, want 0", got.CaloriesGoal)
	}
}
