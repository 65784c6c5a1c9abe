package nutrition

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

// fixedToday is the reference date for every goal test so results never
// depend on when the suite runs.
var fixedToday = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// makeGoalInput returns a valid LOSE_WEIGHT input for a 36-year-old man:
// 90 kg, 1.80 m, sedentary, aiming for 80 kg. Tests mutate single fields.
func makeGoalInput() GoalInput {
	return GoalInput{
		WeightKG:       90,
		HeightM:        1.80,
		BirthDate:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Today:          fixedToday,
		Gender:         Male,
		ActivityLevel:  Sedentary,
		GoalType:       LoseWeight,
		TargetWeightKG: 80,
	}
}

/* ─── Age ────────────────────────────────────────────────────────────── */

func TestAge(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"day before birthday", time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), 25},
		{"on birthday", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), 26},
		{"late on birthday", time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC), 26},
		{"born today", birth, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Age(birth, tc.today)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Age = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAge_FutureBirthDate(t *testing.T) {
	_, err := Age(fixedToday.AddDate(0, 0, 1), fixedToday)
	if !errors.Is(err, ErrBirthDateInFuture) {
		t.Errorf("expected ErrBirthDateInFuture, got %v", err)
	}
}

/* ─── BMR / TDEE ─────────────────────────────────────────────────────── */

// TestCalculateGoal_MaleLoseWeight checks the full pipeline for known inputs.
//
// BMR = 10*90 + 6.25*180 - 5*36 + 5 = 1850; TDEE = 1850*1.2 = 2220;
// target = 2220 - 825 = 1395.
func TestCalculateGoal_MaleLoseWeight(t *testing.T) {
	got, err := CalculateGoal(makeGoalInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Age != 36 {
		t.Errorf("Age = %d, want 36", got.Age)
	}
	if got.BMR != 1850 {
		t.Errorf("BMR = %d, want 1850", got.BMR)
	}
	if got.TDEE != 2220 {
		t.Errorf("TDEE = %d, want 2220", got.TDEE)
	}
	if got.TargetCalories != 1395 {
		t.Errorf("TargetCalories = %d, want 1395", got.TargetCalories)
	}
	if math.Abs(got.WaterIntakeTarget-3.15) > 1e-9 {
		t.Errorf("WaterIntakeTarget = %f, want 3.15", got.WaterIntakeTarget)
	}
}

func TestCalculateGoal_FemaleBMR(t *testing.T) {
	in := makeGoalInput()
	in.Gender = Female
	got, err := CalculateGoal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same as male but -161 instead of +5.
	if got.BMR != 1684 {
		t.Errorf("female BMR = %d, want 1684", got.BMR)
	}
}

func TestCalculateGoal_AdjustmentByGoalType(t *testing.T) {
	cases := []struct {
		goal   GoalType
		target float64
		want   int
	}{
		{LoseWeight, 80, 2220 - 825},
		{MaintainWeight, 90, 2220},
		{GainWeight, 95, 2220 + 550},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			in := makeGoalInput()
			in.GoalType = tc.goal
			in.TargetWeightKG = tc.target
			got, err := CalculateGoal(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.TargetCalories != tc.want {
				t.Errorf("TargetCalories = %d, want %d", got.TargetCalories, tc.want)
			}
		})
	}
}

/* ─── Deadline ───────────────────────────────────────────────────────── */

// TestCalculateGoal_LoseDeadline: 10 kg at 0.75 kg/week rounds up to 14 weeks.
func TestCalculateGoal_LoseDeadline(t *testing.T) {
	got, err := CalculateGoal(makeGoalInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if got.Deadline == nil || !got.Deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", got.Deadline, want)
	}
}

// TestDeadline_Gain: 5 kg at 0.5 kg/week is exactly 10 weeks.
func TestDeadline_Gain(t *testing.T) {
	d, err := Deadline(GainWeight, 60, 65, fixedToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fixedToday.AddDate(0, 0, 70)
	if d == nil || !d.Equal(want) {
		t.Errorf("Deadline = %v, want %v", d, want)
	}
}

// TestDeadline_ExactWeeks covers deltas that are exact multiples of the weekly
// rate but not exact in floating point.
func TestDeadline_ExactWeeks(t *testing.T) {
	tests := []struct {
		goal      GoalType
		weight    float64
		target    float64
		wantWeeks int
	}{
		{LoseWeight, 64.4, 62.9, 2},
		{LoseWeight, 64.4, 61.4, 4},
		{LoseWeight, 90, 80, 14},
		{LoseWeight, 80.3, 79.55, 1},
		{LoseWeight, 70.1, 70, 1},
		{GainWeight, 59.4, 64.4, 10},
		{GainWeight, 60.1, 60.6, 1},
		{GainWeight, 48.3, 50.3, 4},
		{GainWeight, 70, 70.1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %.2f to %.2f", tt.goal, tt.weight, tt.target), func(t *testing.T) {
			d, err := Deadline(tt.goal, tt.weight, tt.target, fixedToday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := fixedToday.AddDate(0, 0, 7*tt.wantWeeks)
			if d == nil || !d.Equal(want) {
				t.Errorf("Deadline = %v, want %v (%d weeks)", d, want, tt.wantWeeks)
			}
		})
	}
}

// TestDeadline_SweepOneDecimal checks every one-decimal weight pair against
// the week count computed in whole decigrams.
func TestDeadline_SweepOneDecimal(t *testing.T) {
	for w := 400; w <= 1500; w += 7 {
		for delta := 1; delta <= 300; delta++ {
			weight := float64(w) / 10
			for _, tc := range []struct {
				goal   GoalType
				target int
				rate   int // hundredths of a kg per week
			}{
				{LoseWeight, w - delta, 75},
				{GainWeight, w + delta, 50},
			} {
				if tc.target <= 0 {
					continue
				}
				// ceil(delta tenths of a kg / rate hundredths), in integers.
				want := (delta*10 + tc.rate - 1) / tc.rate
				d, err := Deadline(tc.goal, weight, float64(tc.target)/10, fixedToday)
				if err != nil {
					t.Fatalf("Deadline(%s, %.1f, %.1f): %v", tc.goal, weight, float64(tc.target)/10, err)
				}
				if !d.Equal(fixedToday.AddDate(0, 0, 7*want)) {
					t.Fatalf("Deadline(%s, %.1f, %.1f) = %v, want %d weeks",
						tc.goal, weight, float64(tc.target)/10, d, want)
				}
			}
		}
	}
}

func TestDeadline_MaintainHasNone(t *testing.T) {
	d, err := Deadline(MaintainWeight, 70, 70, fixedToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil deadline for MAINTAIN_WEIGHT, got %v", d)
	}
}

/* ─── Macros ─────────────────────────────────────────────────────────── */

// TestCalculateGoal_MacrosMatchCalories sweeps a grid of valid inputs and
// checks that the targets are positive and that the macro grams add back up to
// the calorie target within rounding (half a gram of each macro).
func TestCalculateGoal_MacrosMatchCalories(t *testing.T) {
	const tolerance = 0.5*4 + 0.5*4 + 0.5*9

	for _, weight := range []float64{50, 72.5, 90, 130} {
		for _, height := range []float64{1.5, 1.7, 1.95} {
			for _, birthYear := range []int{1956, 1980, 2004} {
				for _, gender := range []Gender{Male, Female} {
					for _, level := range AllActivityLevels {
						for _, goal := range []GoalType{LoseWeight, MaintainWeight, GainWeight} {
							in := GoalInput{
								WeightKG:      weight,
								HeightM:       height,
								BirthDate:     time.Date(birthYear, 3, 10, 0, 0, 0, 0, time.UTC),
								Today:         fixedToday,
								Gender:        gender,
								ActivityLevel: level,
								GoalType:      goal,
							}
							switch goal {
							case LoseWeight:
								in.TargetWeightKG = weight - 5
							case GainWeight:
								in.TargetWeightKG = weight + 5
							default:
								in.TargetWeightKG = weight
							}

							got, err := CalculateGoal(in)
							if err != nil {
								t.Fatalf("%+v: unexpected error: %v", in, err)
							}
							if got.TargetCalories <= 0 {
								t.Errorf("%+v: TargetCalories = %d, want > 0", in, got.TargetCalories)
							}
							diff := math.Abs(got.Macronutrients.Calories() - float64(got.TargetCalories))
							if diff > tolerance {
								t.Errorf("%+v: macros give %.1f kcal, target %d", in, got.Macronutrients.Calories(), got.TargetCalories)
							}
						}
					}
				}
			}
		}
	}
}

func TestMacrosFor(t *testing.T) {
	got := MacrosFor(2000)
	want := Macronutrients{ProteinG: 125, CarbsG: 225, FatG: 67}
	if got != want {
		t.Errorf("MacrosFor(2000) = %+v, want %+v", got, want)
	}
}

/* ─── Validation ─────────────────────────────────────────────────────── */

func TestCalculateGoal_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(in *GoalInput)
		want  error
	}{
		{"zero weight", func(in *GoalInput) { in.WeightKG = 0 }, ErrInvalidMeasurement},
		{"negative weight", func(in *GoalInput) { in.WeightKG = -3 }, ErrInvalidMeasurement},
		{"zero height", func(in *GoalInput) { in.HeightM = 0 }, ErrInvalidMeasurement},
		{"height above range", func(in *GoalInput) { in.HeightM = 3.2 }, ErrInvalidMeasurement},
		{"height in cm", func(in *GoalInput) { in.HeightM = 180 }, ErrInvalidMeasurement},
		{"zero target weight", func(in *GoalInput) { in.TargetWeightKG = 0 }, ErrInvalidMeasurement},
		{"future birth date", func(in *GoalInput) { in.BirthDate = fixedToday.AddDate(1, 0, 0) }, ErrBirthDateInFuture},
		{"unknown activity", func(in *GoalInput) { in.ActivityLevel = "COUCH" }, ErrUnsupportedCategory},
		{"unknown gender", func(in *GoalInput) { in.Gender = "" }, ErrUnsupportedCategory},
		{"unknown goal", func(in *GoalInput) { in.GoalType = "BULK" }, ErrUnsupportedCategory},
		{"lose with higher target", func(in *GoalInput) { in.TargetWeightKG = 95 }, ErrGoalDirection},
		{"lose with same target", func(in *GoalInput) { in.TargetWeightKG = 90 }, ErrGoalDirection},
		{"gain with lower target", func(in *GoalInput) { in.GoalType = GainWeight }, ErrGoalDirection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := makeGoalInput()
			tc.mutFn(&in)
			_, err := CalculateGoal(in)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseActivityLevel(t *testing.T) {
	for _, a := range AllActivityLevels {
		if _, err := ParseActivityLevel(string(a)); err != nil {
			t.Errorf("ParseActivityLevel(%q) error: %v", a, err)
		}
		if a.Label() == "" {
			t.Errorf("%q has no label", a)
		}
	}
	if _, err := ParseActivityLevel("sedentary"); !errors.Is(err, ErrUnsupportedCategory) {
		t.Errorf("expected lowercase level to be rejected, got %v", err)
	}
}
