package nutrition

import (
	"fmt"
	"math"
	"time"
)

const (
	// kcalPerKG is the energy stored in one kilogram of body fat.
	kcalPerKG = 7700.0

	LoseRateKGPerWeek = 0.75
	GainRateKGPerWeek = 0.5

	proteinShare = 0.25
	carbsShare   = 0.45
	fatShare     = 0.30

	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0

	waterMLPerKG = 35.0

	MinHeightM = 0.5
	MaxHeightM = 3.0
)

// GoalInput holds everything the Goal Calculator needs. Today is supplied by
// the caller so the result never depends on the wall clock.
type GoalInput struct {
	WeightKG       float64
	HeightM        float64
	BirthDate      time.Time
	Today          time.Time
	Gender         Gender
	ActivityLevel  ActivityLevel
	GoalType       GoalType
	TargetWeightKG float64
}

// Macronutrients are daily targets (or totals) in grams.
type Macronutrients struct {
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbohydrates"`
	FatG     float64 `json:"fat"`
}

// Calories returns the energy the macros represent (4/4/9 kcal per gram).
func (m Macronutrients) Calories() float64 {
	return m.ProteinG*kcalPerGramProtein + m.CarbsG*kcalPerGramCarbs + m.FatG*kcalPerGramFat
}

// GoalTargets is the output of CalculateGoal. Deadline is nil for
// MAINTAIN_WEIGHT, which has no target date.
type GoalTargets struct {
	Age               int
	BMR               int
	TDEE              int
	TargetCalories    int
	Macronutrients    Macronutrients
	WaterIntakeTarget float64 // liters
	Deadline          *time.Time
}

// Age returns the number of whole years between birthDate and today.
func Age(birthDate, today time.Time) (int, error) {
	birth, now := truncateDay(birthDate), truncateDay(today)
	if birth.After(now) {
		return 0, fmt.Errorf("birth date %s: %w", birth.Format(time.DateOnly), ErrBirthDateInFuture)
	}
	age := now.Year() - birth.Year()
	if now.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age, nil
}

// BMR computes basal metabolic rate with Mifflin-St Jeor. Height is in meters.
func BMR(weightKG, heightM float64, age int, gender Gender) (float64, error) {
	bmr := 10*weightKG + 6.25*heightM*100 - 5*float64(age)
	switch gender {
	case Male:
		return bmr + 5, nil
	case Female:
		return bmr - 161, nil
	}
	return 0, fmt.Errorf("gender %q: %w", string(gender), ErrUnsupportedCategory)
}

// DailyAdjustment returns the kcal/day added to TDEE for a goal type: a deficit
// sized for 0.75 kg/week loss, a surplus sized for 0.5 kg/week gain, or zero.
func DailyAdjustment(goal GoalType) (float64, error) {
	switch goal {
	case LoseWeight:
		return -LoseRateKGPerWeek * kcalPerKG / 7, nil
	case GainWeight:
		return GainRateKGPerWeek * kcalPerKG / 7, nil
	case MaintainWeight:
		return 0, nil
	}
	return 0, fmt.Errorf("goal type %q: %w", string(goal), ErrUnsupportedCategory)
}

// MacrosFor splits a calorie target into 25% protein, 45% carbs and 30% fat,
// converted to whole grams.
func MacrosFor(targetCalories int) Macronutrients {
	cal := float64(targetCalories)
	return Macronutrients{
		ProteinG: math.Round(cal * proteinShare / kcalPerGramProtein),
		CarbsG:   math.Round(cal * carbsShare / kcalPerGramCarbs),
		FatG:     math.Round(cal * fatShare / kcalPerGramFat),
	}
}

// WaterIntakeTarget returns the daily water target in liters (35 mL per kg).
func WaterIntakeTarget(weightKG float64) float64 {
	return math.Round(weightKG*waterMLPerKG/1000*100) / 100
}

// Deadline returns the date the target weight is reached at the goal type's
// weekly rate, rounding partial weeks up. MAINTAIN_WEIGHT returns nil.
func Deadline(goal GoalType, weightKG, targetWeightKG float64, today time.Time) (*time.Time, error) {
	var rate float64
	switch goal {
	case MaintainWeight:
		return nil, nil
	case LoseWeight:
		if targetWeightKG >= weightKG {
			return nil, fmt.Errorf("lose weight to %.1f kg from %.1f kg: %w", targetWeightKG, weightKG, ErrGoalDirection)
		}
		rate = LoseRateKGPerWeek
	case GainWeight:
		if targetWeightKG <= weightKG {
			return nil, fmt.Errorf("gain weight to %.1f kg from %.1f kg: %w", targetWeightKG, weightKG, ErrGoalDirection)
		}
		rate = GainRateKGPerWeek
	default:
		return nil, fmt.Errorf("goal type %q: %w", string(goal), ErrUnsupportedCategory)
	}
	// Round off subtraction noise first so exact multiples of the rate do not
	// gain a week (64.4 - 62.9 is 1.5000000000000057).
	q := math.Round(math.Abs(targetWeightKG-weightKG)/rate*1e6) / 1e6
	weeks := int(math.Ceil(q))
	d := truncateDay(today).AddDate(0, 0, weeks*7)
	return &d, nil
}

// CalculateGoal derives the daily calorie, macro and water targets and the
// deadline for a weight goal.
func CalculateGoal(in GoalInput) (GoalTargets, error) {
	if err := ValidateBody(in.WeightKG, in.HeightM); err != nil {
		return GoalTargets{}, err
	}
	if in.TargetWeightKG <= 0 {
		return GoalTargets{}, fmt.Errorf("target weight %.2f: %w", in.TargetWeightKG, ErrInvalidMeasurement)
	}

	age, err := Age(in.BirthDate, in.Today)
	if err != nil {
		return GoalTargets{}, err
	}
	bmr, err := BMR(in.WeightKG, in.HeightM, age, in.Gender)
	if err != nil {
		return GoalTargets{}, err
	}
	mult, err := in.ActivityLevel.Multiplier()
	if err != nil {
		return GoalTargets{}, err
	}
	adjustment, err := DailyAdjustment(in.GoalType)
	if err != nil {
		return GoalTargets{}, err
	}
	deadline, err := Deadline(in.GoalType, in.WeightKG, in.TargetWeightKG, in.Today)
	if err != nil {
		return GoalTargets{}, err
	}

	tdee := bmr * mult
	target := int(math.Round(tdee + adjustment))
	if target <= 0 {
		return GoalTargets{}, fmt.Errorf("computed target of %d kcal: %w", target, ErrInvalidCalories)
	}

	return GoalTargets{
		Age:               age,
		BMR:               int(math.Round(bmr)),
		TDEE:              int(math.Round(tdee)),
		TargetCalories:    target,
		Macronutrients:    MacrosFor(target),
		WaterIntakeTarget: WaterIntakeTarget(in.WeightKG),
		Deadline:          deadline,
	}, nil
}

// ValidateBody rejects non-positive weights and heights outside [0.5, 3.0] m.
func ValidateBody(weightKG, heightM float64) error {
	if weightKG <= 0 {
		return fmt.Errorf("weight %.2f: %w", weightKG, ErrInvalidMeasurement)
	}
	if heightM < MinHeightM || heightM > MaxHeightM {
		return fmt.Errorf("height %.2f m outside [%.1f, %.1f]: %w", heightM, MinHeightM, MaxHeightM, ErrInvalidMeasurement)
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
