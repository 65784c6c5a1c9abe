package nutrition

import "fmt"

/* ─── Meal types ─────────────────────────────────────────────────────── */

// MealType is one of the ten fixed eating occasions a day is split into.
type MealType string

const (
	Breakfast      MealType = "BREAKFAST"
	Brunch         MealType = "BRUNCH"
	Lunch          MealType = "LUNCH"
	AfternoonSnack MealType = "AFTERNOON_SNACK"
	Dinner         MealType = "DINNER"
	Supper         MealType = "SUPPER"
	Snack          MealType = "SNACK"
	PreWorkout     MealType = "PRE_WORKOUT"
	PostWorkout    MealType = "POST_WORKOUT"
	MidnightSnack  MealType = "MIDNIGHT_SNACK"
)

// AllMealTypes lists every meal type in day order.
var AllMealTypes = []MealType{
	Breakfast, Brunch, Lunch, AfternoonSnack, Dinner,
	Supper, Snack, PreWorkout, PostWorkout, MidnightSnack,
}

// Label returns the display name shown in the app, or "" for unknown values.
func (m MealType) Label() string {
	switch m {
	case Breakfast:
		return "Café da manhã"
	case Brunch:
		return "Café da manhã tardio"
	case Lunch:
		return "Almoço"
	case AfternoonSnack:
		return "Lanche da tarde"
	case Dinner:
		return "Jantar"
	case Supper:
		return "Ceia"
	case Snack:
		return "Lanche"
	case PreWorkout:
		return "Pré-treino"
	case PostWorkout:
		return "Pós-treino"
	case MidnightSnack:
		return "Lanche da madrugada"
	}
	return ""
}

func (m MealType) Valid() bool { return m.Label() != "" }

// ParseMealType validates s against the closed set of meal types.
func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.Valid() {
		return "", fmt.Errorf("meal type %q: %w", s, ErrUnsupportedCategory)
	}
	return m, nil
}

/* ─── Activity levels ────────────────────────────────────────────────── */

// ActivityLevel is how much a person exercises in a typical week.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "SEDENTARY"
	LightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	VeryActive       ActivityLevel = "VERY_ACTIVE"
	ExtraActive      ActivityLevel = "EXTRA_ACTIVE"
)

var AllActivityLevels = []ActivityLevel{
	Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtraActive,
}

// Multiplier returns the TDEE factor applied to BMR. This switch is the single
// source of truth for valid activity levels.
func (a ActivityLevel) Multiplier() (float64, error) {
	switch a {
	case Sedentary:
		return 1.2, nil
	case LightlyActive:
		return 1.375, nil
	case ModeratelyActive:
		return 1.55, nil
	case VeryActive:
		return 1.725, nil
	case ExtraActive:
		return 1.9, nil
	}
	return 0, fmt.Errorf("activity level %q: %w", string(a), ErrUnsupportedCategory)
}

func (a ActivityLevel) Label() string {
	switch a {
	case Sedentary:
		return "Sedentário"
	case LightlyActive:
		return "Levemente ativo"
	case ModeratelyActive:
		return "Moderadamente ativo"
	case VeryActive:
		return "Muito ativo"
	case ExtraActive:
		return "Extremamente ativo"
	}
	return ""
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(s)
	if _, err := a.Multiplier(); err != nil {
		return "", err
	}
	return a, nil
}

/* ─── Goal types and gender ──────────────────────────────────────────── */

type GoalType string

const (
	LoseWeight     GoalType = "LOSE_WEIGHT"
	MaintainWeight GoalType = "MAINTAIN_WEIGHT"
	GainWeight     GoalType = "GAIN_WEIGHT"
)

func ParseGoalType(s string) (GoalType, error) {
	switch g := GoalType(s); g {
	case LoseWeight, MaintainWeight, GainWeight:
		return g, nil
	}
	return "", fmt.Errorf("goal type %q: %w", s, ErrUnsupportedCategory)
}

type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case Male, Female:
		return g, nil
	}
	return "", fmt.Errorf("gender %q: %w", s, ErrUnsupportedCategory)
}

/* ─── Portion units ──────────────────────────────────────────────────── */

// Unit is the measurement unit of a food portion.
type Unit string

const (
	Gram              Unit = "GRAM"
	Milligram         Unit = "MILLIGRAM"
	Kilogram          Unit = "KILOGRAM"
	Microgram         Unit = "MICROGRAM"
	Milliliter        Unit = "MILLILITER"
	Liter             Unit = "LITER"
	Calorie           Unit = "CALORIE"
	Kilojoule         Unit = "KILOJOULE"
	InternationalUnit Unit = "INTERNATIONAL_UNIT"
	Ounce             Unit = "OUNCE"
	Cup               Unit = "CUP"
	Tablespoon        Unit = "TABLESPOON"
	Teaspoon          Unit = "TEASPOON"
	Slice             Unit = "SLICE"
	Piece             Unit = "PIECE"
	Bowl              Unit = "BOWL"
)

var AllUnits = []Unit{
	Gram, Milligram, Kilogram, Microgram, Milliliter, Liter, Calorie, Kilojoule,
	InternationalUnit, Ounce, Cup, Tablespoon, Teaspoon, Slice, Piece, Bowl,
}

// Label returns the short unit symbol, or "" for unknown units.
func (u Unit) Label() string {
	switch u {
	case Gram:
		return "g"
	case Milligram:
		return "mg"
	case Kilogram:
		return "kg"
	case Microgram:
		return "µg"
	case Milliliter:
		return "ml"
	case Liter:
		return "l"
	case Calorie:
		return "kcal"
	case Kilojoule:
		return "kJ"
	case InternationalUnit:
		return "IU"
	case Ounce:
		return "oz"
	case Cup:
		return "xícara"
	case Tablespoon:
		return "colher de sopa"
	case Teaspoon:
		return "colher de chá"
	case Slice:
		return "fatias"
	case Piece:
		return "peças"
	case Bowl:
		return "tigelas"
	}
	return ""
}

func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if u.Label() == "" {
		return "", fmt.Errorf("unit %q: %w", s, ErrUnsupportedCategory)
	}
	return u, nil
}
