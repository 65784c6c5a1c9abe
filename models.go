package main

import (
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON
// responses. Profile fields stay NULL until registration is completed.
type user struct {
	ID            string     `json:"id"            db:"id"`
	FirstName     string     `json:"firstName"     db:"first_name"`
	LastName      string     `json:"lastName"      db:"last_name"`
	Email         string     `json:"email"         db:"email"`
	Password      string     `json:"-"             db:"password"`
	AuthToken     string     `json:"-"             db:"auth_token"`
	Gender        *string    `json:"gender"        db:"gender"`
	BirthDate     *DateOnly  `json:"birthDate"     db:"birth_date"`
	ActivityLevel *string    `json:"activityLevel" db:"activity_level"`
	PhotoURL      *string    `json:"photoUrl"      db:"photo_url"`
	CreatedAt     *time.Time `json:"createdAt"     db:"created_at"`
}

// bodyMetric maps to bodies: one weight/height registry. Height is in meters.
type bodyMetric struct {
	ID        string     `json:"id"        db:"id"`
	UserID    string     `json:"-"         db:"user_id"`
	Weight    float64    `json:"weight"    db:"weight"`
	Height    float64    `json:"height"    db:"height"`
	Date      DateOnly   `json:"date"      db:"date"`
	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
}

// goal maps to goals. The macro columns are folded into MacronutrientsTarget
// by fillMacros so the JSON matches the shape the web app reads.
type goal struct {
	ID                string     `json:"id"                db:"id"`
	UserID            string     `json:"-"                 db:"user_id"`
	GoalType          string     `json:"goalType"          db:"goal_type"`
	TargetWeight      float64    `json:"targetWeight"      db:"target_weight"`
	TargetCalories    int        `json:"targetCalories"    db:"target_calories"`
	ProteinTarget     float64    `json:"-"                 db:"protein_target"`
	CarbsTarget       float64    `json:"-"                 db:"carbs_target"`
	FatTarget         float64    `json:"-"                 db:"fat_target"`
	WaterIntakeTarget float64    `json:"waterIntakeTarget" db:"water_intake_target"`
	Deadline          *DateOnly  `json:"deadline"          db:"deadline"`
	CreatedAt         *time.Time `json:"createdAt"         db:"created_at"`

	MacronutrientsTarget nutrition.Macronutrients `json:"macronutrientsTarget" db:"-"`
}

func (g *goal) fillMacros() {
	g.MacronutrientsTarget = nutrition.Macronutrients{
		ProteinG: g.ProteinTarget,
		CarbsG:   g.CarbsTarget,
		FatG:     g.FatTarget,
	}
}

// dailyTargets converts the stored goal into what the dashboard compares with.
func (g goal) dailyTargets() nutrition.DailyTargets {
	return nutrition.DailyTargets{
		Calories:       g.TargetCalories,
		Macronutrients: nutrition.Macronutrients{ProteinG: g.ProteinTarget, CarbsG: g.CarbsTarget, FatG: g.FatTarget},
		WaterLiters:    g.WaterIntakeTarget,
	}
}

// Portion is the reference amount a food's nutritional profile describes.
type Portion struct {
	Amount      float64 `json:"amount"      db:"portion_amount"`
	Unit        string  `json:"unit"        db:"portion_unit"`
	Description *string `json:"description" db:"portion_description"`
}

// food maps to foods. The embedded structs are flat columns in the table and
// nested objects in JSON.
type food struct {
	ID          string  `json:"id"          db:"id"`
	UserID      string  `json:"-"           db:"user_id"`
	Title       string  `json:"title"       db:"title"`
	Brand       *string `json:"brand"       db:"brand"`
	Description *string `json:"description" db:"description"`

	Portion                      `json:"portion"`
	nutrition.NutritionalProfile `json:"nutritionalInformation"`

	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt" db:"updated_at"`
}

// meal maps to meals. Its nutrition is never stored; see getMealNutrition.
type meal struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"-"           db:"user_id"`
	Title       string     `json:"title"       db:"title"`
	Description *string    `json:"description" db:"description"`
	Type        string     `json:"type"        db:"type"`
	CreatedAt   *time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt"   db:"updated_at"`
}

// mealWithFoods is a meal plus the foods it references.
type mealWithFoods struct {
	meal
	Foods []food `json:"foods"`
}

// mealLog maps to meal_logs. CaloriesConsumed is derived from the referenced
// meals and foods on every read.
type mealLog struct {
	ID           string     `json:"id"           db:"id"`
	UserID       string     `json:"-"            db:"user_id"`
	Date         DateOnly   `json:"date"         db:"date"`
	Type         string     `json:"type"         db:"type"`
	Time         string     `json:"time"         db:"time"`
	CaloriesGoal int        `json:"caloriesGoal" db:"calories_goal"`
	CreatedAt    *time.Time `json:"createdAt"    db:"created_at"`

	CaloriesConsumed int `json:"caloriesConsumed" db:"-"`
}

// mealLogPreference maps to meal_log_preferences. A NULL CaloriesGoal is
// filled with the slot's share of the active goal on read.
type mealLogPreference struct {
	ID           string `json:"id"           db:"id"`
	UserID       string `json:"-"            db:"user_id"`
	Type         string `json:"type"         db:"type"`
	Time         string `json:"time"         db:"time"`
	CaloriesGoal *int   `json:"caloriesGoal" db:"calories_goal"`
}

func (p mealLogPreference) plan() nutrition.MealLogPreference {
	out := nutrition.MealLogPreference{MealType: nutrition.MealType(p.Type), Time: p.Time}
	if p.CaloriesGoal != nil {
		out.CaloriesGoal = *p.CaloriesGoal
	}
	return out
}

// waterIntake maps to water_intakes.
type waterIntake struct {
	ID        string     `json:"id"        db:"id"`
	UserID    string     `json:"-"         db:"user_id"`
	Date      DateOnly   `json:"date"      db:"date"`
	AmountML  int        `json:"amountMl"  db:"amount_ml"`
	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
}

/* ─── Pagination ─────────────────────────────────────────────────────── */

// pagination mirrors the page block the web app reads from list endpoints.
type pagination struct {
	Size          int `json:"size"`
	Number        int `json:"number"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

type pageResponse[T any] struct {
	Content []T        `json:"content"`
	Page    pagination `json:"page"`
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// foodRequest is the body for POST/PUT /v1/foods. Omitted nutrient fields are
// zero.
type foodRequest struct {
	Title                  string                       `json:"title"`
	Brand                  *string                      `json:"brand"`
	Description            *string                      `json:"description"`
	Portion                Portion                      `json:"portion"`
	NutritionalInformation nutrition.NutritionalProfile `json:"nutritionalInformation"`
}

// completeRegistrationRequest is the body for POST /v1/me/complete-registration.
type completeRegistrationRequest struct {
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Gender        string  `json:"gender"`
	BirthDate     string  `json:"birthDate"` // YYYY-MM-DD
	Goal          string  `json:"goal"`
	TargetWeight  float64 `json:"targetWeight"`
	ActivityLevel string  `json:"activityLevel"`
}

// completeRegistrationResponse echoes the profile with the computed targets.
type completeRegistrationResponse struct {
	Weight            float64   `json:"weight"`
	Height            float64   `json:"height"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	GoalType          string    `json:"goalType"`
	ActivityLevel     string    `json:"activityLevel"`
	TargetWeight      float64   `json:"targetWeight"`
	TargetCalories    int       `json:"targetCalories"`
	ProteinTarget     float64   `json:"proteinTarget"`
	CarbsTarget       float64   `json:"carbsTarget"`
	FatTarget         float64   `json:"fatTarget"`
	WaterIntakeTarget float64   `json:"waterIntakeTarget"`
	Deadline          *DateOnly `json:"deadline"`
}

// createMealLogRequest is the body for POST /v1/meal-logs. When CaloriesGoal
// is omitted it is derived from the active goal for the meal type.
type createMealLogRequest struct {
	Date         string `json:"date"`
	Type         string `json:"type"`
	Time         string `json:"time"`
	CaloriesGoal *int   `json:"caloriesGoal"`
}

// idsRequest is the body of every add/remove identifier-set operation.
type idsRequest struct {
	MealIDs []string `json:"mealIds"`
	FoodIDs []string `json:"foodIds"`
}
