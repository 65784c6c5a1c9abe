package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// getProfile returns the authenticated user's profile. Age is derived from the
// birth date and is null until registration is completed.
// GET /v1/me/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		dbError(c, err, "profile")
		return
	}

	var age *int
	if u.BirthDate != nil {
		if a, err := nutrition.Age(u.BirthDate.Time, h.today()); err == nil {
			age = &a
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            u.ID,
		"firstName":     u.FirstName,
		"lastName":      u.LastName,
		"gender":        u.Gender,
		"photoUrl":      u.PhotoURL,
		"activityLevel": u.ActivityLevel,
		"age":           age,
	})
}

// completeRegistration stores the body profile, records the first body
// registry and replaces the active goal with freshly computed targets, all in
// one transaction.
// POST /v1/me/complete-registration.
func (h *Handler) completeRegistration(c *gin.Context) {
	userID := c.GetString("user_id")

	var body completeRegistrationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := goalInputFromRequest(body, h.today())
	if err != nil {
		if !validationError(c, err) {
			apiError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	targets, err := nutrition.CalculateGoal(in)
	if err != nil {
		if !validationError(c, err) {
			log.Printf("[completeRegistration] goal calculation failed for user %s: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to compute goal")
		}
		return
	}

	var deadline *string
	if targets.Deadline != nil {
		d := targets.Deadline.Format("2006-01-02")
		deadline = &d
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		dbError(c, err, "registration")
		return
	}
	defer tx.Rollback(c)

	if _, err := tx.Exec(c,
		`UPDATE users SET gender = @gender, birth_date = @birthDate, activity_level = @activityLevel
		 WHERE id = @userID`,
		pgx.NamedArgs{
			"userID": userID, "gender": body.Gender,
			"birthDate": body.BirthDate, "activityLevel": body.ActivityLevel,
		}); err != nil {
		dbError(c, err, "registration")
		return
	}

	if _, err := tx.Exec(c,
		`INSERT INTO bodies (id, user_id, weight, height, date)
		 VALUES (@id, @userID, @weight, @height, @date)`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": userID, "weight": body.Weight,
			"height": body.Height, "date": in.Today.Format("2006-01-02"),
		}); err != nil {
		dbError(c, err, "registration")
		return
	}

	// UNIQUE(user_id) keeps exactly one active goal; a new registration replaces it.
	g, err := queryOne[goal](tx, c,
		`INSERT INTO goals (id, user_id, goal_type, target_weight, target_calories,
			protein_target, carbs_target, fat_target, water_intake_target, deadline)
		 VALUES (@id, @userID, @goalType, @targetWeight, @targetCalories,
			@protein, @carbs, @fat, @water, @deadline)
		 ON CONFLICT (user_id) DO UPDATE SET
			goal_type           = EXCLUDED.goal_type,
			target_weight       = EXCLUDED.target_weight,
			target_calories     = EXCLUDED.target_calories,
			protein_target      = EXCLUDED.protein_target,
			carbs_target        = EXCLUDED.carbs_target,
			fat_target          = EXCLUDED.fat_target,
			water_intake_target = EXCLUDED.water_intake_target,
			deadline            = EXCLUDED.deadline,
			created_at          = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": userID, "goalType": body.Goal,
			"targetWeight": body.TargetWeight, "targetCalories": targets.TargetCalories,
			"protein": targets.Macronutrients.ProteinG, "carbs": targets.Macronutrients.CarbsG,
			"fat": targets.Macronutrients.FatG, "water": targets.WaterIntakeTarget,
			"deadline": deadline,
		})
	if err != nil {
		dbError(c, err, "goal")
		return
	}

	if err := tx.Commit(c); err != nil {
		dbError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, completeRegistrationResponse{
		Weight:            body.Weight,
		Height:            body.Height,
		Age:               targets.Age,
		Gender:            body.Gender,
		GoalType:          g.GoalType,
		ActivityLevel:     body.ActivityLevel,
		TargetWeight:      g.TargetWeight,
		TargetCalories:    g.TargetCalories,
		ProteinTarget:     g.ProteinTarget,
		CarbsTarget:       g.CarbsTarget,
		FatTarget:         g.FatTarget,
		WaterIntakeTarget: g.WaterIntakeTarget,
		Deadline:          g.Deadline,
	})
}

// goalInputFromRequest validates the enum and date fields of a registration
// body and builds the calculator input.
func goalInputFromRequest(body completeRegistrationRequest, today time.Time) (nutrition.GoalInput, error) {
	gender, err := nutrition.ParseGender(body.Gender)
	if err != nil {
		return nutrition.GoalInput{}, err
	}
	level, err := nutrition.ParseActivityLevel(body.ActivityLevel)
	if err != nil {
		return nutrition.GoalInput{}, err
	}
	goalType, err := nutrition.ParseGoalType(body.Goal)
	if err != nil {
		return nutrition.GoalInput{}, err
	}
	birth, err := time.Parse("2006-01-02", body.BirthDate)
	if err != nil {
		return nutrition.GoalInput{}, errors.New("invalid birthDate, expected YYYY-MM-DD")
	}
	return nutrition.GoalInput{
		WeightKG:       body.Weight,
		HeightM:        body.Height,
		BirthDate:      birth,
		Today:          today,
		Gender:         gender,
		ActivityLevel:  level,
		GoalType:       goalType,
		TargetWeightKG: body.TargetWeight,
	}, nil
}

// getGoal returns the user's active goal.
// GET /v1/goals.
func (h *Handler) getGoal(c *gin.Context) {
	g, err := h.activeGoal(c, c.GetString("user_id"))
	if err != nil {
		dbError(c, err, "goal")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) activeGoal(c *gin.Context, userID string) (goal, error) {
	g, err := queryOne[goal](h.db, c,
		"SELECT * FROM goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return goal{}, err
	}
	g.fillMacros()
	return g, nil
}

// getDiagnosis computes BMI, classification and ideal weight range from the
// latest body registry. The fat rate is estimated when gender and birth date
// are known and left empty otherwise.
// GET /v1/me/diagnosis.
func (h *Handler) getDiagnosis(c *gin.Context) {
	userID := c.GetString("user_id")

	b, err := h.latestBody(c, userID)
	if err != nil {
		dbError(c, err, "body registry")
		return
	}
	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		dbError(c, err, "profile")
		return
	}

	metric := nutrition.BodyMetric{WeightKG: b.Weight, HeightM: b.Height, Date: b.Date.Time}
	bmi, err := nutrition.BMI(metric.WeightKG, metric.HeightM)
	if err != nil {
		validationError(c, err)
		return
	}
	d, err := nutrition.Diagnose(metric, estimateFatRate(bmi, u, h.today()))
	if err != nil {
		validationError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// estimateFatRate applies the Deurenberg formula
// (1.2·BMI + 0.23·age − 10.8·sex − 5.4, sex = 1 for men) and formats it as a
// percentage. Returns "" when the profile lacks gender or birth date.
func estimateFatRate(bmi float64, u user, today time.Time) string {
	if u.Gender == nil || u.BirthDate == nil {
		return ""
	}
	age, err := nutrition.Age(u.BirthDate.Time, today)
	if err != nil {
		return ""
	}
	sex := 0.0
	if nutrition.Gender(*u.Gender) == nutrition.Male {
		sex = 1
	}
	rate := 1.2*bmi + 0.23*float64(age) - 10.8*sex - 5.4
	if rate < 0 {
		rate = 0
	}
	return fmt.Sprintf("%.1f%%", rate)
}
