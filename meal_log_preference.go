package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mealLogPreferenceRequest struct {
	Type         string `json:"type"`
	Time         string `json:"time"`
	CaloriesGoal *int   `json:"caloriesGoal"`
}

// listMealLogPreferences returns the user's templates ordered by time. A
// template without its own caloriesGoal shows the slot's share of the active
// goal (null while no goal is set).
// GET /v1/meal-log-preferences.
func (h *Handler) listMealLogPreferences(c *gin.Context) {
	userID := c.GetString("user_id")

	prefs, err := queryMany[mealLogPreference](h.db, c,
		"SELECT * FROM meal_log_preferences WHERE user_id = @userID ORDER BY time, type",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		dbError(c, err, "meal log preferences")
		return
	}

	dailyGoal, err := h.dailyCaloriesGoal(c, userID)
	if err != nil {
		dbError(c, err, "goal")
		return
	}
	if dailyGoal > 0 {
		for i := range prefs {
			if err := fillPreferenceGoal(&prefs[i], dailyGoal); err != nil {
				if !validationError(c, err) {
					dbError(c, err, "meal log preferences")
				}
				return
			}
		}
	}

	c.JSON(http.StatusOK, prefs)
}

// dailyCaloriesGoal is the active goal's target, or 0 when the user has none.
func (h *Handler) dailyCaloriesGoal(c *gin.Context, userID string) (int, error) {
	g, err := h.activeGoal(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return g.TargetCalories, nil
}

// fillPreferenceGoal sets a missing CaloriesGoal to the allocator output.
func fillPreferenceGoal(p *mealLogPreference, dailyGoal int) error {
	if p.CaloriesGoal != nil {
		return nil
	}
	kcal, err := p.plan().CaloriesFor(dailyGoal)
	if err != nil {
		return err
	}
	p.CaloriesGoal = &kcal
	return nil
}

func validPreferenceCalories(c *gin.Context, kcal *int) bool {
	if kcal != nil && *kcal <= 0 {
		validationError(c, fmt.Errorf("caloriesGoal %d: %w", *kcal, nutrition.ErrInvalidCalories))
		return false
	}
	return true
}

// createMealLogPreferences stores a batch of templates in one transaction.
// A meal type repeated in the body is a 400; one that already has a
// preference is a 409.
// POST /v1/meal-log-preferences. Body: [{ "type", "time" }, ...].
func (h *Handler) createMealLogPreferences(c *gin.Context) {
	userID := c.GetString("user_id")

	var body []mealLogPreferenceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body) == 0 {
		apiError(c, http.StatusBadRequest, "at least one preference is required")
		return
	}
	seen := make(map[nutrition.MealType]bool, len(body))
	for _, p := range body {
		mt, err := nutrition.ParseMealType(p.Type)
		if err != nil {
			validationError(c, err)
			return
		}
		if seen[mt] {
			validationError(c, fmt.Errorf("preference for %s: %w", mt, nutrition.ErrDuplicateMealType))
			return
		}
		seen[mt] = true
		if !validTimeOfDay(p.Time) {
			apiError(c, http.StatusBadRequest, "invalid time, expected HH:MM")
			return
		}
		if !validPreferenceCalories(c, p.CaloriesGoal) {
			return
		}
	}

	dailyGoal, err := h.dailyCaloriesGoal(c, userID)
	if err != nil {
		dbError(c, err, "goal")
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		dbError(c, err, "meal log preference")
		return
	}
	defer tx.Rollback(c)

	created := make([]mealLogPreference, 0, len(body))
	for _, p := range body {
		// Without an explicit goal the slot's current share is stored; with no
		// active goal it stays NULL and is resolved on read.
		pref := mealLogPreference{Type: p.Type, Time: p.Time, CaloriesGoal: p.CaloriesGoal}
		if dailyGoal > 0 {
			if err := fillPreferenceGoal(&pref, dailyGoal); err != nil {
				if !validationError(c, err) {
					dbError(c, err, "meal log preference")
				}
				return
			}
		}
		saved, err := queryOne[mealLogPreference](tx, c,
			`INSERT INTO meal_log_preferences (id, user_id, type, time, calories_goal)
			 VALUES (@id, @userID, @type, @time, @caloriesGoal)
			 RETURNING *`,
			pgx.NamedArgs{
				"id": uuid.NewString(), "userID": userID,
				"type": pref.Type, "time": pref.Time, "caloriesGoal": pref.CaloriesGoal,
			})
		if err != nil {
			dbError(c, err, "meal log preference")
			return
		}
		created = append(created, saved)
	}
	if err := tx.Commit(c); err != nil {
		dbError(c, err, "meal log preference")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// updateMealLogPreference changes the type, time and/or calorie goal of a
// template.
// PATCH /v1/meal-log-preferences/:id. Body: { "type"?, "time"?, "caloriesGoal"? }.
func (h *Handler) updateMealLogPreference(c *gin.Context) {
	id, ok := pathID(c, "meal log preference")
	if !ok {
		return
	}

	var body struct {
		Type         *string `json:"type"`
		Time         *string `json:"time"`
		CaloriesGoal *int    `json:"caloriesGoal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Type != nil {
		if _, err := nutrition.ParseMealType(*body.Type); err != nil {
			validationError(c, err)
			return
		}
	}
	if body.Time != nil && !validTimeOfDay(*body.Time) {
		apiError(c, http.StatusBadRequest, "invalid time, expected HH:MM")
		return
	}
	if !validPreferenceCalories(c, body.CaloriesGoal) {
		return
	}

	userID := c.GetString("user_id")
	pref, err := queryOne[mealLogPreference](h.db, c,
		`UPDATE meal_log_preferences SET
			type          = COALESCE(@type, type),
			time          = COALESCE(@time, time),
			calories_goal = COALESCE(@caloriesGoal, calories_goal)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"type": body.Type, "time": body.Time, "caloriesGoal": body.CaloriesGoal,
		})
	if err != nil {
		dbError(c, err, "meal log preference")
		return
	}

	dailyGoal, err := h.dailyCaloriesGoal(c, userID)
	if err != nil {
		dbError(c, err, "goal")
		return
	}
	if dailyGoal > 0 {
		if err := fillPreferenceGoal(&pref, dailyGoal); err != nil {
			if !validationError(c, err) {
				dbError(c, err, "meal log preference")
			}
			return
		}
	}
	c.JSON(http.StatusOK, pref)
}

// deleteMealLogPreference removes a template. Logs created from it stay.
// DELETE /v1/meal-log-preferences/:id.
func (h *Handler) deleteMealLogPreference(c *gin.Context) {
	id, ok := pathID(c, "meal log preference")
	if !ok {
		return
	}
	result, err := h.db.Exec(c,
		"DELETE FROM meal_log_preferences WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "meal log preference")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal log preference not found")
		return
	}
	c.Status(http.StatusNoContent)
}
