package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// listMealLogs returns the user's meal logs for a day ordered by time, each
// with the calories consumed so far.
// GET /v1/meal-logs?date=YYYY-MM-DD (defaults to today).
func (h *Handler) listMealLogs(c *gin.Context) {
	userID := c.GetString("user_id")
	date, ok := h.dateQuery(c, "date")
	if !ok {
		return
	}

	logs, err := h.mealLogsOn(c, userID, date)
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// createMealLog registers a meal slot for a day. When caloriesGoal is omitted
// it is the slot's share of the active goal. One log per (date, type).
// POST /v1/meal-logs. Body: { "date"?, "type", "time", "caloriesGoal"? }.
func (h *Handler) createMealLog(c *gin.Context) {
	userID := c.GetString("user_id")

	var body createMealLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = h.today().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	mealType, err := nutrition.ParseMealType(body.Type)
	if err != nil {
		validationError(c, err)
		return
	}
	if !validTimeOfDay(body.Time) {
		apiError(c, http.StatusBadRequest, "invalid time, expected HH:MM")
		return
	}

	var caloriesGoal int
	if body.CaloriesGoal != nil {
		if *body.CaloriesGoal <= 0 {
			validationError(c, fmt.Errorf("caloriesGoal %d: %w", *body.CaloriesGoal, nutrition.ErrInvalidCalories))
			return
		}
		caloriesGoal = *body.CaloriesGoal
	} else {
		g, err := h.activeGoal(c, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusBadRequest, "caloriesGoal is required until a goal is set")
			return
		}
		if err != nil {
			dbError(c, err, "goal")
			return
		}
		if caloriesGoal, err = nutrition.AllocateCalories(mealType, g.TargetCalories); err != nil {
			validationError(c, err)
			return
		}
	}

	l, err := queryOne[mealLog](h.db, c,
		`INSERT INTO meal_logs (id, user_id, date, type, time, calories_goal)
		 VALUES (@id, @userID, @date, @type, @time, @caloriesGoal)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": userID, "date": body.Date,
			"type": body.Type, "time": body.Time, "caloriesGoal": caloriesGoal,
		})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	c.JSON(http.StatusCreated, l)
}

// prefillMealLogs creates the day's missing logs from the user's meal log
// preferences, each with its slot's share of the active goal, and returns all
// of the day's logs.
// POST /v1/meal-logs/prefill. Body: { "date"? }.
func (h *Handler) prefillMealLogs(c *gin.Context) {
	userID := c.GetString("user_id")

	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = h.today().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	g, err := h.activeGoal(c, userID)
	if err != nil {
		dbError(c, err, "goal")
		return
	}
	prefs, err := queryMany[mealLogPreference](h.db, c,
		"SELECT * FROM meal_log_preferences WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		dbError(c, err, "meal log preferences")
		return
	}
	existing, err := h.mealLogsOn(c, userID, body.Date)
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}

	planPrefs := make([]nutrition.MealLogPreference, len(prefs))
	for i, p := range prefs {
		planPrefs[i] = p.plan()
	}
	logged := make([]nutrition.MealType, len(existing))
	for i, l := range existing {
		logged[i] = nutrition.MealType(l.Type)
	}
	planned, err := nutrition.PlanDay(planPrefs, logged, g.TargetCalories)
	if err != nil {
		if !validationError(c, err) {
			dbError(c, err, "meal logs")
		}
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}
	defer tx.Rollback(c)
	for _, p := range planned {
		// A concurrent create for the same slot wins; prefill never overwrites.
		if _, err := tx.Exec(c,
			`INSERT INTO meal_logs (id, user_id, date, type, time, calories_goal)
			 VALUES (@id, @userID, @date, @type, @time, @caloriesGoal)
			 ON CONFLICT (user_id, date, type) DO NOTHING`,
			pgx.NamedArgs{
				"id": uuid.NewString(), "userID": userID, "date": body.Date,
				"type": string(p.MealType), "time": p.Time, "caloriesGoal": p.CaloriesGoal,
			}); err != nil {
			dbError(c, err, "meal logs")
			return
		}
	}
	if err := tx.Commit(c); err != nil {
		dbError(c, err, "meal logs")
		return
	}

	logs, err := h.mealLogsOn(c, userID, body.Date)
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}
	c.JSON(http.StatusCreated, logs)
}

// getMealLog returns one meal log with its consumed calories.
// GET /v1/meal-logs/:id.
func (h *Handler) getMealLog(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}
	l, err := queryOne[mealLog](h.db, c,
		"SELECT * FROM meal_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	totals, err := mealLogTotals(c, h.db, []string{l.ID})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	l.CaloriesConsumed = totals[l.ID].Calories
	c.JSON(http.StatusOK, l)
}

// updateMealLog partially updates a log. caloriesGoal stays editable after
// creation; moving a log onto an occupied slot is a 409.
// PUT /v1/meal-logs/:id. Body: { "date"?, "type"?, "time"?, "caloriesGoal"? }.
func (h *Handler) updateMealLog(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}

	var body struct {
		Date         *string `json:"date"`
		Type         *string `json:"type"`
		Time         *string `json:"time"`
		CaloriesGoal *int    `json:"caloriesGoal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
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
	if body.CaloriesGoal != nil && *body.CaloriesGoal <= 0 {
		validationError(c, fmt.Errorf("caloriesGoal %d: %w", *body.CaloriesGoal, nutrition.ErrInvalidCalories))
		return
	}

	l, err := queryOne[mealLog](h.db, c,
		`UPDATE meal_logs SET
			date          = COALESCE(@date::date, date),
			type          = COALESCE(@type, type),
			time          = COALESCE(@time, time),
			calories_goal = COALESCE(@caloriesGoal, calories_goal)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": c.GetString("user_id"), "date": body.Date,
			"type": body.Type, "time": body.Time, "caloriesGoal": body.CaloriesGoal,
		})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	totals, err := mealLogTotals(c, h.db, []string{l.ID})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	l.CaloriesConsumed = totals[l.ID].Calories
	c.JSON(http.StatusOK, l)
}

// deleteMealLog removes a log. Referenced meals and foods are untouched.
// DELETE /v1/meal-logs/:id.
func (h *Handler) deleteMealLog(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}
	result, err := h.db.Exec(c,
		"DELETE FROM meal_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal log not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// getMealLogMeals lists the meals attached to a log, with their foods.
// GET /v1/meal-logs/:id/meals.
func (h *Handler) getMealLogMeals(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}
	if !h.owns(c, "meal_logs", id, c.GetString("user_id"), "meal log") {
		return
	}
	meals, err := queryMany[meal](h.db, c,
		`SELECT m.* FROM meals m
		 JOIN meal_log_meals lm ON lm.meal_id = m.id
		 WHERE lm.meal_log_id = @id
		 ORDER BY m.title`,
		pgx.NamedArgs{"id": id})
	if err != nil {
		dbError(c, err, "meals")
		return
	}

	out := make([]mealWithFoods, len(meals))
	for i, m := range meals {
		foods, err := mealFoodList(c, h.db, m.ID)
		if err != nil {
			dbError(c, err, "meals")
			return
		}
		out[i] = mealWithFoods{meal: m, Foods: foods}
	}
	c.JSON(http.StatusOK, out)
}

// getMealLogFoods lists the foods attached directly to a log.
// GET /v1/meal-logs/:id/foods.
func (h *Handler) getMealLogFoods(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}
	if !h.owns(c, "meal_logs", id, c.GetString("user_id"), "meal log") {
		return
	}
	foods, err := queryMany[food](h.db, c,
		`SELECT f.* FROM foods f
		 JOIN meal_log_foods lf ON lf.food_id = f.id
		 WHERE lf.meal_log_id = @id
		 ORDER BY f.title`,
		pgx.NamedArgs{"id": id})
	if err != nil {
		dbError(c, err, "foods")
		return
	}
	c.JSON(http.StatusOK, foods)
}

// POST /v1/meal-logs/:id/meals. Body: { "mealIds": [...] }.
func (h *Handler) addMealsToMealLog(c *gin.Context) {
	h.changeLinks(c, mealLogMeals, "meal_logs", "meal log", true)
}

// DELETE /v1/meal-logs/:id/meals. Body: { "mealIds": [...] }.
func (h *Handler) removeMealsFromMealLog(c *gin.Context) {
	h.changeLinks(c, mealLogMeals, "meal_logs", "meal log", false)
}

// POST /v1/meal-logs/:id/foods. Body: { "foodIds": [...] }.
func (h *Handler) addFoodsToMealLog(c *gin.Context) {
	h.changeLinks(c, mealLogFoods, "meal_logs", "meal log", true)
}

// DELETE /v1/meal-logs/:id/foods. Body: { "foodIds": [...] }.
func (h *Handler) removeFoodsFromMealLog(c *gin.Context) {
	h.changeLinks(c, mealLogFoods, "meal_logs", "meal log", false)
}

// getMealLogNutrition returns the consumed profile of a log: its meals summed
// first, then combined with the foods attached directly.
// GET /v1/meal-logs/:id/nutritional-info.
func (h *Handler) getMealLogNutrition(c *gin.Context) {
	id, ok := pathID(c, "meal log")
	if !ok {
		return
	}
	if !h.owns(c, "meal_logs", id, c.GetString("user_id"), "meal log") {
		return
	}
	totals, err := mealLogTotals(c, h.db, []string{id})
	if err != nil {
		dbError(c, err, "meal log")
		return
	}
	c.JSON(http.StatusOK, totals[id])
}

/* ─── Aggregation ────────────────────────────────────────────────────── */

// mealLogsOn loads a day's logs with CaloriesConsumed filled in.
func (h *Handler) mealLogsOn(c *gin.Context, userID, date string) ([]mealLog, error) {
	logs, err := queryMany[mealLog](h.db, c,
		`SELECT * FROM meal_logs WHERE user_id = @userID AND date = @date
		 ORDER BY time, type`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	totals, err := mealLogTotals(c, h.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		logs[i].CaloriesConsumed = totals[logs[i].ID].Calories
	}
	return logs, nil
}

// loggedFood is one food reached from a meal log, either attached directly
// (MealID nil) or through one of the log's meals.
type loggedFood struct {
	MealLogID string  `db:"meal_log_id"`
	MealID    *string `db:"meal_id"`
	food
}

// mealLogTotals computes the consumed profile of each log in ids. Logs with
// nothing attached map to the zero profile.
func mealLogTotals(c *gin.Context, db querier, ids []string) (map[string]nutrition.NutritionalProfile, error) {
	if len(ids) == 0 {
		return map[string]nutrition.NutritionalProfile{}, nil
	}

	rows, err := queryMany[loggedFood](db, c,
		`SELECT lf.meal_log_id, NULL::uuid AS meal_id, f.*
		 FROM meal_log_foods lf JOIN foods f ON f.id = lf.food_id
		 WHERE lf.meal_log_id = ANY(@ids::uuid[])
		 UNION ALL
		 SELECT lm.meal_log_id, lm.meal_id, f.*
		 FROM meal_log_meals lm
		 JOIN meal_foods mf ON mf.meal_id = lm.meal_id
		 JOIN foods f ON f.id = mf.food_id
		 WHERE lm.meal_log_id = ANY(@ids::uuid[])`,
		pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, err
	}
	return groupLoggedFoods(ids, rows), nil
}

// groupLoggedFoods folds the rows of mealLogTotals into one profile per log:
// rows sharing a MealID are summed as one meal, rows without one are direct
// foods. Every id in ids gets an entry.
func groupLoggedFoods(ids []string, rows []loggedFood) map[string]nutrition.NutritionalProfile {
	type parts struct {
		meals map[string][]nutrition.NutritionalProfile
		foods []nutrition.NutritionalProfile
	}
	byLog := make(map[string]*parts, len(ids))
	for _, r := range rows {
		p := byLog[r.MealLogID]
		if p == nil {
			p = &parts{meals: map[string][]nutrition.NutritionalProfile{}}
			byLog[r.MealLogID] = p
		}
		if r.MealID == nil {
			p.foods = append(p.foods, r.NutritionalProfile)
		} else {
			p.meals[*r.MealID] = append(p.meals[*r.MealID], r.NutritionalProfile)
		}
	}

	totals := make(map[string]nutrition.NutritionalProfile, len(ids))
	for _, id := range ids {
		p := byLog[id]
		if p == nil {
			totals[id] = nutrition.NutritionalProfile{}
			continue
		}
		meals := make([][]nutrition.NutritionalProfile, 0, len(p.meals))
		for _, foods := range p.meals {
			meals = append(meals, foods)
		}
		totals[id] = nutrition.MealLogNutrition(meals, p.foods)
	}
	return totals
}
