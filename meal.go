package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var mealSortFields = map[string]string{
	"title":     "title",
	"type":      "type",
	"createdAt": "created_at",
}

// mealRequest is the body for POST/PUT /v1/meals. FoodIDs is only read on
// create; afterwards foods are managed through /v1/meals/:id/foods.
type mealRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Type        string   `json:"type"`
	FoodIDs     []string `json:"foodIds"`
}

func (r *mealRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}
	_, err := nutrition.ParseMealType(r.Type)
	return err
}

func bindMeal(c *gin.Context) (mealRequest, bool) {
	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return body, false
	}
	if err := body.validate(); err != nil {
		if !validationError(c, err) {
			apiError(c, http.StatusBadRequest, err.Error())
		}
		return body, false
	}
	return body, true
}

// listMeals returns a page of the user's meals, optionally filtered by type.
// GET /v1/meals?page=0&size=10&sort=title,asc&type=LUNCH.
func (h *Handler) listMeals(c *gin.Context) {
	userID := c.GetString("user_id")
	q, ok := parsePage(c, mealSortFields, "title,asc")
	if !ok {
		return
	}
	var mealType *string
	if t := c.Query("type"); t != "" {
		if _, err := nutrition.ParseMealType(t); err != nil {
			validationError(c, err)
			return
		}
		mealType = &t
	}
	args := pgx.NamedArgs{"userID": userID, "type": mealType}

	var total int
	if err := h.db.QueryRow(c,
		"SELECT count(*) FROM meals WHERE user_id = @userID AND (@type::text IS NULL OR type = @type)",
		args).Scan(&total); err != nil {
		dbError(c, err, "meals")
		return
	}

	args["limit"], args["offset"] = q.Size, q.offset()
	meals, err := queryMany[meal](h.db, c,
		`SELECT * FROM meals WHERE user_id = @userID AND (@type::text IS NULL OR type = @type)
		 ORDER BY `+q.OrderBy+`, id
		 LIMIT @limit OFFSET @offset`,
		args)
	if err != nil {
		dbError(c, err, "meals")
		return
	}

	c.JSON(http.StatusOK, newPage(meals, q, total))
}

// createMeal stores a meal and attaches the given foods in one transaction.
// POST /v1/meals. Body: { "title", "description"?, "type", "foodIds"? }.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetString("user_id")
	body, ok := bindMeal(c)
	if !ok {
		return
	}
	if len(body.FoodIDs) > 0 {
		ids, err := parseIDs(body.FoodIDs)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		body.FoodIDs = dedupe(ids)
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	defer tx.Rollback(c)

	m, err := queryOne[meal](tx, c,
		`INSERT INTO meals (id, user_id, title, description, type)
		 VALUES (@id, @userID, @title, @description, @type)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": userID,
			"title": body.Title, "description": body.Description, "type": body.Type,
		})
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	if len(body.FoodIDs) > 0 {
		if err := mealFoods.add(c, tx, m.ID, userID, body.FoodIDs); err != nil {
			if errors.Is(err, errUnknownReference) {
				apiError(c, http.StatusNotFound, "food not found")
				return
			}
			dbError(c, err, "meal")
			return
		}
	}
	foods, err := mealFoodList(c, tx, m.ID)
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	if err := tx.Commit(c); err != nil {
		dbError(c, err, "meal")
		return
	}

	c.JSON(http.StatusCreated, mealWithFoods{meal: m, Foods: foods})
}

// getMeal returns a meal with its foods.
// GET /v1/meals/:id.
func (h *Handler) getMeal(c *gin.Context) {
	id, ok := pathID(c, "meal")
	if !ok {
		return
	}
	m, err := queryOne[meal](h.db, c,
		"SELECT * FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	foods, err := mealFoodList(c, h.db, m.ID)
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	c.JSON(http.StatusOK, mealWithFoods{meal: m, Foods: foods})
}

// updateMeal replaces title, description and type.
// PUT /v1/meals/:id.
func (h *Handler) updateMeal(c *gin.Context) {
	id, ok := pathID(c, "meal")
	if !ok {
		return
	}
	body, ok := bindMeal(c)
	if !ok {
		return
	}

	m, err := queryOne[meal](h.db, c,
		`UPDATE meals SET title = @title, description = @description, type = @type, updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": c.GetString("user_id"),
			"title": body.Title, "description": body.Description, "type": body.Type,
		})
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	c.JSON(http.StatusOK, m)
}

// deleteMeal removes a meal. Its foods are untouched.
// DELETE /v1/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	id, ok := pathID(c, "meal")
	if !ok {
		return
	}
	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// getMealFoods lists the foods a meal references.
// GET /v1/meals/:id/foods.
func (h *Handler) getMealFoods(c *gin.Context) {
	id, ok := pathID(c, "meal")
	if !ok {
		return
	}
	if !h.owns(c, "meals", id, c.GetString("user_id"), "meal") {
		return
	}
	foods, err := mealFoodList(c, h.db, id)
	if err != nil {
		dbError(c, err, "foods")
		return
	}
	c.JSON(http.StatusOK, foods)
}

// POST /v1/meals/:id/foods. Body: { "foodIds": [...] }.
func (h *Handler) addFoodsToMeal(c *gin.Context) {
	h.changeLinks(c, mealFoods, "meals", "meal", true)
}

// DELETE /v1/meals/:id/foods. Body: { "foodIds": [...] }.
func (h *Handler) removeFoodsFromMeal(c *gin.Context) {
	h.changeLinks(c, mealFoods, "meals", "meal", false)
}

// getMealNutrition sums the profiles of the meal's foods.
// GET /v1/meals/:id/nutritional-information.
func (h *Handler) getMealNutrition(c *gin.Context) {
	id, ok := pathID(c, "meal")
	if !ok {
		return
	}
	if !h.owns(c, "meals", id, c.GetString("user_id"), "meal") {
		return
	}
	foods, err := mealFoodList(c, h.db, id)
	if err != nil {
		dbError(c, err, "meal")
		return
	}
	c.JSON(http.StatusOK, nutrition.MealNutrition(profilesOf(foods)))
}

/* ─── Helpers ────────────────────────────────────────────────────────── */

func mealFoodList(c *gin.Context, db querier, mealID string) ([]food, error) {
	return queryMany[food](db, c,
		`SELECT f.* FROM foods f
		 JOIN meal_foods mf ON mf.food_id = f.id
		 WHERE mf.meal_id = @mealID
		 ORDER BY f.title`,
		pgx.NamedArgs{"mealID": mealID})
}

func profilesOf(foods []food) []nutrition.NutritionalProfile {
	profiles := make([]nutrition.NutritionalProfile, len(foods))
	for i, f := range foods {
		profiles[i] = f.NutritionalProfile
	}
	return profiles
}
