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

var foodSortFields = map[string]string{
	"title":     "title",
	"calories":  "calories",
	"createdAt": "created_at",
}

// foodColumns are the writable columns of foods, in the order foodValues binds
// them.
const foodColumns = `title, brand, description, portion_amount, portion_unit, portion_description,
	calories, carbohydrates, protein, fat, monounsaturated_fat, saturated_fat,
	polyunsaturated_fat, trans_fat, cholesterol, sodium, potassium, fiber, sugar,
	calcium, iron, vitamin_a, vitamin_c`

const foodValues = `@title, @brand, @description, @portionAmount, @portionUnit, @portionDescription,
	@calories, @carbohydrates, @protein, @fat, @monounsaturatedFat, @saturatedFat,
	@polyunsaturatedFat, @transFat, @cholesterol, @sodium, @potassium, @fiber, @sugar,
	@calcium, @iron, @vitaminA, @vitaminC`

// validate normalizes the request and checks portion and nutrient values.
func (r *foodRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Portion.Amount <= 0 {
		return errors.New("portion amount must be positive")
	}
	if _, err := nutrition.ParseUnit(r.Portion.Unit); err != nil {
		return err
	}
	return r.NutritionalInformation.Validate()
}

func (r foodRequest) args() pgx.NamedArgs {
	p := r.NutritionalInformation
	return pgx.NamedArgs{
		"title": r.Title, "brand": r.Brand, "description": r.Description,
		"portionAmount": r.Portion.Amount, "portionUnit": r.Portion.Unit,
		"portionDescription": r.Portion.Description,

		"calories": p.Calories, "carbohydrates": p.Carbohydrates, "protein": p.Protein,
		"fat": p.Fat, "monounsaturatedFat": p.MonounsaturatedFat, "saturatedFat": p.SaturatedFat,
		"polyunsaturatedFat": p.PolyunsaturatedFat, "transFat": p.TransFat,
		"cholesterol": p.Cholesterol, "sodium": p.Sodium, "potassium": p.Potassium,
		"fiber": p.Fiber, "sugar": p.Sugar, "calcium": p.Calcium, "iron": p.Iron,
		"vitaminA": p.VitaminA, "vitaminC": p.VitaminC,
	}
}

// bindFood reads and validates a food body, writing 400 on failure.
func bindFood(c *gin.Context) (foodRequest, bool) {
	var body foodRequest
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

// listFoods returns a page of the user's foods, optionally filtered by a
// case-insensitive title search.
// GET /v1/foods?page=0&size=10&sort=title,asc&title=arroz.
func (h *Handler) listFoods(c *gin.Context) {
	userID := c.GetString("user_id")
	q, ok := parsePage(c, foodSortFields, "title,asc")
	if !ok {
		return
	}
	args := pgx.NamedArgs{"userID": userID, "title": "%" + strings.TrimSpace(c.Query("title")) + "%"}

	var total int
	if err := h.db.QueryRow(c,
		"SELECT count(*) FROM foods WHERE user_id = @userID AND title ILIKE @title",
		args).Scan(&total); err != nil {
		dbError(c, err, "foods")
		return
	}

	args["limit"], args["offset"] = q.Size, q.offset()
	foods, err := queryMany[food](h.db, c,
		`SELECT * FROM foods WHERE user_id = @userID AND title ILIKE @title
		 ORDER BY `+q.OrderBy+`, id
		 LIMIT @limit OFFSET @offset`,
		args)
	if err != nil {
		dbError(c, err, "foods")
		return
	}

	c.JSON(http.StatusOK, newPage(foods, q, total))
}

// createFood stores a food with its portion and nutritional profile.
// POST /v1/foods.
func (h *Handler) createFood(c *gin.Context) {
	body, ok := bindFood(c)
	if !ok {
		return
	}
	args := body.args()
	args["id"], args["userID"] = uuid.NewString(), c.GetString("user_id")

	f, err := queryOne[food](h.db, c,
		`INSERT INTO foods (id, user_id, `+foodColumns+`)
		 VALUES (@id, @userID, `+foodValues+`)
		 RETURNING *`,
		args)
	if err != nil {
		dbError(c, err, "food")
		return
	}

	c.JSON(http.StatusCreated, f)
}

// getFood returns a single food.
// GET /v1/foods/:id.
func (h *Handler) getFood(c *gin.Context) {
	id, ok := pathID(c, "food")
	if !ok {
		return
	}
	f, err := queryOne[food](h.db, c,
		"SELECT * FROM foods WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "food")
		return
	}
	c.JSON(http.StatusOK, f)
}

// updateFood replaces every field of a food. Meals and meal logs that
// reference it see the new values on their next read.
// PUT /v1/foods/:id.
func (h *Handler) updateFood(c *gin.Context) {
	id, ok := pathID(c, "food")
	if !ok {
		return
	}
	body, ok := bindFood(c)
	if !ok {
		return
	}
	args := body.args()
	args["id"], args["userID"] = id, c.GetString("user_id")

	f, err := queryOne[food](h.db, c,
		`UPDATE foods SET (`+foodColumns+`, updated_at) = (`+foodValues+`, now())
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		args)
	if err != nil {
		dbError(c, err, "food")
		return
	}
	c.JSON(http.StatusOK, f)
}

// deleteFood removes a food; it drops out of every meal and meal log.
// DELETE /v1/foods/:id.
func (h *Handler) deleteFood(c *gin.Context) {
	id, ok := pathID(c, "food")
	if !ok {
		return
	}
	result, err := h.db.Exec(c,
		"DELETE FROM foods WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetString("user_id")})
	if err != nil {
		dbError(c, err, "food")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "food not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// getFoodMeals lists the meals that reference a food.
// GET /v1/foods/:id/meals.
func (h *Handler) getFoodMeals(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := pathID(c, "food")
	if !ok {
		return
	}
	if !h.owns(c, "foods", id, userID, "food") {
		return
	}

	meals, err := queryMany[meal](h.db, c,
		`SELECT m.* FROM meals m
		 JOIN meal_foods mf ON mf.meal_id = m.id
		 WHERE mf.food_id = @id AND m.user_id = @userID
		 ORDER BY m.title`,
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		dbError(c, err, "meals")
		return
	}
	c.JSON(http.StatusOK, meals)
}
