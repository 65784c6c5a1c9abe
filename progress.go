package main

import (
	"net/http"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// addWaterIntake records water ingested on a day. Several intakes per day
// add up.
// POST /v1/water-intakes. Body: { "date"?, "amountMl" }.
func (h *Handler) addWaterIntake(c *gin.Context) {
	var body struct {
		Date     string `json:"date"`
		AmountML int    `json:"amountMl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.AmountML <= 0 {
		apiError(c, http.StatusBadRequest, "amountMl must be positive")
		return
	}
	if body.Date == "" {
		body.Date = h.today().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	w, err := queryOne[waterIntake](h.db, c,
		`INSERT INTO water_intakes (id, user_id, date, amount_ml)
		 VALUES (@id, @userID, @date, @amountMl)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": c.GetString("user_id"),
			"date": body.Date, "amountMl": body.AmountML,
		})
	if err != nil {
		dbError(c, err, "water intake")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// getDailyProgress compares a day's consumption with the active goal:
// calories and macros summed over every meal log of the day, and water.
// GET /v1/progress/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	date, ok := h.dateQuery(c, "date")
	if !ok {
		return
	}

	g, err := h.activeGoal(c, userID)
	if err != nil {
		dbError(c, err, "goal")
		return
	}

	logs, err := queryMany[mealLog](h.db, c,
		"SELECT * FROM meal_logs WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}
	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	totals, err := mealLogTotals(c, h.db, ids)
	if err != nil {
		dbError(c, err, "meal logs")
		return
	}
	perLog := make([]nutrition.NutritionalProfile, 0, len(totals))
	for _, id := range ids {
		perLog = append(perLog, totals[id])
	}

	var waterML int
	if err := h.db.QueryRow(c,
		"SELECT COALESCE(sum(amount_ml), 0) FROM water_intakes WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date}).Scan(&waterML); err != nil {
		dbError(c, err, "water intake")
		return
	}

	c.JSON(http.StatusOK, nutrition.BuildDailyProgress(
		g.dailyTargets(), nutrition.Sum(perLog...), float64(waterML)/1000))
}
