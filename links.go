package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// errUnknownReference is returned when an identifier set names a row the user
// does not own.
var errUnknownReference = errors.New("unknown reference")

// link is a many-to-many join table from an owner row (meal, meal log) to the
// rows it references (foods, meals). References are never owned: deleting the
// owner removes only the join rows.
type link struct {
	table    string // join table
	ownerCol string
	refCol   string
	refTable string
	refName  string
}

var (
	mealFoods    = link{table: "meal_foods", ownerCol: "meal_id", refCol: "food_id", refTable: "foods", refName: "food"}
	mealLogMeals = link{table: "meal_log_meals", ownerCol: "meal_log_id", refCol: "meal_id", refTable: "meals", refName: "meal"}
	mealLogFoods = link{table: "meal_log_foods", ownerCol: "meal_log_id", refCol: "food_id", refTable: "foods", refName: "food"}
)

// ids picks the identifier list of req that this link consumes.
func (l link) ids(req idsRequest) []string {
	if l.refTable == "meals" {
		return req.MealIDs
	}
	return req.FoodIDs
}

// add attaches every id to ownerID. Ids already attached are left alone, so
// a reference appears at most once per owner. All ids must belong to userID.
func (l link) add(ctx context.Context, db querier, ownerID, userID string, ids []string) error {
	ids = dedupe(ids)
	args := pgx.NamedArgs{"ownerID": ownerID, "userID": userID, "ids": ids}

	var owned int
	if err := db.QueryRow(ctx,
		"SELECT count(*) FROM "+l.refTable+" WHERE user_id = @userID AND id = ANY(@ids::uuid[])",
		args).Scan(&owned); err != nil {
		return err
	}
	if owned != len(ids) {
		return fmt.Errorf("%s: %w", l.refName, errUnknownReference)
	}

	_, err := db.Exec(ctx,
		`INSERT INTO `+l.table+` (`+l.ownerCol+`, `+l.refCol+`)
		 SELECT @ownerID, id FROM `+l.refTable+` WHERE user_id = @userID AND id = ANY(@ids::uuid[])
		 ON CONFLICT DO NOTHING`,
		args)
	return err
}

// remove detaches ids from ownerID. Ids that are not attached are ignored.
func (l link) remove(ctx context.Context, db querier, ownerID string, ids []string) error {
	_, err := db.Exec(ctx,
		"DELETE FROM "+l.table+" WHERE "+l.ownerCol+" = @ownerID AND "+l.refCol+" = ANY(@ids::uuid[])",
		pgx.NamedArgs{"ownerID": ownerID, "ids": dedupe(ids)})
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

/* ─── Route helpers ──────────────────────────────────────────────────── */

// bindIDs reads an identifier-set body and validates the list l consumes.
func bindIDs(c *gin.Context, l link) ([]string, bool) {
	var body idsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	ids, err := parseIDs(l.ids(body))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return dedupe(ids), true
}

// changeLinks is the shared body of every POST/DELETE identifier-set route:
// it checks the owner, binds the ids and applies add or remove. 204 on success.
func (h *Handler) changeLinks(c *gin.Context, l link, ownerTable, ownerName string, attach bool) {
	userID := c.GetString("user_id")
	ownerID, ok := pathID(c, ownerName)
	if !ok {
		return
	}
	if !h.owns(c, ownerTable, ownerID, userID, ownerName) {
		return
	}
	ids, ok := bindIDs(c, l)
	if !ok {
		return
	}

	var err error
	if attach {
		err = l.add(c, h.db, ownerID, userID, ids)
	} else {
		err = l.remove(c, h.db, ownerID, ids)
	}
	if errors.Is(err, errUnknownReference) {
		apiError(c, http.StatusNotFound, l.refName+" not found")
		return
	}
	if err != nil {
		dbError(c, err, l.refName)
		return
	}
	c.Status(http.StatusNoContent)
}
