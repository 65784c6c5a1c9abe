package main

import (
	"net/http"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var bodySortFields = map[string]string{
	"date":   "date",
	"weight": "weight",
}

// listBodies returns a page of body registries for the authenticated user.
// GET /v1/bodies?page=0&size=10&sort=date,desc.
func (h *Handler) listBodies(c *gin.Context) {
	userID := c.GetString("user_id")
	q, ok := parsePage(c, bodySortFields, "date,desc")
	if !ok {
		return
	}

	var total int
	if err := h.db.QueryRow(c, "SELECT count(*) FROM bodies WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID}).Scan(&total); err != nil {
		dbError(c, err, "body registries")
		return
	}

	// OrderBy comes from the bodySortFields whitelist, never from raw input.
	bodies, err := queryMany[bodyMetric](h.db, c,
		`SELECT * FROM bodies WHERE user_id = @userID
		 ORDER BY `+q.OrderBy+`, created_at DESC
		 LIMIT @limit OFFSET @offset`,
		pgx.NamedArgs{"userID": userID, "limit": q.Size, "offset": q.offset()})
	if err != nil {
		dbError(c, err, "body registries")
		return
	}

	c.JSON(http.StatusOK, newPage(bodies, q, total))
}

// createBody adds a weight/height registry.
// POST /v1/bodies. Body: { "weight": 80.5, "height": 1.78, "date": "YYYY-MM-DD" }.
func (h *Handler) createBody(c *gin.Context) {
	userID := c.GetString("user_id")

	var body struct {
		Weight float64 `json:"weight"`
		Height float64 `json:"height"`
		Date   string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := nutrition.ValidateBody(body.Weight, body.Height); err != nil {
		validationError(c, err)
		return
	}
	if body.Date == "" {
		body.Date = h.today().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := queryOne[bodyMetric](h.db, c,
		`INSERT INTO bodies (id, user_id, weight, height, date)
		 VALUES (@id, @userID, @weight, @height, @date)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "userID": userID,
			"weight": body.Weight, "height": body.Height, "date": body.Date,
		})
	if err != nil {
		dbError(c, err, "body registry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// updateBody partially updates an existing registry.
// PUT /v1/bodies/:id. Body: { "weight"?, "height"?, "date"? }.
// Uses COALESCE so omitted fields keep their current values.
func (h *Handler) updateBody(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := pathID(c, "body registry")
	if !ok {
		return
	}

	var body struct {
		Weight *float64 `json:"weight"`
		Height *float64 `json:"height"`
		Date   *string  `json:"date"`
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
	if body.Weight != nil && *body.Weight <= 0 {
		apiError(c, http.StatusBadRequest, "weight must be positive")
		return
	}
	if body.Height != nil && (*body.Height < nutrition.MinHeightM || *body.Height > nutrition.MaxHeightM) {
		apiError(c, http.StatusBadRequest, "height must be between 0.5 and 3.0 meters")
		return
	}

	entry, err := queryOne[bodyMetric](h.db, c,
		`UPDATE bodies SET
			weight = COALESCE(@weight, weight),
			height = COALESCE(@height, height),
			date   = COALESCE(@date, date)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "weight": body.Weight, "height": body.Height, "date": body.Date})
	if err != nil {
		dbError(c, err, "body registry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteBody removes a registry by ID. Returns 204 on success, 404 if not found.
// DELETE /v1/bodies/:id.
func (h *Handler) deleteBody(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := pathID(c, "body registry")
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM bodies WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		dbError(c, err, "body registry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "body registry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// latestBody returns the most recent registry, used by diagnosis and goals.
func (h *Handler) latestBody(c *gin.Context, userID string) (bodyMetric, error) {
	return queryOne[bodyMetric](h.db, c,
		`SELECT * FROM bodies WHERE user_id = @userID
		 ORDER BY date DESC, created_at DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
}
