package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cybermumuca/mumuca-diet/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, config) for all route handlers.
type Handler struct {
	db            *pgxpool.Pool
	openAIBaseURL string           // Base URL for OpenAI API (overridable for tests)
	openAIKey     string
	now           func() time.Time // nil means time.Now
}

// today is the calendar date every time-dependent calculation is given.
func (h *Handler) today() time.Time {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the helpers below
// work inside transactions too.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](db querier, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := db.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
// An empty result is an empty slice, never nil, so JSON gets [] not null.
func queryMany[T any](db querier, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := db.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// dbError maps a storage error to a response: missing rows are 404, unique
// violations 409, anything else 500.
func dbError(c *gin.Context, err error, resource string) {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		apiError(c, http.StatusNotFound, resource+" not found")
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		apiError(c, http.StatusConflict, resource+" already exists")
	default:
		log.Printf("[dbError] %s %s: %v", c.Request.Method, c.FullPath(), err)
		apiError(c, http.StatusInternalServerError, "failed to process "+resource)
	}
}

// validationError writes 400 for errors raised by the nutrition calculators.
// It reports whether err was one of them.
func validationError(c *gin.Context, err error) bool {
	for _, target := range []error{
		nutrition.ErrInvalidMeasurement,
		nutrition.ErrInvalidCalories,
		nutrition.ErrUnsupportedCategory,
		nutrition.ErrBirthDateInFuture,
		nutrition.ErrGoalDirection,
		nutrition.ErrDuplicateMealType,
	} {
		if errors.Is(err, target) {
			apiError(c, http.StatusBadRequest, err.Error())
			return true
		}
	}
	return false
}

// owns reports whether id is a row of table belonging to userID, writing 404
// when it is not. table is always a constant from the caller.
func (h *Handler) owns(c *gin.Context, table, id, userID, resource string) bool {
	var exists bool
	err := h.db.QueryRow(c,
		"SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = @id AND user_id = @userID)",
		pgx.NamedArgs{"id": id, "userID": userID}).Scan(&exists)
	if err != nil {
		dbError(c, err, resource)
		return false
	}
	if !exists {
		apiError(c, http.StatusNotFound, resource+" not found")
		return false
	}
	return true
}

/* ─── Request helpers ─────────────────────────────────────────────────── */

// pathID validates the :id route param. Anything that is not a UUID cannot
// exist, so it is reported as not found.
func pathID(c *gin.Context, resource string) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusNotFound, resource+" not found")
		return "", false
	}
	return id.String(), true
}

// parseIDs checks every identifier in an add/remove set and returns them in
// canonical form, so uppercase, braced and urn:uuid: spellings of one id
// compare equal afterwards.
func parseIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one id is required")
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", id)
		}
		out[i] = u.String()
	}
	return out, nil
}

// dateQuery reads a YYYY-MM-DD query param, defaulting to today.
func (h *Handler) dateQuery(c *gin.Context, key string) (string, bool) {
	date := c.DefaultQuery(key, h.today().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+key+", expected YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func validTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// pageQuery is a parsed page/size/sort triple.
type pageQuery struct {
	Page    int
	Size    int
	OrderBy string
}

func (p pageQuery) offset() int { return p.Page * p.Size }

// parsePage reads page (0-based), size and sort ("field,asc|desc"). sortable
// maps the field names the client may use to SQL columns.
func parsePage(c *gin.Context, sortable map[string]string, defaultSort string) (pageQuery, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		apiError(c, http.StatusBadRequest, "page must be a non-negative integer")
		return pageQuery{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		apiError(c, http.StatusBadRequest, "size must be between 1 and 100")
		return pageQuery{}, false
	}

	field, dir, _ := strings.Cut(c.DefaultQuery("sort", defaultSort), ",")
	column, ok := sortable[field]
	if !ok {
		apiError(c, http.StatusBadRequest, "unsupported sort field "+field)
		return pageQuery{}, false
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		dir = "ASC"
	case "desc":
		dir = "DESC"
	default:
		apiError(c, http.StatusBadRequest, "sort direction must be asc or desc")
		return pageQuery{}, false
	}
	return pageQuery{Page: page, Size: size, OrderBy: column + " " + dir}, true
}

func newPage[T any](content []T, q pageQuery, total int) pageResponse[T] {
	return pageResponse[T]{
		Content: content,
		Page: pagination{
			Size:          q.Size,
			Number:        q.Page,
			TotalElements: total,
			TotalPages:    (total + q.Size - 1) / q.Size,
		},
	}
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/v1/auth/sign-up", h.signUp)
	router.POST("/v1/auth/sign-in", h.signIn)

	// Authenticated routes
	api := router.Group("/v1", h.authMiddleware())

	api.GET("/me/profile", h.getProfile)
	api.POST("/me/complete-registration", h.completeRegistration)
	api.GET("/me/diagnosis", h.getDiagnosis)
	api.GET("/goals", h.getGoal)

	api.GET("/bodies", h.listBodies)
	api.POST("/bodies", h.createBody)
	api.PUT("/bodies/:id", h.updateBody)
	api.DELETE("/bodies/:id", h.deleteBody)

	api.GET("/foods", h.listFoods)
	api.POST("/foods", h.createFood)
	api.POST("/foods/suggest", h.suggestFood)
	api.GET("/foods/:id", h.getFood)
	api.PUT("/foods/:id", h.updateFood)
	api.DELETE("/foods/:id", h.deleteFood)
	api.GET("/foods/:id/meals", h.getFoodMeals)

	api.GET("/meals", h.listMeals)
	api.POST("/meals", h.createMeal)
	api.GET("/meals/:id", h.getMeal)
	api.PUT("/meals/:id", h.updateMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.GET("/meals/:id/foods", h.getMealFoods)
	api.POST("/meals/:id/foods", h.addFoodsToMeal)
	api.DELETE("/meals/:id/foods", h.removeFoodsFromMeal)
	api.GET("/meals/:id/nutritional-information", h.getMealNutrition)

	api.GET("/meal-logs", h.listMealLogs)
	api.POST("/meal-logs", h.createMealLog)
	api.POST("/meal-logs/prefill", h.prefillMealLogs)
	api.GET("/meal-logs/:id", h.getMealLog)
	api.PUT("/meal-logs/:id", h.updateMealLog)
	api.DELETE("/meal-logs/:id", h.deleteMealLog)
	api.GET("/meal-logs/:id/meals", h.getMealLogMeals)
	api.POST("/meal-logs/:id/meals", h.addMealsToMealLog)
	api.DELETE("/meal-logs/:id/meals", h.removeMealsFromMealLog)
	api.GET("/meal-logs/:id/foods", h.getMealLogFoods)
	api.POST("/meal-logs/:id/foods", h.addFoodsToMealLog)
	api.DELETE("/meal-logs/:id/foods", h.removeFoodsFromMealLog)
	api.GET("/meal-logs/:id/nutritional-info", h.getMealLogNutrition)

	api.GET("/meal-log-preferences", h.listMealLogPreferences)
	api.POST("/meal-log-preferences", h.createMealLogPreferences)
	api.PATCH("/meal-log-preferences/:id", h.updateMealLogPreference)
	api.DELETE("/meal-log-preferences/:id", h.deleteMealLogPreference)

	api.POST("/water-intakes", h.addWaterIntake)
	api.GET("/progress/daily", h.getDailyProgress)
}
