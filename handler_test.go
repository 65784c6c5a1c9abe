package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testUserID = "7b0c5a8e-3f43-4c4b-9a0e-1f6f2a7d3c11"

// setupValidationTest registers one handler behind a stub auth step. The
// handler has no database, so only paths that reject the request before
// touching storage can be exercised.
func setupValidationTest(method, path string, handler func(*Handler) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{now: func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }}
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	}, handler(h))
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error body %q: %v", w.Body.String(), err)
	}
	return resp["error"]
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.GET("/v1/goals", h.authMiddleware(), func(c *gin.Context) {
		t.Error("handler must not run without a token")
	})

	for _, header := range []string{"", "Token abc", "bearer abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/goals", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		route   string
		target  string
		handler func(*Handler) gin.HandlerFunc
		body    string
		want    int
	}{
		{"sign-up invalid email", "POST", "/v1/auth/sign-up", "/v1/auth/sign-up",
			func(h *Handler) gin.HandlerFunc { return h.signUp },
			`{"firstName":"Ana","lastName":"Souza","email":"not-an-email","password":"12345678"}`, 400},
		{"sign-up short password", "POST", "/v1/auth/sign-up", "/v1/auth/sign-up",
			func(h *Handler) gin.HandlerFunc { return h.signUp },
			`{"firstName":"Ana","lastName":"Souza","email":"ana@example.com","password":"123"}`, 400},
		{"registration unknown gender", "POST", "/v1/me/complete-registration", "/v1/me/complete-registration",
			func(h *Handler) gin.HandlerFunc { return h.completeRegistration },
			`{"weight":80,"height":1.8,"gender":"OTHER","birthDate":"1990-01-01","goal":"MAINTAIN_WEIGHT","targetWeight":80,"activityLevel":"SEDENTARY"}`, 400},
		{"registration wrong direction", "POST", "/v1/me/complete-registration", "/v1/me/complete-registration",
			func(h *Handler) gin.HandlerFunc { return h.completeRegistration },
			`{"weight":80,"height":1.8,"gender":"MALE","birthDate":"1990-01-01","goal":"LOSE_WEIGHT","targetWeight":85,"activityLevel":"SEDENTARY"}`, 400},
		{"registration birth date in future", "POST", "/v1/me/complete-registration", "/v1/me/complete-registration",
			func(h *Handler) gin.HandlerFunc { return h.completeRegistration },
			`{"weight":80,"height":1.8,"gender":"MALE","birthDate":"2027-01-01","goal":"MAINTAIN_WEIGHT","targetWeight":80,"activityLevel":"SEDENTARY"}`, 400},
		{"registration height out of range", "POST", "/v1/me/complete-registration", "/v1/me/complete-registration",
			func(h *Handler) gin.HandlerFunc { return h.completeRegistration },
			`{"weight":80,"height":180,"gender":"MALE","birthDate":"1990-01-01","goal":"MAINTAIN_WEIGHT","targetWeight":80,"activityLevel":"SEDENTARY"}`, 400},
		{"body non-positive weight", "POST", "/v1/bodies", "/v1/bodies",
			func(h *Handler) gin.HandlerFunc { return h.createBody },
			`{"weight":0,"height":1.75}`, 400},
		{"body bad date", "POST", "/v1/bodies", "/v1/bodies",
			func(h *Handler) gin.HandlerFunc { return h.createBody },
			`{"weight":70,"height":1.75,"date":"18/10/2026"}`, 400},
		{"body list bad sort", "GET", "/v1/bodies", "/v1/bodies?sort=height,desc",
			func(h *Handler) gin.HandlerFunc { return h.listBodies }, ``, 400},
		{"body update unknown id", "PUT", "/v1/bodies/:id", "/v1/bodies/42",
			func(h *Handler) gin.HandlerFunc { return h.updateBody }, `{"weight":70}`, 404},
		{"food unknown unit", "POST", "/v1/foods", "/v1/foods",
			func(h *Handler) gin.HandlerFunc { return h.createFood },
			`{"title":"Arroz","portion":{"amount":100,"unit":"HANDFUL"},"nutritionalInformation":{"calories":130}}`, 400},
		{"food negative nutrient", "POST", "/v1/foods", "/v1/foods",
			func(h *Handler) gin.HandlerFunc { return h.createFood },
			`{"title":"Arroz","portion":{"amount":100,"unit":"GRAM"},"nutritionalInformation":{"calories":130,"sodium":-2}}`, 400},
		{"food missing title", "POST", "/v1/foods", "/v1/foods",
			func(h *Handler) gin.HandlerFunc { return h.createFood },
			`{"title":" ","portion":{"amount":100,"unit":"GRAM"}}`, 400},
		{"meal unknown type", "POST", "/v1/meals", "/v1/meals",
			func(h *Handler) gin.HandlerFunc { return h.createMeal },
			`{"title":"Almoço","type":"ELEVENSES"}`, 400},
		{"meal bad food id", "POST", "/v1/meals", "/v1/meals",
			func(h *Handler) gin.HandlerFunc { return h.createMeal },
			`{"title":"Almoço","type":"LUNCH","foodIds":["nope"]}`, 400},
		{"meal list unknown type", "GET", "/v1/meals", "/v1/meals?type=ELEVENSES",
			func(h *Handler) gin.HandlerFunc { return h.listMeals }, ``, 400},
		{"meal foods unknown meal id", "POST", "/v1/meals/:id/foods", "/v1/meals/not-a-uuid/foods",
			func(h *Handler) gin.HandlerFunc { return h.addFoodsToMeal }, `{"foodIds":[]}`, 404},
		{"meal log unknown type", "POST", "/v1/meal-logs", "/v1/meal-logs",
			func(h *Handler) gin.HandlerFunc { return h.createMealLog },
			`{"type":"ELEVENSES","time":"11:00","caloriesGoal":300}`, 400},
		{"meal log bad time", "POST", "/v1/meal-logs", "/v1/meal-logs",
			func(h *Handler) gin.HandlerFunc { return h.createMealLog },
			`{"type":"LUNCH","time":"25:00","caloriesGoal":300}`, 400},
		{"meal log zero calories goal", "POST", "/v1/meal-logs", "/v1/meal-logs",
			func(h *Handler) gin.HandlerFunc { return h.createMealLog },
			`{"type":"LUNCH","time":"12:30","caloriesGoal":0}`, 400},
		{"meal log list bad date", "GET", "/v1/meal-logs", "/v1/meal-logs?date=yesterday",
			func(h *Handler) gin.HandlerFunc { return h.listMealLogs }, ``, 400},
		{"preferences duplicate type", "POST", "/v1/meal-log-preferences", "/v1/meal-log-preferences",
			func(h *Handler) gin.HandlerFunc { return h.createMealLogPreferences },
			`[{"type":"LUNCH","time":"12:00"},{"type":"LUNCH","time":"13:00"}]`, 400},
		{"preferences empty", "POST", "/v1/meal-log-preferences", "/v1/meal-log-preferences",
			func(h *Handler) gin.HandlerFunc { return h.createMealLogPreferences }, `[]`, 400},
		{"preference bad time", "PATCH", "/v1/meal-log-preferences/:id", "/v1/meal-log-preferences/" + testUserID,
			func(h *Handler) gin.HandlerFunc { return h.updateMealLogPreference }, `{"time":"noon"}`, 400},
		{"preferences negative calories goal", "POST", "/v1/meal-log-preferences", "/v1/meal-log-preferences",
			func(h *Handler) gin.HandlerFunc { return h.createMealLogPreferences },
			`[{"type":"LUNCH","time":"12:00","caloriesGoal":-50}]`, 400},
		{"preference zero calories goal", "PATCH", "/v1/meal-log-preferences/:id", "/v1/meal-log-preferences/" + testUserID,
			func(h *Handler) gin.HandlerFunc { return h.updateMealLogPreference }, `{"caloriesGoal":0}`, 400},
		{"meal log update bad date", "PUT", "/v1/meal-logs/:id", "/v1/meal-logs/" + testUserID,
			func(h *Handler) gin.HandlerFunc { return h.updateMealLog }, `{"date":"18/10/2026"}`, 400},
		{"meal log update impossible date", "PUT", "/v1/meal-logs/:id", "/v1/meal-logs/" + testUserID,
			func(h *Handler) gin.HandlerFunc { return h.updateMealLog }, `{"date":"2026-02-30"}`, 400},
		{"water non-positive amount", "POST", "/v1/water-intakes", "/v1/water-intakes",
			func(h *Handler) gin.HandlerFunc { return h.addWaterIntake }, `{"amountMl":0}`, 400},
		{"progress bad date", "GET", "/v1/progress/daily", "/v1/progress/daily?date=2026-13-01",
			func(h *Handler) gin.HandlerFunc { return h.getDailyProgress }, ``, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupValidationTest(tt.method, tt.route, tt.handler)
			w := doRequest(router, tt.method, tt.target, tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if errorMessage(t, w) == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	sortable := map[string]string{"date": "date", "weight": "weight"}
	tests := []struct {
		query  string
		want   pageQuery
		wantOK bool
	}{
		{"", pageQuery{Page: 0, Size: 10, OrderBy: "date DESC"}, true},
		{"page=2&size=5&sort=weight,asc", pageQuery{Page: 2, Size: 5, OrderBy: "weight ASC"}, true},
		{"sort=weight", pageQuery{Page: 0, Size: 10, OrderBy: "weight ASC"}, true},
		{"page=-1", pageQuery{}, false},
		{"size=0", pageQuery{}, false},
		{"size=101", pageQuery{}, false},
		{"sort=weight%3BDROP,asc", pageQuery{}, false},
		{"sort=date,sideways", pageQuery{}, false},
	}
	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/bodies?"+tt.query, nil)

			got, ok := parsePage(c, sortable, "date,desc")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (%s)", ok, tt.wantOK, w.Body.String())
			}
			if ok && got != tt.want {
				t.Errorf("parsePage = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	p := newPage([]int{1, 2, 3}, pageQuery{Page: 1, Size: 3}, 7)
	if p.Page.TotalPages != 3 || p.Page.TotalElements != 7 || p.Page.Number != 1 {
		t.Errorf("unexpected pagination %+v", p.Page)
	}
	empty := newPage([]int{}, pageQuery{Size: 10}, 0)
	if empty.Page.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", empty.Page.TotalPages)
	}
}

func TestEstimateFatRate(t *testing.T) {
	male, female := "MALE", "FEMALE"
	birth := &DateOnly{time.Date(1996, 10, 18, 0, 0, 0, 0, time.UTC)}
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		u    user
		bmi  float64
		want string
	}{
		// 1.2·22.86 + 0.23·30 − 10.8 − 5.4 = 18.132
		{"male", user{Gender: &male, BirthDate: birth}, 22.86, "18.1%"},
		// 1.2·22.86 + 0.23·30 − 5.4 = 28.932
		{"female", user{Gender: &female, BirthDate: birth}, 22.86, "28.9%"},
		{"no gender", user{BirthDate: birth}, 22.86, ""},
		{"no birth date", user{Gender: &male}, 22.86, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimateFatRate(tt.bmi, tt.u, today); got != tt.want {
				t.Errorf("estimateFatRate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoalInputFromRequest(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	body := completeRegistrationRequest{
		Weight: 90, Height: 1.8, Gender: "FEMALE", BirthDate: "1990-05-20",
		Goal: "LOSE_WEIGHT", TargetWeight: 80, ActivityLevel: "VERY_ACTIVE",
	}
	in, err := goalInputFromRequest(body, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Gender != "FEMALE" || in.GoalType != "LOSE_WEIGHT" || in.ActivityLevel != "VERY_ACTIVE" {
		t.Errorf("enums not carried over: %+v", in)
	}
	if !in.Today.Equal(today) || in.BirthDate.Year() != 1990 {
		t.Errorf("dates not carried over: %+v", in)
	}

	body.BirthDate = "20/05/1990"
	if _, err := goalInputFromRequest(body, today); err == nil {
		t.Error("expected an error for a malformed birth date")
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("dedupe = %v, want %v", got, want)
	}
}

func TestParseIDs(t *testing.T) {
	const id = "9f1c2b3a-4d5e-4f60-8a7b-0c1d2e3f4a5b"
	got, err := parseIDs([]string{
		id,
		strings.ToUpper(id),
		"{" + id + "}",
		"urn:uuid:" + id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, g := range got {
		if g != id {
			t.Errorf("ids[%d] = %q, want %q", i, g, id)
		}
	}
	if got := dedupe(got); !reflect.DeepEqual(got, []string{id}) {
		t.Errorf("dedupe(parseIDs) = %v, want one id", got)
	}

	for _, bad := range [][]string{nil, {}, {id, "nope"}} {
		if _, err := parseIDs(bad); err == nil {
			t.Errorf("parseIDs(%q): expected an error", bad)
		}
	}
}

func TestLinkIDs(t *testing.T) {
	req := idsRequest{MealIDs: []string{"m"}, FoodIDs: []string{"f"}}
	if got := mealLogMeals.ids(req); !reflect.DeepEqual(got, []string{"m"}) {
		t.Errorf("meal log meals read %v", got)
	}
	if got := mealLogFoods.ids(req); !reflect.DeepEqual(got, []string{"f"}) {
		t.Errorf("meal log foods read %v", got)
	}
	if got := mealFoods.ids(req); !reflect.DeepEqual(got, []string{"f"}) {
		t.Errorf("meal foods read %v", got)
	}
}

func TestToday(t *testing.T) {
	h := &Handler{now: func() time.Time { return time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC) }}
	if got := h.today(); !got.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("today = %v", got)
	}
}
