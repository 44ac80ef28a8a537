package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupCalculatorTest builds a router with just the stateless calculator
// routes. No DB or upstream services are touched by these handlers.
func setupCalculatorTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/api/calculators/nutrition", h.calcNutrition)
	router.POST("/api/calculators/body-fat", h.calcBodyFat)
	router.POST("/api/calculators/biological-age", h.calcBiologicalAge)
	router.POST("/api/calculators/habits", h.calcHabits)
	return router
}

// doCalcRequest sends a POST with the given JSON body to path.
func doCalcRequest(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestCalcNutrition_WorkedExample runs the documented end-to-end case through
// the HTTP layer: male 80kg/180cm/30y, moderate activity, lose goal.
func TestCalcNutrition_WorkedExample(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/nutrition",
		`{"sex":"male","age":30,"height_cm":180,"weight_kg":80,"activity_level":"moderate","goal":"lose"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp nutritionResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.BMR != 1780 {
		t.Errorf("bmr = %d, want 1780", resp.BMR)
	}
	if resp.TDEE != 2759 {
		t.Errorf("tdee = %d, want 2759", resp.TDEE)
	}
	if resp.TargetCalories != 2207 {
		t.Errorf("target_calories = %d, want 2207", resp.TargetCalories)
	}
	if resp.Goal != "lose" {
		t.Errorf("goal = %q, want lose", resp.Goal)
	}
	if resp.Macros.ProteinG <= 0 || resp.Macros.FatG <= 0 {
		t.Errorf("macros not populated: %+v", resp.Macros)
	}
}

// TestCalcNutrition_FieldErrors verifies that out-of-range input comes back as
// a 400 with per-field messages and no computed result.
func TestCalcNutrition_FieldErrors(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/nutrition",
		`{"sex":"male","age":150,"height_cm":180,"activity_level":"moderate","goal":"lose"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if _, ok := resp.Fields["age"]; !ok {
		t.Errorf("expected age error, got %v", resp.Fields)
	}
	if _, ok := resp.Fields["weight_kg"]; !ok {
		t.Errorf("expected weight_kg error, got %v", resp.Fields)
	}
}

// TestCalcBodyFat_MaleAndFemale verifies both formula branches over HTTP,
// including the female hip requirement.
func TestCalcBodyFat_MaleAndFemale(t *testing.T) {
	router := setupCalculatorTest()

	w := doCalcRequest(router, "/api/calculators/body-fat",
		`{"sex":"male","height_cm":180,"neck_cm":38,"waist_cm":85}`)
	if w.Code != http.StatusOK {
		t.Fatalf("male: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp bodyFatResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.BodyFatPercent < 16.0 || resp.BodyFatPercent > 16.2 {
		t.Errorf("male body fat = %.1f, want ~16.1", resp.BodyFatPercent)
	}
	if resp.Category != "fit" {
		t.Errorf("male category = %q, want fit", resp.Category)
	}

	w = doCalcRequest(router, "/api/calculators/body-fat",
		`{"sex":"female","height_cm":165,"neck_cm":33,"waist_cm":70}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("female without hip: expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestCalcBiologicalAge_EndToEnd verifies the scoring endpoint returns a risk
// level and recommendations for mixed biomarkers.
func TestCalcBiologicalAge_EndToEnd(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/biological-age",
		`{"age":45,"resting_heart_rate":72,"systolic_bp":135,"fasting_glucose":105,"bmi":27,"sleep_hours":6.5,"exercise_hours_per_week":2}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp biologicalAgeOutput
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.BiologicalAge <= 45 {
		t.Errorf("biological age = %.1f, want above chronological 45", resp.BiologicalAge)
	}
	if _, ok := riskStyles[resp.RiskLevel]; !ok {
		t.Errorf("unknown risk level %q", resp.RiskLevel)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("expected recommendations for out-of-range biomarkers")
	}
}

// TestCalcHabits_Scores verifies the checklist endpoint's totals.
func TestCalcHabits_Scores(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/habits",
		`{"answers":[
			{"question":"hours slept","category":"sleep","points":8,"max_points":10},
			{"question":"vegetables daily","category":"nutrition","points":5,"max_points":10}
		]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp quizScore
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Score != 13 || resp.MaxScore != 20 || resp.Percentage != 65 {
		t.Errorf("score = %d/%d at %d%%, want 13/20 at 65%%", resp.Score, resp.MaxScore, resp.Percentage)
	}
	if len(resp.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(resp.Categories))
	}
}

// TestCalcHabits_EmptyAnswers verifies validation withholds computation.
func TestCalcHabits_EmptyAnswers(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/habits", `{"answers":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestCalcNutrition_MalformedBody verifies non-JSON input gets a 400.
func TestCalcNutrition_MalformedBody(t *testing.T) {
	router := setupCalculatorTest()
	w := doCalcRequest(router, "/api/calculators/nutrition", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
