package main

import (
	"encoding/json"
	"time"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// storedResult maps to the results table: one saved calculator outcome owned
// by a user. Payload is the schema-validated JSON encoding of the kind's
// result variant. DisplayDate and RiskStyle are computed per-request for the
// history view and never stored — db:"-" tells RowToStructByName to skip them.
type storedResult struct {
	ID        int             `json:"id" db:"id"`
	UserID    int             `json:"user_id" db:"user_id"`
	Kind      string          `json:"kind" db:"kind"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt *time.Time      `json:"created_at" db:"created_at"`

	DisplayDate string `json:"display_date,omitempty" db:"-"`
	RiskStyle   string `json:"risk_style,omitempty"   db:"-"`
}

/* ─── Result variants ────────────────────────────────────────────────── */

// nutritionResult is the derived output of the nutrition calculator
// (kind "nutrition"). All calorie figures are rounded to whole kcal.
type nutritionResult struct {
	BMR            int            `json:"bmr"`
	TDEE           int            `json:"tdee"`
	TargetCalories int            `json:"target_calories"`
	Goal           string         `json:"goal"`
	Macros         macroBreakdown `json:"macros"`
}

// bodyFatResult is the derived output of the body composition calculator
// (kind "body_fat").
type bodyFatResult struct {
	BodyFatPercent float64 `json:"body_fat_percent"`
	Category       string  `json:"category"`
}

// The remaining two variants are defined alongside their formulas:
// biologicalAgeOutput (kind "biological_age") and quizScore (kind "habits").

/* ─── Calculator request bodies ──────────────────────────────────────── */

// Required numeric fields are pointers so a missing field can be told apart
// from an explicit zero and reported by name.

// nutritionCalcRequest is the request body for POST /api/calculators/nutrition.
type nutritionCalcRequest struct {
	Sex           *string  `json:"sex"`
	Age           *float64 `json:"age"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

// bodyFatCalcRequest is the request body for POST /api/calculators/body-fat.
// HipCm is required only when sex is female.
type bodyFatCalcRequest struct {
	Sex      *string  `json:"sex"`
	HeightCm *float64 `json:"height_cm"`
	NeckCm   *float64 `json:"neck_cm"`
	WaistCm  *float64 `json:"waist_cm"`
	HipCm    *float64 `json:"hip_cm"`
}

// biologicalAgeCalcRequest is the request body for POST /api/calculators/biological-age.
type biologicalAgeCalcRequest struct {
	Age                  *float64 `json:"age"`
	RestingHeartRate     *float64 `json:"resting_heart_rate"`
	SystolicBP           *float64 `json:"systolic_bp"`
	FastingGlucose       *float64 `json:"fasting_glucose"`
	BMI                  *float64 `json:"bmi"`
	SleepHours           *float64 `json:"sleep_hours"`
	ExerciseHoursPerWeek *float64 `json:"exercise_hours_per_week"`
}

// habitsCalcRequest is the request body for POST /api/calculators/habits.
type habitsCalcRequest struct {
	Answers []quizAnswer `json:"answers"`
}

/* ─── Persistence request bodies ─────────────────────────────────────── */

// saveResultRequest is the request body for POST /api/results. Payload must
// decode into the variant named by Kind.
type saveResultRequest struct {
	UserID  int             `json:"user_id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

/* ─── Content structs ────────────────────────────────────────────────── */

// article is the flattened shape returned by GET /api/articles — the Strapi
// envelope is unwrapped before it leaves this API.
type article struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Category    string `json:"category"`
	Locale      string `json:"locale"`
	PublishedAt string `json:"published_at"`
}

// articlePagination mirrors Strapi's pagination meta.
type articlePagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	Total     int `json:"total"`
}

// articleList is the response body for GET /api/articles.
type articleList struct {
	Articles   []article         `json:"articles"`
	Pagination articlePagination `json:"pagination"`
}
