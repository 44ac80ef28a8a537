package main

import (
	"fmt"
	"math"
	"sort"
)

/* ─── Invalid input error ────────────────────────────────────────────── */

// invalidInputError identifies the offending field when a formula rejects its
// input. Handlers map it to a 400 with the field name; it never reaches storage.
type invalidInputError struct {
	Field  string
	Reason string
}

func (e *invalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalidInput constructs an invalidInputError.
func invalidInput(field, reason string) error {
	return &invalidInputError{Field: field, Reason: reason}
}

/* ─── Activity levels and goals ──────────────────────────────────────── */

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in the nutrition calculator handler.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalAdjustments maps goal strings to the factor applied to TDEE when
// computing target calories: a 20% deficit for losing, a 15% surplus for gaining.
var goalAdjustments = map[string]float64{
	"lose":     0.80,
	"maintain": 1.00,
	"gain":     1.15,
}

// macroSplits maps goal strings to calorie percentages {protein, carbs, fat}.
// Percentages per goal sum to 100.
var macroSplits = map[string][3]float64{
	"lose":     {40, 30, 30},
	"maintain": {30, 40, 30},
	"gain":     {30, 45, 25},
}

// kcal per gram of each macronutrient.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

/* ─── BMR / TDEE / target calories / macros ──────────────────────────── */

// computeBMR computes basal metabolic rate (kcal/day) via Mifflin-St Jeor:
// 10*weight + 6.25*height - 5*age, then +5 for male or -161 for female.
func computeBMR(sex string, weightKg, heightCm, ageYears float64) (float64, error) {
	if sex != "male" && sex != "female" {
		return 0, invalidInput("sex", "must be male or female")
	}
	if weightKg <= 0 {
		return 0, invalidInput("weight_kg", "must be positive")
	}
	if heightCm <= 0 {
		return 0, invalidInput("height_cm", "must be positive")
	}
	if ageYears <= 0 {
		return 0, invalidInput("age", "must be positive")
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*ageYears
	if sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, nil
}

// computeTDEE multiplies BMR by the activity level's multiplier.
func computeTDEE(bmr float64, activityLevel string) (float64, error) {
	if bmr <= 0 {
		return 0, invalidInput("bmr", "must be positive")
	}
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		return 0, invalidInput("activity_level", "must be one of: sedentary, light, moderate, active, very_active")
	}
	return bmr * mult, nil
}

// computeTargetCalories applies the goal's fixed adjustment to TDEE.
func computeTargetCalories(tdee float64, goal string) (float64, error) {
	if tdee <= 0 {
		return 0, invalidInput("tdee", "must be positive")
	}
	adj, ok := goalAdjustments[goal]
	if !ok {
		return 0, invalidInput("goal", "must be one of: lose, maintain, gain")
	}
	return tdee * adj, nil
}

// macroBreakdown is the per-macronutrient split of a calorie target. Grams and
// percentages are rounded independently, so percentages may not sum to exactly
// 100 — an accepted approximation.
type macroBreakdown struct {
	ProteinG   int `json:"protein_g"`
	CarbsG     int `json:"carbs_g"`
	FatG       int `json:"fat_g"`
	ProteinPct int `json:"protein_pct"`
	CarbsPct   int `json:"carbs_pct"`
	FatPct     int `json:"fat_pct"`
}

// computeMacros splits targetCalories by the goal's percentage table and
// converts to grams using 4/4/9 kcal-per-gram constants.
func computeMacros(targetCalories float64, goal string) (macroBreakdown, error) {
	if targetCalories <= 0 {
		return macroBreakdown{}, invalidInput("target_calories", "must be positive")
	}
	split, ok := macroSplits[goal]
	if !ok {
		return macroBreakdown{}, invalidInput("goal", "must be one of: lose, maintain, gain")
	}

	proteinPct, carbsPct, fatPct := split[0], split[1], split[2]
	return macroBreakdown{
		ProteinG:   int(math.Round(targetCalories * proteinPct / 100 / kcalPerGramProtein)),
		CarbsG:     int(math.Round(targetCalories * carbsPct / 100 / kcalPerGramCarbs)),
		FatG:       int(math.Round(targetCalories * fatPct / 100 / kcalPerGramFat)),
		ProteinPct: int(math.Round(proteinPct)),
		CarbsPct:   int(math.Round(carbsPct)),
		FatPct:     int(math.Round(fatPct)),
	}, nil
}

/* ─── Body fat ───────────────────────────────────────────────────────── */

// computeBodyFatPercent estimates body fat percentage from circumferences via
// the U.S. Navy log10 formula (metric). hipCm is required for female and
// ignored for male.
func computeBodyFatPercent(sex string, neckCm, waistCm, heightCm float64, hipCm *float64) (float64, error) {
	if sex != "male" && sex != "female" {
		return 0, invalidInput("sex", "must be male or female")
	}
	if neckCm <= 0 {
		return 0, invalidInput("neck_cm", "must be positive")
	}
	if waistCm <= 0 {
		return 0, invalidInput("waist_cm", "must be positive")
	}
	if heightCm <= 0 {
		return 0, invalidInput("height_cm", "must be positive")
	}

	var pct float64
	if sex == "male" {
		// log10 demands waist > neck; physically this always holds.
		if waistCm <= neckCm {
			return 0, invalidInput("waist_cm", "must be greater than neck_cm")
		}
		pct = 495/(1.0324-0.19077*math.Log10(waistCm-neckCm)+0.15456*math.Log10(heightCm)) - 450
	} else {
		if hipCm == nil {
			return 0, invalidInput("hip_cm", "required for female")
		}
		if *hipCm <= 0 {
			return 0, invalidInput("hip_cm", "must be positive")
		}
		if waistCm+*hipCm <= neckCm {
			return 0, invalidInput("waist_cm", "waist plus hip must exceed neck")
		}
		pct = 495/(1.29579-0.35004*math.Log10(waistCm+*hipCm-neckCm)+0.22100*math.Log10(heightCm)) - 450
	}
	return pct, nil
}

// bodyFatCategory labels a body fat percentage using the American Council on
// Exercise ranges, which differ by sex.
func bodyFatCategory(sex string, pct float64) string {
	// Female ranges sit roughly 8 points above male ones.
	offset := 0.0
	if sex == "female" {
		offset = 8
	}
	switch {
	case pct < 6+offset:
		return "essential"
	case pct < 14+offset:
		return "athletic"
	case pct < 18+offset:
		return "fit"
	case pct < 25+offset:
		return "average"
	default:
		return "obese"
	}
}

/* ─── Biological age ─────────────────────────────────────────────────── */

// biomarkerInputs are the measurements scored by computeBiologicalAge.
// All fields are required; the validation layer rejects absent values before
// this struct is built.
type biomarkerInputs struct {
	RestingHeartRate float64 // beats per minute
	SystolicBP       float64 // mmHg
	FastingGlucose   float64 // mg/dL
	BMI              float64
	SleepHours       float64 // average per night
	ExerciseHrsPerWk float64
}

// biomarkerRef defines one biomarker's healthy reference range, its weight in
// years of biological-age penalty, and the recommendation shown when it falls
// outside the range. penalizeLow/penalizeHigh control which side of the range
// counts against the user (exercise only hurts when too low).
type biomarkerRef struct {
	field        string
	min, max     float64
	weight       float64
	penalizeLow  bool
	penalizeHigh bool
	rec          string
}

// biomarkerRefs is the reference-range table for biological age scoring.
// Order matters only for deterministic recommendation output.
var biomarkerRefs = []biomarkerRef{
	{"resting_heart_rate", 60, 100, 4, false, true,
		"Build aerobic capacity with regular zone-2 cardio to lower your resting heart rate."},
	{"systolic_bp", 90, 120, 5, false, true,
		"Reduce sodium intake and discuss blood pressure management with your physician."},
	{"fasting_glucose", 70, 100, 5, false, true,
		"Cut refined sugars and consider time-restricted eating to improve glucose control."},
	{"bmi", 18.5, 24.9, 4, true, true,
		"Work toward a BMI in the 18.5-24.9 range through diet and resistance training."},
	{"sleep_hours", 7, 9, 3, true, false,
		"Aim for 7-9 hours of sleep with a consistent schedule and a dark, cool bedroom."},
	{"exercise_hours_per_week", 2.5, 20, 4, true, false,
		"Get at least 150 minutes of moderate exercise per week, mixing cardio and strength."},
}

// biologicalAgeOutput pairs the composite age estimate with its risk level and
// the recommendations triggered by out-of-range biomarkers.
type biologicalAgeOutput struct {
	BiologicalAge   float64  `json:"biological_age"`
	AgeDifference   float64  `json:"age_difference"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

// computeBiologicalAge scores each biomarker against its reference range and
// sums weighted deviations onto the chronological age. Deviation is normalized
// by the range width and capped at 1.5 range-widths so a single wild value
// cannot dominate. In-range biomarkers earn a small credit (a quarter of the
// weight), so uniformly healthy inputs land below chronological age.
func computeBiologicalAge(chronologicalAge float64, in biomarkerInputs) (biologicalAgeOutput, error) {
	if chronologicalAge < 18 || chronologicalAge > 120 {
		return biologicalAgeOutput{}, invalidInput("age", "must be between 18 and 120")
	}

	values := map[string]float64{
		"resting_heart_rate":      in.RestingHeartRate,
		"systolic_bp":             in.SystolicBP,
		"fasting_glucose":         in.FastingGlucose,
		"bmi":                     in.BMI,
		"sleep_hours":             in.SleepHours,
		"exercise_hours_per_week": in.ExerciseHrsPerWk,
	}
	for _, ref := range biomarkerRefs {
		if values[ref.field] <= 0 {
			return biologicalAgeOutput{}, invalidInput(ref.field, "must be positive")
		}
	}

	var delta float64
	var recs []string
	for _, ref := range biomarkerRefs {
		v := values[ref.field]
		width := ref.max - ref.min

		var dev float64
		switch {
		case v > ref.max && ref.penalizeHigh:
			dev = (v - ref.max) / width
		case v < ref.min && ref.penalizeLow:
			dev = (ref.min - v) / width
		}
		if dev > 0 {
			if dev > 1.5 {
				dev = 1.5
			}
			delta += ref.weight * dev
			recs = append(recs, ref.rec)
		} else {
			delta -= ref.weight * 0.25
		}
	}

	// Clamp the difference to a plausible band so the estimate stays credible.
	if delta < -8 {
		delta = -8
	}
	if delta > 25 {
		delta = 25
	}

	bioAge := chronologicalAge + delta
	if bioAge < 18 {
		bioAge = 18
	}

	out := biologicalAgeOutput{
		BiologicalAge:   math.Round(bioAge*10) / 10,
		AgeDifference:   math.Round(delta*10) / 10,
		RiskLevel:       riskLevelFor(delta),
		Recommendations: recs,
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out, nil
}

// riskLevelFor thresholds an age difference into a risk level.
func riskLevelFor(ageDifference float64) string {
	switch {
	case ageDifference <= 0:
		return "low"
	case ageDifference <= 5:
		return "moderate"
	default:
		return "high"
	}
}

/* ─── Habit / quiz scoring ───────────────────────────────────────────── */

// quizAnswer is a single answered question: the points earned, the maximum
// possible, and the category it counts toward.
type quizAnswer struct {
	Question  string `json:"question"`
	Category  string `json:"category"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"max_points"`
}

// categoryScore is the per-category slice of a quiz score.
type categoryScore struct {
	Points     int `json:"points"`
	MaxPoints  int `json:"max_points"`
	Percentage int `json:"percentage"`
}

// quizScore is the output of scoreQuiz.
type quizScore struct {
	Score      int                      `json:"score"`
	MaxScore   int                      `json:"max_score"`
	Percentage int                      `json:"percentage"`
	Categories map[string]categoryScore `json:"categories"`
}

// scoreQuiz accumulates answer points linearly and normalizes to a percentage,
// overall and per category.
func scoreQuiz(answers []quizAnswer) (quizScore, error) {
	if len(answers) == 0 {
		return quizScore{}, invalidInput("answers", "at least one answer is required")
	}

	out := quizScore{Categories: make(map[string]categoryScore)}
	for _, a := range answers {
		if a.MaxPoints <= 0 {
			return quizScore{}, invalidInput("max_points", "must be positive")
		}
		if a.Points < 0 || a.Points > a.MaxPoints {
			return quizScore{}, invalidInput("points", "must be between 0 and max_points")
		}
		if a.Category == "" {
			return quizScore{}, invalidInput("category", "is required")
		}
		out.Score += a.Points
		out.MaxScore += a.MaxPoints

		cs := out.Categories[a.Category]
		cs.Points += a.Points
		cs.MaxPoints += a.MaxPoints
		out.Categories[a.Category] = cs
	}

	out.Percentage = int(math.Round(100 * float64(out.Score) / float64(out.MaxScore)))
	for name, cs := range out.Categories {
		cs.Percentage = int(math.Round(100 * float64(cs.Points) / float64(cs.MaxPoints)))
		out.Categories[name] = cs
	}
	return out, nil
}

// categoryNames returns the sorted category keys of a quiz score. Used where a
// stable iteration order matters (display, tests).
func categoryNames(s quizScore) []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
