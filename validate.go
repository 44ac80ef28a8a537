package main

import (
	"fmt"
	"strings"
)

// Plausible-range constraints applied to raw form input before any formula
// runs. A request that fails here never reaches the engine or the network.
const (
	minAge, maxAge           = 1, 120
	minBioAge                = 18 // biological-age scoring is calibrated for adults
	minWeightKg, maxWeightKg = 20, 300
	minHeightCm, maxHeightCm = 100, 250
	minCircumCm, maxCircumCm = 10, 200
)

// fieldErrors collects per-field validation messages keyed by JSON field name.
type fieldErrors map[string]string

// requireNumber checks a pointer field for presence and range, recording a
// message under the field's name when it fails. Returns the dereferenced value
// (zero when absent) so callers can build engine inputs in one pass.
func requireNumber(errs fieldErrors, field string, v *float64, min, max float64) float64 {
	if v == nil {
		errs[field] = "is required"
		return 0
	}
	if *v < min || *v > max {
		errs[field] = fmt.Sprintf("must be between %g and %g", min, max)
		return 0
	}
	return *v
}

// requireChoice checks a pointer field for presence and membership in the
// allowed set, recording a message when it fails.
func requireChoice(errs fieldErrors, field string, v *string, allowed ...string) string {
	if v == nil || *v == "" {
		errs[field] = "is required"
		return ""
	}
	for _, a := range allowed {
		if *v == a {
			return *v
		}
	}
	errs[field] = "must be one of: " + strings.Join(allowed, ", ")
	return ""
}

/* ─── Per-calculator validation ──────────────────────────────────────── */

// nutritionInput is the validated, coerced input handed to the formula chain.
type nutritionInput struct {
	Sex           string
	Age           float64
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
}

// validateNutrition coerces and range-checks a nutrition calculator request.
// Returns a non-empty fieldErrors map when any field fails; the input struct
// is only meaningful when the map is empty.
func validateNutrition(req nutritionCalcRequest) (nutritionInput, fieldErrors) {
	errs := fieldErrors{}
	in := nutritionInput{
		Sex:           requireChoice(errs, "sex", req.Sex, "male", "female"),
		Age:           requireNumber(errs, "age", req.Age, minAge, maxAge),
		HeightCm:      requireNumber(errs, "height_cm", req.HeightCm, minHeightCm, maxHeightCm),
		WeightKg:      requireNumber(errs, "weight_kg", req.WeightKg, minWeightKg, maxWeightKg),
		ActivityLevel: requireChoice(errs, "activity_level", req.ActivityLevel, "sedentary", "light", "moderate", "active", "very_active"),
		Goal:          requireChoice(errs, "goal", req.Goal, "lose", "maintain", "gain"),
	}
	return in, errs
}

// bodyFatInput is the validated input for the body composition calculator.
// HipCm stays a pointer: nil means "not provided", which is only an error for
// female input — the formula enforces that rule.
type bodyFatInput struct {
	Sex      string
	HeightCm float64
	NeckCm   float64
	WaistCm  float64
	HipCm    *float64
}

// validateBodyFat coerces and range-checks a body-fat calculator request.
func validateBodyFat(req bodyFatCalcRequest) (bodyFatInput, fieldErrors) {
	errs := fieldErrors{}
	in := bodyFatInput{
		Sex:      requireChoice(errs, "sex", req.Sex, "male", "female"),
		HeightCm: requireNumber(errs, "height_cm", req.HeightCm, minHeightCm, maxHeightCm),
		NeckCm:   requireNumber(errs, "neck_cm", req.NeckCm, minCircumCm, maxCircumCm),
		WaistCm:  requireNumber(errs, "waist_cm", req.WaistCm, minCircumCm, maxCircumCm),
	}
	if in.Sex == "female" && req.HipCm == nil {
		errs["hip_cm"] = "is required"
	}
	if req.HipCm != nil {
		hip := requireNumber(errs, "hip_cm", req.HipCm, minCircumCm, maxCircumCm)
		if _, bad := errs["hip_cm"]; !bad {
			in.HipCm = &hip
		}
	}
	return in, errs
}

// validateBiologicalAge coerces and range-checks a biological-age request into
// the chronological age plus the biomarker set the scorer expects.
func validateBiologicalAge(req biologicalAgeCalcRequest) (float64, biomarkerInputs, fieldErrors) {
	errs := fieldErrors{}
	age := requireNumber(errs, "age", req.Age, minBioAge, maxAge)
	in := biomarkerInputs{
		RestingHeartRate: requireNumber(errs, "resting_heart_rate", req.RestingHeartRate, 30, 220),
		SystolicBP:       requireNumber(errs, "systolic_bp", req.SystolicBP, 70, 250),
		FastingGlucose:   requireNumber(errs, "fasting_glucose", req.FastingGlucose, 40, 400),
		BMI:              requireNumber(errs, "bmi", req.BMI, 10, 60),
		SleepHours:       requireNumber(errs, "sleep_hours", req.SleepHours, 1, 16),
		ExerciseHrsPerWk: requireNumber(errs, "exercise_hours_per_week", req.ExerciseHoursPerWeek, 0.1, 40),
	}
	return age, in, errs
}

// validateHabits checks a habits/quiz request. Structural constraints
// (points within max_points, non-empty categories) are the scorer's job; this
// layer only rejects an absent or oversized answer list.
func validateHabits(req habitsCalcRequest) fieldErrors {
	errs := fieldErrors{}
	if len(req.Answers) == 0 {
		errs["answers"] = "at least one answer is required"
	}
	if len(req.Answers) > 200 {
		errs["answers"] = "too many answers"
	}
	return errs
}
