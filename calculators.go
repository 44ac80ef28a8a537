package main

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// engineError maps a formula failure to an HTTP response. Formula rejections
// are always invalidInputError — anything else would be a programming error,
// so it surfaces as a 500 rather than being silently reclassified.
func engineError(c *gin.Context, err error) {
	var inv *invalidInputError
	if errors.As(err, &inv) {
		apiFieldErrors(c, map[string]string{inv.Field: inv.Reason})
		return
	}
	apiError(c, http.StatusInternalServerError, "computation failed")
}

// calcNutrition computes BMR, TDEE, goal-adjusted target calories, and the
// macro split from body measurements. Stateless — nothing is persisted.
// POST /api/calculators/nutrition.
func (h *Handler) calcNutrition(c *gin.Context) {
	var req nutritionCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, errs := validateNutrition(req)
	if len(errs) > 0 {
		apiFieldErrors(c, errs)
		return
	}

	bmr, err := computeBMR(in.Sex, in.WeightKg, in.HeightCm, in.Age)
	if err != nil {
		engineError(c, err)
		return
	}
	tdee, err := computeTDEE(bmr, in.ActivityLevel)
	if err != nil {
		engineError(c, err)
		return
	}
	target, err := computeTargetCalories(tdee, in.Goal)
	if err != nil {
		engineError(c, err)
		return
	}
	macros, err := computeMacros(target, in.Goal)
	if err != nil {
		engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, nutritionResult{
		BMR:            int(math.Round(bmr)),
		TDEE:           int(math.Round(tdee)),
		TargetCalories: int(math.Round(target)),
		Goal:           in.Goal,
		Macros:         macros,
	})
}

// calcBodyFat estimates body fat percentage from circumference measurements.
// POST /api/calculators/body-fat.
func (h *Handler) calcBodyFat(c *gin.Context) {
	var req bodyFatCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, errs := validateBodyFat(req)
	if len(errs) > 0 {
		apiFieldErrors(c, errs)
		return
	}

	pct, err := computeBodyFatPercent(in.Sex, in.NeckCm, in.WaistCm, in.HeightCm, in.HipCm)
	if err != nil {
		engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, bodyFatResult{
		// One decimal place — more precision than the tape measure supports.
		BodyFatPercent: math.Round(pct*10) / 10,
		Category:       bodyFatCategory(in.Sex, pct),
	})
}

// calcBiologicalAge scores biomarkers into a biological age estimate with a
// risk level and recommendations.
// POST /api/calculators/biological-age.
func (h *Handler) calcBiologicalAge(c *gin.Context) {
	var req biologicalAgeCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	age, in, errs := validateBiologicalAge(req)
	if len(errs) > 0 {
		apiFieldErrors(c, errs)
		return
	}

	out, err := computeBiologicalAge(age, in)
	if err != nil {
		engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// calcHabits scores a habit checklist or quiz submission.
// POST /api/calculators/habits.
func (h *Handler) calcHabits(c *gin.Context) {
	var req habitsCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateHabits(req); len(errs) > 0 {
		apiFieldErrors(c, errs)
		return
	}

	score, err := scoreQuiz(req.Answers)
	if err != nil {
		engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}
