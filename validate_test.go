package main

import "testing"

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

// validNutritionRequest returns a request that passes validation; individual
// tests break one field at a time.
func validNutritionRequest() nutritionCalcRequest {
	return nutritionCalcRequest{
		Sex:           strPtr("male"),
		Age:           numPtr(30),
		HeightCm:      numPtr(180),
		WeightKg:      numPtr(80),
		ActivityLevel: strPtr("moderate"),
		Goal:          strPtr("lose"),
	}
}

// TestValidateNutrition_Valid verifies that a fully-populated in-range request
// passes with no field errors and the coerced values intact.
func TestValidateNutrition_Valid(t *testing.T) {
	in, errs := validateNutrition(validNutritionRequest())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if in.Sex != "male" || in.Age != 30 || in.WeightKg != 80 || in.Goal != "lose" {
		t.Errorf("coerced input wrong: %+v", in)
	}
}

// TestValidateNutrition_MissingFields verifies each required field is reported
// by its JSON name when absent.
func TestValidateNutrition_MissingFields(t *testing.T) {
	cases := []struct {
		field string
		mutFn func(r *nutritionCalcRequest)
	}{
		{"sex", func(r *nutritionCalcRequest) { r.Sex = nil }},
		{"age", func(r *nutritionCalcRequest) { r.Age = nil }},
		{"height_cm", func(r *nutritionCalcRequest) { r.HeightCm = nil }},
		{"weight_kg", func(r *nutritionCalcRequest) { r.WeightKg = nil }},
		{"activity_level", func(r *nutritionCalcRequest) { r.ActivityLevel = nil }},
		{"goal", func(r *nutritionCalcRequest) { r.Goal = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			req := validNutritionRequest()
			tc.mutFn(&req)
			_, errs := validateNutrition(req)
			if _, ok := errs[tc.field]; !ok {
				t.Errorf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

// TestValidateNutrition_RangeConstraints verifies the plausibility ranges:
// age 1-120, weight 20-300 kg, height 100-250 cm.
func TestValidateNutrition_RangeConstraints(t *testing.T) {
	cases := []struct {
		name  string
		field string
		mutFn func(r *nutritionCalcRequest)
	}{
		{"age too high", "age", func(r *nutritionCalcRequest) { r.Age = numPtr(121) }},
		{"age zero", "age", func(r *nutritionCalcRequest) { r.Age = numPtr(0) }},
		{"weight too low", "weight_kg", func(r *nutritionCalcRequest) { r.WeightKg = numPtr(19) }},
		{"weight too high", "weight_kg", func(r *nutritionCalcRequest) { r.WeightKg = numPtr(301) }},
		{"height too low", "height_cm", func(r *nutritionCalcRequest) { r.HeightCm = numPtr(99) }},
		{"unknown activity", "activity_level", func(r *nutritionCalcRequest) { r.ActivityLevel = strPtr("heroic") }},
		{"unknown goal", "goal", func(r *nutritionCalcRequest) { r.Goal = strPtr("recomp") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validNutritionRequest()
			tc.mutFn(&req)
			_, errs := validateNutrition(req)
			if _, ok := errs[tc.field]; !ok {
				t.Errorf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

// TestValidateBodyFat_HipRules verifies the sex-dependent hip requirement at
// the validation layer: required for female, optional for male.
func TestValidateBodyFat_HipRules(t *testing.T) {
	female := bodyFatCalcRequest{
		Sex:      strPtr("female"),
		HeightCm: numPtr(165),
		NeckCm:   numPtr(33),
		WaistCm:  numPtr(70),
	}
	_, errs := validateBodyFat(female)
	if _, ok := errs["hip_cm"]; !ok {
		t.Errorf("expected hip_cm error for female without hip, got %v", errs)
	}

	female.HipCm = numPtr(95)
	in, errs := validateBodyFat(female)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if in.HipCm == nil || *in.HipCm != 95 {
		t.Errorf("hip not carried through: %+v", in)
	}

	male := bodyFatCalcRequest{
		Sex:      strPtr("male"),
		HeightCm: numPtr(180),
		NeckCm:   numPtr(38),
		WaistCm:  numPtr(85),
	}
	if _, errs := validateBodyFat(male); len(errs) != 0 {
		t.Errorf("male without hip should pass, got %v", errs)
	}
}

// TestValidateBiologicalAge_AdultsOnly verifies the 18+ age floor and that
// biomarker fields are range-checked by name.
func TestValidateBiologicalAge_AdultsOnly(t *testing.T) {
	req := biologicalAgeCalcRequest{
		Age:                  numPtr(16),
		RestingHeartRate:     numPtr(65),
		SystolicBP:           numPtr(110),
		FastingGlucose:       numPtr(85),
		BMI:                  numPtr(22),
		SleepHours:           numPtr(8),
		ExerciseHoursPerWeek: numPtr(5),
	}
	_, _, errs := validateBiologicalAge(req)
	if _, ok := errs["age"]; !ok {
		t.Errorf("expected age error for minor, got %v", errs)
	}

	req.Age = numPtr(40)
	req.SystolicBP = numPtr(400)
	_, _, errs = validateBiologicalAge(req)
	if _, ok := errs["systolic_bp"]; !ok {
		t.Errorf("expected systolic_bp error, got %v", errs)
	}
}

// TestValidateHabits verifies the answer-list bounds.
func TestValidateHabits(t *testing.T) {
	if errs := validateHabits(habitsCalcRequest{}); len(errs) == 0 {
		t.Error("expected error for empty answers")
	}
	req := habitsCalcRequest{Answers: make([]quizAnswer, 201)}
	if errs := validateHabits(req); len(errs) == 0 {
		t.Error("expected error for oversized answer list")
	}
	req.Answers = []quizAnswer{{Category: "sleep", Points: 1, MaxPoints: 2}}
	if errs := validateHabits(req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}
