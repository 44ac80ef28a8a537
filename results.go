package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Tagged result variants ─────────────────────────────────────────── */

// Result payloads are not opaque blobs: each kind names a variant struct, and
// the payload must decode into it — unknown fields included — before anything
// touches the database. The same check runs on the way out so a bad row can't
// poison the history view.

// decodeStrict unmarshals raw into v, rejecting unknown fields and trailing data.
func decodeStrict(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after payload")
	}
	return nil
}

// encodeResultPayload validates raw against the variant named by kind and
// returns the normalized encoding. Fails with invalidInputError on an unknown
// kind, a schema mismatch, or out-of-range variant fields.
func encodeResultPayload(kind string, raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, invalidInput("payload", "is required")
	}

	switch kind {
	case "nutrition":
		var v nutritionResult
		if err := decodeStrict(raw, &v); err != nil {
			return nil, invalidInput("payload", "does not match the nutrition result schema")
		}
		if v.BMR <= 0 || v.TDEE <= 0 || v.TargetCalories <= 0 {
			return nil, invalidInput("payload", "calorie fields must be positive")
		}
		if _, ok := goalAdjustments[v.Goal]; !ok {
			return nil, invalidInput("payload", "unknown goal")
		}
		if v.Macros.ProteinG < 0 || v.Macros.CarbsG < 0 || v.Macros.FatG < 0 {
			return nil, invalidInput("payload", "macro grams must be non-negative")
		}
		return json.Marshal(v)

	case "body_fat":
		var v bodyFatResult
		if err := decodeStrict(raw, &v); err != nil {
			return nil, invalidInput("payload", "does not match the body fat result schema")
		}
		if v.BodyFatPercent <= 0 || v.BodyFatPercent >= 75 {
			return nil, invalidInput("payload", "body_fat_percent out of range")
		}
		if v.Category == "" {
			return nil, invalidInput("payload", "category is required")
		}
		return json.Marshal(v)

	case "biological_age":
		var v biologicalAgeOutput
		if err := decodeStrict(raw, &v); err != nil {
			return nil, invalidInput("payload", "does not match the biological age result schema")
		}
		if v.BiologicalAge <= 0 {
			return nil, invalidInput("payload", "biological_age must be positive")
		}
		if _, ok := riskStyles[v.RiskLevel]; !ok {
			return nil, invalidInput("payload", "unknown risk_level")
		}
		if v.Recommendations == nil {
			v.Recommendations = []string{}
		}
		return json.Marshal(v)

	case "habits":
		var v quizScore
		if err := decodeStrict(raw, &v); err != nil {
			return nil, invalidInput("payload", "does not match the habits result schema")
		}
		if v.MaxScore <= 0 || v.Score < 0 || v.Score > v.MaxScore {
			return nil, invalidInput("payload", "score must be between 0 and max_score")
		}
		if v.Percentage < 0 || v.Percentage > 100 {
			return nil, invalidInput("payload", "percentage must be between 0 and 100")
		}
		return json.Marshal(v)

	default:
		return nil, invalidInput("kind", "must be one of: nutrition, body_fat, biological_age, habits")
	}
}

/* ─── History display decoration ─────────────────────────────────────── */

// riskStyles maps a biological-age risk level to the display style the
// frontend applies to the history row.
var riskStyles = map[string]string{
	"low":      "success",
	"moderate": "warning",
	"high":     "danger",
}

// monthNames carries long-form month names per supported display locale.
// Unknown locales fall back to English.
var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
}

// displayDate formats a timestamp in long form for the given locale,
// e.g. "January 2, 2026" or "2 de enero de 2026".
func displayDate(t time.Time, locale string) string {
	months, ok := monthNames[locale]
	if !ok {
		locale = "en"
		months = monthNames["en"]
	}
	month := months[t.Month()-1]
	if locale == "es" {
		return fmt.Sprintf("%d de %s de %d", t.Day(), month, t.Year())
	}
	return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
}

// decorateStoredResult fills the per-request display fields on r: the
// locale-formatted date and, for biological age results, the risk style.
func decorateStoredResult(r *storedResult, locale string) {
	if r.CreatedAt != nil {
		r.DisplayDate = displayDate(*r.CreatedAt, locale)
	}
	if r.Kind == "biological_age" {
		var v struct {
			RiskLevel string `json:"risk_level"`
		}
		if err := json.Unmarshal(r.Payload, &v); err == nil {
			r.RiskStyle = riskStyles[v.RiskLevel]
		}
	}
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// saveResult persists a computed calculator result for the authenticated user.
// POST /api/results. Body: {user_id, kind, payload}. The payload must validate
// against the kind's variant schema; id and created_at are server-assigned.
func (h *Handler) saveResult(c *gin.Context) {
	var body saveResultRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	payload, err := encodeResultPayload(body.Kind, body.Payload)
	if err != nil {
		engineError(c, err)
		return
	}

	saved, err := queryOne[storedResult](h.db, c,
		`INSERT INTO results (user_id, kind, payload)
		 VALUES (@userID, @kind, @payload)
		 RETURNING *`,
		// string, not []byte: the simple query protocol would render raw bytes
		// as a bytea literal, which the jsonb column rejects.
		pgx.NamedArgs{"userID": body.UserID, "kind": body.Kind, "payload": string(payload)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save result")
		return
	}

	decorateStoredResult(&saved, c.DefaultQuery("locale", "en"))
	c.JSON(http.StatusCreated, saved)
}

// listResults returns the user's saved results, newest first.
// GET /api/results?user_id=<id>&locale=en. Returns an empty array (not null)
// when the user has no history. No pagination — the history view is small.
func (h *Handler) listResults(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "user_id query param is required")
		return
	}
	if !requireOwner(c, userID) {
		return
	}
	locale := c.DefaultQuery("locale", "en")

	results, err := queryMany[storedResult](h.db, c,
		`SELECT * FROM results
		 WHERE user_id = @userID
		 ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch results")
		return
	}
	// Ensure results is an empty array (not null) in JSON
	if results == nil {
		results = []storedResult{}
	}

	for i := range results {
		decorateStoredResult(&results[i], locale)
	}

	c.JSON(http.StatusOK, results)
}
