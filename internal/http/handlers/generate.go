package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"gateway/internal/billing"
)

const (
	minPromptChars = 5
	maxPromptChars = 500
)

type generateResult struct {
	ImageData   string  `json:"imageData"`
	CreditsUsed float64 `json:"creditsUsed"`
	MeteringID  string  `json:"meteringId"`
}

// Generate handles POST /api/generate: verify the platform signature,
// validate the payload, run the vendor generation to a terminal state,
// then bill and respond.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	// json.Number keeps a numeric time field in its literal form, which the
	// signature canonicalization depends on.
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		a.fail(w, r, http.StatusBadRequest, CodeMissingParams)
		return
	}

	if !a.Verifier.Verify(fields) {
		a.fail(w, r, http.StatusUnauthorized, CodeSignatureInvalid)
		return
	}

	prompt, _ := fields["prompt"].(string)
	sessionID, _ := fields["sessionId"].(string)
	if code := validateGenerate(prompt, sessionID); code != "" {
		a.fail(w, r, http.StatusBadRequest, code)
		return
	}

	// A submitted vendor job runs to its own timeout even if the client
	// disconnects, so the vendor and billing calls must not inherit the
	// request's cancellation.
	ctx := context.WithoutCancel(r.Context())

	artifact, err := a.Images.Generate(ctx, prompt)
	if err != nil {
		a.Logger.Error().Err(err).
			Str("session_id", sessionID).
			Msg("generate: vendor task failed")
		a.failWith(w, http.StatusInternalServerError, CodeGenerationError, err.Error())
		return
	}

	cost := billing.FinalCost(billing.ImageBaseCost, a.CostMultiplier)
	meteringID := a.Metering.Report(ctx, sessionID, cost, false)

	a.json(w, http.StatusOK, apiResponse{
		Success: true,
		Data: generateResult{
			ImageData:   artifact.Encode(),
			CreditsUsed: cost,
			MeteringID:  meteringID,
		},
	})
}

// validateGenerate enforces presence then length, in that order. Length is
// counted in characters of the decoded text, not bytes.
func validateGenerate(prompt, sessionID string) string {
	if prompt == "" || sessionID == "" {
		return CodeMissingParams
	}
	switch n := utf8.RuneCountInString(prompt); {
	case n < minPromptChars:
		return CodePromptTooShort
	case n > maxPromptChars:
		return CodePromptTooLong
	}
	return ""
}
