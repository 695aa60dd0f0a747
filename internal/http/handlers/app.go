package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"gateway/internal/auth"
	"gateway/internal/infra"
	"gateway/internal/middleware"
	"gateway/internal/providers/nanobanana"
)

// MeteringReporter is the billing side-channel contract the handlers use.
type MeteringReporter interface {
	Report(ctx context.Context, sessionID string, cost float64, isFinal bool) string
}

// App bundles the collaborators shared by all handlers.
type App struct {
	Logger         infra.Logger
	Verifier       *auth.Verifier
	Images         nanobanana.Generator
	Metering       MeteringReporter
	CostMultiplier float64
	AppName        string
	// Fetch performs outbound requests for the image download proxy.
	Fetch *http.Client
}

type apiResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the localized message registered for an error code.
func (a *App) fail(w http.ResponseWriter, r *http.Request, status int, code string) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, status, apiResponse{Success: false, Error: errorMessage(locale, code), ErrorCode: code})
}

// failWith writes a caller-supplied diagnostic message under an error code.
func (a *App) failWith(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, apiResponse{Success: false, Error: message, ErrorCode: code})
}

// NotFound is the JSON fallback for unknown routes.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusNotFound, map[string]string{
		"error": "Not Found",
		"path":  r.URL.Path,
	})
}
