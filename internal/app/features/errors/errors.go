// internal/app/features/errors/errors.go
//
// Package errors renders API failures as a uniform JSON body:
//
//	{ "kind": "validation_failed", "detail": "...", "reasons": ["...", ...] }
//
// Handlers never build error bodies by hand; they pass the error here
// and the fault kind picks the status code.
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/system/faults"
)

type payload struct {
	Kind    string   `json:"kind"`
	Detail  string   `json:"detail"`
	Reasons []string `json:"reasons,omitempty"`
}

// statusFor maps a fault kind to its HTTP status.
func statusFor(kind faults.Kind) int {
	switch kind {
	case faults.ValidationFailed:
		return http.StatusUnprocessableEntity
	case faults.DeadlineClosed:
		return http.StatusForbidden
	case faults.NotFound:
		return http.StatusNotFound
	case faults.ConcurrencyConflict:
		return http.StatusConflict
	case faults.CorruptCollection:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorLogger writes the JSON failure body and logs server-side faults.
// Client mistakes (validation, not-found) are logged at debug so a noisy
// form does not flood the error log.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: log}
}

// Render writes err to w. detail defaults to the error's own message.
func (el *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, err error) {
	kind := faults.KindOf(err)
	status := statusFor(kind)

	body := payload{
		Kind:    string(kind),
		Detail:  err.Error(),
		Reasons: faults.ReasonsOf(err),
	}

	if status >= 500 {
		el.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("kind", string(kind)),
			zap.Error(err))
	} else {
		el.Log.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RenderBadRequest reports a malformed request body (undecodable JSON,
// bad path parameter) before any domain logic runs.
func (el *ErrorLogger) RenderBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	el.renderStatic(w, http.StatusBadRequest, "bad_request", detail, nil)
}

// RenderUnauthorized reports a missing or invalid admin session.
func (el *ErrorLogger) RenderUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	el.renderStatic(w, http.StatusUnauthorized, "unauthorized", detail, nil)
}

// RenderValidation reports a field-level failure list.
func (el *ErrorLogger) RenderValidation(w http.ResponseWriter, r *http.Request, reasons []string) {
	el.renderStatic(w, http.StatusUnprocessableEntity, string(faults.ValidationFailed),
		"the submission was rejected", reasons)
}

func (el *ErrorLogger) renderStatic(w http.ResponseWriter, status int, kind, detail string, reasons []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload{Kind: kind, Detail: detail, Reasons: reasons})
}

// JSON writes v as a JSON response with the given status. Success
// responses across features go through here for a consistent surface.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
