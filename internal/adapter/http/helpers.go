package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/voxpilot/voxpilot/internal/domain"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request, bodyLimit int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, domain.CodeInvalidRequest, "request body too large", "")
		} else {
			writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body", "")
		}
		return v, false
	}
	return v, true
}

// requireField writes a 400 error and returns false when value is empty.
func requireField(w http.ResponseWriter, value, fieldName string) bool {
	if value == "" {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, fieldName+" is required", "")
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

// successResponse is the envelope for all 2xx payloads.
type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Code       domain.Code `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code domain.Code, message, suggestion string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   errorBody{Code: code, Message: message, Suggestion: suggestion},
	})
}

// writeAppError maps a domain error to the client envelope. Unknown errors
// are logged server-side and returned as a generic internal error.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := domain.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.Code, "error", err)
	}
	writeError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Suggestion)
}
