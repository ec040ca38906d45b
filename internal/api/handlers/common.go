// Package handlers holds the HTTP boundary: request decoding, validation,
// and the mapping from service errors to the JSON envelope.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error's kind to a status code and renders the envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.Status(err), dto.Fail(apperr.Message(err)))
}

func writeValidationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, dto.ValidationError{
		Success: false,
		Message: "Validation failed",
		Details: details,
	})
}

// decodeJSON decodes the body into v, reporting a uniform bad-request body
// on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body"))
		return false
	}
	return true
}
