// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes written in the "error" field of error bodies.
const (
	CodeBadRequest  = "bad_request"
	CodeBatchFailed = "batch_failed"
	CodeInternal    = "internal_error"
	CodeUnavailable = "service_unavailable"
)

// APIError is an error that knows its HTTP status and public code.
type APIError struct {
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Description + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Description
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewError builds an APIError.
func NewError(status int, code, description string, err error) *APIError {
	return &APIError{Status: status, Code: code, Description: description, Err: err}
}

// DecodeJSON decodes a JSON request body of at most maxBytes into dst.
// Failures are returned as 400 APIErrors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewError(http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large", err)
		}
		return NewError(http.StatusBadRequest, CodeBadRequest, "invalid JSON body", err)
	}
	if dec.More() {
		return NewError(http.StatusBadRequest, CodeBadRequest, "unexpected data after JSON body", nil)
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a JSON error body. Internal errors never
// expose their description.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := &APIError{Status: http.StatusInternalServerError, Code: CodeInternal}
	var target *APIError
	if errors.As(err, &target) {
		apiErr = target
	}

	body := map[string]string{"error": apiErr.Code}
	if apiErr.Status < http.StatusInternalServerError && apiErr.Description != "" {
		body["error_description"] = apiErr.Description
	}
	if apiErr.Code == CodeBatchFailed && apiErr.Description != "" {
		body["error_description"] = apiErr.Description
	}
	WriteJSON(w, apiErr.Status, body)
}
