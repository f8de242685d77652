package apiserver

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIError is the error taxonomy of spec.md §7: a tag, a user-facing
// message, and optional structured details. Internal/database errors
// never leak their underlying message to the client.
type APIError struct {
	Tag     string
	Message string
	Details interface{}
	status  int
}

func (e *APIError) Error() string { return e.Message }

func newAPIError(status int, tag, message string) *APIError {
	return &APIError{Tag: tag, Message: message, status: status}
}

// BadRequest, Validation, InvalidAsset → 400; Unauthorized → 401;
// NotFound, NoRoute → 404; RateLimitExceeded → 429; Database, Internal → 500.
func BadRequest(message string) *APIError     { return newAPIError(http.StatusBadRequest, "bad_request", message) }
func Validation(message string) *APIError     { return newAPIError(http.StatusBadRequest, "validation_error", message) }
func InvalidAsset(message string) *APIError   { return newAPIError(http.StatusBadRequest, "invalid_asset", message) }
func Unauthorized(message string) *APIError   { return newAPIError(http.StatusUnauthorized, "unauthorized", message) }
func NotFound(message string) *APIError       { return newAPIError(http.StatusNotFound, "not_found", message) }
func NoRoute() *APIError {
	return newAPIError(http.StatusNotFound, "no_route", "The requested route does not exist.")
}
func Internal(cause error) *APIError {
	if cause != nil {
		log.Printf("apiserver: internal error: %v", cause)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "An internal error occurred.")
}
func Database(cause error) *APIError {
	if cause != nil {
		log.Printf("apiserver: database error: %v", cause)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "An internal error occurred.")
}

// errorBody is the JSON envelope every error response uses, per spec.md §6.
type errorBody struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeError writes err's status code and JSON envelope to w.
func writeError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:   err.Tag,
		Message: err.Message,
		Details: err.Details,
	})
}
