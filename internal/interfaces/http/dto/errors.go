package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain error codes flow through unchanged;
// these cover failures that never reach a domain service.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// keep their names on the wire so clients can branch on them.
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound: http.StatusNotFound,

	// Rule violations the client can fix -> 422 Unprocessable Entity.
	// INVALID_* codes not listed here resolve via the prefix rule in
	// GetHTTPStatus.
	ErrCodeValidation:       http.StatusUnprocessableEntity,
	"CYCLE_DETECTED":        http.StatusUnprocessableEntity,
	"HAS_ACTIVE_DEPENDENTS": http.StatusUnprocessableEntity,
	"DUPLICATE_ITEM":        http.StatusUnprocessableEntity,

	// Contended or duplicate state -> 409 Conflict
	"CONFLICTING_ACTIVE_TRANSFER": http.StatusConflict,
	"CONCURRENCY_CONFLICT":        http.StatusConflict,
	"DUPLICATE_CODE":              http.StatusConflict,
	"DUPLICATE_ORDER_NUMBER":      http.StatusConflict,
	"ALREADY_EXISTS":              http.StatusConflict,

	// Invariant breaches -> 500, these are never the client's fault
	"INTEGRITY_FAILURE": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* codes are caller-correctable validation failures and map to
// 422; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
