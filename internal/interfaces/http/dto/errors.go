package dto

import (
	"net/http"
	"strings"
)

// Error codes emitted outside the domain layer.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures are 400, missing resources 404, write races 409 and
// business rule violations 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	"VALIDATION_ERROR": http.StatusBadRequest,
	"EMPTY_ORDER":      http.StatusBadRequest,

	"FORBIDDEN": http.StatusForbidden,

	"NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_TRANSITION":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"STOCK_ALREADY_CONSUMED": http.StatusUnprocessableEntity,
	"STOCK_NOT_CONSUMED":     http.StatusUnprocessableEntity,
	"NOTHING_TO_WRITE_OFF":   http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Codes of
// the INVALID_* family are field validation failures and map to 400; anything
// unknown falls back to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
