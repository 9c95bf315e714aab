package dto

import (
	"net/http"
	"strings"
)

// API error codes returned in the response envelope
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeNotEligible       = "ERR_NOT_ELIGIBLE"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps API error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeNotEligible:       http.StatusUnprocessableEntity,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeUnknown:  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates domain error codes into API error codes.
// Codes not listed here fall back to prefix rules in NormalizeErrorCode.
var domainCodeMapping = map[string]string{
	"NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"ALREADY_MEMBER": ErrCodeAlreadyExists,
	"USERNAME_TAKEN": ErrCodeAlreadyExists,
	"DUPLICATE_CODE": ErrCodeAlreadyExists,

	"UNAUTHORIZED":    ErrCodeUnauthorized,
	"BAD_CREDENTIALS": ErrCodeUnauthorized,

	"FORBIDDEN":        ErrCodeForbidden,
	"ACCOUNT_DISABLED": ErrCodeForbidden,
	"SELF_DISABLE":     ErrCodeForbidden,
	"SELF_ROLE_CHANGE": ErrCodeForbidden,

	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"NOT_ELIGIBLE":       ErrCodeNotEligible,

	"INVALID_STATE":        ErrCodeInvalidState,
	"ALREADY_ACTIVE":       ErrCodeInvalidState,
	"ALREADY_DISABLED":     ErrCodeInvalidState,
	"AT_TOP_TIER":          ErrCodeInvalidState,
	"WAREHOUSE_DISABLED":   ErrCodeInvalidState,
	"WAREHOUSE_NOT_EMPTY":  ErrCodeInvalidState,
	"INACTIVE_PARENT":      ErrCodeInvalidState,
	"CONFIG_TYPE_MISMATCH": ErrCodeInvalidState,
}

// NormalizeErrorCode maps a domain error code onto the API error code space
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return ErrCodeBusinessRule
}
