package dto

import (
	"errors"
	"net/http"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/shared"
)

// Error codes. Domain codes pass through unchanged.
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
	ErrCodeInvalidInput      = shared.CodeInvalidInput
	ErrCodeInvalidOperation  = shared.CodeInvalidOperation
	ErrCodeInvalidTransition = shared.CodeInvalidTransition
	ErrCodeLedgerUnavailable = shared.CodeLedgerUnavailable

	ErrCodeLedgerError  = "LEDGER_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidOperation:  http.StatusBadRequest,
	ErrCodeInvalidTransition: http.StatusBadRequest,
	ErrCodeLedgerUnavailable: http.StatusBadGateway,
	ErrCodeLedgerError:       http.StatusBadGateway,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeTokenExpired:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeTooLarge:          http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:       http.StatusTooManyRequests,
	ErrCodeUnavailable:       http.StatusServiceUnavailable,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MapError resolves the status, code and client message for err.
// A DomainError anywhere in the chain wins over a bare ledger sentinel.
func MapError(err error) (int, string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message
	}
	if integration.IsLedgerError(err) {
		return http.StatusBadGateway, ErrCodeLedgerError, ledgerMessage(err)
	}
	return http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"
}

func ledgerMessage(err error) string {
	switch {
	case errors.Is(err, integration.ErrLedgerNotConfigured):
		return "Ledger system is not configured"
	case errors.Is(err, integration.ErrLedgerUnavailable):
		return "Ledger system is temporarily unavailable"
	case errors.Is(err, integration.ErrLedgerNotFound):
		return "Ledger record not found"
	case errors.Is(err, integration.ErrLedgerInvalidResponse):
		return "Ledger system returned an invalid response"
	default:
		return "Ledger request failed"
	}
}
