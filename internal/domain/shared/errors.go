package shared

import "fmt"

// Error codes shared by all bounded contexts
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidOperation  = "INVALID_OPERATION"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeLedgerUnavailable = "LEDGER_UNAVAILABLE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError carrying the same code, so that
// errors.Is(err, shared.ErrNotFound) works for entity-specific messages.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps cause in its chain
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewNotFoundError reports a missing entity by name
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", entity))
}

// NewInvalidOperationError reports a business rule violation
func NewInvalidOperationError(message string) *DomainError {
	return NewDomainError(CodeInvalidOperation, message)
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists    = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput     = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidOperation = NewDomainError(CodeInvalidOperation, "Operation not allowed")
)

// Caller roles as recorded on transition errors
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RoleOf maps the caller's admin flag to a role name
func RoleOf(isAdmin bool) string {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// TransitionError is returned when a status change is rejected by the status rules.
// It unwraps to a DomainError with code INVALID_TRANSITION.
type TransitionError struct {
	Subject   string `json:"subject"`
	Current   string `json:"current"`
	Requested string `json:"requested"`
	Role      string `json:"role"`
}

// NewTransitionError builds a TransitionError for the attempted change
func NewTransitionError(subject, current, requested string, isAdmin bool) *TransitionError {
	return &TransitionError{
		Subject:   subject,
		Current:   current,
		Requested: requested,
		Role:      RoleOf(isAdmin),
	}
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s (role: %s)", e.Subject, e.Current, e.Requested, e.Role)
}

// Unwrap lets callers treat the transition error as a DomainError
func (e *TransitionError) Unwrap() error {
	return NewDomainError(CodeInvalidTransition, e.Error())
}
