package domain

import (
	"errors"
	"fmt"
)

// Predefined client errors
var (
	// ErrInvalidInput local validation rejected the input before any network call
	ErrInvalidInput = errors.New("invalid input")
	// ErrBackend the backend answered with a non-2xx status
	ErrBackend = errors.New("backend error")
	// ErrSessionExpired the backend rejected an authenticated call with 401
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated the operation needs a stored bearer token
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden the session role may not perform the operation
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound the referenced item does not exist
	ErrNotFound = errors.New("not found")
)

// Display messages shared by several commands
const (
	MsgSessionExpired   = "Sessão expirada. Faça login novamente."
	MsgNotAuthenticated = "Usuário não autenticado"
)

// DomainError carries a user-facing message next to the wrapped cause
type DomainError struct {
	Code    string
	Message string
	Status  int // HTTP status for backend errors, 0 otherwise
	Err     error
}

// Error implements error (used for logs)
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the message shown to the user
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a local validation error
func NewValidationError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewBackendError creates an error for a non-2xx backend response
func NewBackendError(status int, message string) error {
	return &DomainError{
		Code:    "BACKEND_ERROR",
		Message: message,
		Status:  status,
		Err:     fmt.Errorf("%w: HTTP %d", ErrBackend, status),
	}
}

// NewSessionExpiredError creates the uniform 401 error
func NewSessionExpiredError() error {
	return &DomainError{
		Code:    "SESSION_EXPIRED",
		Message: MsgSessionExpired,
		Status:  401,
		Err:     ErrSessionExpired,
	}
}

// NewNotAuthenticatedError creates an error for operations that need a token
func NewNotAuthenticatedError() error {
	return &DomainError{
		Code:    "NOT_AUTHENTICATED",
		Message: MsgNotAuthenticated,
		Err:     ErrNotAuthenticated,
	}
}

// NewForbiddenError creates an error for a role that may not open a screen
func NewForbiddenError(message string) error {
	return &DomainError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  403,
		Err:     ErrForbidden,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

// UserMessage extracts the display string of err, falling back to err.Error()
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.UserMessage()
	}
	return err.Error()
}

// IsInvalidInput reports whether err is a local validation error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsBackend reports whether err is a backend error
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}

// IsSessionExpired reports whether err is the uniform 401 error
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsNotAuthenticated reports whether err is a missing-token error
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsForbidden reports whether err is a role error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
