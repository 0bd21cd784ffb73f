package shared

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryDatabase       ErrorCategory = "database"
	ErrorCategoryValidation     ErrorCategory = "validation"
	ErrorCategoryNotFound       ErrorCategory = "not_found"
	ErrorCategoryAuthentication ErrorCategory = "authentication"
	ErrorCategoryAuthorization  ErrorCategory = "authorization"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Details     interface{}   `json:"details,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error category to an HTTP response status.
func (e *ServiceError) HTTPStatus() int {
	switch e.Category {
	case ErrorCategoryValidation:
		return http.StatusBadRequest
	case ErrorCategoryNotFound:
		return http.StatusNotFound
	case ErrorCategoryAuthentication:
		return http.StatusUnauthorized
	case ErrorCategoryAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   false,
		Cause:       cause,
	}
}

// NewDatabaseError wraps a store access failure. The whole request aborts
// on these; retrying is the store's concern, not ours.
func NewDatabaseError(serviceName, operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryDatabase, "DB_QUERY_FAILED", "database query failed", serviceName, operation, cause)
}

// NewValidationError reports invalid input with per-field details.
func NewValidationError(serviceName, operation, message string, details interface{}) *ServiceError {
	err := NewServiceError(ErrorCategoryValidation, "INVALID_INPUT", message, serviceName, operation, nil)
	err.Details = details
	return err
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(serviceName, operation, message string) *ServiceError {
	return NewServiceError(ErrorCategoryNotFound, "NOT_FOUND", message, serviceName, operation, nil)
}

// NewAuthenticationError reports a failed credential or token check.
func NewAuthenticationError(serviceName, operation, message string) *ServiceError {
	return NewServiceError(ErrorCategoryAuthentication, "AUTH_FAILED", message, serviceName, operation, nil)
}

// NewAuthorizationError reports an authenticated but not permitted actor.
func NewAuthorizationError(serviceName, operation, message string) *ServiceError {
	return NewServiceError(ErrorCategoryAuthorization, "FORBIDDEN", message, serviceName, operation, nil)
}

// LogError logs the service error with structured fields
func LogError(err *ServiceError) {
	fields := logrus.Fields{
		"category":  err.Category,
		"code":      err.Code,
		"service":   err.ServiceName,
		"operation": err.Operation,
	}
	if err.Cause != nil {
		fields["cause"] = err.Cause.Error()
	}
	logrus.WithFields(fields).Error(err.Message)
}

// AsServiceError extracts a *ServiceError from an error chain, if present.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
