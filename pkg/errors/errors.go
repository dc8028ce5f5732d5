package errors

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"   // missing/invalid settings, unreachable template
	ErrorTypeInput    ErrorType = "input"    // unreadable or malformed source file
	ErrorTypeExtract  ErrorType = "extract"  // unattributable page segment
	ErrorTypeResolve  ErrorType = "resolve"  // contact lookup failure
	ErrorTypeDispatch ErrorType = "dispatch" // template render or transport failure
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Fatal   bool      `json:"-"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a fatal startup error; the run aborts before any
// artifact is touched.
func NewConfigError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Details: detail,
		Fatal:   true,
	}
}

// NewInputError creates a recoverable source-file error; the file is
// skipped and the batch continues.
func NewInputError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Cause:   cause,
	}
}

// NewExtractError creates a recoverable extraction error
func NewExtractError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeExtract,
		Message: message,
		Cause:   cause,
	}
}

// NewResolveError creates a recoverable contact-lookup error
func NewResolveError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeResolve,
		Message: message,
		Cause:   cause,
	}
}

// NewDispatchError creates a recoverable send error
func NewDispatchError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDispatch,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// IsFatal reports whether the error must abort the whole run rather than a
// single artifact.
func IsFatal(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Fatal
	}
	return false
}
