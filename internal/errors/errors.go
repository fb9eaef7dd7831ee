package errors

import (
	"fmt"
)

// ErrorType represents the type of error.
type ErrorType string

const (
	ErrorTypeInvalidRateFormat   ErrorType = "INVALID_RATE_FORMAT"
	ErrorTypeInvalidRateValue    ErrorType = "INVALID_RATE_VALUE"
	ErrorTypeUnsupportedOrder    ErrorType = "UNSUPPORTED_ORDER"
	ErrorTypeUnsupportedBaseRate ErrorType = "UNSUPPORTED_BASE_RATE"
	ErrorTypeInvalidConfig       ErrorType = "INVALID_CONFIG"
	ErrorTypeSink                ErrorType = "SINK_ERROR"
	ErrorTypeInternal            ErrorType = "INTERNAL_ERROR"
)

// Process exit codes reported by the CLI for each error type.
const (
	ExitUsage    = 2
	ExitConfig   = 3
	ExitSink     = 4
	ExitInternal = 1
)

// AppError represents an application error with additional context.
type AppError struct {
	Type     ErrorType              `json:"type"`
	Message  string                 `json:"message"`
	Code     string                 `json:"code,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
	ExitCode int                    `json:"-"`
	Err      error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCode adds an error code.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// New creates a new AppError.
func New(errType ErrorType, message string, exitCode int) *AppError {
	return &AppError{
		Type:     errType,
		Message:  message,
		ExitCode: exitCode,
	}
}

// Wrap wraps an existing error.
func Wrap(err error, errType ErrorType, message string, exitCode int) *AppError {
	return &AppError{
		Type:     errType,
		Message:  message,
		ExitCode: exitCode,
		Err:      err,
	}
}

// Common error constructors.

// NewInvalidRateFormatError reports a rate literal that could not be parsed.
func NewInvalidRateFormatError(input string) *AppError {
	return New(ErrorTypeInvalidRateFormat,
		fmt.Sprintf("unrecognised frame rate literal %q", input), ExitUsage)
}

// NewInvalidRateValueError reports a rate that parsed but is not usable.
func NewInvalidRateValueError(message string) *AppError {
	return New(ErrorTypeInvalidRateValue, message, ExitUsage)
}

// NewUnsupportedOrderError reports a sequence order outside the supported range.
func NewUnsupportedOrderError(order, min, max int) *AppError {
	return New(ErrorTypeUnsupportedOrder,
		fmt.Sprintf("sequence order %d not supported (must be %d..%d)", order, min, max), ExitUsage)
}

// NewUnsupportedBaseRateError reports a base rate absent from the timing catalog.
func NewUnsupportedBaseRateError(baseRate int) *AppError {
	return New(ErrorTypeUnsupportedBaseRate,
		fmt.Sprintf("no pulse timing catalog entry for base rate %d", baseRate), ExitUsage)
}

// NewInvalidConfigError creates a configuration error.
func NewInvalidConfigError(message string) *AppError {
	return New(ErrorTypeInvalidConfig, message, ExitConfig)
}

// WrapSinkError wraps a failure while persisting generated output.
func WrapSinkError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeSink, message, ExitSink)
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	return New(ErrorTypeInternal, message, ExitInternal)
}

// WrapInternalError wraps an error as an internal error.
func WrapInternalError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeInternal, message, ExitInternal)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts AppError from an error.
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
