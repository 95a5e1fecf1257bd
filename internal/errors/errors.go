// Package errors provides unified error handling across uberfile.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the foundation for error reporting in every layer (registry,
// server, service, CLI). It standardizes how failures are represented so the
// command line can print a single-line message and pick an exit code.
//
// KEY RESPONSIBILITIES:
// - Define the error codes of the tool's error taxonomy
// - Provide the structured AppError type with severity, category and context
// - Let callers test for a code through wrapped errors (HasCode)
//
// INTEGRATION POINTS:
// - internal/registry: InvalidOperatingSystem, NoCommandsAvailable, NoCommandsForType
// - internal/server: FileValidation, ServerStart, CertificateGeneration
// - internal/validation: ValidationResult.ToAppError()
// - internal/cli: CLIErrorHandler formats AppErrors and maps them to exit codes
//
// USAGE PATTERNS:
// - Create errors with the constructors (NoCommandsAvailableError, ServerStartError...)
// - Wrap causes with Wrap() to keep the original error reachable through errors.Unwrap
// - Check codes with HasCode(err, ErrCodeX) instead of type assertions
//
// There is no retry classification: nothing in uberfile retries a failed operation.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Registry errors
	ErrCodeInvalidOperatingSystem ErrorCode = "INVALID_OPERATING_SYSTEM"
	ErrCodeNoCommandsAvailable    ErrorCode = "NO_COMMANDS_AVAILABLE"
	ErrCodeNoCommandsForType      ErrorCode = "NO_COMMANDS_FOR_TYPE"

	// Input errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeAborted      ErrorCode = "OPERATION_ABORTED"

	// File server errors
	ErrCodeFileValidation        ErrorCode = "FILE_VALIDATION_ERROR"
	ErrCodeServerStart           ErrorCode = "SERVER_START_ERROR"
	ErrCodeCertificateGeneration ErrorCode = "CERTIFICATE_GENERATION_ERROR"
	ErrCodeUnsupportedProtocol   ErrorCode = "UNSUPPORTED_PROTOCOL"

	// Everything else
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryRegistry   ErrorCategory = "registry"
	CategoryValidation ErrorCategory = "validation"
	CategoryServer     ErrorCategory = "server"
	CategoryInterface  ErrorCategory = "interface"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeInvalidOperatingSystem:
		return CategoryRegistry, SeverityCritical
	case ErrCodeNoCommandsAvailable, ErrCodeNoCommandsForType:
		return CategoryRegistry, SeverityError

	case ErrCodeValidation, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning
	case ErrCodeAborted:
		return CategoryInterface, SeverityInfo

	case ErrCodeFileValidation, ErrCodeServerStart, ErrCodeCertificateGeneration, ErrCodeUnsupportedProtocol:
		return CategoryServer, SeverityError

	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical
	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, err.Error())
}

// HasCode reports whether any AppError in err's chain carries code
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

func InvalidOperatingSystemError(os string) *AppError {
	return NewAppError(ErrCodeInvalidOperatingSystem, fmt.Sprintf("Invalid operating system: %s", os))
}

func NoCommandsAvailableError(protocol, os string) *AppError {
	return NewAppError(ErrCodeNoCommandsAvailable, fmt.Sprintf("No commands available for %s protocol on %s", protocol, os)).
		WithContext("protocol", protocol).
		WithContext("os", os)
}

func NoCommandsForTypeError(commandType, protocol string) *AppError {
	return NewAppError(ErrCodeNoCommandsForType, fmt.Sprintf("No commands found for type: %s with protocol: %s", commandType, protocol)).
		WithContext("command", commandType).
		WithContext("protocol", protocol)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func AbortedError(what string) *AppError {
	return NewAppError(ErrCodeAborted, fmt.Sprintf("%s cancelled", what))
}

func FileValidationError(message, path string) *AppError {
	return NewAppError(ErrCodeFileValidation, fmt.Sprintf("%s: %s", message, path)).
		WithContext("path", path)
}

func ServerStartError(protocol string, err error) *AppError {
	return Wrap(err, ErrCodeServerStart, fmt.Sprintf("%s server error: %v", protocol, err))
}

func CertificateGenerationError(err error) *AppError {
	return Wrap(err, ErrCodeCertificateGeneration, fmt.Sprintf("Failed to generate certificate: %v", err))
}

func UnsupportedProtocolError(protocol string) *AppError {
	return NewAppError(ErrCodeUnsupportedProtocol, fmt.Sprintf("Unsupported protocol: %s", protocol))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
