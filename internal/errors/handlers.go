// Package errors/handlers provides interface-specific error handling implementations.
//
// SYSTEM ARCHITECTURE ROLE:
// This module turns structured AppErrors into what each surface needs: a single
// line plus an exit code for the command line, and a JSON body plus a status
// code for the upload endpoint of the HTTP file server.
//
// INTEGRATION POINTS:
// - internal/cli/cli.go: CLIErrorHandler reports the failure and picks the exit code
// - internal/server/http.go: HTTPErrorHandler answers failed uploads
//
// ERROR FLOW:
// 1. Business logic generates AppError
// 2. Interface-specific handler logs it through the component's logrus entry
// 3. Handler formats error for display/response
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
	log     logrus.FieldLogger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(log logrus.FieldLogger, verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
		log:     log,
	}
}

// HandleError logs err as a single operator-facing line and returns it as an AppError
func (h *CLIErrorHandler) HandleError(err error) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)

	entry := h.log.WithField("code", appErr.Code)
	if h.Verbose {
		entry = entry.WithField("category", appErr.Category)
		if appErr.Details != "" {
			entry = entry.WithField("details", appErr.Details)
		}
		if appErr.Cause != nil {
			entry = entry.WithField("cause", appErr.Cause.Error())
		}
	}

	switch appErr.Severity {
	case SeverityInfo:
		entry.Info(appErr.Message)
	case SeverityWarning:
		entry.Warn(appErr.Message)
	default:
		entry.Error(appErr.Message)
	}
	return appErr
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)
	if h.Verbose && appErr.Details != "" {
		return fmt.Sprintf("%s (%s)", appErr.Message, appErr.Details)
	}
	return appErr.Message
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// HTTPErrorHandler handles errors for HTTP interface
type HTTPErrorHandler struct {
	IncludeDetails bool
	log            logrus.FieldLogger
}

// NewHTTPErrorHandler creates a new HTTP error handler
func NewHTTPErrorHandler(log logrus.FieldLogger, includeDetails bool) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		IncludeDetails: includeDetails,
		log:            log,
	}
}

// HandleError handles errors for HTTP interface
func (h *HTTPErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	h.log.WithField("code", appErr.Code).Warn(appErr.Message)
	return appErr
}

// FormatError formats an error for HTTP response
func (h *HTTPErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	body := map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if h.IncludeDetails && appErr.Details != "" {
		body["details"] = appErr.Details
	}

	jsonBytes, _ := json.Marshal(map[string]interface{}{"error": body})
	return string(jsonBytes)
}

// WriteHTTPError writes an error response to HTTP
func (h *HTTPErrorHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)
	h.HandleError(appErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.getHTTPStatusCode(appErr))
	w.Write([]byte(h.FormatError(appErr)))
}

// getHTTPStatusCode maps error codes to HTTP status codes
func (h *HTTPErrorHandler) getHTTPStatusCode(appErr *AppError) int {
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeFileValidation:
		return http.StatusBadRequest
	case ErrCodeUnsupportedProtocol:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
