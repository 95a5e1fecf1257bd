// Package validation/middleware validates requests reaching the HTTP file server.
//
// The only request the file server accepts besides plain downloads is a
// multipart upload to /loot. ValidateUpload rejects uploads without a file
// part or with a file name that cannot be stored safely, before the handler
// touches the disk.
package validation

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/errors"
)

// UploadField is the multipart form field carrying the uploaded file
const UploadField = "file"

// maxUploadMemory is what ParseMultipartForm keeps in memory before spilling to disk
const maxUploadMemory = 32 << 20

// RequestValidator provides middleware for HTTP request validation
type RequestValidator struct {
	validator *Validator
	errors    *errors.HTTPErrorHandler
}

// NewRequestValidator creates a new request validator middleware
func NewRequestValidator(log logrus.FieldLogger) *RequestValidator {
	return &RequestValidator{
		validator: NewValidator(),
		errors:    errors.NewHTTPErrorHandler(log, true),
	}
}

// ValidateUpload parses the multipart form and checks the uploaded file name
func (rv *RequestValidator) ValidateUpload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			rv.errors.WriteHTTPError(w, errors.InvalidInputError("Expected a multipart form").WithDetails(err.Error()))
			return
		}
		_, header, err := r.FormFile(UploadField)
		if err != nil {
			rv.errors.WriteHTTPError(w, errors.InvalidInputError("Missing form field '"+UploadField+"'"))
			return
		}

		result := rv.validator.Validate("upload", map[string]interface{}{"filename": header.Filename})
		if !result.Valid {
			rv.errors.WriteHTTPError(w, result.ToAppError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SanitizeString sanitizes string input by removing dangerous characters
func SanitizeString(input string) string {
	cleaned := strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range cleaned {
		if r == '\n' || r == '\t' || r == '\r' || r >= 32 {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeFilename reduces an uploaded name to a plain base name.
// It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = SanitizeString(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
