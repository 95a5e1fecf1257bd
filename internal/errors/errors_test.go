package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("listen tcp :80: bind: permission denied")
	err := ServerStartError("HTTP", CertificateGenerationError(cause))
	wrapped := fmt.Errorf("serve: %w", err)

	assert.True(t, HasCode(wrapped, ErrCodeServerStart))
	assert.True(t, HasCode(wrapped, ErrCodeCertificateGeneration))
	assert.False(t, HasCode(wrapped, ErrCodeFileValidation))
	assert.False(t, HasCode(cause, ErrCodeServerStart))
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestGetAppError(t *testing.T) {
	plain := stderrors.New("boom")
	appErr := GetAppError(plain)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.Equal(t, plain, appErr.Cause)

	orig := NoCommandsAvailableError("SMB", "linux")
	assert.Same(t, orig, GetAppError(fmt.Errorf("ctx: %w", orig)))
	assert.Equal(t, "SMB", orig.Context["protocol"])
	assert.Equal(t, CategoryRegistry, orig.Category)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		err      *AppError
		category ErrorCategory
	}{
		{InvalidOperatingSystemError("beos"), CategoryRegistry},
		{NoCommandsForTypeError("ftp", "HTTP"), CategoryRegistry},
		{ValidationError("bad"), CategoryValidation},
		{FileValidationError("File not found", "/nope"), CategoryServer},
		{ServerStartError("FTP", stderrors.New("x")), CategoryServer},
		{AbortedError("Selection"), CategoryInterface},
		{InternalError("x"), CategorySystem},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(NoCommandsAvailableError("SMB", "linux")))
	assert.Equal(t, 1, ExitCode(stderrors.New("plain")))
}

func TestCLIErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	h := NewCLIErrorHandler(log, false)
	err := h.HandleError(FileValidationError("File not found", "/srv/x"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "File not found: /srv/x")
	assert.Contains(t, buf.String(), "code=FILE_VALIDATION_ERROR")
	assert.Nil(t, h.HandleError(nil))

	verbose := NewCLIErrorHandler(log, true)
	assert.Equal(t, "bad (more)", verbose.FormatError(ValidationError("bad").WithDetails("more")))
	assert.Equal(t, "bad", h.FormatError(ValidationError("bad").WithDetails("more")))
}

func TestHTTPErrorHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	h := NewHTTPErrorHandler(log, true)

	rec := httptest.NewRecorder()
	h.WriteHTTPError(rec, InvalidInputError("missing file field").WithDetails("form"))
	assert.Equal(t, 400, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"INVALID_INPUT","message":"missing file field","details":"form"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.WriteHTTPError(rec, stderrors.New("disk full"))
	assert.Equal(t, 500, rec.Code)
}
