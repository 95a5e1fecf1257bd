package server

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/webdav"
)

func (s *FileServer) serveWebDAV(ctx context.Context, cfg Config, log logrus.FieldLogger) error {
	certFile, keyFile, err := s.tlsPair(ctx, cfg.Protocol)
	if err != nil {
		return err
	}
	log.Infof("Share: %s://%s/ (net use * http://%s/)", cfg.Protocol.Scheme(), cfg.Addr(), cfg.Addr())
	return runHTTP(ctx, cfg, NewWebDAVHandler(cfg.Directory, log), certFile, keyFile, log)
}

// NewWebDAVHandler exposes dir as a WebDAV share with in-memory locks
func NewWebDAVHandler(dir string, log logrus.FieldLogger) http.Handler {
	return &webdav.Handler{
		FileSystem: webdav.Dir(dir),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			entry := log.WithField("remote", r.RemoteAddr)
			if err != nil {
				entry.WithError(err).Warnf("%s %s", r.Method, r.URL.Path)
				return
			}
			entry.Infof("%s %s", r.Method, r.URL.Path)
		},
	}
}
