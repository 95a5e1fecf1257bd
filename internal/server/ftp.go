package server

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	ftpserver "goftp.io/server/v2"
	"goftp.io/server/v2/driver/file"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

func (s *FileServer) serveFTP(ctx context.Context, cfg Config, log logrus.FieldLogger) error {
	port, err := cfg.portNumber()
	if err != nil {
		return errors.ServerStartError(string(cfg.Protocol), err)
	}
	certFile, keyFile, err := s.tlsPair(ctx, cfg.Protocol)
	if err != nil {
		return err
	}

	files, err := file.NewDriver(cfg.Directory)
	if err != nil {
		return errors.ServerStartError(string(cfg.Protocol), err)
	}

	user, password := cfg.Username, cfg.Password
	if user == "" {
		user, password = FTPUser, FTPPassword
	}

	srv, err := ftpserver.NewServer(&ftpserver.Options{
		Name:           "uberfile",
		Driver:         readOnlyDriver{files},
		Hostname:       cfg.Host,
		Port:           port,
		Auth:           ftpAuth{user: user, password: password},
		Perm:           ftpserver.NewSimplePerm("root", "root"),
		Logger:         &ftpLogger{log: log},
		WelcomeMessage: "uberfile",
		TLS:            cfg.Protocol == models.ProtocolFTPS,
		ExplicitFTPS:   cfg.Protocol == models.ProtocolFTPS,
		CertFile:       certFile,
		KeyFile:        keyFile,
	})
	if err != nil {
		return errors.ServerStartError(string(cfg.Protocol), err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infof("%s server starting on %s, login %s/%s", cfg.Protocol, cfg.Addr(), user, password)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.WithError(err).Warn("shutdown did not complete")
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err == nil || stderrors.Is(err, ftpserver.ErrServerClosed) {
			return nil
		}
		return errors.ServerStartError(string(cfg.Protocol), err)
	}
}

// readOnlyDriver serves downloads and listings only
type readOnlyDriver struct {
	ftpserver.Driver
}

var errReadOnly = fmt.Errorf("read-only server: %w", os.ErrPermission)

func (readOnlyDriver) DeleteDir(*ftpserver.Context, string) error { return errReadOnly }

func (readOnlyDriver) DeleteFile(*ftpserver.Context, string) error { return errReadOnly }

func (readOnlyDriver) Rename(*ftpserver.Context, string, string) error { return errReadOnly }

func (readOnlyDriver) MakeDir(*ftpserver.Context, string) error { return errReadOnly }

func (readOnlyDriver) PutFile(*ftpserver.Context, string, io.Reader, int64) (int64, error) {
	return 0, errReadOnly
}

// ftpAuth checks the configured login. The anonymous user is let in with
// any password.
type ftpAuth struct {
	user     string
	password string
}

func (a ftpAuth) CheckPasswd(_ *ftpserver.Context, name, pass string) (bool, error) {
	if !constantTimeEquals(name, a.user) {
		return false, nil
	}
	return a.user == FTPUser || constantTimeEquals(pass, a.password), nil
}

func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ftpLogger forwards goftp's session log to logrus
type ftpLogger struct {
	log logrus.FieldLogger
}

func (l *ftpLogger) session(sessionID string) logrus.FieldLogger {
	if sessionID == "" {
		return l.log
	}
	return l.log.WithField("session", sessionID)
}

func (l *ftpLogger) Print(sessionID string, message interface{}) {
	l.session(sessionID).Info(fmt.Sprint(message))
}

func (l *ftpLogger) Printf(sessionID string, format string, v ...interface{}) {
	l.session(sessionID).Infof(format, v...)
}

func (l *ftpLogger) PrintCommand(sessionID string, command string, params string) {
	if command == "PASS" {
		params = "****"
	}
	l.session(sessionID).Debugf("> %s %s", command, params)
}

func (l *ftpLogger) PrintResponse(sessionID string, code int, message string) {
	l.session(sessionID).Debugf("< %d %s", code, message)
}
