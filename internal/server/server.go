// Package server starts the local file server that backs a generated
// transfer command.
//
// One FileServer serves one file over one protocol until its context is
// cancelled. HTTP(S) and WebDAV(S) are served in process, FTP(S) through
// goftp, SMB by running impacket's smbserver.py and SCP only prints how to
// expose the file over the local SSH daemon.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

// Credentials of the SMB share. The SMB command templates embed the same values.
const (
	SMBShare    = "EXEGOL"
	SMBUser     = "uberfile"
	SMBPassword = "exegol4thewin"
)

// Anonymous FTP login used by the FTP command templates
const (
	FTPUser     = "anonymous"
	FTPPassword = "anonymous"
)

const shutdownTimeout = 5 * time.Second

// Config describes what to serve and where
type Config struct {
	Host      string
	Port      string
	Directory string
	InputFile string
	Protocol  models.Protocol
	Username  string
	Password  string
}

// Addr returns host:port
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) portNumber() (int, error) {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", c.Port)
	}
	return port, nil
}

// Options are the long-lived dependencies of a FileServer
type Options struct {
	Log   logrus.FieldLogger
	Certs *CertStore
	SMB   SMBOptions
	// Out receives operator instructions, such as the SCP setup steps
	Out io.Writer
}

// FileServer dispatches a Config to the protocol implementation
type FileServer struct {
	log   logrus.FieldLogger
	certs *CertStore
	smb   SMBOptions
	out   io.Writer
}

// New creates a file server
func New(opts Options) *FileServer {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &FileServer{
		log:   opts.Log.WithField("component", "server"),
		certs: opts.Certs,
		smb:   opts.SMB,
		out:   opts.Out,
	}
}

// Serve validates the input file and serves it until ctx is cancelled.
// Cancellation is a clean shutdown and returns nil.
func (s *FileServer) Serve(ctx context.Context, cfg Config) error {
	if _, err := ValidateFile(cfg.Directory, cfg.InputFile); err != nil {
		return err
	}
	if _, err := cfg.portNumber(); err != nil {
		return errors.ServerStartError(string(cfg.Protocol), err)
	}

	log := s.log.WithFields(logrus.Fields{
		"protocol": cfg.Protocol,
		"addr":     cfg.Addr(),
	})

	var err error
	switch cfg.Protocol {
	case models.ProtocolHTTP, models.ProtocolHTTPS:
		err = s.serveHTTP(ctx, cfg, log)
	case models.ProtocolFTP, models.ProtocolFTPS:
		err = s.serveFTP(ctx, cfg, log)
	case models.ProtocolSMB:
		err = s.serveSMB(ctx, cfg, log)
	case models.ProtocolSCP:
		err = s.serveSCP(cfg, log)
	case models.ProtocolWebDAV, models.ProtocolWebDAVS:
		err = s.serveWebDAV(ctx, cfg, log)
	default:
		return errors.UnsupportedProtocolError(string(cfg.Protocol))
	}
	if err == nil || errors.HasCode(err, errors.ErrCodeServerStart) {
		return err
	}
	return errors.ServerStartError(string(cfg.Protocol), err)
}

// tlsPair returns the certificate files for encrypted protocols
func (s *FileServer) tlsPair(ctx context.Context, protocol models.Protocol) (string, string, error) {
	if !protocol.Encrypted() {
		return "", "", nil
	}
	if s.certs == nil {
		return "", "", errors.InternalError("no certificate store configured")
	}
	cert, key, err := s.certs.Ensure(ctx)
	if err != nil {
		return "", "", errors.ServerStartError(string(protocol), err)
	}
	return cert, key, nil
}

// runHTTP serves handler on cfg's address, with TLS when certFile is set,
// until ctx is done.
func runHTTP(ctx context.Context, cfg Config, handler http.Handler, certFile, keyFile string, log logrus.FieldLogger) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return errors.ServerStartError(string(cfg.Protocol), err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if certFile != "" {
			errCh <- srv.ServeTLS(ln, certFile, keyFile)
			return
		}
		errCh <- srv.Serve(ln)
	}()
	log.Infof("%s server listening on %s", cfg.Protocol, ln.Addr())

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown did not complete")
		}
		return nil
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.ServerStartError(string(cfg.Protocol), err)
	}
}

// localHost maps wildcard listen addresses to loopback for local probes
func localHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	}
	return host
}
