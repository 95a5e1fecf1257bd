package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stacktitan/smb/smb"

	"github.com/dpshade/uberfile/internal/config"
	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

// probeDelay leaves smbserver.py time to bind before the login probe
var probeDelay = 2 * time.Second

// SMBOptions locate impacket's smbserver and how to install it
type SMBOptions struct {
	ServerPaths    []string
	InstallCommand []string
	// Probe runs the post-start login check, nil disables it
	Probe func(host string, port int, user, password string) (bool, error)
}

// NewSMBOptions builds the SMB options from configuration
func NewSMBOptions(cfg config.SMBConfig) SMBOptions {
	return SMBOptions{
		ServerPaths:    cfg.ServerPaths,
		InstallCommand: cfg.InstallCommand,
		Probe:          ProbeSMBLogin,
	}
}

func (s *FileServer) serveSMB(ctx context.Context, cfg Config, log logrus.FieldLogger) error {
	port, err := cfg.portNumber()
	if err != nil {
		return errors.ServerStartError(string(models.ProtocolSMB), err)
	}

	bin, err := s.locateSMBServer(ctx, log)
	if err != nil {
		return errors.ServerStartError(string(models.ProtocolSMB), err)
	}

	args := []string{
		"-smb2support",
		"-username", SMBUser,
		"-password", SMBPassword,
		"-ip", cfg.Host,
		"-port", cfg.Port,
		SMBShare, cfg.Directory,
	}
	log.Infof("Starting %s %s", bin, strings.Join(args, " "))
	log.Infof("Share \\\\%s\\%s, login %s/%s", cfg.Host, SMBShare, SMBUser, SMBPassword)

	if s.smb.Probe != nil {
		go s.probeSMB(ctx, localHost(cfg.Host), port, log)
	}

	if err := runStreaming(ctx, log.WithField("process", filepath.Base(bin)), bin, args...); err != nil {
		return errors.ServerStartError(string(models.ProtocolSMB), err)
	}
	return nil
}

// locateSMBServer finds smbserver, installing impacket once when it is missing
func (s *FileServer) locateSMBServer(ctx context.Context, log logrus.FieldLogger) (string, error) {
	if bin := findExecutable(s.smb.ServerPaths); bin != "" {
		return bin, nil
	}
	if len(s.smb.InstallCommand) == 0 {
		return "", fmt.Errorf("smbserver.py not found and no install command configured")
	}

	log.Warnf("smbserver.py not found, running: %s", strings.Join(s.smb.InstallCommand, " "))
	output, err := runBuffered(ctx, s.smb.InstallCommand[0], s.smb.InstallCommand[1:]...)
	for _, line := range output {
		log.Debug(line)
	}
	if err != nil {
		return "", fmt.Errorf("failed to install impacket: %w", err)
	}

	if bin := findExecutable(s.smb.ServerPaths); bin != "" {
		return bin, nil
	}
	return "", fmt.Errorf("smbserver.py still not found after installing impacket")
}

func (s *FileServer) probeSMB(ctx context.Context, host string, port int, log logrus.FieldLogger) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(probeDelay):
	}

	ok, err := s.smb.Probe(host, port, SMBUser, SMBPassword)
	switch {
	case err != nil:
		log.WithError(err).Warn("SMB login probe failed")
	case !ok:
		log.Warnf("SMB share rejected %s/%s", SMBUser, SMBPassword)
	default:
		log.Infof("SMB share accepts %s/%s", SMBUser, SMBPassword)
	}
}

// ProbeSMBLogin performs a single SMB login and reports whether it succeeded
func ProbeSMBLogin(host string, port int, user, password string) (bool, error) {
	session, err := smb.NewSession(smb.Options{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}, false)
	if err != nil {
		return false, err
	}
	defer session.Close()
	return session.IsAuthenticated, nil
}

// findExecutable returns the first candidate that exists, absolute paths
// checked directly and bare names looked up on PATH
func findExecutable(candidates []string) string {
	for _, c := range candidates {
		if filepath.IsAbs(c) {
			if info, err := os.Stat(c); err == nil && !info.IsDir() {
				return c
			}
			continue
		}
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}
