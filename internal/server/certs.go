package server

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/projectdiscovery/sslcert"
	"github.com/sirupsen/logrus"

	"github.com/dpshade/uberfile/internal/config"
	"github.com/dpshade/uberfile/internal/errors"
)

// CertStore caches a self-signed certificate pair on disk.
//
// Concurrent runs may both find the pair missing and both generate it; the
// last writer wins, which leaves a valid pair either way.
type CertStore struct {
	CertFile   string
	KeyFile    string
	CommonName string
	Days       int
	Bits       int

	log logrus.FieldLogger
	// openssl is looked up on PATH when empty
	openssl string
}

// NewCertStore creates a store from the TLS configuration
func NewCertStore(cfg config.TLSConfig, log logrus.FieldLogger) *CertStore {
	return &CertStore{
		CertFile:   cfg.CertFile,
		KeyFile:    cfg.KeyFile,
		CommonName: cfg.CommonName,
		Days:       cfg.Days,
		Bits:       cfg.Bits,
		log:        log.WithField("component", "certs"),
	}
}

// Ensure returns the certificate and key paths, generating the pair when
// either file is missing. openssl is used when installed, otherwise the
// pair is generated in process.
func (c *CertStore) Ensure(ctx context.Context) (string, string, error) {
	if fileExists(c.CertFile) && fileExists(c.KeyFile) {
		return c.CertFile, c.KeyFile, nil
	}
	for _, p := range []string{c.CertFile, c.KeyFile} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return "", "", errors.CertificateGenerationError(err)
		}
	}

	openssl := c.openssl
	if openssl == "" {
		openssl, _ = exec.LookPath("openssl")
	}

	if openssl != "" {
		c.log.Infof("Generating self-signed certificate with %s", openssl)
		if err := c.generateOpenSSL(ctx, openssl); err != nil {
			return "", "", errors.CertificateGenerationError(err)
		}
	} else {
		c.log.Info("openssl not found, generating self-signed certificate in process")
		if err := c.generateInProcess(); err != nil {
			return "", "", errors.CertificateGenerationError(err)
		}
	}
	c.log.Infof("Certificate written to %s", c.CertFile)
	return c.CertFile, c.KeyFile, nil
}

func (c *CertStore) generateOpenSSL(ctx context.Context, openssl string) error {
	_, err := runBuffered(ctx, openssl,
		"req", "-x509",
		"-newkey", "rsa:"+strconv.Itoa(c.Bits),
		"-keyout", c.KeyFile,
		"-out", c.CertFile,
		"-days", strconv.Itoa(c.Days),
		"-nodes",
		"-subj", "/CN="+c.CommonName,
	)
	return err
}

func (c *CertStore) generateInProcess() error {
	opts := sslcert.DefaultOptions
	opts.Host = c.CommonName
	tlsConfig, err := sslcert.NewTLSConfig(opts)
	if err != nil {
		return err
	}
	if len(tlsConfig.Certificates) == 0 || len(tlsConfig.Certificates[0].Certificate) == 0 {
		return fmt.Errorf("no certificate generated")
	}
	pair := tlsConfig.Certificates[0]

	keyDER, err := x509.MarshalPKCS8PrivateKey(pair.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to encode private key: %w", err)
	}
	if err := writePEM(c.KeyFile, "PRIVATE KEY", keyDER, 0o600); err != nil {
		return err
	}
	return writePEM(c.CertFile, "CERTIFICATE", pair.Certificate[0], 0o644)
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
