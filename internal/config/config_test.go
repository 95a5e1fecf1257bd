package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l, err := NewLoader("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "uberfile", "config.yaml"), l.Path())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(home, ".config", "uberfile", "cert.pem"), cfg.TLS.CertFile)
	assert.Equal(t, filepath.Join(home, ".config", "uberfile", "key.pem"), cfg.TLS.KeyFile)
	assert.Equal(t, 365, cfg.TLS.Days)
	assert.Equal(t, 4096, cfg.TLS.Bits)
	assert.Equal(t, "uberfile", cfg.TLS.CommonName)
	assert.Contains(t, cfg.SMB.ServerPaths, "smbserver.py")
	assert.Equal(t, []string{"pip", "install", "impacket"}, cfg.SMB.InstallCommand)
	assert.Equal(t, []string{"/opt/resources", "/opt/my-resources"}, cfg.ResourceDirs)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "uberfile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
tls:
  days: 30
resource_dirs:
  - /srv/tools
`), 0o644))
	t.Setenv("UBERFILE_TLS_COMMON_NAME", "files.lab")

	l, err := NewLoader(path)
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30, cfg.TLS.Days)
	assert.Equal(t, "files.lab", cfg.TLS.CommonName)
	assert.Equal(t, []string{"/srv/tools"}, cfg.ResourceDirs)
	assert.Equal(t, 4096, cfg.TLS.Bits)
}

func TestBindFlagOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "trace"}))

	l, err := NewLoader(path)
	require.NoError(t, err)
	require.NoError(t, l.BindFlag("log.level", flags.Lookup("log-level")))
	assert.Error(t, l.BindFlag("log.file", flags.Lookup("missing")))

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tls:\n  bits: 512\n"), 0o644))

	l, err := NewLoader(path)
	require.NoError(t, err)
	_, err = l.Load()
	assert.ErrorContains(t, err, "tls.bits")

	require.NoError(t, os.WriteFile(path, []byte("tls: [broken"), 0o644))
	_, err = l.Load()
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l, err := NewLoader("")
	require.NoError(t, err)
	require.NoError(t, l.WriteDefault(false))
	assert.FileExists(t, l.Path())
	assert.Error(t, l.WriteDefault(false))
	require.NoError(t, l.WriteDefault(true))

	reloaded, err := NewLoader(l.Path())
	require.NoError(t, err)
	cfg, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(filepath.Join(home, ".config", "uberfile")), cfg)
}
