package models

import (
	"fmt"
	"strings"
)

// Protocol identifies a transfer protocol
type Protocol string

const (
	ProtocolHTTP    Protocol = "HTTP"
	ProtocolHTTPS   Protocol = "HTTPS"
	ProtocolFTP     Protocol = "FTP"
	ProtocolFTPS    Protocol = "FTPS"
	ProtocolSMB     Protocol = "SMB"
	ProtocolSCP     Protocol = "SCP"
	ProtocolWebDAV  Protocol = "WEBDAV"
	ProtocolWebDAVS Protocol = "WEBDAVS"
)

// AllProtocols lists every protocol the file server can serve, in menu order
var AllProtocols = []Protocol{
	ProtocolHTTP,
	ProtocolHTTPS,
	ProtocolFTP,
	ProtocolFTPS,
	ProtocolSMB,
	ProtocolSCP,
	ProtocolWebDAV,
	ProtocolWebDAVS,
}

// TemplateProtocols lists the protocols command templates can be tagged with
var TemplateProtocols = []Protocol{
	ProtocolHTTP,
	ProtocolHTTPS,
	ProtocolFTP,
	ProtocolSMB,
	ProtocolSCP,
}

var defaultPorts = map[Protocol]string{
	ProtocolHTTP:    "80",
	ProtocolHTTPS:   "443",
	ProtocolFTP:     "21",
	ProtocolFTPS:    "21",
	ProtocolSMB:     "445",
	ProtocolSCP:     "22",
	ProtocolWebDAV:  "80",
	ProtocolWebDAVS: "443",
}

// ParseProtocol converts user input into a Protocol, ignoring case
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(strings.ToUpper(strings.TrimSpace(s)))
	if p.index() < 0 {
		return "", fmt.Errorf("unknown protocol %q", s)
	}
	return p, nil
}

// String satisfies fmt.Stringer
func (p Protocol) String() string {
	return string(p)
}

// Scheme returns the lower-cased protocol name used for {PROTO}
func (p Protocol) Scheme() string {
	return strings.ToLower(string(p))
}

// DefaultPort returns the conventional port for the protocol, or "80"
func (p Protocol) DefaultPort() string {
	if port, ok := defaultPorts[p]; ok {
		return port
	}
	return "80"
}

// Encrypted reports whether serving this protocol needs a certificate
func (p Protocol) Encrypted() bool {
	return p == ProtocolHTTPS || p == ProtocolFTPS || p == ProtocolWebDAVS
}

// Templated reports whether command templates can be tagged with p
func (p Protocol) Templated() bool {
	for _, tp := range TemplateProtocols {
		if tp == p {
			return true
		}
	}
	return false
}

func (p Protocol) index() int {
	for i, known := range AllProtocols {
		if known == p {
			return i
		}
	}
	return -1
}

// ProtocolSet is a set of protocols backed by a bitmask over AllProtocols
type ProtocolSet uint16

// NewProtocolSet builds a set from the given protocols. Unknown values are ignored.
func NewProtocolSet(protocols ...Protocol) ProtocolSet {
	var s ProtocolSet
	for _, p := range protocols {
		if i := p.index(); i >= 0 {
			s |= 1 << uint(i)
		}
	}
	return s
}

// Has reports whether p is a member of the set
func (s ProtocolSet) Has(p Protocol) bool {
	i := p.index()
	return i >= 0 && s&(1<<uint(i)) != 0
}

// Len returns the number of members
func (s ProtocolSet) Len() int {
	n := 0
	for i := range AllProtocols {
		if s&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

// List returns the members in AllProtocols order
func (s ProtocolSet) List() []Protocol {
	var out []Protocol
	for i, p := range AllProtocols {
		if s&(1<<uint(i)) != 0 {
			out = append(out, p)
		}
	}
	return out
}

// String renders the set as a comma separated list
func (s ProtocolSet) String() string {
	names := make([]string, 0, s.Len())
	for _, p := range s.List() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
