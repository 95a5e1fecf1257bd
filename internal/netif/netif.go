// Package netif lists the local IPv4 addresses the server can be reached on.
package netif

import (
	"fmt"
	"net"
	"sort"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// Interface is a named interface with its first IPv4 address
type Interface struct {
	Name    string
	Address string
}

func (i Interface) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Address)
}

// Source yields the raw interface table
type Source func() (psnet.InterfaceStatList, error)

// IPv4 returns every non-loopback interface that has an IPv4 address,
// sorted by name. Only the first IPv4 address of an interface is kept.
func IPv4() ([]Interface, error) {
	return IPv4From(psnet.Interfaces)
}

// IPv4From is IPv4 over an explicit interface table
func IPv4From(source Source) ([]Interface, error) {
	stats, err := source()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var out []Interface
	for _, stat := range stats {
		if stat.Name == "lo" || hasFlag(stat.Flags, "loopback") {
			continue
		}
		if addr := firstIPv4(stat.Addrs); addr != "" {
			out = append(out, Interface{Name: stat.Name, Address: addr})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func firstIPv4(addrs psnet.InterfaceAddrList) string {
	for _, a := range addrs {
		ip, _, err := net.ParseCIDR(a.Addr)
		if err != nil {
			ip = net.ParseIP(a.Addr)
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
