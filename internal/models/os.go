package models

import (
	"fmt"
	"strings"
)

// OperatingSystem is the target machine's operating system
type OperatingSystem string

const (
	Windows OperatingSystem = "windows"
	Linux   OperatingSystem = "linux"
)

// OperatingSystems lists the supported targets in menu order
var OperatingSystems = []OperatingSystem{Windows, Linux}

// ParseOperatingSystem converts user input into an OperatingSystem
func ParseOperatingSystem(s string) (OperatingSystem, error) {
	os := OperatingSystem(strings.ToLower(strings.TrimSpace(s)))
	if !os.Valid() {
		return "", fmt.Errorf("invalid operating system %q", s)
	}
	return os, nil
}

// Valid reports whether os is one of the supported targets
func (os OperatingSystem) Valid() bool {
	return os == Windows || os == Linux
}

// Title returns the capitalised name used in listings
func (os OperatingSystem) Title() string {
	switch os {
	case Windows:
		return "Windows"
	case Linux:
		return "Linux"
	default:
		return string(os)
	}
}

// TempPath returns the conventional temp location of name on the target
func (os OperatingSystem) TempPath(name string) string {
	if os == Windows {
		return `C:\Windows\Temp\` + name
	}
	return "/tmp/" + name
}
