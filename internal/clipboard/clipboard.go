package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ClipboardError represents an error when no clipboard backend could take the text
type ClipboardError struct {
	OS      string
	Message string
	Cause   error
}

func (e *ClipboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (last error: %v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClipboardError) Unwrap() error {
	return e.Cause
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError(cause error) *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard backend worked. " + GetInstallInstructions(),
		Cause:   cause,
	}
}

// Backend is one way of putting text on a clipboard
type Backend interface {
	Name() string
	Available() bool
	Copy(text string) error
}

// Clipboard tries its backends in order until one accepts the text
type Clipboard struct {
	backends []Backend
}

// New returns the default chain: the native clipboard, command line
// utilities, then an OSC 52 escape sequence written to terminal (when
// terminal is not nil).
func New(terminal io.Writer) *Clipboard {
	backends := []Backend{systemBackend{}, execBackend{}}
	if terminal != nil {
		backends = append(backends, osc52Backend{out: terminal})
	}
	return NewWithBackends(backends...)
}

// NewWithBackends builds a clipboard over an explicit backend chain
func NewWithBackends(backends ...Backend) *Clipboard {
	return &Clipboard{backends: backends}
}

// Copy puts text on the clipboard and returns the name of the backend used
func (c *Clipboard) Copy(text string) (string, error) {
	var lastErr error
	for _, b := range c.backends {
		if !b.Available() {
			continue
		}
		if err := b.Copy(text); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", b.Name(), err)
			continue
		}
		return b.Name(), nil
	}
	return "", NewClipboardError(lastErr)
}

// CopyWithFallback attempts to copy to clipboard and returns a message
func (c *Clipboard) CopyWithFallback(text string) (string, error) {
	backend, err := c.Copy(text)
	if err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return fmt.Sprintf("Copied to clipboard! (%s)", backend), nil
}

// IsClipboardAvailable checks if any backend could be used
func (c *Clipboard) IsClipboardAvailable() bool {
	for _, b := range c.backends {
		if b.Available() {
			return true
		}
	}
	return false
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}

type systemBackend struct{}

func (systemBackend) Name() string { return "system" }

func (systemBackend) Available() bool { return !clipboard.Unsupported }

func (systemBackend) Copy(text string) error { return clipboard.WriteAll(text) }

// execBackend covers utilities the native backend does not know about,
// such as clip.exe under WSL.
type execBackend struct{}

var utilities = [][]string{
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"wl-copy"},
	{"clip.exe"},
	{"pbcopy"},
}

func (execBackend) Name() string { return "exec" }

func (execBackend) Available() bool {
	for _, u := range utilities {
		if isCommandAvailable(u[0]) {
			return true
		}
	}
	return false
}

func (execBackend) Copy(text string) error {
	var lastErr error
	for _, u := range utilities {
		if !isCommandAvailable(u[0]) {
			continue
		}
		cmd := exec.Command(u[0], u[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", u[0], err)
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no clipboard utility on PATH")
	}
	return lastErr
}

// osc52Backend asks the terminal emulator to set the clipboard. It works
// over SSH but cannot confirm the terminal honoured the request.
type osc52Backend struct {
	out io.Writer
}

func (osc52Backend) Name() string { return "osc52" }

func (b osc52Backend) Available() bool { return b.out != nil }

func (b osc52Backend) Copy(text string) error {
	_, err := osc52.New(text).WriteTo(b.out)
	return err
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
