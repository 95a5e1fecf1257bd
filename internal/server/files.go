package server

import (
	"os"
	"path/filepath"

	"github.com/dpshade/uberfile/internal/errors"
)

// ResolvePath joins a relative name with dir. Absolute names are kept.
func ResolvePath(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// ValidateFile checks that name (relative to dir) is an existing, regular,
// readable file and returns its resolved path.
func ValidateFile(dir, name string) (string, error) {
	path := ResolvePath(dir, name)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.FileValidationError("File not found", path)
		}
		return "", errors.FileValidationError("File not readable", path)
	}
	if !info.Mode().IsRegular() {
		return "", errors.FileValidationError("Not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.FileValidationError("File not readable", path)
	}
	f.Close()
	return path, nil
}
