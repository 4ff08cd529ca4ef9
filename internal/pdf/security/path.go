// Package security confines the paths accepted by the tool server to one
// directory tree.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks that paths stay inside a configured directory
type PathValidator struct {
	configuredDirectory string
	resolvedDirectory   string
}

// NewPathValidator creates a validator rooted at dir. The directory does not
// need to exist yet.
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	return &PathValidator{
		configuredDirectory: abs,
		resolvedDirectory:   resolve(abs),
	}, nil
}

// GetConfiguredDirectory returns the absolute configured directory
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// NormalizePath returns the absolute form of path. Relative paths are taken
// from the configured directory. NUL bytes are rejected.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains a NUL byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	path = filepath.Clean(path)

	if err := v.ValidatePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// ValidatePath fails when path, after symlinks are followed, lies outside
// the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	within, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// IsPathWithinDirectory reports whether path is the configured directory or
// lies below it. Both the literal path and its symlink target must qualify.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	literal := within(v.configuredDirectory, abs) || within(v.resolvedDirectory, abs)
	resolved := resolve(abs)
	followed := within(v.configuredDirectory, resolved) || within(v.resolvedDirectory, resolved)
	return literal && followed, nil
}

// resolve follows symlinks when the path exists
func resolve(path string) string {
	if _, err := os.Lstat(path); err != nil {
		return path
	}
	if target, err := filepath.EvalSymlinks(path); err == nil {
		return target
	}
	return path
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
