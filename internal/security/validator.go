// Package security validates paths received from untrusted callers such as
// MCP clients before fcmp touches the filesystem.
package security

import (
	"path/filepath"
	"strings"

	"github.com/d-kuro/fcmp/internal/errors"
)

// Validator defines the path validation interface.
type Validator interface {
	ValidatePath(path string) error
	SanitizePath(path string) (string, error)
}

// DefaultValidator rejects relative paths and paths under blocked directories,
// and optionally restricts access to a set of allowed roots.
type DefaultValidator struct {
	allowedPaths []string
	blockedPaths []string
}

// NewDefaultValidator creates a new default validator with secure defaults.
// Pseudo filesystems are blocked since their files report arbitrary
// modification times and reading some of them never terminates.
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{
		allowedPaths: []string{},
		blockedPaths: []string{
			"/dev",
			"/proc",
			"/sys",
		},
	}
}

// WithAllowedPaths sets the allowed roots for file operations.
func (v *DefaultValidator) WithAllowedPaths(paths []string) *DefaultValidator {
	v.allowedPaths = make([]string, len(paths))
	for i, p := range paths {
		v.allowedPaths[i] = resolve(p)
	}
	return v
}

// WithBlockedPaths adds blocked paths to the default list.
func (v *DefaultValidator) WithBlockedPaths(paths []string) *DefaultValidator {
	for _, p := range paths {
		v.blockedPaths = append(v.blockedPaths, resolve(p))
	}
	return v
}

// ValidatePath validates and checks if a file path is allowed.
func (v *DefaultValidator) ValidatePath(path string) error {
	if path == "" {
		return errors.Validation("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return errors.Validation("path contains a NUL byte")
	}
	if !filepath.IsAbs(path) {
		return errors.Security("path must be absolute")
	}

	cleanPath := filepath.Clean(path)
	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		// Missing files are legitimate input; check the lexical path instead.
		resolvedPath = cleanPath
	}

	for _, blocked := range v.blockedPaths {
		if within(resolvedPath, blocked) || within(cleanPath, blocked) {
			return errors.SecurityWithDetails(
				"path is blocked",
				"path accesses restricted system directory",
			)
		}
	}

	if len(v.allowedPaths) > 0 {
		allowed := false
		for _, allowedPath := range v.allowedPaths {
			if within(resolvedPath, allowedPath) {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.SecurityWithDetails(
				"path not allowed",
				"path is not in allowed directories",
			)
		}
	}

	return nil
}

// SanitizePath cleans and validates a file path.
func (v *DefaultValidator) SanitizePath(path string) (string, error) {
	if err := v.ValidatePath(path); err != nil {
		return "", err
	}

	return filepath.Clean(path), nil
}

// resolve cleans p and follows symlinks when p exists.
func resolve(p string) string {
	clean := filepath.Clean(p)
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		return resolved
	}
	return clean
}

// within reports whether path equals root or lies beneath it.
func within(path, root string) bool {
	if path == root || root == string(filepath.Separator) {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
