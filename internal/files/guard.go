// Package files restricts which filesystem locations remote callers may touch.
package files

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrAccessDenied is returned for paths outside the allowed list
var ErrAccessDenied = errors.New("access denied: path not in allowed list")

// Guard checks paths against a list of allowed roots
type Guard struct {
	allowedPaths []string
	allowAll     bool
}

// NewGuard creates a guard. A "*" entry or an empty list allows every path.
func NewGuard(allowedPaths []string) *Guard {
	allowAll := len(allowedPaths) == 0
	cleaned := make([]string, 0, len(allowedPaths))
	for _, p := range allowedPaths {
		if p == "*" {
			allowAll = true
			break
		}
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		cleaned = append(cleaned, realPath(abs))
	}

	return &Guard{
		allowedPaths: cleaned,
		allowAll:     allowAll,
	}
}

// GetAllowedPaths returns the list of allowed paths for clients
func (g *Guard) GetAllowedPaths() []string {
	if g.allowAll {
		return []string{"/"}
	}
	return g.allowedPaths
}

// IsPathAllowed checks if a path is within allowed directories
func (g *Guard) IsPathAllowed(path string) bool {
	if g.allowAll {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	// Compare physical locations so a symlink cannot lead outside an allowed root
	absPath = realPath(absPath)

	for _, allowed := range g.allowedPaths {
		if absPath == allowed || strings.HasPrefix(absPath, allowed+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// Resolve returns the absolute form of path, or ErrAccessDenied
func (g *Guard) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !g.IsPathAllowed(absPath) {
		return "", ErrAccessDenied
	}
	return absPath, nil
}

// realPath resolves symlinks in an absolute path. Components that do not exist yet,
// such as an output directory about to be created, are kept as written below the
// deepest existing ancestor.
func realPath(absPath string) string {
	absPath = filepath.Clean(absPath)

	var rest []string
	current := absPath
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return absPath
		}
		rest = append([]string{filepath.Base(current)}, rest...)
		current = parent
	}
}
