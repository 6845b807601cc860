package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// realTempDir returns a temp dir with symlinks already resolved
func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestGuard_AllowAll(t *testing.T) {
	g := NewGuard([]string{"*"})

	assert.True(t, g.IsPathAllowed("/etc"))
	assert.Equal(t, []string{"/"}, g.GetAllowedPaths())
}

func TestGuard_EmptyListAllowsAll(t *testing.T) {
	g := NewGuard(nil)
	assert.True(t, g.IsPathAllowed("/anything"))
}

func TestGuard_Restricted(t *testing.T) {
	base := realTempDir(t)
	g := NewGuard([]string{base})

	assert.True(t, g.IsPathAllowed(base))
	assert.True(t, g.IsPathAllowed(filepath.Join(base, "photos", "2024")))
	assert.False(t, g.IsPathAllowed(base+"-sibling"))
	assert.False(t, g.IsPathAllowed(filepath.Join(base, "..", "escape")))
}

func TestGuard_Resolve(t *testing.T) {
	base := realTempDir(t)
	g := NewGuard([]string{base})

	abs, err := g.Resolve(filepath.Join(base, "a", "..", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "b"), abs)

	_, err = g.Resolve("/definitely/not/allowed")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = g.Resolve("  ")
	assert.Error(t, err)
}

func TestGuard_SymlinkEscape(t *testing.T) {
	base := realTempDir(t)
	allowed := filepath.Join(base, "allowed")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(allowed, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(outside, "secrets"), 0755))
	require.NoError(t, os.Symlink(outside, filepath.Join(allowed, "link")))

	g := NewGuard([]string{allowed})

	assert.False(t, g.IsPathAllowed(filepath.Join(allowed, "link")))
	assert.False(t, g.IsPathAllowed(filepath.Join(allowed, "link", "secrets")))
	assert.False(t, g.IsPathAllowed(filepath.Join(allowed, "link", "not-created-yet")))

	_, err := g.Resolve(filepath.Join(allowed, "link", "secrets"))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGuard_SymlinkInsideAllowed(t *testing.T) {
	base := realTempDir(t)
	target := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(base, "alias")))

	g := NewGuard([]string{base})

	assert.True(t, g.IsPathAllowed(filepath.Join(base, "alias")))
	assert.True(t, g.IsPathAllowed(filepath.Join(base, "alias", "new", "dir")))
}

func TestGuard_SymlinkedAllowedRoot(t *testing.T) {
	base := realTempDir(t)
	physical := filepath.Join(base, "real")
	require.NoError(t, os.MkdirAll(physical, 0755))
	require.NoError(t, os.Symlink(physical, filepath.Join(base, "via")))

	g := NewGuard([]string{filepath.Join(base, "via")})

	assert.True(t, g.IsPathAllowed(filepath.Join(physical, "x")))
	assert.True(t, g.IsPathAllowed(filepath.Join(base, "via", "x")))
	assert.False(t, g.IsPathAllowed(base))
}
