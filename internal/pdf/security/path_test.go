package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("/non/existent/path")
	require.NoError(t, err, "directories that do not exist yet are allowed")
	assert.Equal(t, "/non/existent/path", v.GetConfiguredDirectory())

	v, err = NewPathValidator("rolls")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.GetConfiguredDirectory()))
}

func TestPathValidator_IsPathWithinDirectory(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root itself", root, true},
		{"file in root", filepath.Join(root, "a.pdf"), true},
		{"nested file", filepath.Join(root, "sub", "b.pdf"), true},
		{"parent", filepath.Dir(root), false},
		{"sibling directory", outside, false},
		{"traversal", filepath.Join(root, "..", filepath.Base(outside), "x.pdf"), false},
		{"prefix lookalike", root + "-other/a.pdf", false},
		{"dotdot-named file", filepath.Join(root, "..a.pdf"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.IsPathWithinDirectory(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(secret, []byte("%PDF"), 0o644))

	escape := filepath.Join(root, "escape.pdf")
	if err := os.Symlink(secret, escape); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	within, err := v.IsPathWithinDirectory(escape)
	require.NoError(t, err)
	assert.False(t, within, "a link pointing outside the root is rejected")

	linkedRoot := filepath.Join(outside, "rolls")
	require.NoError(t, os.Symlink(root, linkedRoot))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pdf"), []byte("%PDF"), 0o644))

	v, err = NewPathValidator(linkedRoot)
	require.NoError(t, err)
	within, err = v.IsPathWithinDirectory(filepath.Join(linkedRoot, "a.pdf"))
	require.NoError(t, err)
	assert.True(t, within, "a symlinked root accepts its own files")
}

func TestPathValidator_NormalizePath(t *testing.T) {
	root := t.TempDir()
	v, err := NewPathValidator(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "a.pdf", filepath.Join(root, "a.pdf"), false},
		{"relative nested", "sub/../b.pdf", filepath.Join(root, "b.pdf"), false},
		{"absolute inside", filepath.Join(root, "c.pdf"), filepath.Join(root, "c.pdf"), false},
		{"relative escape", "../x.pdf", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"empty", "", "", true},
		{"nul byte", "a\x00.pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.NormalizePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	root := t.TempDir()
	v, err := NewPathValidator(root)
	require.NoError(t, err)

	assert.NoError(t, v.ValidatePath(filepath.Join(root, "a.pdf")))

	err = v.ValidatePath("/etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside configured directory")
}
