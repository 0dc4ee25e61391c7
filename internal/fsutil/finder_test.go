package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/meshplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := testutil.WriteFiles(t, map[string]string{
		"a.hcl":        "",
		"nested/b.hcl": "",
		"nested/c.yml": "",
		"d.yaml":       "",
		"notes.txt":    "",
	})

	// Act
	hcl, err := FindFiles([]string{dir, filepath.Join(dir, "a.hcl"), filepath.Join(dir, "missing")}, ".hcl")
	require.NoError(t, err)
	yml, err := FindFiles([]string{dir}, ".yaml", ".yml")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "nested", "b.hcl")}, hcl)
	assert.Equal(t, []string{filepath.Join(dir, "d.yaml"), filepath.Join(dir, "nested", "c.yml")}, yml)
}

func TestFindFilesByExtension_PanicsWithoutExtension(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir()) })
}
