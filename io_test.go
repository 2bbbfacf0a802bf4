// FILE: lixenwraith/preferences/io_test.go
package preferences

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAtomicWrite tests atomic document saving
func TestAtomicWrite(t *testing.T) {
	t.Run("ReplacesContent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := "/cfg/preferences.toml"

		require.NoError(t, atomicWriteFile(fs, path, []byte("mute = true\n")))
		require.NoError(t, atomicWriteFile(fs, path, []byte("mute = false\n")))

		content, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, "mute = false\n", string(content))

		entries, err := afero.ReadDir(fs, "/cfg")
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files must not remain")
	})

	t.Run("CreatesDirectory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "new", "dir", "bookmarks.toml")

		require.NoError(t, atomicWriteFile(afero.NewOsFs(), path, []byte("")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("ReadOnly", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		assert.Error(t, atomicWriteFile(fs, "/cfg/preferences.toml", []byte("x")))
	})
}

// TestReadDocumentFile tests reading document text
func TestReadDocumentFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, found, err := readDocumentFile(fs, "/cfg/missing.toml")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, afero.WriteFile(fs, "/cfg/ok.toml", []byte("volume = 0.5"), 0644))
	text, found, err := readDocumentFile(fs, "/cfg/ok.toml")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "volume = 0.5", text)

	require.NoError(t, afero.WriteFile(fs, "/cfg/binary.toml", []byte{0xc3, 0x28}, 0644))
	_, _, err = readDocumentFile(fs, "/cfg/binary.toml")
	assert.ErrorIs(t, err, ErrReadDocument)
}
