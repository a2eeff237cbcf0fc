package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())

	ref, err := store.Save("games", "game", "cover.PNG", []byte("fake image bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/uploads/games/game-"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	require.NoError(t, store.Delete(ref))
	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ref))
}

func TestFileStore_SaveUniqueNames(t *testing.T) {
	store := NewFileStore(t.TempDir())

	a, err := store.Save("fanart", "fanart", "reza.jpg", []byte("one"))
	require.NoError(t, err)
	b, err := store.Save("fanart", "fanart", "reza.jpg", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFileStore_DeleteRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	store := NewFileStore(base)

	outside := filepath.Join(filepath.Dir(base), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	err := store.Delete("/uploads/../" + filepath.Base(outside))
	assert.Error(t, err)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}

func TestFileStore_DeleteRejectsForeignPaths(t *testing.T) {
	store := NewFileStore(t.TempDir())
	assert.Error(t, store.Delete("/etc/passwd"))
}

func TestAllowedExtension(t *testing.T) {
	assert.True(t, AllowedExtension("art.JPG", "jpeg", "jpg", "png", "gif"))
	assert.True(t, AllowedExtension("art.webp", ".webp"))
	assert.False(t, AllowedExtension("art.svg", "jpeg", "jpg", "png", "gif"))
	assert.False(t, AllowedExtension("noext", "png"))
}
