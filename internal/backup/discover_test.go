package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates root/rel with data, making parent directories.
func touch(t *testing.T, root, rel, data string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"JPG", ".png", " gif ", "", "..heic"})
	assert.Equal(t, map[string]bool{".jpg": true, ".png": true, ".gif": true, ".heic": true}, got)
	assert.Empty(t, NormalizeExtensions(nil))
}

func TestDiscover_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b/IMG_2.jpg", "x")
	touch(t, root, "a/UPPER.JPG", "x")
	touch(t, root, "a/scan.Png", "x")
	touch(t, root, "a/notes.txt", "x")
	touch(t, root, "a/clip.mp4", "x")
	touch(t, root, "top.gif", "x")
	touch(t, root, "noext", "x")

	files, err := Discover(root, NormalizeExtensions(DefaultExtensions), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/UPPER.JPG", "a/scan.Png", "b/IMG_2.jpg", "top.gif"}, rel(t, root, files))
}

func TestDiscover_KeepsHiddenSkipsSystemFolders(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "keep/a.jpg", "x")
	touch(t, root, "keep/.hidden.jpg", "x")
	touch(t, root, ".album/b.jpg", "x")
	touch(t, root, "@eaDir/c.jpg", "x")
	touch(t, root, "$RECYCLE.BIN/d.jpg", "x")
	touch(t, root, "System Volume Information/e.jpg", "x")
	touch(t, root, "keep/.stfolder/f.jpg", "x")

	files, err := Discover(root, NormalizeExtensions([]string{"jpg"}), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".album/b.jpg", "keep/.hidden.jpg", "keep/a.jpg"}, rel(t, root, files))
}

func TestDiscover_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := touch(t, root, "real.jpg", "x")
	if err := os.Symlink(target, filepath.Join(root, "link.jpg")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := Discover(root, NormalizeExtensions([]string{"jpg"}), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.jpg"}, rel(t, root, files))
}

func TestDiscover_EntryErrorsAreReported(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.jpg", "x")
	bad := filepath.Join(root, "locked")

	walk := func(r string, fn fs.WalkDirFunc) error {
		if err := filepath.WalkDir(r, fn); err != nil {
			return err
		}
		return fn(bad, nil, errors.New("permission denied"))
	}

	var reported []string
	files, err := Discover(root, NormalizeExtensions([]string{"jpg"}), walk, func(path string, err error) {
		reported = append(reported, path)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, rel(t, root, files))
	assert.Equal(t, []string{bad}, reported)
}

func TestDiscover_RootErrorIsReturned(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), NormalizeExtensions([]string{"jpg"}), nil, nil)
	assert.Error(t, err)
}
