package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-backup/internal/fingerprint"
)

func TestSourceFile_Names(t *testing.T) {
	f := NewSourceFile(filepath.Join("photos", "2014-11-22", "IMG_4749.JPG"))
	assert.Equal(t, "IMG_4749.JPG", f.Name())
	assert.Equal(t, "2014-11-22", f.ParentName())
}

func TestSourceFile_SizeIsCached(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(p, []byte("12345"), 0o644))

	f := NewSourceFile(p)
	n, err := f.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	require.NoError(t, os.Remove(p))
	n, err = f.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestSourceFile_SizeMissing(t *testing.T) {
	_, err := NewSourceFile(filepath.Join(t.TempDir(), "gone.jpg")).Size()
	assert.Error(t, err)
}

func TestSourceFile_FingerprintComputedOnce(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(p, []byte("pixels"), 0o644))

	calls := 0
	f := NewSourceFile(p)
	f.hashing = func(path string) (fingerprint.Sum, error) {
		calls++
		return fingerprint.File(path)
	}

	assert.False(t, f.Fingerprinted())
	first, err := f.Fingerprint()
	require.NoError(t, err)
	second, err := f.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, f.Fingerprinted())
}
