// Package media describes the files a backup run reads.
package media

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"photo-backup/internal/fingerprint"
)

// SourceFile is one file discovered under the source root. Size and
// fingerprint are read lazily and cached, so each is computed at most once.
// A SourceFile is owned by the worker processing it and is not safe for
// concurrent use.
type SourceFile struct {
	Path string

	size    int64
	sized   bool
	sum     fingerprint.Sum
	summed  bool
	hashing func(string) (fingerprint.Sum, error)
}

// NewSourceFile wraps path. The path is used as given; callers pass the
// absolute paths produced by the traversal.
func NewSourceFile(path string) *SourceFile {
	return &SourceFile{Path: path, hashing: fingerprint.File}
}

// Name returns the file's base name.
func (f *SourceFile) Name() string {
	return filepath.Base(f.Path)
}

// ParentName returns the name of the directory holding the file.
func (f *SourceFile) ParentName() string {
	return filepath.Base(filepath.Dir(f.Path))
}

// Size returns the file length in bytes, statting the file on first use.
func (f *SourceFile) Size() (int64, error) {
	if f.sized {
		return f.size, nil
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, eris.Wrapf(err, "media: stat %s", f.Path)
	}
	f.size, f.sized = info.Size(), true
	return f.size, nil
}

// Fingerprint returns the content digest, hashing the file on first use.
func (f *SourceFile) Fingerprint() (fingerprint.Sum, error) {
	if f.summed {
		return f.sum, nil
	}
	hash := f.hashing
	if hash == nil {
		hash = fingerprint.File
	}
	s, err := hash(f.Path)
	if err != nil {
		return fingerprint.Sum{}, err
	}
	f.sum, f.summed = s, true
	return s, nil
}

// Fingerprinted reports whether the digest has already been computed.
func (f *SourceFile) Fingerprinted() bool {
	return f.summed
}
