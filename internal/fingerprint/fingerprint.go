// Package fingerprint computes content digests used to tell whether two
// files hold the same bytes.
package fingerprint

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Sum is a BLAKE3-256 digest of a file's full content.
type Sum [Size]byte

// String returns the digest as lowercase hex.
func (s Sum) String() string {
	return hex.EncodeToString(s[:])
}

// IsZero reports whether s is the zero value (never computed).
func (s Sum) IsZero() bool {
	return s == Sum{}
}

// Reader streams r to EOF and returns its digest.
func Reader(r io.Reader) (Sum, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Sum{}, eris.Wrap(err, "fingerprint: read")
	}
	var s Sum
	copy(s[:], h.Sum(nil))
	return s, nil
}

// File returns the digest of the file at path.
func File(path string) (Sum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sum{}, eris.Wrapf(err, "fingerprint: open %s", path)
	}
	defer f.Close()

	s, err := Reader(f)
	if err != nil {
		return Sum{}, eris.Wrapf(err, "fingerprint: %s", path)
	}
	return s, nil
}
