package placer

import (
	"fmt"
	"path/filepath"
	"strings"

	"photo-backup/internal/capture"
)

// Slot is where a file lands for a given date:
// <root>/<YYYY>/<MM>/<YYYY-MM-DD>/<name>.
type Slot struct {
	Dir  string
	Path string
}

// SlotFor computes the destination slot for a file named name captured on d.
func SlotFor(root string, d capture.CandidateDate, name string) Slot {
	dir := filepath.Join(root,
		fmt.Sprintf("%04d", d.Year),
		fmt.Sprintf("%02d", int(d.Month)),
		d.String(),
	)
	return Slot{Dir: dir, Path: filepath.Join(dir, name)}
}

// Disambiguate inserts "(n)" before the extension of name:
// "IMG_1.jpg" -> "IMG_1(2).jpg", "README" -> "README(2)".
func Disambiguate(name string, n int) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// Dot-files such as ".jpg" have no stem; keep the whole name.
		stem, ext = name, ""
	}
	return fmt.Sprintf("%s(%d)%s", stem, n, ext)
}
