// Package capturetest builds tiny EXIF payloads for tests.
package capturetest

import (
	"bytes"
	"encoding/binary"
)

const (
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

// EXIFWithDateTimeOriginal returns a little-endian TIFF stream whose EXIF
// sub-IFD carries a single DateTimeOriginal field set to value. goexif
// decodes raw TIFF streams directly, so the bytes can be written to a file
// with any image extension.
func EXIFWithDateTimeOriginal(value string) []byte {
	str := append([]byte(value), 0)

	const (
		ifd0Off    = 8
		ifdLen     = 2 + 12 + 4
		exifIFDOff = ifd0Off + ifdLen
		strOff     = exifIFDOff + ifdLen
	)

	var b bytes.Buffer
	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(&b, le, v) }

	b.WriteString("II")
	w(uint16(42))
	w(uint32(ifd0Off))

	// IFD0: pointer to the EXIF sub-IFD.
	w(uint16(1))
	w(uint16(tagExifIFDPointer))
	w(uint16(typeLong))
	w(uint32(1))
	w(uint32(exifIFDOff))
	w(uint32(0))

	// EXIF IFD: DateTimeOriginal stored out of line.
	w(uint16(1))
	w(uint16(tagDateTimeOriginal))
	w(uint16(typeASCII))
	w(uint32(len(str)))
	w(uint32(strOff))
	w(uint32(0))

	b.Write(str)
	return b.Bytes()
}

// FakeTagReader serves canned tags keyed by file path.
type FakeTagReader struct {
	Tags  map[string]map[string]string
	Err   error
	Panic bool
}

// ReadTags returns the canned tags for path, or Err when set. A path with
// no entry returns an empty map.
func (f FakeTagReader) ReadTags(path string) (map[string]string, error) {
	if f.Panic {
		panic("fake tag reader: " + path)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if t, ok := f.Tags[path]; ok {
		return t, nil
	}
	return map[string]string{}, nil
}
