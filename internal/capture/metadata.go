package capture

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"
)

// DateTimeOriginalTag is the EXIF field holding the capture timestamp.
const DateTimeOriginalTag = string(exif.DateTimeOriginal)

// exifDateShape matches "YYYY:MM:DD" optionally followed by " HH:MM:SS".
var exifDateShape = regexp.MustCompile(`^(\d{4}):(\d{2}):(\d{2})(?: \d{2}:\d{2}:\d{2})?$`)

// TagReader opens an image container and returns its embedded tags by name.
type TagReader interface {
	ReadTags(path string) (map[string]string, error)
}

// ExifTagReader reads EXIF tags with goexif. It handles JPEG (APP1) and
// TIFF-structured files; anything else returns an error.
type ExifTagReader struct{}

// ReadTags decodes the EXIF block in path and returns every field it could
// read. ASCII fields are returned as plain strings, everything else in
// goexif's String form. A decoder panic on malformed input is returned as
// an error.
func (ExifTagReader) ReadTags(path string) (tags map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "capture: open %s", path)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, eris.Errorf("capture: decode exif %s: panic: %v", path, r)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, eris.Wrapf(err, "capture: decode exif %s", path)
	}

	c := tagCollector{}
	if err := x.Walk(c); err != nil {
		return nil, eris.Wrapf(err, "capture: walk exif %s", path)
	}
	return c, nil
}

type tagCollector map[string]string

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, err := tag.StringVal(); err == nil {
		c[string(name)] = v
		return nil
	}
	c[string(name)] = tag.String()
	return nil
}

// MetadataDate asks r for the DateTimeOriginal tag of path and returns it as
// a SourceMetadata date. Unreadable files, missing tags and malformed
// values all mean "no metadata" and return false; they are logged at debug
// level and never surfaced as errors.
func MetadataDate(r TagReader, path string, now time.Time) (CandidateDate, bool) {
	if r == nil {
		return CandidateDate{}, false
	}
	log := zap.L().With(zap.String("path", path))

	tags, err := r.ReadTags(path)
	if err != nil {
		log.Debug("no readable metadata", zap.Error(err))
		return CandidateDate{}, false
	}
	raw, ok := tags[DateTimeOriginalTag]
	if !ok {
		log.Debug("metadata has no capture date")
		return CandidateDate{}, false
	}

	value := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	m := exifDateShape.FindStringSubmatch(value)
	if m == nil {
		log.Debug("malformed capture date", zap.String("value", value))
		return CandidateDate{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	d, ok := NewCandidateDate(year, time.Month(month), day, SourceMetadata, now)
	if !ok {
		log.Debug("capture date out of range", zap.String("value", value))
	}
	return d, ok
}
