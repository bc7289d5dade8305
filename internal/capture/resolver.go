package capture

import (
	"time"

	"go.uber.org/zap"

	"photo-backup/internal/media"
)

// Resolver picks one capture date per file.
//
// Priority:
//  1. EXIF DateTimeOriginal (via Tags)
//  2. Date parsed from the filename
//  3. Date parsed from the parent directory name
//  4. Default (2000-01-01)
type Resolver struct {
	Tags TagReader        // nil skips the metadata step
	Now  func() time.Time // nil means time.Now
}

// NewResolver returns a Resolver reading EXIF with goexif.
func NewResolver() *Resolver {
	return &Resolver{Tags: ExifTagReader{}, Now: time.Now}
}

// Resolve returns the highest-priority date available for path. It never
// fails: an undatable file gets Default.
func (r *Resolver) Resolve(path string) CandidateDate {
	return r.ResolveFile(media.NewSourceFile(path))
}

// ResolveFile is Resolve for a file the caller already tracks.
func (r *Resolver) ResolveFile(src *media.SourceFile) CandidateDate {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	d := r.resolve(src, now)
	zap.L().Debug("resolved capture date",
		zap.String("path", src.Path),
		zap.String("date", d.String()),
		zap.Stringer("source", d.Source),
	)
	return d
}

func (r *Resolver) resolve(src *media.SourceFile, now time.Time) CandidateDate {
	if d, ok := MetadataDate(r.Tags, src.Path, now); ok {
		return d
	}
	if d, ok := ExtractDateFrom(src.Name(), SourceFilename, now); ok {
		return d
	}
	if d, ok := ExtractDateFrom(src.ParentName(), SourceParentDirectory, now); ok {
		return d
	}
	return Default
}
