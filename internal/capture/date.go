// Package capture determines the calendar date a photo was taken.
//
// Dates come from three untrusted places, tried in a fixed order: the
// EXIF DateTimeOriginal tag, a date embedded in the filename, and a date
// embedded in the name of the directory holding the file. When all three
// fail the file is assigned [Default] so it is still backed up.
package capture

import (
	"fmt"
	"time"
)

// Source records where a CandidateDate came from.
type Source int

const (
	SourceMetadata        Source = iota // EXIF DateTimeOriginal
	SourceFilename                      // date pattern in the file's own name
	SourceParentDirectory               // date pattern in the parent directory name
	SourceDefault                       // nothing matched
)

func (s Source) String() string {
	switch s {
	case SourceMetadata:
		return "metadata"
	case SourceFilename:
		return "filename"
	case SourceParentDirectory:
		return "parent-directory"
	case SourceDefault:
		return "default"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// minYear is the earliest capture year accepted from any source. Earlier
// values are almost always camera clocks that were never set.
const minYear = 2000

// CandidateDate is a calendar date tagged with its provenance.
// Values are only produced by NewCandidateDate (or Default) and are
// immutable once created.
type CandidateDate struct {
	Year   int
	Month  time.Month
	Day    int
	Source Source
}

// Default is the date assigned to files nothing else could date.
var Default = CandidateDate{Year: 2000, Month: time.January, Day: 1, Source: SourceDefault}

// NewCandidateDate validates a year/month/day triple and returns it as a
// CandidateDate. The year must fall within [2000, now.Year()+1] and the
// day must exist in that month (Feb 29 only in leap years).
// Returns false when any check fails.
func NewCandidateDate(year int, month time.Month, day int, src Source, now time.Time) (CandidateDate, bool) {
	if year < minYear || year > now.Year()+1 {
		return CandidateDate{}, false
	}
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return CandidateDate{}, false
	}
	// time.Date normalizes overflow (Feb 30 -> Mar 2); a round trip that
	// changes the fields means the day does not exist.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CandidateDate{}, false
	}
	return CandidateDate{Year: year, Month: month, Day: day, Source: src}, true
}

// Time returns the date as midnight UTC.
func (d CandidateDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d CandidateDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
