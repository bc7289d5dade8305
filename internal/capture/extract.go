package capture

import (
	"regexp"
	"strconv"
	"time"
)

// datePatterns lists the date shapes recognized inside file and directory
// names. Patterns are tried in order; within a pattern only the leftmost
// match is considered. The regexes constrain digit ranges only, calendar
// validity is checked by NewCandidateDate.
var datePatterns = []struct {
	regex *regexp.Regexp
	desc  string
}{
	// Compact date: IMG_20230715_1200.jpg
	{regexp.MustCompile(`(20\d{2})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])`), "YYYYMMDD"},

	// ISO date: 2022-01-31-vacation.png
	{regexp.MustCompile(`(20\d{2})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])`), "YYYY-MM-DD"},
}

// ExtractDate looks for a date embedded in s (typically a filename) and
// returns it tagged as SourceFilename. Finding no date is not an error;
// the second return value is false.
func ExtractDate(s string, now time.Time) (CandidateDate, bool) {
	return ExtractDateFrom(s, SourceFilename, now)
}

// ExtractDateFrom is ExtractDate with an explicit provenance tag, used when
// s is something other than a filename (a parent directory name).
//
// If the leftmost match of a pattern is not a real calendar date the next
// pattern is tried; there is no scan for later matches of the same pattern.
func ExtractDateFrom(s string, src Source, now time.Time) (CandidateDate, bool) {
	for _, p := range datePatterns {
		m := p.regex.FindStringSubmatch(s)
		if len(m) != 4 {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := NewCandidateDate(year, time.Month(month), day, src, now); ok {
			return d, true
		}
	}
	return CandidateDate{}, false
}
