package backup

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"photo-backup/internal/capture"
	"photo-backup/internal/placer"
)

// Entry is the record of one processed source file.
type Entry struct {
	Source  string
	Date    capture.CandidateDate // zero when the file failed before dating
	Size    int64
	Outcome placer.Outcome
}

// Summary tallies a run. Counters only grow; it is safe for concurrent
// recording.
type Summary struct {
	Processed        int
	Copied           int
	SkippedIdentical int
	CopiedRenamed    int
	Failed           int
	Entries          []Entry

	mu sync.Mutex
}

func (s *Summary) record(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Processed++
	switch e.Outcome.Kind {
	case placer.Copied:
		s.Copied++
	case placer.SkippedIdentical:
		s.SkippedIdentical++
	case placer.CopiedRenamed:
		s.CopiedRenamed++
	case placer.Failed:
		s.Failed++
	}
	s.Entries = append(s.Entries, e)
}

func (s *Summary) sortEntries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.Entries, func(i, j int) bool {
		return s.Entries[i].Source < s.Entries[j].Source
	})
}

// Failures returns the failed entries in source order.
func (s *Summary) Failures() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.Entries {
		if e.Outcome.Kind == placer.Failed {
			out = append(out, e)
		}
	}
	return out
}

// WriteText renders the human-readable run summary.
func (s *Summary) WriteText(w io.Writer) error {
	failures := s.Failures()

	s.mu.Lock()
	lines := []string{
		fmt.Sprintf("Processed %d files", s.Processed),
		fmt.Sprintf("  copied:              %d", s.Copied),
		fmt.Sprintf("  skipped (identical): %d", s.SkippedIdentical),
		fmt.Sprintf("  copied (renamed):    %d", s.CopiedRenamed),
		fmt.Sprintf("  failed:              %d", s.Failed),
	}
	s.mu.Unlock()

	if len(failures) > 0 {
		lines = append(lines, "", "Failures:")
		for _, e := range failures {
			lines = append(lines, fmt.Sprintf("  %s: %s", e.Source, e.Outcome.Reason))
		}
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
