package backup

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
)

var reportHeaders = []string{
	"source",       // Path under the source root
	"destination",  // Path written (or already holding identical bytes)
	"outcome",      // copied | skipped-identical | copied-renamed | failed
	"capture_date", // Resolved YYYY-MM-DD
	"date_source",  // metadata | filename | parent-directory | default
	"size_bytes",   // Source size
	"reason",       // Failure cause
}

// WriteCSV writes one row per processed file, in source order.
func (s *Summary) WriteCSV(w io.Writer) error {
	s.mu.Lock()
	entries := append([]Entry(nil), s.Entries...)
	s.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeaders); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, e := range entries {
		date, dateSource := "", ""
		if e.Date.Year != 0 {
			date, dateSource = e.Date.String(), e.Date.Source.String()
		}
		row := []string{
			e.Source,
			e.Outcome.Path,
			e.Outcome.Kind.String(),
			date,
			dateSource,
			strconv.FormatInt(e.Size, 10),
			e.Outcome.Reason,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "report: write row for %s", e.Source)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush")
}

// WriteCSVFile writes the report to path, creating parent directories.
func (s *Summary) WriteCSVFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	if err := s.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "report: close %s", path)
}
