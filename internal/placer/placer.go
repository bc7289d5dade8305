// Package placer copies source files into the date-partitioned destination
// tree without overwriting different content and without storing the same
// content twice.
package placer

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"photo-backup/internal/capture"
	"photo-backup/internal/fingerprint"
	"photo-backup/internal/media"
)

// Placer decides, per source file, between copy, skip and copy-with-suffix,
// and carries it out. All methods are goroutine-safe: decisions for one
// destination directory are serialized so two workers never claim the same
// "(n)" name.
type Placer struct {
	Root   string
	DryRun bool // decide only; never create directories or write files

	mu      sync.Mutex
	locks   map[string]*sync.Mutex       // destination dir → lock
	planned map[string]*media.SourceFile // dry run: destination path → source that would be copied there
}

// New returns a Placer writing under root.
func New(root string, dryRun bool) *Placer {
	return &Placer{
		Root:    root,
		DryRun:  dryRun,
		locks:   make(map[string]*sync.Mutex),
		planned: make(map[string]*media.SourceFile),
	}
}

// Place stores src in the slot for date d.
//
// The original name is tried first, then name(1), name(2), ... in order.
// The first free name receives a copy. A taken name whose content equals
// src ends the search with SkippedIdentical, so re-running over a partly
// populated destination never duplicates content.
//
// In dry-run mode names the run would already have written count as taken,
// so outcomes match what a real run would report.
func (p *Placer) Place(src *media.SourceFile, d capture.CandidateDate) (Outcome, error) {
	slot := SlotFor(p.Root, d, src.Name())

	unlock := p.lockDir(slot.Dir)
	defer unlock()

	if !p.DryRun {
		if err := os.MkdirAll(slot.Dir, 0o755); err != nil {
			return Outcome{}, eris.Wrapf(err, "placer: create %s", slot.Dir)
		}
	}

	for n := 0; ; n++ {
		candidate := slot.Path
		kind := Copied
		if n > 0 {
			candidate = filepath.Join(slot.Dir, Disambiguate(src.Name(), n))
			kind = CopiedRenamed
		}

		taken, same, err := p.check(src, candidate)
		if err != nil {
			return Outcome{}, err
		}
		if !taken {
			if p.DryRun {
				p.plan(candidate, src)
			} else if err := copyFile(src.Path, candidate); err != nil {
				return Outcome{}, err
			}
			return Outcome{Kind: kind, Path: candidate}, nil
		}
		if same {
			return Outcome{Kind: SkippedIdentical, Path: candidate}, nil
		}
		zap.L().Debug("name taken by different content",
			zap.String("path", src.Path),
			zap.String("dest", candidate),
		)
	}
}

// check reports whether candidate is occupied and, if so, whether it holds
// the same content as src. Callers hold the lock for candidate's directory.
func (p *Placer) check(src *media.SourceFile, candidate string) (taken, same bool, err error) {
	info, err := os.Lstat(candidate)
	switch {
	case err == nil:
		same, err = sameContent(src, candidate, info)
		return true, same, err
	case !errors.Is(err, fs.ErrNotExist):
		return false, false, eris.Wrapf(err, "placer: stat %s", candidate)
	}

	if !p.DryRun {
		return false, false, nil
	}
	p.mu.Lock()
	other := p.planned[candidate]
	p.mu.Unlock()
	if other == nil {
		return false, false, nil
	}
	same, err = sameSource(src, other)
	return true, same, err
}

func (p *Placer) plan(candidate string, src *media.SourceFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.planned == nil {
		p.planned = make(map[string]*media.SourceFile)
	}
	p.planned[candidate] = src
}

func (p *Placer) lockDir(dir string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		p.locks[dir] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// sameContent compares src with the existing file at path. Sizes are
// compared first so fingerprints are only computed for plausible matches.
func sameContent(src *media.SourceFile, path string, info fs.FileInfo) (bool, error) {
	if !info.Mode().IsRegular() {
		return false, nil
	}
	size, err := src.Size()
	if err != nil {
		return false, err
	}
	if size != info.Size() {
		return false, nil
	}

	srcSum, err := src.Fingerprint()
	if err != nil {
		return false, err
	}
	dstSum, err := fingerprint.File(path)
	if err != nil {
		return false, err
	}
	return srcSum == dstSum, nil
}

// sameSource compares two source files the same way sameContent does.
func sameSource(a, b *media.SourceFile) (bool, error) {
	sa, err := a.Size()
	if err != nil {
		return false, err
	}
	sb, err := b.Size()
	if err != nil {
		return false, err
	}
	if sa != sb {
		return false, nil
	}

	fa, err := a.Fingerprint()
	if err != nil {
		return false, err
	}
	fb, err := b.Fingerprint()
	if err != nil {
		return false, err
	}
	return fa == fb, nil
}

// copyFile copies src to dst through a temporary file in dst's directory,
// so an interrupted copy never leaves a partial file under the final name.
// Permission bits and modification time are carried over.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "placer: open %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return eris.Wrapf(err, "placer: stat %s", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".photo-backup-*")
	if err != nil {
		return eris.Wrapf(err, "placer: create temp in %s", filepath.Dir(dst))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return eris.Wrapf(err, "placer: copy %s", src)
	}
	if err := tmp.Sync(); err != nil {
		return eris.Wrapf(err, "placer: sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "placer: close %s", tmpName)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return eris.Wrapf(err, "placer: chmod %s", tmpName)
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return eris.Wrapf(err, "placer: chtimes %s", tmpName)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return eris.Wrapf(err, "placer: rename to %s", dst)
	}
	committed = true
	return nil
}
