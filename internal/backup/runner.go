// Package backup walks a source tree and places every image it finds into
// the date-partitioned destination tree, one independent unit of work per
// file.
package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"photo-backup/internal/capture"
	"photo-backup/internal/media"
	"photo-backup/internal/placer"
)

var (
	// ErrInvalidRoot is returned when a root does not exist or is not a directory.
	ErrInvalidRoot = eris.New("not an existing directory")
	// ErrDestInsideSource is returned when the destination is the source or lies within it.
	ErrDestInsideSource = eris.New("destination must not be inside source")
)

// Options configures one run.
type Options struct {
	Source     string
	Dest       string
	Extensions []string // nil means DefaultExtensions
	Workers    int      // <= 1 processes files one at a time
	DryRun     bool

	Tags capture.TagReader // nil means capture.ExifTagReader
	Walk WalkFunc          // nil means filepath.WalkDir
	Now  func() time.Time  // nil means time.Now
}

// Run backs up every eligible file under opts.Source into opts.Dest.
//
// Both roots are checked before anything is walked; a bad root is the only
// way Run fails without a summary. After that, problems with individual
// files are recorded as Failed entries and the run continues. Cancelling
// ctx stops new files from starting; files already being copied finish.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	src, dst, err := ValidateRoots(opts.Source, opts.Dest)
	if err != nil {
		return nil, err
	}

	exts := NormalizeExtensions(opts.Extensions)
	if len(exts) == 0 {
		exts = NormalizeExtensions(DefaultExtensions)
	}

	summary := &Summary{}
	files, err := Discover(src, exts, opts.Walk, func(path string, err error) {
		zap.L().Warn("cannot read entry", zap.String("path", path), zap.Error(err))
		summary.record(Entry{Source: path, Outcome: placer.FailedOutcome(err)})
	})
	if err != nil {
		return nil, eris.Wrapf(err, "backup: walk %s", src)
	}

	tags := opts.Tags
	if tags == nil {
		tags = capture.ExifTagReader{}
	}
	resolver := &capture.Resolver{Tags: tags, Now: opts.Now}
	pl := placer.New(dst, opts.DryRun)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	zap.L().Info("starting backup",
		zap.String("source", src),
		zap.String("dest", dst),
		zap.Int("files", len(files)),
		zap.Int("workers", workers),
		zap.Bool("dry_run", opts.DryRun),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			summary.record(processFile(path, resolver, pl))
			return nil // one file never aborts the run
		})
	}
	_ = g.Wait()
	summary.sortEntries()

	zap.L().Info("backup complete",
		zap.Int("processed", summary.Processed),
		zap.Int("copied", summary.Copied),
		zap.Int("skipped_identical", summary.SkippedIdentical),
		zap.Int("copied_renamed", summary.CopiedRenamed),
		zap.Int("failed", summary.Failed),
	)

	if err := ctx.Err(); err != nil {
		return summary, eris.Wrap(err, "backup: interrupted")
	}
	return summary, nil
}

// processFile resolves and places one file. Every error, and any panic from
// a collaborator, becomes a Failed entry.
func processFile(path string, resolver *capture.Resolver, pl *placer.Placer) (e Entry) {
	e.Source = path
	log := zap.L().With(zap.String("path", path))

	defer func() {
		if r := recover(); r != nil {
			e.Outcome = placer.FailedOutcome(eris.Errorf("panic: %v", r))
		}
		if e.Outcome.Kind == placer.Failed {
			log.Error("backup failed", zap.String("reason", e.Outcome.Reason))
			return
		}
		log.Info("placed",
			zap.String("dest", e.Outcome.Path),
			zap.Stringer("outcome", e.Outcome.Kind),
			zap.String("date", e.Date.String()),
			zap.Stringer("date_source", e.Date.Source),
		)
	}()

	src := media.NewSourceFile(path)
	size, err := src.Size()
	if err != nil {
		e.Outcome = placer.FailedOutcome(err)
		return e
	}
	e.Size = size

	e.Date = resolver.ResolveFile(src)

	out, err := pl.Place(src, e.Date)
	if err != nil {
		e.Outcome = placer.FailedOutcome(err)
		return e
	}
	e.Outcome = out
	return e
}

// ValidateRoots checks that source and dest are existing directories and
// that dest is not inside source. It returns both as absolute,
// symlink-resolved paths.
func ValidateRoots(source, dest string) (string, string, error) {
	src, err := resolveDir(source)
	if err != nil {
		return "", "", eris.Wrapf(err, "source %q", source)
	}
	dst, err := resolveDir(dest)
	if err != nil {
		return "", "", eris.Wrapf(err, "destination %q", dest)
	}

	sep := string(filepath.Separator)
	if dst == src || strings.HasPrefix(dst+sep, src+sep) {
		return "", "", eris.Wrapf(ErrDestInsideSource, "%s is inside %s", dst, src)
	}
	return src, dst, nil
}

func resolveDir(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidRoot
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", eris.Wrap(ErrInvalidRoot, err.Error())
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", eris.Wrap(ErrInvalidRoot, err.Error())
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", eris.Wrap(ErrInvalidRoot, err.Error())
	}
	if !info.IsDir() {
		return "", eris.Wrapf(ErrInvalidRoot, "%s is a file", abs)
	}
	return abs, nil
}
