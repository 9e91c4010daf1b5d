// Package engine implements the recursive copy out of a Time Machine
// archive: depth-first, single-threaded, create-never-overwrite.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jadrian/tmcp/internal/archive"
	"github.com/jadrian/tmcp/internal/event"
	"github.com/jadrian/tmcp/internal/filter"
	"github.com/jadrian/tmcp/internal/stats"
)

// ErrDestConflict is returned when the destination path exists and is
// not a directory.
var ErrDestConflict = errors.New("destination exists and is not a directory")

// ErrBackupRoot is returned when a source is a backup volume or archive
// root and --force was not given. Copying a whole backup root duplicates
// every snapshot without the placeholder space savings.
var ErrBackupRoot = errors.New("refusing to copy a backup root (use --force)")

// Config describes a copy run.
type Config struct {
	Sources []string
	Dst     string

	// Archive is an explicitly supplied archive root. Empty means
	// auto-detect from the sources' ancestry.
	Archive string

	// Resolver overrides the placeholder resolution strategy. Nil means
	// the default for the resolved archive root (passthrough, bounds
	// checked when an archive root is known).
	Resolver archive.Resolver

	Filter *filter.Chain
	Events chan<- event.Event
	Stats  *stats.Collector
	DryRun bool
	Force  bool
}

// Result is the outcome of a copy run.
type Result struct {
	Archive archive.Root
	Stats   stats.Snapshot
	Err     error
}

// Run executes a copy run, blocking until complete. Skip conditions are
// reported as events and never contribute to Result.Err; I/O failures
// are aggregated (first error wins) without stopping sibling copies.
func Run(ctx context.Context, cfg Config) Result {
	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}

	sources := make([]string, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		norm, err := normalizePath(src)
		if err != nil {
			return Result{Stats: collector.Snapshot(), Err: fmt.Errorf("source %s: %w", src, err)}
		}
		sources = append(sources, norm)
	}

	dst, err := normalizePath(cfg.Dst)
	if err != nil {
		return Result{Stats: collector.Snapshot(), Err: fmt.Errorf("destination %s: %w", cfg.Dst, err)}
	}

	// Resolve the archive context once; it is threaded read-only through
	// the whole recursion.
	var root archive.Root
	if cfg.Archive != "" {
		root, err = archive.Validate(cfg.Archive)
		if err != nil {
			return Result{Stats: collector.Snapshot(), Err: err}
		}
	} else {
		root, _ = archive.Find(sources)
	}

	if !cfg.Force {
		for _, src := range sources {
			if archive.IsBackupVolume(src) || archive.IsArchiveDir(src) {
				return Result{
					Archive: root,
					Stats:   collector.Snapshot(),
					Err:     fmt.Errorf("%s: %w", src, ErrBackupRoot),
				}
			}
		}
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = archive.NewResolver(root)
	}

	// Ensure the destination exists as a directory before any copy.
	if info, statErr := os.Lstat(dst); statErr == nil && !info.IsDir() {
		return Result{Archive: root, Stats: collector.Snapshot(), Err: fmt.Errorf("%s: %w", dst, ErrDestConflict)}
	} else if statErr != nil && !cfg.DryRun {
		if err := os.MkdirAll(dst, 0755); err != nil {
			return Result{Archive: root, Stats: collector.Snapshot(), Err: fmt.Errorf("create destination: %w", err)}
		}
	}

	c := &copier{cfg: cfg, resolver: resolver, stats: collector}
	defer CleanupTmpFiles()

	for _, src := range sources {
		if err := c.copyOne(ctx, src, dst, ""); err != nil {
			// Only context cancellation propagates out of copyOne.
			c.record(err)
			break
		}
	}

	copyErr := c.firstErr
	if c.errCount > 1 {
		copyErr = fmt.Errorf("%w (and %d more errors)", copyErr, c.errCount-1)
	}

	return Result{Archive: root, Stats: collector.Snapshot(), Err: copyErr}
}

// normalizePath returns path in absolute, symlink-resolved, trailing
// slash stripped form. Realpath resolution happens exactly once, here;
// the recursion below never follows source symlinks again. A path that
// does not exist yet is returned in plain absolute form so it can
// surface later as a skip diagnostic (or be created, for destinations).
func normalizePath(path string) (string, error) {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		trimmed = "/"
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}
