package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jadrian/tmcp/internal/archive"
	"github.com/jadrian/tmcp/internal/event"
	"github.com/jadrian/tmcp/internal/platform"
	"github.com/jadrian/tmcp/internal/stats"
)

// copier holds the state threaded through one depth-first traversal.
type copier struct {
	cfg      Config
	resolver archive.Resolver
	stats    *stats.Collector

	firstErr error
	errCount int
}

// copyOne copies a single source entry into dstParent. rel is the
// source's path relative to the top-level source argument, used for
// filter matching; it is empty for the top-level source itself, which
// the user named explicitly and which is therefore never filtered. The
// only error it returns is context cancellation; everything else
// becomes a diagnostic and is recorded on the copier.
func (c *copier) copyOne(ctx context.Context, src, dstParent, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	real, err := c.resolver.ResolveOriginal(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.emit(event.Event{Type: event.FileMissing, Path: src})
			c.stats.AddFilesMissing(1)
			return nil
		}
		c.fail(src, err)
		return nil
	}

	info, err := os.Lstat(real)
	if err != nil {
		c.emit(event.Event{Type: event.FileMissing, Path: src})
		c.stats.AddFilesMissing(1)
		return nil
	}

	if rel != "" && c.cfg.Filter != nil && !c.cfg.Filter.Match(rel, info.IsDir()) {
		c.emit(event.Event{Type: event.Excluded, Path: src})
		c.stats.AddFilesSkipped(1)
		return nil
	}

	target := filepath.Join(dstParent, filepath.Base(src))

	switch {
	case info.Mode().IsRegular():
		c.copyFile(src, real, target, info)
		return nil
	case info.IsDir():
		return c.copyDir(ctx, src, real, target, rel, info)
	default:
		// Sockets, device nodes, dangling symlinks: treated as
		// non-existent per the merge contract.
		c.emit(event.Event{Type: event.EntrySkipped, Path: src})
		c.stats.AddFilesSkipped(1)
		return nil
	}
}

// copyFile copies one regular file to target unless target already
// exists. Bytes go to a uuid-suffixed temp file in the target directory;
// metadata is applied to the open fd, then the temp file is renamed into
// place so an interrupted run never leaves a half-written target.
func (c *copier) copyFile(src, real, target string, info os.FileInfo) {
	if _, err := os.Lstat(target); err == nil {
		c.emit(event.Event{Type: event.FileSkipped, Path: src})
		c.stats.AddFilesSkipped(1)
		return
	}

	if c.cfg.DryRun {
		c.emit(event.Event{Type: event.FileCopied, Path: src, Size: info.Size()})
		c.stats.AddFilesCopied(1)
		return
	}

	dir := filepath.Dir(target)
	base := filepath.Base(target)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmcp-tmp", base, uuid.New().String()[:8]))

	RegisterTmp(tmpPath)
	defer func() {
		DeregisterTmp(tmpPath)
		_ = os.Remove(tmpPath) // no-op once the rename has happened
	}()

	fd, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		c.fail(src, fmt.Errorf("create tmp %s: %w", tmpPath, err))
		return
	}

	result, err := platform.CopyFile(real, fd, info.Size())
	if err != nil {
		fd.Close()
		c.fail(src, fmt.Errorf("copy data %s: %w", real, err))
		return
	}

	if err := setFileMetadata(fd, real, info); err != nil {
		fd.Close()
		c.fail(src, fmt.Errorf("set metadata %s: %w", target, err))
		return
	}

	if err := fd.Close(); err != nil {
		c.fail(src, fmt.Errorf("close tmp %s: %w", tmpPath, err))
		return
	}

	if err := os.Rename(tmpPath, target); err != nil {
		c.fail(src, fmt.Errorf("rename %s -> %s: %w", tmpPath, target, err))
		return
	}

	c.emit(event.Event{Type: event.FileCopied, Path: src, Size: result.BytesWritten})
	c.stats.AddFilesCopied(1)
	c.stats.AddBytesCopied(result.BytesWritten)
}

// copyDir replicates a directory under target with merge semantics: an
// existing destination directory is descended into but never touched,
// a fresh one gets the source's metadata applied only after all children
// are in place (creating children updates the parent mtime).
func (c *copier) copyDir(ctx context.Context, src, real, target, rel string, info os.FileInfo) error {
	created := false

	dstInfo, err := os.Lstat(target)
	switch {
	case err == nil && dstInfo.IsDir():
		c.emit(event.Event{Type: event.DirMerged, Path: src})
		c.stats.AddDirsMerged(1)
	case err == nil:
		// Type conflict: a non-directory already occupies the target.
		c.emit(event.Event{Type: event.FileSkipped, Path: src})
		c.stats.AddFilesSkipped(1)
		return nil
	default:
		if !c.cfg.DryRun {
			if mkErr := os.Mkdir(target, info.Mode().Perm()); mkErr != nil {
				c.fail(src, fmt.Errorf("mkdir %s: %w", target, mkErr))
				return nil
			}
		}
		created = true
		c.emit(event.Event{Type: event.DirCreated, Path: src})
		c.stats.AddDirsCreated(1)
	}

	entries, err := os.ReadDir(real) // sorted by name: deterministic order
	if err != nil {
		c.fail(src, fmt.Errorf("readdir %s: %w", real, err))
		return nil
	}

	for _, entry := range entries {
		child := filepath.Join(real, entry.Name())
		childRel := entry.Name()
		if rel != "" {
			childRel = rel + "/" + entry.Name()
		}
		if err := c.copyOne(ctx, child, target, childRel); err != nil {
			return err
		}
	}

	if created && !c.cfg.DryRun {
		if err := setDirMetadata(target, info); err != nil {
			c.fail(src, fmt.Errorf("set metadata %s: %w", target, err))
		}
	}

	return nil
}

func (c *copier) emit(ev event.Event) {
	if c.cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	c.cfg.Events <- ev
}

// fail reports a fatal-for-this-invocation failure without stopping the
// traversal. Unlike skips, these surface in Result.Err.
func (c *copier) fail(path string, err error) {
	c.emit(event.Event{Type: event.CopyFailed, Path: path, Error: err})
	c.record(err)
}

func (c *copier) record(err error) {
	c.stats.AddErrors(1)
	c.errCount++
	if c.firstErr == nil {
		c.firstErr = err
	}
}
