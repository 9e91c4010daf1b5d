// Package archive locates the Time Machine archive root that contains a
// set of source paths and resolves placeholder entries against it.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrivateDirName is the HFS+ private directory that holds the real
// backing data for placeholder entries. The trailing carriage return is
// part of the on-disk name.
const PrivateDirName = ".HFS+ Private Directory Data\r"

// BackupsDirName marks the top level of a whole backup volume.
const BackupsDirName = "Backups.backupdb"

// ErrInvalidArchive is returned when an explicitly supplied archive root
// does not look like a Time Machine archive.
var ErrInvalidArchive = errors.New("not a time machine archive")

// ErrOutsideArchive is returned when placeholder resolution yields a
// path that escapes the archive root.
var ErrOutsideArchive = errors.New("resolved path escapes archive root")

// Root is the absolute path of a backup volume's top-level directory.
// The zero value means "no archive context": every source is treated as
// already real.
type Root string

// IsArchiveDir reports whether path is a directory containing the HFS+
// private directory entry.
func IsArchiveDir(path string) bool {
	info, err := os.Stat(filepath.Join(path, PrivateDirName))
	return err == nil && info.IsDir()
}

// IsBackupVolume reports whether path is the top level of a whole backup
// volume (the thing tmcp refuses to copy without --force).
func IsBackupVolume(path string) bool {
	info, err := os.Stat(filepath.Join(path, BackupsDirName))
	return err == nil && info.IsDir()
}

// Validate checks an explicitly supplied archive root and returns it in
// absolute form.
func Validate(path string) (Root, error) {
	abs, err := filepath.Abs(strings.TrimRight(path, "/"))
	if err != nil {
		return "", fmt.Errorf("archive root %s: %w", path, err)
	}
	if !IsArchiveDir(abs) {
		return "", fmt.Errorf("%s: %w", abs, ErrInvalidArchive)
	}
	return Root(abs), nil
}

// Find walks upward from each source until a directory containing the
// archive marker is found. The second return is false when none of the
// sources sits inside an archive; the copy then proceeds with no
// placeholder resolution at all.
func Find(sources []string) (Root, bool) {
	for _, src := range sources {
		dir := src
		for {
			if IsArchiveDir(dir) {
				return Root(dir), true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", false
}

// Contains reports whether path lies within the archive root. A zero
// Root contains nothing.
func (r Root) Contains(path string) bool {
	if r == "" {
		return false
	}
	rel, err := filepath.Rel(string(r), path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, "../"))
}
