package engine

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// setFileMetadata applies the source's permissions, timestamps and
// extended attributes to a freshly written file, via its open fd, before
// the rename into place.
func setFileMetadata(fd *os.File, srcPath string, info os.FileInfo) error {
	rawFd := int(fd.Fd())

	if err := unix.Fchmod(rawFd, uint32(info.Mode().Perm())); err != nil {
		return fmt.Errorf("fchmod: %w", err)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("unsupported stat type for %s", srcPath)
	}
	if err := setFileTimes(rawFd, fd.Name(), atimeFromStat(stat), info.ModTime()); err != nil {
		return err
	}

	// Best effort: xattrs are not supported on every filesystem.
	copyXattrs(srcPath, rawFd)
	return nil
}

// setDirMetadata applies the source directory's permissions and
// timestamps to path. Must run after the directory is fully populated,
// since creating children bumps the parent's mtime.
func setDirMetadata(path string, info os.FileInfo) error {
	if err := os.Chmod(path, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod dir %s: %w", path, err)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("unsupported stat type for %s", path)
	}
	times := []unix.Timespec{
		unix.NsecToTimespec(atimeFromStat(stat).UnixNano()),
		unix.NsecToTimespec(info.ModTime().UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, 0); err != nil {
		return fmt.Errorf("utimensat dir %s: %w", path, err)
	}
	return nil
}

// copyXattrs copies all extended attributes from srcPath onto the open
// destination fd. Failures are ignored: xattr support varies by
// filesystem and losing an xattr is preferable to failing the rescue.
func copyXattrs(srcPath string, dstRawFd int) {
	sz, err := unix.Listxattr(srcPath, nil)
	if err != nil || sz == 0 {
		return
	}

	buf := make([]byte, sz)
	sz, err = unix.Listxattr(srcPath, buf)
	if err != nil {
		return
	}

	for _, name := range parseXattrNames(buf[:sz]) {
		val, err := getXattr(srcPath, name)
		if err != nil {
			continue
		}
		_ = unix.Fsetxattr(dstRawFd, name, val, 0)
	}
}

func getXattr(path, name string) ([]byte, error) {
	sz, err := unix.Getxattr(path, name, nil)
	if err != nil || sz == 0 {
		return nil, err
	}
	buf := make([]byte, sz)
	_, err = unix.Getxattr(path, name, buf)
	return buf, err
}

// parseXattrNames splits a null-separated attribute name list.
func parseXattrNames(buf []byte) []string {
	var names []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			if i > start {
				names = append(names, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return names
}
