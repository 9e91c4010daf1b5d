//go:build darwin

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries clonefile first (CoW whole-file clones on APFS), then
// falls back to read/write on macOS.
func CopyFile(srcPath string, dst *os.File, size int64) (Result, error) {
	err := unix.Clonefile(srcPath, dst.Name(), 0)
	if err == nil {
		return Result{BytesWritten: size, Method: Clonefile}, nil
	}
	if !isFallbackCloneErr(err) {
		return Result{}, err
	}

	return copyReadWrite(srcPath, dst, size)
}

func isFallbackCloneErr(err error) bool {
	switch err {
	case unix.ENOTSUP, unix.EXDEV, unix.EEXIST:
		return true
	}
	return false
}
