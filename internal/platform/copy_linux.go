//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries the most efficient whole-file copy method available on
// Linux, falling through on unsupported/cross-device errors.
func CopyFile(srcPath string, dst *os.File, size int64) (Result, error) {
	preallocate(dst, size)

	result, err := copyFileRange(srcPath, dst, size)
	if err == nil {
		return result, nil
	}
	if !isFallbackErr(err) {
		return result, err
	}

	result, err = copySendfile(srcPath, dst, size)
	if err == nil {
		return result, nil
	}
	if !isFallbackErr(err) {
		return result, err
	}

	return copyReadWrite(srcPath, dst, size)
}

func copyFileRange(srcPath string, dst *os.File, size int64) (Result, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	var roff, woff, total int64
	remaining := size
	for remaining > 0 {
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			return Result{BytesWritten: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}

	return Result{BytesWritten: total, Method: CopyFileRange}, nil
}

func copySendfile(srcPath string, dst *os.File, size int64) (Result, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	var offset, total int64
	remaining := size
	for remaining > 0 {
		n, err := unix.Sendfile(int(dst.Fd()), int(src.Fd()), &offset, int(remaining))
		if err != nil {
			return Result{BytesWritten: total, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}

	return Result{BytesWritten: total, Method: Sendfile}, nil
}
