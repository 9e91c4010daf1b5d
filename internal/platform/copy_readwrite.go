package platform

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies data using pread/pwrite with a pooled buffer.
func copyReadWrite(srcPath string, dst *os.File, size int64) (Result, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	srcFd := int(src.Fd())
	dstFd := int(dst.Fd())

	var offset, total int64
	remaining := size
	for remaining > 0 {
		toRead := int(remaining)
		if toRead > bufferSize {
			toRead = bufferSize
		}

		n, err := unix.Pread(srcFd, buf[:toRead], offset)
		if err != nil {
			return Result{BytesWritten: total}, err
		}
		if n == 0 {
			break
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], offset+int64(written))
			if err != nil {
				return Result{BytesWritten: total + int64(written)}, err
			}
			written += w
		}

		offset += int64(n)
		remaining -= int64(n)
		total += int64(n)
	}

	return Result{BytesWritten: total}, nil
}

// isFallbackErr reports whether err should trigger the next copy strategy.
func isFallbackErr(err error) bool {
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	if e, ok := err.(*os.PathError); ok {
		return isFallbackErr(e.Err)
	}
	return false
}
