//go:build !linux && !darwin

package platform

import "os"

// CopyFile falls back to read/write on unsupported platforms.
func CopyFile(srcPath string, dst *os.File, size int64) (Result, error) {
	preallocate(dst, size)
	return copyReadWrite(srcPath, dst, size)
}
