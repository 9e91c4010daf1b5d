//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate attempts to pre-allocate disk space. Errors are ignored as
// fallocate is not supported on all filesystems.
func preallocate(fd *os.File, size int64) {
	if size > 0 {
		//nolint:errcheck // fallocate is advisory
		unix.Fallocate(int(fd.Fd()), 0, 0, size)
	}
}
